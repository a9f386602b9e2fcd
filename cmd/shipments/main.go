package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/leshuiju/shipment-entry/internal/common"
	"github.com/leshuiju/shipment-entry/internal/export"
	"github.com/leshuiju/shipment-entry/internal/extract"
	"github.com/leshuiju/shipment-entry/internal/llm/openai"
	"github.com/leshuiju/shipment-entry/internal/pipeline"
)

var (
	flagFallback bool
	flagTemplate string
	flagOutput   string
)

func main() {
	root := &cobra.Command{
		Use:   "shipments",
		Short: "Convert Chinese shipment descriptions into a declaration spreadsheet",
	}

	processCmd := &cobra.Command{
		Use:   "process [file]",
		Short: "Process shipment descriptions from a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runProcess,
	}
	processCmd.Flags().BoolVar(&flagFallback, "fallback", false, "skip the semantic backend and use pattern extraction only")
	processCmd.Flags().StringVar(&flagTemplate, "template", "", "declaration template path (overrides EXCEL_TEMPLATE)")
	processCmd.Flags().StringVar(&flagOutput, "output", "", "output directory (overrides OUTPUT_DIR)")
	root.AddCommand(processCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runProcess(cmd *cobra.Command, args []string) error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	cfg := common.LoadConfig()
	if flagTemplate != "" {
		cfg.Excel.TemplatePath = flagTemplate
	}
	if flagOutput != "" {
		cfg.Excel.OutputDir = flagOutput
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	text, err := readInput(args)
	if err != nil {
		return err
	}

	fallback := extract.NewFallbackExtractor(logger)
	mode := pipeline.ModeFallback
	var semantic extract.Extractor
	if !flagFallback && cfg.LLM.APIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		semantic = extract.NewSemanticExtractor(client, fallback, logger)
		mode = pipeline.ModeSemantic
	}

	sink := export.NewService(cfg.Excel, logger)
	processor := pipeline.NewProcessor(logger, fallback, semantic, sink, nil)

	result, err := processor.Process(cmd.Context(), text, mode)
	if result != nil {
		fmt.Print(result.Summary())
	}
	return err
}

func readInput(args []string) (string, error) {
	if len(args) == 1 {
		b, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("read input file: %w", err)
		}
		return string(b), nil
	}
	b, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(b), nil
}
