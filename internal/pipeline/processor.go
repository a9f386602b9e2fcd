package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/leshuiju/shipment-entry/internal/common"
	"github.com/leshuiju/shipment-entry/internal/entity"
	"github.com/leshuiju/shipment-entry/internal/extract"
	"github.com/leshuiju/shipment-entry/internal/repository"
)

// Mode selects the extraction tier for a run.
type Mode string

const (
	ModeSemantic Mode = "semantic"
	ModeFallback Mode = "fallback"
)

// Sink persists a validated batch and returns the output location.
type Sink interface {
	WriteBatch(ctx context.Context, records []entity.ShipmentRecord) (string, error)
}

// Stats summarizes one processing run.
type Stats struct {
	InputLength    int    `json:"total_input_length"`
	ParsedCount    int    `json:"shipments_parsed"`
	ProcessedCount int    `json:"shipments_processed"`
	Mode           string `json:"processing_mode"`
}

// Result is the full outcome of one batch: validated records, the repair log,
// per-record validation errors, and the sink location. Repairs are
// informational and deliberately kept apart from validation errors.
type Result struct {
	Success          bool                    `json:"success"`
	Records          []entity.ShipmentRecord `json:"records"`
	Repairs          []entity.RepairEntry    `json:"repairs"`
	ValidationErrors []string                `json:"validation_errors"`
	Warnings         []string                `json:"warnings"`
	OutputFile       string                  `json:"output_file,omitempty"`
	Stats            Stats                   `json:"statistics"`
}

// Processor is the single call surface for the UI/CLI/service layer. It
// chains extraction, completion, validation, and the output sink.
type Processor struct {
	logger     *slog.Logger
	fallback   extract.Extractor
	semantic   extract.Extractor
	completion *Completion
	sink       Sink
	history    *repository.RunStore // optional
}

func NewProcessor(logger *slog.Logger, fallback, semantic extract.Extractor, sink Sink, history *repository.RunStore) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		logger:     logger,
		fallback:   fallback,
		semantic:   semantic,
		completion: NewCompletion(),
		sink:       sink,
		history:    history,
	}
}

// Process runs the complete workflow on raw pasted text. Extraction and
// validation failures are collected per line/record and never abort the
// batch; only a sink failure is fatal.
func (p *Processor) Process(ctx context.Context, rawText string, mode Mode) (*Result, error) {
	start := time.Now()
	result := &Result{
		Records:          []entity.ShipmentRecord{},
		Repairs:          []entity.RepairEntry{},
		ValidationErrors: []string{},
		Warnings:         []string{},
		Stats: Stats{
			InputLength: len(rawText),
			Mode:        string(mode),
		},
	}

	if strings.TrimSpace(rawText) == "" {
		result.ValidationErrors = append(result.ValidationErrors, "empty input provided")
		return result, nil
	}

	orchestrator := NewOrchestrator(p.extractorFor(mode), p.logger)
	raw := orchestrator.ExtractAll(ctx, rawText)
	result.Stats.ParsedCount = len(raw)

	if len(raw) == 0 {
		result.ValidationErrors = append(result.ValidationErrors,
			"no valid shipment data could be extracted from input")
		return result, nil
	}

	validated := make([]entity.ShipmentRecord, 0, len(raw))
	for i, rec := range raw {
		enhanced, repairs := p.completion.Complete(rec, i+1)
		if errs := Validate(enhanced); len(errs) > 0 {
			for _, e := range errs {
				result.ValidationErrors = append(result.ValidationErrors,
					fmt.Sprintf("shipment %d: %s", i+1, e))
			}
			continue
		}
		validated = append(validated, enhanced)
		result.Repairs = append(result.Repairs, repairs...)
	}
	result.Records = validated

	if len(validated) == 0 {
		return result, nil
	}

	outPath, err := p.sink.WriteBatch(ctx, validated)
	if err != nil {
		// sink failure is fatal for the batch; nothing was written
		p.logger.Error("processor.sink.failed", "error", err, "records", len(validated))
		p.recordRun(ctx, result, start)
		return result, common.WrapError(err, "write batch")
	}
	result.OutputFile = outPath
	result.Stats.ProcessedCount = len(validated)
	result.Success = len(result.ValidationErrors) == 0

	if result.Success && mode == ModeFallback {
		result.Warnings = append(result.Warnings,
			"processed using fallback mode - configure the semantic backend for better accuracy")
	}

	p.recordRun(ctx, result, start)
	p.logger.Info("processor.batch.ok",
		"mode", string(mode),
		"parsed", result.Stats.ParsedCount,
		"processed", result.Stats.ProcessedCount,
		"repairs", len(result.Repairs),
		"validation_errors", len(result.ValidationErrors),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return result, nil
}

func (p *Processor) extractorFor(mode Mode) extract.Extractor {
	if mode == ModeSemantic && p.semantic != nil {
		return p.semantic
	}
	return p.fallback
}

func (p *Processor) recordRun(ctx context.Context, result *Result, start time.Time) {
	if p.history == nil {
		return
	}
	run := entity.RunSummary{
		ID:             uuid.New().String(),
		CreatedAt:      start.UTC().Format(time.RFC3339),
		Mode:           result.Stats.Mode,
		Success:        result.Success,
		InputLength:    result.Stats.InputLength,
		ParsedCount:    result.Stats.ParsedCount,
		ProcessedCount: result.Stats.ProcessedCount,
		OutputFile:     result.OutputFile,
	}
	if err := p.history.Insert(ctx, run); err != nil {
		p.logger.Warn("processor.history.insert_failed", "error", err)
	}
}

// Summary renders a human-readable report of a run for the CLI.
func (r *Result) Summary() string {
	var b strings.Builder
	status := "FAILED"
	if r.Success {
		status = "SUCCESS"
	}
	fmt.Fprintf(&b, "Processing Status: %s\n", status)
	fmt.Fprintf(&b, "Input Length: %d bytes\n", r.Stats.InputLength)
	fmt.Fprintf(&b, "Processing Mode: %s\n", r.Stats.Mode)
	fmt.Fprintf(&b, "Shipments Parsed: %d\n", r.Stats.ParsedCount)
	fmt.Fprintf(&b, "Shipments Processed: %d\n", r.Stats.ProcessedCount)
	if r.OutputFile != "" {
		fmt.Fprintf(&b, "Output File: %s\n", r.OutputFile)
	}
	for i, rec := range r.Records {
		fmt.Fprintf(&b, "  %d. %s - %s - %s\n", i+1, rec.ProductName, rec.UnitPrice, rec.CourierName)
	}
	for _, rep := range r.Repairs {
		fmt.Fprintf(&b, "  repaired: shipment %d %s (%s)\n", rep.RecordIndex, rep.Field, rep.Reason)
	}
	for _, e := range r.ValidationErrors {
		fmt.Fprintf(&b, "  error: %s\n", e)
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "  warning: %s\n", w)
	}
	return b.String()
}
