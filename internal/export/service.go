package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leshuiju/shipment-entry/internal/common"
	"github.com/leshuiju/shipment-entry/internal/entity"
)

// Service writes validated records into the declaration template and saves
// the result as a new timestamped workbook. The template itself is never
// modified; a backup copy is taken before each run.
type Service struct {
	cfg    common.ExcelConfig
	logger *slog.Logger
	now    func() time.Time
}

func NewService(cfg common.ExcelConfig, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{cfg: cfg, logger: logger, now: time.Now}
}

// WriteBatch inserts the records below the existing template rows and saves
// a new workbook, returning its path. The batch is written in full or not at
// all: the workbook is saved to a temp file first and renamed into place.
func (s *Service) WriteBatch(ctx context.Context, records []entity.ShipmentRecord) (string, error) {
	if len(records) == 0 {
		return "", common.NewAppError("EMPTY_BATCH", "no records to write", common.ErrInvalidInput)
	}
	start := s.now()

	f, sheet, err := openTemplate(s.cfg)
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			s.logger.Warn("export.template.close_error", "error", cerr)
		}
	}()

	backupPath, err := backupTemplate(s.cfg, start)
	if err != nil {
		return "", fmt.Errorf("backup template: %w", err)
	}

	startRow := findNextDataRow(f, sheet, s.cfg.DataStartRow)
	for i, rec := range records {
		rowNum := startRow + i
		if err := s.writeRow(f, sheet, rec, i+1, rowNum); err != nil {
			return "", fmt.Errorf("write row %d: %w", rowNum, err)
		}
	}

	outPath := filepath.Join(s.cfg.OutputDir,
		fmt.Sprintf("updated_declaration_%s.xlsx", start.Format("20060102_150405")))
	if err := os.MkdirAll(s.cfg.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	// save to a temp file and rename so a failed save leaves no partial output
	tmpPath := outPath + ".tmp"
	if err := f.SaveAs(tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", common.NewAppError("SINK_WRITE", fmt.Sprintf("save workbook: %v", err), common.ErrSink)
	}
	if err := os.Rename(tmpPath, outPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", common.NewAppError("SINK_WRITE", fmt.Sprintf("finalize workbook: %v", err), common.ErrSink)
	}

	s.logger.Info("export.xlsx.ok",
		"rows", len(records),
		"start_row", startRow,
		"output", outPath,
		"backup", backupPath,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return outPath, nil
}

func (s *Service) writeRow(f *excelize.File, sheet string, rec entity.ShipmentRecord, seq, rowNum int) error {
	row := MapToRow(rec, seq, rowNum)
	for col, v := range row.Values {
		if err := f.SetCellValue(sheet, col+strconv.Itoa(rowNum), v); err != nil {
			return err
		}
	}
	for col, formula := range row.Formulas {
		if err := f.SetCellFormula(sheet, col+strconv.Itoa(rowNum), formula); err != nil {
			return err
		}
	}
	return nil
}
