package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/leshuiju/shipment-entry/internal/common"
)

// key columns checked when scanning for a writable row: case number, Chinese
// name, and unit price.
var keyColumns = []string{ColCaseNumber, ColChineseName, ColUnitPrice}

// openTemplate loads the declaration template and resolves the target sheet,
// preferring the configured name and falling back to the active sheet.
func openTemplate(cfg common.ExcelConfig) (*excelize.File, string, error) {
	if _, err := os.Stat(cfg.TemplatePath); err != nil {
		return nil, "", common.NewAppError("TEMPLATE_MISSING",
			fmt.Sprintf("template file not found: %s", cfg.TemplatePath), common.ErrSink)
	}

	f, err := excelize.OpenFile(cfg.TemplatePath)
	if err != nil {
		return nil, "", fmt.Errorf("load template: %w", err)
	}

	sheet := cfg.SheetName
	if idx, _ := f.GetSheetIndex(sheet); idx == -1 {
		sheet = f.GetSheetName(f.GetActiveSheetIndex())
	}
	return f, sheet, nil
}

// findNextDataRow scans from the configured start row for the first row where
// the key columns are all empty.
func findNextDataRow(f *excelize.File, sheet string, startRow int) int {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return startRow
	}
	maxRow := len(rows)

	for row := startRow; row <= maxRow+1; row++ {
		empty := true
		for _, col := range keyColumns {
			v, _ := f.GetCellValue(sheet, col+strconv.Itoa(row))
			if v != "" {
				empty = false
				break
			}
		}
		if empty {
			return row
		}
	}
	return maxRow + 1
}

// backupTemplate copies the template into the backup directory with a
// timestamped name and returns the backup path.
func backupTemplate(cfg common.ExcelConfig, now time.Time) (string, error) {
	if err := os.MkdirAll(cfg.BackupDir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	base := filepath.Base(cfg.TemplatePath)
	ext := filepath.Ext(base)
	name := base[:len(base)-len(ext)]
	backupPath := filepath.Join(cfg.BackupDir,
		fmt.Sprintf("%s_backup_%s%s", name, now.Format("20060102_150405"), ext))

	src, err := os.Open(cfg.TemplatePath)
	if err != nil {
		return "", fmt.Errorf("open template: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(backupPath)
	if err != nil {
		return "", fmt.Errorf("create backup: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("copy template: %w", err)
	}
	return backupPath, nil
}
