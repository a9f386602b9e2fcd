package export

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/leshuiju/shipment-entry/internal/common"
	"github.com/leshuiju/shipment-entry/internal/entity"
)

const testSheet = "环亚客户自行申报货物表"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeTemplate builds a minimal declaration workbook: header rows above the
// data region and, optionally, pre-existing data rows.
func writeTemplate(t *testing.T, dir string, existingRows int) common.ExcelConfig {
	t.Helper()

	f := excelize.NewFile()
	idx, err := f.NewSheet(testSheet)
	require.NoError(t, err)
	f.SetActiveSheet(idx)
	require.NoError(t, f.DeleteSheet("Sheet1"))

	require.NoError(t, f.SetCellValue(testSheet, "A8", "货物件数"))
	require.NoError(t, f.SetCellValue(testSheet, "C8", "中文品名"))
	require.NoError(t, f.SetCellValue(testSheet, "F8", "美金单价"))

	for i := 0; i < existingRows; i++ {
		row := strconv.Itoa(9 + i)
		require.NoError(t, f.SetCellValue(testSheet, "A"+row, "Case "+strconv.Itoa(i+1)))
		require.NoError(t, f.SetCellValue(testSheet, "C"+row, "旧货"))
		require.NoError(t, f.SetCellValue(testSheet, "F"+row, 10))
	}

	path := filepath.Join(dir, "Template.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	return common.ExcelConfig{
		TemplatePath: path,
		SheetName:    testSheet,
		DataStartRow: 9,
		OutputDir:    filepath.Join(dir, "output"),
		BackupDir:    filepath.Join(dir, "output", "backups"),
	}
}

func TestWriteBatch_WritesRecordsBelowTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemplate(t, dir, 0)
	svc := NewService(cfg, testLogger())

	records := []entity.ShipmentRecord{
		{
			ProductName:    "地板",
			EnglishName:    "Flooring",
			Quantity:       "1托",
			UnitPrice:      "30$",
			CourierName:    "中通",
			TrackingNumber: "00202242834846",
			ReceiptDate:    "2025-07-05",
		},
		{
			ProductName: "折叠按摩床",
			EnglishName: "Folding Massage Table",
			Quantity:    "2箱",
		},
	}

	out, err := svc.WriteBatch(context.Background(), records)
	require.NoError(t, err)
	assert.Contains(t, filepath.Base(out), "updated_declaration_")
	assert.Equal(t, ".xlsx", filepath.Ext(out))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	get := func(cell string) string {
		v, gerr := f.GetCellValue(testSheet, cell)
		require.NoError(t, gerr)
		return v
	}

	assert.Equal(t, "Case 1", get("A9"))
	assert.Equal(t, "地板", get("C9"))
	assert.Equal(t, "Flooring", get("D9"))
	assert.Equal(t, "1托", get("E9"))
	assert.Equal(t, "30", get("F9"))
	assert.Equal(t, "中通快递", get("J9"))
	assert.Equal(t, "00202242834846", get("K9"))
	assert.Equal(t, "7/5", get("L9"))

	formula, err := f.GetCellFormula(testSheet, "G9")
	require.NoError(t, err)
	assert.Equal(t, "=F9", formula)

	assert.Equal(t, "Case 2", get("A10"))
	assert.Equal(t, "折叠按摩床", get("C10"))
	// no price: F empty and no total formula
	assert.Equal(t, "", get("F10"))
	formula, err = f.GetCellFormula(testSheet, "G10")
	require.NoError(t, err)
	assert.Equal(t, "", formula)
	// no tracking: K untouched
	assert.Equal(t, "", get("K10"))
}

func TestWriteBatch_AppendsAfterExistingRows(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemplate(t, dir, 2)
	svc := NewService(cfg, testLogger())

	out, err := svc.WriteBatch(context.Background(), []entity.ShipmentRecord{
		{ProductName: "地板", EnglishName: "Flooring"},
	})
	require.NoError(t, err)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	// pre-existing rows 9 and 10 untouched, new record lands on 11
	v, err := f.GetCellValue(testSheet, "C10")
	require.NoError(t, err)
	assert.Equal(t, "旧货", v)
	v, err = f.GetCellValue(testSheet, "C11")
	require.NoError(t, err)
	assert.Equal(t, "地板", v)
}

func TestWriteBatch_BacksUpTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemplate(t, dir, 0)
	svc := NewService(cfg, testLogger())

	_, err := svc.WriteBatch(context.Background(), []entity.ShipmentRecord{{ProductName: "地板"}})
	require.NoError(t, err)

	entries, err := os.ReadDir(cfg.BackupDir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Contains(t, entries[0].Name(), "Template_backup_")
	assert.Equal(t, ".xlsx", filepath.Ext(entries[0].Name()))
}

func TestWriteBatch_EmptyBatchRejected(t *testing.T) {
	dir := t.TempDir()
	cfg := writeTemplate(t, dir, 0)
	svc := NewService(cfg, testLogger())

	_, err := svc.WriteBatch(context.Background(), nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrInvalidInput))
}

func TestWriteBatch_MissingTemplate(t *testing.T) {
	dir := t.TempDir()
	cfg := common.ExcelConfig{
		TemplatePath: filepath.Join(dir, "nope.xlsx"),
		SheetName:    testSheet,
		DataStartRow: 9,
		OutputDir:    dir,
		BackupDir:    dir,
	}
	svc := NewService(cfg, testLogger())

	_, err := svc.WriteBatch(context.Background(), []entity.ShipmentRecord{{ProductName: "地板"}})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrSink))

	var appErr *common.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "TEMPLATE_MISSING", appErr.Code)
}
