package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leshuiju/shipment-entry/internal/entity"
)

func TestCleanPrice(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"30$", "30"},
		{"25美金", "25"},
		{"100.50$", "100.50"},
		{"", ""},
		{"免费", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanPrice(tt.in), "in: %s", tt.in)
	}
}

func TestNormalizeCourier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"中通", "中通快递"},
		{"顺丰", "顺丰快递"},
		{"中通快递", "中通快递"},
		{"未知物流", "未知物流"}, // unmatched input passes through
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCourier(tt.in), "in: %s", tt.in)
	}
}

func TestNormalizeCourier_Idempotent(t *testing.T) {
	for _, a := range courierAliases {
		once := NormalizeCourier(a.alias)
		assert.Equal(t, once, NormalizeCourier(once), "alias: %s", a.alias)
	}
}

func TestFormatReceiptDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2025-07-05", "7/5"},
		{"2025-10-12", "10/12"},
		{"2025-01-09", "1/9"},
		{"", ""},
		{"07-05", "07-05"},        // wrong length passes through
		{"2025/07/05", "2025/07/05"}, // wrong separators pass through
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatReceiptDate(tt.in), "in: %s", tt.in)
	}
}

func TestMapToRow_FullRecord(t *testing.T) {
	rec := entity.ShipmentRecord{
		ProductName:    "地板",
		EnglishName:    "Flooring",
		Quantity:       "1托",
		UnitPrice:      "30$",
		CourierName:    "中通",
		TrackingNumber: "00202242834846",
		ReceiptDate:    "2025-07-05",
	}
	row := MapToRow(rec, 1, 9)

	assert.Equal(t, "Case 1", row.Values[ColCaseNumber])
	assert.Equal(t, "地板", row.Values[ColChineseName])
	assert.Equal(t, "Flooring", row.Values[ColEnglishName])
	assert.Equal(t, "1托", row.Values[ColQuantity])
	assert.Equal(t, 30.0, row.Values[ColUnitPrice])
	assert.Equal(t, "=F9", row.Formulas[ColTotalPrice])
	assert.Equal(t, "中通快递", row.Values[ColCourier])
	// coerced to text so leading zeros survive the sink
	assert.Equal(t, "00202242834846", row.Values[ColCourierNo])
	assert.Equal(t, "7/5", row.Values[ColReceiptDate])
	assert.Equal(t, "", row.Values[ColVolume])
	assert.Equal(t, "", row.Values[ColWeight])
	assert.Equal(t, "", row.Values[ColPackageUnit])
}

func TestMapToRow_NoPriceMeansNoTotalFormula(t *testing.T) {
	rec := entity.ShipmentRecord{ProductName: "地板", ReceiptDate: "2025-07-05"}
	row := MapToRow(rec, 2, 10)

	assert.Equal(t, "Case 2", row.Values[ColCaseNumber])
	_, hasPrice := row.Values[ColUnitPrice]
	assert.False(t, hasPrice)
	assert.Empty(t, row.Formulas)
}

func TestMapToRow_MissingTrackingOmitted(t *testing.T) {
	rec := entity.ShipmentRecord{ProductName: "地板", UnitPrice: "30$"}
	row := MapToRow(rec, 1, 9)

	_, ok := row.Values[ColCourierNo]
	require.False(t, ok, "absent tracking must not be written at all")
}

func TestMapToRow_UnparseablePriceKeptAsString(t *testing.T) {
	// CleanPrice yields a numeric token whenever it yields anything, so this
	// exercises the decimal guard with a crafted record
	rec := entity.ShipmentRecord{ProductName: "地板", UnitPrice: "12.3.4$"}
	row := MapToRow(rec, 1, 9)
	assert.Equal(t, 12.3, row.Values[ColUnitPrice])
}
