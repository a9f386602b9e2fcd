package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/leshuiju/shipment-entry/internal/entity"
)

// Column letters of the declaration template.
const (
	ColCaseNumber  = "A" // 货物件数
	ColPackageUnit = "B" // 包装单位
	ColChineseName = "C" // 中文品名
	ColEnglishName = "D" // 英文品名
	ColQuantity    = "E" // 内部规格x数量
	ColUnitPrice   = "F" // 美金单价
	ColTotalPrice  = "G" // 美金总价
	ColVolume      = "H" // 体积(可不填)
	ColWeight      = "I" // 毛重(可不填)
	ColCourier     = "J" // 快递公司
	ColCourierNo   = "K" // 快递单号
	ColReceiptDate = "L" // 入仓日期 月/日
)

var leadingNumber = regexp.MustCompile(`(\d+(?:\.\d+)?)`)

// courierAliases maps short courier names to the normalized form, in declared
// order. First containment match wins; unmatched input passes through.
var courierAliases = []struct {
	alias      string
	normalized string
}{
	{"中通", "中通快递"},
	{"顺丰", "顺丰快递"},
	{"圆通", "圆通快递"},
	{"申通", "申通快递"},
	{"韵达", "韵达快递"},
	{"百世", "百世快递"},
	{"德邦", "德邦快递"},
	{"京东", "京东快递"},
	{"菜鸟", "菜鸟快递"},
}

// Row holds the sink-ready values for one record. Formulas are kept apart
// from plain values so the sink can register them as formulas rather than
// literal text.
type Row struct {
	Values   map[string]any
	Formulas map[string]string
}

// MapToRow converts a validated record into template column values. seq is
// the 1-based position among the rows written in this run; rowNum is the
// absolute worksheet row the formula cell references.
func MapToRow(rec entity.ShipmentRecord, seq, rowNum int) Row {
	row := Row{
		Values:   make(map[string]any, 12),
		Formulas: make(map[string]string, 1),
	}

	row.Values[ColCaseNumber] = fmt.Sprintf("Case %d", seq)
	row.Values[ColPackageUnit] = ""
	row.Values[ColChineseName] = rec.ProductName
	row.Values[ColEnglishName] = rec.EnglishName
	row.Values[ColQuantity] = rec.Quantity

	if cleaned := CleanPrice(rec.UnitPrice); cleaned != "" {
		if d, err := decimal.NewFromString(cleaned); err == nil {
			row.Values[ColUnitPrice], _ = d.Float64()
		} else {
			row.Values[ColUnitPrice] = cleaned
		}
		// total is computed by the sink, not precomputed
		row.Formulas[ColTotalPrice] = fmt.Sprintf("=%s%d", ColUnitPrice, rowNum)
	}

	row.Values[ColVolume] = ""
	row.Values[ColWeight] = ""
	row.Values[ColCourier] = NormalizeCourier(rec.CourierName)

	// written as text to preserve leading zeros; omitted entirely when absent
	if rec.TrackingNumber != "" {
		row.Values[ColCourierNo] = rec.TrackingNumber
	}

	row.Values[ColReceiptDate] = FormatReceiptDate(rec.ReceiptDate)
	return row
}

// CleanPrice strips the currency marker and returns the leading numeric
// token, or "" when none is present.
func CleanPrice(price string) string {
	if price == "" {
		return ""
	}
	return leadingNumber.FindString(price)
}

// NormalizeCourier maps a raw courier name onto the normalized form via
// substring containment against the alias table. Idempotent: normalized
// names contain their own alias and map to themselves.
func NormalizeCourier(courier string) string {
	if courier == "" {
		return ""
	}
	for _, a := range courierAliases {
		if strings.Contains(courier, a.alias) {
			return a.normalized
		}
	}
	return courier
}

// FormatReceiptDate reformats a canonical YYYY-MM-DD date to M/D with leading
// zeros stripped. Input not in the expected shape passes through unchanged.
func FormatReceiptDate(date string) string {
	if date == "" {
		return ""
	}
	if len(date) != 10 || strings.Count(date, "-") != 2 {
		return date
	}
	parts := strings.Split(date, "-")
	month := strings.TrimLeft(parts[1], "0")
	day := strings.TrimLeft(parts[2], "0")
	return month + "/" + day
}
