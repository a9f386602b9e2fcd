package pipeline

import (
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leshuiju/shipment-entry/internal/entity"
	"github.com/leshuiju/shipment-entry/internal/export"
	"github.com/leshuiju/shipment-entry/internal/extract"
)

const maxProductNameLength = 100

var strictDecimal = regexp.MustCompile(`^\d+(?:\.\d{1,2})?$`)

// translations is the Chinese→English phrase table, checked as substring
// containment in declared order. More specific phrases come before generic
// ones so that e.g. 折叠按摩床 does not resolve to the plain 按摩床 entry.
var translations = []struct {
	chinese string
	english string
}{
	{"折叠按摩床", "Folding Massage Table"},
	{"按摩床", "Massage Table"},
	{"地板", "Flooring"},
	{"电子产品", "Electronic Products"},
	{"家具", "Furniture"},
	{"服装", "Clothing"},
	{"玩具", "Toys"},
	{"工具", "Tools"},
	{"厨具", "Kitchenware"},
	{"装饰品", "Decorations"},
}

// Completion repairs missing fields of extracted records using derivable
// defaults. It is a pure function of its input apart from the clock.
type Completion struct {
	now func() time.Time
}

func NewCompletion() *Completion {
	return &Completion{now: time.Now}
}

// Complete returns an enhanced copy of rec with derivable gaps filled, plus
// one RepairEntry per filled field. Each rule is gated on the target field
// being empty; courier, tracking number, and unit price are never fabricated.
// recordIndex is the record's 1-based position in the batch.
func (c *Completion) Complete(rec entity.ShipmentRecord, recordIndex int) (entity.ShipmentRecord, []entity.RepairEntry) {
	enhanced := rec
	var repairs []entity.RepairEntry

	if enhanced.Quantity == "" && enhanced.ProductName != "" {
		// the product name may still carry a quantity-unit token; extract it
		// without retroactively stripping the name
		if q, ok := extract.FindQuantity(enhanced.ProductName); ok {
			enhanced.Quantity = q
			repairs = append(repairs, entity.RepairEntry{
				RecordIndex: recordIndex,
				Field:       "quantity",
				Reason:      fmt.Sprintf("inferred %q from product name", q),
			})
		}
	}

	if enhanced.EnglishName == "" && enhanced.ProductName != "" {
		for _, t := range translations {
			if strings.Contains(enhanced.ProductName, t.chinese) {
				enhanced.EnglishName = t.english
				repairs = append(repairs, entity.RepairEntry{
					RecordIndex: recordIndex,
					Field:       "english_name",
					Reason:      fmt.Sprintf("translated %q to %q", t.chinese, t.english),
				})
				break
			}
		}
	}

	if enhanced.ReceiptDate == "" {
		enhanced.ReceiptDate = c.now().Format("2006-01-02")
		repairs = append(repairs, entity.RepairEntry{
			RecordIndex: recordIndex,
			Field:       "receipt_date",
			Reason:      "defaulted to today",
		})
	}

	return enhanced, repairs
}

// AnalyzeMissingFields reports which fields are absent and why they matter.
// Read-only diagnostic; nothing is repaired here.
func AnalyzeMissingFields(rec entity.ShipmentRecord) map[string]string {
	missing := make(map[string]string)

	if rec.ProductName == "" {
		missing["product_name"] = "product name is required"
	}
	if rec.UnitPrice == "" {
		missing["unit_price"] = "price is recommended for customs declaration"
	}
	if rec.CourierName == "" {
		missing["courier_name"] = "courier company helps with tracking"
	}
	if rec.TrackingNumber == "" {
		missing["tracking_number"] = "tracking number enables shipment monitoring"
	}
	if rec.ReceiptDate == "" {
		missing["receipt_date"] = "receipt date helps with inventory management"
	}
	if rec.Quantity == "" {
		missing["quantity"] = "quantity specification recommended"
	}
	if rec.EnglishName == "" {
		missing["english_name"] = "English name may be required for customs"
	}
	return missing
}

// Validate checks the record's hard invariants and returns error strings
// rather than failing. A record with any validation error is excluded from
// the output by the caller.
func Validate(rec entity.ShipmentRecord) []string {
	var errs []string

	if strings.TrimSpace(rec.ProductName) == "" {
		errs = append(errs, "required field missing: product_name")
	}
	if n := utf8.RuneCountInString(rec.ProductName); n > maxProductNameLength {
		errs = append(errs, fmt.Sprintf("product name too long: %d characters", n))
	}
	if rec.UnitPrice != "" {
		if cleaned := export.CleanPrice(rec.UnitPrice); !strictDecimal.MatchString(cleaned) {
			errs = append(errs, fmt.Sprintf("invalid price format: %s", rec.UnitPrice))
		}
	}
	return errs
}
