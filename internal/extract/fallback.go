package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/leshuiju/shipment-entry/internal/entity"
)

// FallbackExtractor is the deterministic, pattern-based extraction tier.
// It needs no external dependency and is always available.
type FallbackExtractor struct {
	logger *slog.Logger
	now    func() time.Time
}

func NewFallbackExtractor(logger *slog.Logger) *FallbackExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackExtractor{logger: logger, now: time.Now}
}

// Extract applies each field pattern independently against the original line.
// There is no backtracking across fields; the order of field assignment does
// not affect the outcome.
func (e *FallbackExtractor) Extract(_ context.Context, line string) entity.ShipmentRecord {
	rec := entity.ShipmentRecord{
		Quantity:       e.extractQuantity(line),
		UnitPrice:      e.extractPrice(line),
		TrackingNumber: e.extractTracking(line),
		CourierName:    e.extractCourier(line),
		ReceiptDate:    e.extractDate(line),
		ProductName:    e.extractProductName(line),
	}

	e.logger.Debug("extract.fallback.ok",
		"product", rec.ProductName,
		"fields", rec.PopulatedFieldCount(),
	)
	return rec
}

func (e *FallbackExtractor) extractQuantity(line string) string {
	q, _ := FindQuantity(line)
	return q
}

// extractPrice canonicalizes every currency marker ($, 美金, 元) to a dollar
// suffix. This is a labeling convention: no currency conversion happens.
func (e *FallbackExtractor) extractPrice(line string) string {
	m := pricePattern.FindStringSubmatch(line)
	if m == nil {
		return ""
	}
	return m[1] + "$"
}

func (e *FallbackExtractor) extractTracking(line string) string {
	return trackingPattern.FindString(line)
}

func (e *FallbackExtractor) extractCourier(line string) string {
	for _, re := range courierPatterns {
		if m := re.FindStringSubmatch(line); m != nil {
			return m[1]
		}
	}
	return ""
}

func (e *FallbackExtractor) extractDate(line string) string {
	for _, p := range datePatterns {
		m := p.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		var year, month, day string
		if p.withYear {
			year, month, day = m[1], m[2], m[3]
		} else {
			// year omitted in the source text: default to the current
			// calendar year
			year = strconv.Itoa(e.now().Year())
			month, day = m[1], m[2]
		}
		mo, _ := strconv.Atoi(month)
		d, _ := strconv.Atoi(day)
		return fmt.Sprintf("%s-%02d-%02d", year, mo, d)
	}
	return ""
}

// extractProductName takes the first full-width-comma segment, strips a
// leading 货物/商品/产品 label and any price or quantity token that leaked in.
// A remainder of one character or less signals extraction failure and leaves
// the name empty.
func (e *FallbackExtractor) extractProductName(line string) string {
	segment := strings.SplitN(line, "，", 2)[0]
	segment = strings.TrimSpace(segment)
	segment = productNamePrefix.ReplaceAllString(segment, "")
	segment = priceStripPattern.ReplaceAllString(segment, "")
	segment = quantityPattern.ReplaceAllString(segment, "")
	segment = strings.TrimSpace(segment)

	if utf8.RuneCountInString(segment) <= 1 {
		return ""
	}
	return segment
}
