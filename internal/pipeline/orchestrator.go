package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/leshuiju/shipment-entry/internal/entity"
	"github.com/leshuiju/shipment-entry/internal/extract"
)

// minLineRunes is a heuristic threshold: shorter lines are unlikely to carry
// a full shipment record.
const minLineRunes = 10

// reservedPrefixes guard against a degenerate extraction where the product
// name greedily absorbed metadata from another field.
var reservedPrefixes = []string{"入仓日期", "快递单号", "单号", "单价"}

// Orchestrator splits multi-line input into units and routes each line to the
// extractor selected at construction time.
type Orchestrator struct {
	extractor extract.Extractor
	logger    *slog.Logger
}

func NewOrchestrator(extractor extract.Extractor, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{extractor: extractor, logger: logger}
}

// ExtractAll extracts one record per substantial input line. Output order
// matches input line order; no reordering or deduplication. Lines that yield
// no usable product name, or a record carrying nothing but a name, are
// dropped and the batch continues.
func (o *Orchestrator) ExtractAll(ctx context.Context, text string) []entity.ShipmentRecord {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	records := make([]entity.ShipmentRecord, 0, len(lines))

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) <= minLineRunes {
			continue
		}

		rec := o.extractor.Extract(ctx, line)
		if !keepRecord(rec) {
			o.logger.Info("orchestrator.line_dropped",
				"line_index", i,
				"product", rec.ProductName,
			)
			continue
		}
		records = append(records, rec)
	}
	return records
}

func keepRecord(rec entity.ShipmentRecord) bool {
	if utf8.RuneCountInString(rec.ProductName) < 2 {
		return false
	}
	for _, p := range reservedPrefixes {
		if strings.HasPrefix(rec.ProductName, p) {
			return false
		}
	}
	// a record with zero non-name fields carries no usable data
	return rec.PopulatedFieldCount() > 0
}
