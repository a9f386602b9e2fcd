package extract

import (
	"context"
	"log/slog"

	"github.com/leshuiju/shipment-entry/internal/entity"
	"github.com/leshuiju/shipment-entry/internal/llm"
)

// SemanticExtractor sends the line to the semantic-extraction backend and
// converts the result to a record. It fails closed: any transport, parse, or
// schema failure delegates to the fallback extractor on the same line, so
// callers never see the underlying error.
type SemanticExtractor struct {
	client   llm.FieldExtractor
	fallback *FallbackExtractor
	logger   *slog.Logger
}

func NewSemanticExtractor(client llm.FieldExtractor, fallback *FallbackExtractor, logger *slog.Logger) *SemanticExtractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &SemanticExtractor{client: client, fallback: fallback, logger: logger}
}

func (e *SemanticExtractor) Extract(ctx context.Context, line string) entity.ShipmentRecord {
	fields, _, err := e.client.ExtractFields(ctx, line)
	if err != nil {
		// The malformed response is discarded, never partially trusted;
		// the original line is re-attempted with pattern extraction.
		e.logger.Warn("extract.semantic.fallback",
			"error", err,
			"line_len", len(line),
		)
		return e.fallback.Extract(ctx, line)
	}
	return recordFromFields(fields)
}

func recordFromFields(f llm.ShipmentFields) entity.ShipmentRecord {
	return entity.ShipmentRecord{
		ProductName:    f.ProductName,
		Quantity:       f.Quantity,
		UnitPrice:      f.UnitPrice,
		CourierName:    f.CourierName,
		TrackingNumber: f.TrackingNumber,
		ReceiptDate:    f.ReceiptDate,
		EnglishName:    f.EnglishName,
	}
}
