package extract

import (
	"context"

	"github.com/leshuiju/shipment-entry/internal/entity"
)

// Extractor turns one line of shipment text into a record. Implementations
// never fail: on total extraction failure they return a record with all
// fields empty except possibly the product name.
type Extractor interface {
	Extract(ctx context.Context, line string) entity.ShipmentRecord
}
