package llm

import "context"

// ShipmentFields is the normalized shape we want from the model. The JSON
// keys are the Chinese field names of the declaration form; the backend is
// instructed to emit exactly these seven keys as a flat object.
type ShipmentFields struct {
	ProductName    string `json:"货物名称"`
	Quantity       string `json:"数量"`
	UnitPrice      string `json:"单价"`
	CourierName    string `json:"快递公司"`
	TrackingNumber string `json:"快递单号"`
	ReceiptDate    string `json:"入仓日期"` // YYYY-MM-DD
	EnglishName    string `json:"英文品名"`
}

// FieldExtractor is the interface the semantic adapter depends on. The raw
// response content is returned alongside the fields for logging.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, line string) (ShipmentFields, []byte, error)
}
