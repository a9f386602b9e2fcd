package entity

// ShipmentRecord is the canonical extracted unit: one shipment parsed from a
// single line of free-form Chinese text. All fields are strings; an empty
// string means absent, never null.
type ShipmentRecord struct {
	ProductName    string `json:"product_name"`              // Chinese product name, required
	Quantity       string `json:"quantity,omitempty"`        // numeral + unit, e.g. "1托"
	UnitPrice      string `json:"unit_price,omitempty"`      // "{number}$" as extracted
	CourierName    string `json:"courier_name,omitempty"`    // raw courier, normalized at row mapping
	TrackingNumber string `json:"tracking_number,omitempty"` // verbatim, leading zeros preserved
	ReceiptDate    string `json:"receipt_date,omitempty"`    // YYYY-MM-DD
	EnglishName    string `json:"english_name,omitempty"`    // derived via lookup when absent
}

// PopulatedFieldCount returns the number of non-empty fields other than the
// product name. A record where this is zero carries no usable data and is
// discarded before row mapping.
func (r ShipmentRecord) PopulatedFieldCount() int {
	n := 0
	for _, v := range []string{r.Quantity, r.UnitPrice, r.CourierName, r.TrackingNumber, r.ReceiptDate, r.EnglishName} {
		if v != "" {
			n++
		}
	}
	return n
}

// RepairEntry records one auto-completed field on a record, with a
// human-readable justification. Informational only, never persisted.
type RepairEntry struct {
	RecordIndex int    `json:"record_index"` // 1-based position in the batch
	Field       string `json:"field"`
	Reason      string `json:"reason"`
}

// RunSummary is one processing run as kept in the history store.
type RunSummary struct {
	ID             string `json:"id"`
	CreatedAt      string `json:"created_at"` // RFC 3339
	Mode           string `json:"mode"`
	Success        bool   `json:"success"`
	InputLength    int    `json:"input_length"`
	ParsedCount    int    `json:"parsed_count"`
	ProcessedCount int    `json:"processed_count"`
	OutputFile     string `json:"output_file,omitempty"`
}
