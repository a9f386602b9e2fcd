package llm

// BuildShipmentJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. All seven keys must be present; empty strings mark absent
// fields. The date pattern admits the empty string for the same reason.
func BuildShipmentJSONSchema() map[string]any {
	stringProp := func() map[string]any {
		return map[string]any{"type": "string"}
	}
	props := map[string]any{
		"货物名称": stringProp(),
		"数量":   stringProp(),
		"单价":   stringProp(),
		"快递公司": stringProp(),
		"快递单号": stringProp(),
		"入仓日期": map[string]any{"type": "string", "pattern": `^(\d{4}-\d{2}-\d{2})?$`},
		"英文品名": stringProp(),
	}
	required := []string{"货物名称", "数量", "单价", "快递公司", "快递单号", "入仓日期", "英文品名"}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             required,
	}
}
