package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

var fieldKeys = []string{"货物名称", "数量", "单价", "快递公司", "快递单号", "入仓日期", "英文品名"}

// StripCodeFences removes Markdown code-fence wrapping from a model response
// before JSON parsing.
func StripCodeFences(content string) string {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```json") {
		content = content[len("```json"):]
	} else if strings.HasPrefix(content, "```") {
		content = content[len("```"):]
	}
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// NormalizeShipmentJSON
// - Fills every missing or null field key with the empty string
// - Coerces numeric values to strings (models sometimes emit 数量 as a number)
// - Trims string values
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeShipmentJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}
	// a literal JSON null decodes to a nil map with no error
	if m == nil {
		return nil, nil, fmt.Errorf("sanitize: decode: null response")
	}

	changed := make([]string, 0, len(fieldKeys))
	allowed := make(map[string]struct{}, len(fieldKeys))
	for _, k := range fieldKeys {
		allowed[k] = struct{}{}
		switch t := m[k].(type) {
		case string:
			m[k] = strings.TrimSpace(t)
		case float64:
			m[k] = strconv.FormatFloat(t, 'f', -1, 64)
			changed = append(changed, k+"(number)")
		case nil:
			m[k] = ""
			changed = append(changed, k+"(missing)")
		default:
			m[k] = ""
			changed = append(changed, k+"(type)")
		}
	}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			changed = append(changed, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, changed, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(changed) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "changed", changed)
	}
	return out, changed, nil
}
