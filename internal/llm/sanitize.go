package llm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/contare/payslip-reconciler/internal/extract"
)

// SanitizeEventsJSON repairs the common model slips before schema
// validation: markdown fences around the JSON, money sent as pt-BR strings
// instead of numbers, numeric codes, empty strings where the schema wants
// null. Returns the cleaned document and the fields it touched.
func SanitizeEventsJSON(raw []byte) ([]byte, []string, error) {
	text := strings.TrimSpace(string(raw))
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var doc map[string]any
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	var touched []string
	events, _ := doc["eventos"].([]any)
	for i, e := range events {
		ev, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := ev["codigo"].(float64); ok {
			ev["codigo"] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", v), "0"), ".")
			touched = append(touched, fmt.Sprintf("eventos[%d].codigo", i))
		}
		for _, k := range []string{"vencimentos", "descontos"} {
			s, ok := ev[k].(string)
			if !ok {
				continue
			}
			if strings.TrimSpace(s) == "" {
				ev[k] = nil
				touched = append(touched, fmt.Sprintf("eventos[%d].%s(empty)", i, k))
				continue
			}
			if d, err := extract.ParseMoney(s); err == nil {
				// json.Number round-trips the decimal text as a JSON
				// number; the value never passes through a float.
				ev[k] = json.Number(d.String())
				touched = append(touched, fmt.Sprintf("eventos[%d].%s", i, k))
			}
		}
		if s, ok := ev["referencia"].(string); ok && strings.TrimSpace(s) == "" {
			ev["referencia"] = nil
		}
	}

	out, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("sanitize: encode: %w", err)
	}
	return out, touched, nil
}
