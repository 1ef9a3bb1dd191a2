package llm

// BuildEventsJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. It is sent to the model as the output contract and used
// locally to validate what comes back.
func BuildEventsJSONSchema() map[string]any {
	event := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"codigo":      map[string]any{"type": "string"},
			"descricao":   map[string]any{"type": "string", "minLength": 1},
			"referencia":  map[string]any{"type": []string{"string", "null"}},
			"vencimentos": map[string]any{"type": []string{"number", "null"}},
			"descontos":   map[string]any{"type": []string{"number", "null"}},
		},
		"required": []string{"codigo", "descricao"},
	}
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"eventos": map[string]any{"type": "array", "items": event, "maxItems": 250},
		},
		"required": []string{"eventos"},
	}
}
