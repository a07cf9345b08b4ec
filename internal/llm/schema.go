package llm

// BuildReceiptJSONSchema returns a JSON-Schema (draft 2020-12 subset) as a
// generic map. We pass it to the model as an output constraint and also use
// it locally to validate whatever comes back.
func BuildReceiptJSONSchema(allowedCategories []string) map[string]any {
	nullableString := map[string]any{"type": []string{"string", "null"}}
	nullableNumber := map[string]any{"type": []string{"number", "null"}}

	props := map[string]any{
		"vendor":   nullableString,
		"amount":   nullableNumber,
		"currency": nullableString,
		"date": map[string]any{
			"type":    []string{"string", "null"},
			"pattern": `^\d{4}-\d{2}-\d{2}$`,
		},
		"category": nullableString,
		"tax":      nullableNumber,
	}

	// Constrain category when a taxonomy is provided; null stays allowed.
	if len(allowedCategories) > 0 {
		enum := make([]any, 0, len(allowedCategories)+1)
		for _, c := range allowedCategories {
			enum = append(enum, c)
		}
		enum = append(enum, nil)
		props["category"] = map[string]any{"enum": enum}
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           props,
		"required":             []string{"vendor", "amount", "currency", "date", "category", "tax"},
	}
}
