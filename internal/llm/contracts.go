package llm

import "context"

// ReceiptFields is the JSON shape we ask the model to return. Every field is
// nullable: the model is instructed to answer null for anything it cannot
// determine, and the extractor repairs nulls into documented defaults.
type ReceiptFields struct {
	Vendor   *string  `json:"vendor"`
	Amount   *float64 `json:"amount"`
	Currency *string  `json:"currency"`
	Date     *string  `json:"date"` // YYYY-MM-DD
	Category *string  `json:"category"`
	Tax      *float64 `json:"tax"`
}

type ExtractRequest struct {
	OCRText           string
	AllowedCategories []string
	DefaultCurrency   string
}

// FieldExtractor is the interface the extraction cascade depends on.
type FieldExtractor interface {
	ExtractFields(ctx context.Context, req ExtractRequest) (ReceiptFields, []byte /*rawJSON*/, error)
}
