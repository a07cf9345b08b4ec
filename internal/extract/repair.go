package extract

import (
	"strings"
	"time"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
	"github.com/receiptly/receiptly/internal/llm"
)

// RepairFields normalizes a model response into a fully-populated record:
// nulls become documented defaults, dates outside YYYY-MM-DD become the
// processing date, out-of-enum categories collapse to Other, and money
// fields are clamped to non-negative.
func RepairFields(f llm.ReceiptFields, today time.Time) entity.ExtractedReceipt {
	rec := Defaults(today)

	if f.Vendor != nil {
		if v := strings.TrimSpace(*f.Vendor); v != "" {
			rec.Vendor = v
		}
	}
	if f.Amount != nil && *f.Amount > 0 {
		rec.Amount = *f.Amount
	}
	if f.Tax != nil && *f.Tax > 0 {
		rec.Tax = *f.Tax
	}
	if f.Currency != nil {
		rec.Currency = constants.NormalizeCurrency(*f.Currency)
	}
	if f.Date != nil {
		if t, err := time.Parse("2006-01-02", strings.TrimSpace(*f.Date)); err == nil {
			rec.Date = t.Format("2006-01-02")
		}
	}
	if f.Category != nil {
		cat, _ := constants.Canonicalize(*f.Category)
		rec.Category = cat
	}
	return rec
}
