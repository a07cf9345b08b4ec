package llm

import (
	"strings"

	"github.com/receiptly/receiptly/constants"
)

// BuildSystemPrompt composes the system message with the category enum and
// strict-but-practical formatting rules.
func BuildSystemPrompt(req ExtractRequest) string {
	defCur := strings.TrimSpace(req.DefaultCurrency)
	if defCur == "" {
		defCur = "USD"
	}

	var catLine string
	if len(req.AllowedCategories) > 0 {
		catLine = "For 'category', choose exactly one of: " + strings.Join(req.AllowedCategories, ", ") + ". " +
			"If uncertain, choose 'Other'."
	} else {
		catLine = "For 'category', use a short, sensible label; 'Other' if uncertain."
	}

	parts := []string{
		"You are an expert at extracting structured data from receipt text. Always respond with valid JSON.",
		"Return ONLY a JSON object with exactly these keys: vendor, amount, currency, date, category, tax.",
		"If you can't determine a value, use null.",
		"For 'amount', return the total amount paid as a number.",
		"For 'tax', return any tax/GST/VAT amount mentioned as a number.",
		"For 'currency', detect the symbol or code (" + strings.Join(constants.SupportedCurrencies(), ", ") + "); default to " + defCur + " if uncertain.",
		"Common currency symbols: $ (USD), € (EUR), £ (GBP), ₹ (INR), ¥ (JPY), C$ (CAD), A$ (AUD).",
		"For 'date', use ISO-8601 (YYYY-MM-DD).",
		catLine,
	}
	return strings.Join(parts, " ")
}

// BuildUserPrompt packages the OCR text, truncated so a pathological scan
// cannot blow the token budget.
func BuildUserPrompt(req ExtractRequest) string {
	ocr := strings.TrimSpace(req.OCRText)
	var b strings.Builder
	b.WriteString("Extract receipt information from this text:\n\n")
	if len(ocr) > 3000 {
		b.WriteString(ocr[:3000])
		b.WriteString("\n…(truncated)")
	} else {
		b.WriteString(ocr)
	}
	return b.String()
}
