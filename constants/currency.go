package constants

import "strings"

// DefaultCurrency is assumed whenever no symbol or code can be detected.
const DefaultCurrency = "USD"

// CurrencySymbols maps symbols to ISO-like codes in detection priority order.
// "$" must stay last: "C$" and "A$" contain it, so checking it earlier would
// misclassify Canadian and Australian receipts as USD.
var CurrencySymbols = []struct {
	Symbol string
	Code   string
}{
	{"₹", "INR"},
	{"€", "EUR"},
	{"£", "GBP"},
	{"¥", "JPY"},
	{"C$", "CAD"},
	{"A$", "AUD"},
	{"$", "USD"},
}

var supportedCurrencies = map[string]struct{}{
	"USD": {}, "EUR": {}, "GBP": {}, "INR": {}, "JPY": {}, "CAD": {}, "AUD": {},
}

// DetectCurrency scans text for a currency symbol and returns its code.
// First symbol present (in priority order) wins; no hit means USD.
func DetectCurrency(text string) string {
	for _, cs := range CurrencySymbols {
		if strings.Contains(text, cs.Symbol) {
			return cs.Code
		}
	}
	return DefaultCurrency
}

// NormalizeCurrency validates a currency code, falling back to USD for
// anything empty or outside the supported set.
func NormalizeCurrency(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if _, ok := supportedCurrencies[c]; ok {
		return c
	}
	return DefaultCurrency
}

// SupportedCurrencies lists the accepted codes in symbol priority order.
func SupportedCurrencies() []string {
	out := make([]string, 0, len(CurrencySymbols))
	for _, cs := range CurrencySymbols {
		out = append(out, cs.Code)
	}
	return out
}
