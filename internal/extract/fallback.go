package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
)

// Rule tables for the deterministic fallback path. Pattern order is load
// bearing: the first pattern with a match anywhere in the text wins, so the
// symbol-prefixed forms outrank labeled totals, which outrank bare decimals.
var amountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`₹\s*(\d+\.?\d*)`),
	regexp.MustCompile(`\$\s*(\d+\.?\d*)`),
	regexp.MustCompile(`€\s*(\d+\.?\d*)`),
	regexp.MustCompile(`£\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)total[:\s]*[$₹]?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)amount[:\s]*[$₹]?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(\d+\.\d{2})`),
}

var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)tax[:\s]*[$₹]?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)gst[:\s]*[$₹]?\s*(\d+\.?\d*)`),
	regexp.MustCompile(`(?i)vat[:\s]*[$₹]?\s*(\d+\.?\d*)`),
}

// vendorSkipWords disqualify header-ish lines from being the vendor.
var vendorSkipWords = []string{"receipt", "invoice", "bill", "tax", "gst", "date", "time"}

const (
	vendorMaxLines  = 5
	vendorMaxLen    = 50
	taxEstimateRate = 0.18
)

// RuleExtract is the rule-based fallback: deterministic, no external calls.
// Identical text and processing day always yield an identical record.
func RuleExtract(text string, today time.Time) entity.ExtractedReceipt {
	return entity.ExtractedReceipt{
		Vendor:   fallbackVendor(text),
		Amount:   fallbackAmount(text),
		Currency: constants.DetectCurrency(text),
		Date:     today.Format("2006-01-02"),
		Category: constants.FromKeywords(text),
		Tax:      fallbackTax(text),
	}
}

// Defaults is the all-defaults record returned when even the rule path has
// nothing to work with.
func Defaults(today time.Time) entity.ExtractedReceipt {
	return entity.ExtractedReceipt{
		Vendor:   "Unknown Vendor",
		Amount:   0.0,
		Currency: constants.DefaultCurrency,
		Date:     today.Format("2006-01-02"),
		Category: constants.Other,
		Tax:      0.0,
	}
}

func fallbackAmount(text string) float64 {
	for _, p := range amountPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	return 0.0
}

func fallbackVendor(text string) string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	n := 0
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if n++; n > vendorMaxLines {
			break
		}
		if len(line) <= 3 || containsAny(strings.ToLower(line), vendorSkipWords) {
			continue
		}
		if r := []rune(line); len(r) > vendorMaxLen {
			line = string(r[:vendorMaxLen])
		}
		return line
	}
	return "Unknown Vendor"
}

func fallbackTax(text string) float64 {
	for _, p := range taxPatterns {
		if m := p.FindStringSubmatch(text); m != nil {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil {
				return v
			}
		}
	}
	// No explicit tax figure; estimate 18% (common GST rate) off the total.
	if amount := fallbackAmount(text); amount > 0 {
		return math.Round(amount*taxEstimateRate*100) / 100
	}
	return 0.0
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
