// Package extract implements the receipt field extraction cascade:
// OCR text recognition, an optional LLM structured-extraction pass, and a
// deterministic rule-based fallback. The cascade never fails; every input
// resolves to a fully-populated record.
package extract

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
	"github.com/receiptly/receiptly/internal/llm"
	"github.com/receiptly/receiptly/internal/ocr"
)

// Recognizer turns a receipt image into plain text. Failures are absorbed by
// the cascade and treated as empty text.
type Recognizer interface {
	Recognize(ctx context.Context, path string) (ocr.RecognitionResult, error)
}

type Extractor struct {
	recognizer Recognizer
	fields     llm.FieldExtractor // nil when no credential is configured
	logger     *slog.Logger
	now        func() time.Time
}

// NewExtractor wires the cascade. fields may be nil; the rule-based path then
// handles everything after OCR.
func NewExtractor(recognizer Recognizer, fields llm.FieldExtractor, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{
		recognizer: recognizer,
		fields:     fields,
		logger:     logger,
		now:        time.Now,
	}
}

// NewExtractorWithClock injects the processing-date clock for tests.
func NewExtractorWithClock(recognizer Recognizer, fields llm.FieldExtractor, logger *slog.Logger, now func() time.Time) *Extractor {
	e := NewExtractor(recognizer, fields, logger)
	e.now = now
	return e
}

// Extract runs the cascade on the image at path. It never returns an error:
// OCR failure, LLM failure, and malformed model output all degrade to the
// next stage, bottoming out at the all-defaults record.
func (e *Extractor) Extract(ctx context.Context, path string) entity.ExtractedReceipt {
	// Stage 1: text recognition.
	var text string
	res, err := e.recognizer.Recognize(ctx, path)
	if err != nil {
		e.logger.Warn("extract.ocr.failed", "path", path, "error", err)
	} else {
		text = res.Text
	}
	if strings.TrimSpace(text) == "" {
		e.logger.Info("extract.ocr.empty", "path", path)
		return e.ruleFallback("")
	}

	// Stage 2: structured extraction, when a model is configured.
	if e.fields != nil {
		fields, _, err := e.fields.ExtractFields(ctx, llm.ExtractRequest{
			OCRText:           text,
			AllowedCategories: constants.AsStringSlice(),
			DefaultCurrency:   constants.DefaultCurrency,
		})
		if err == nil {
			rec := RepairFields(fields, e.now())
			e.logger.Info("extract.llm.ok",
				"vendor", rec.Vendor,
				"amount", rec.Amount,
				"category", rec.Category,
			)
			return rec
		}
		e.logger.Warn("extract.llm.failed", "error", err)
	}

	// Stage 3: deterministic rules.
	return e.ruleFallback(text)
}

// ruleFallback cannot fail; a panic inside the rule tables degrades to the
// all-defaults record.
func (e *Extractor) ruleFallback(text string) (rec entity.ExtractedReceipt) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("extract.fallback.panic", "recovered", r)
			rec = Defaults(e.now())
		}
	}()
	rec = RuleExtract(text, e.now())
	e.logger.Info("extract.fallback.ok",
		"vendor", rec.Vendor,
		"amount", rec.Amount,
		"currency", rec.Currency,
		"category", rec.Category,
	)
	return rec
}
