package extract

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
	"github.com/receiptly/receiptly/internal/llm"
	"github.com/receiptly/receiptly/internal/ocr"
)

type mockRecognizer struct {
	text  string
	err   error
	calls int
}

func (m *mockRecognizer) Recognize(_ context.Context, _ string) (ocr.RecognitionResult, error) {
	m.calls++
	if m.err != nil {
		return ocr.RecognitionResult{}, m.err
	}
	return ocr.RecognitionResult{Text: m.text}, nil
}

type mockFieldExtractor struct {
	fields llm.ReceiptFields
	err    error
	calls  int
}

func (m *mockFieldExtractor) ExtractFields(_ context.Context, _ llm.ExtractRequest) (llm.ReceiptFields, []byte, error) {
	m.calls++
	if m.err != nil {
		return llm.ReceiptFields{}, nil, m.err
	}
	return m.fields, nil, nil
}

var _ = Describe("Extractor", func() {
	var (
		recognizer *mockRecognizer
		fields     *mockFieldExtractor
		useLLM     bool
		rec        entity.ExtractedReceipt
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	clock := func() time.Time { return testToday }

	BeforeEach(func() {
		recognizer = &mockRecognizer{}
		fields = &mockFieldExtractor{}
		useLLM = true
	})

	JustBeforeEach(func() {
		var fe llm.FieldExtractor
		if useLLM {
			fe = fields
		}
		e := NewExtractorWithClock(recognizer, fe, logger, clock)
		rec = e.Extract(context.Background(), "receipt.png")
	})

	When("OCR fails", func() {
		BeforeEach(func() {
			recognizer.err = errors.New("tesseract exited 1")
		})

		It("should return the all-defaults record", func() {
			Expect(rec).To(Equal(Defaults(testToday)))
		})

		It("should not call the model", func() {
			Expect(fields.calls).To(BeZero())
		})
	})

	When("OCR yields only whitespace", func() {
		BeforeEach(func() {
			recognizer.text = "  \n\t "
		})

		It("should skip the model and return defaults", func() {
			Expect(fields.calls).To(BeZero())
			Expect(rec).To(Equal(Defaults(testToday)))
		})
	})

	When("the model answers", func() {
		BeforeEach(func() {
			recognizer.text = "Uber\nTrip fare: $25.50"
			fields.fields = llm.ReceiptFields{
				Vendor:   strPtr("Uber"),
				Amount:   numPtr(25.50),
				Currency: strPtr("USD"),
				Category: strPtr("Travel"),
			}
		})

		It("should use the repaired model record", func() {
			Expect(rec.Vendor).To(Equal("Uber"))
			Expect(rec.Amount).To(Equal(25.50))
			Expect(rec.Category).To(Equal(constants.Travel))
		})

		It("should default the null date to the processing date", func() {
			Expect(rec.Date).To(Equal("2025-03-14"))
		})
	})

	When("the model fails", func() {
		BeforeEach(func() {
			recognizer.text = "Corner Deli\nTotal: $45.00\nTax: $4.50"
			fields.err = errors.New("rate limited")
		})

		It("should fall through to the rule extractor", func() {
			Expect(rec.Vendor).To(Equal("Corner Deli"))
			Expect(rec.Amount).To(Equal(45.00))
			Expect(rec.Tax).To(Equal(4.50))
		})
	})

	When("no model is configured", func() {
		BeforeEach(func() {
			useLLM = false
			recognizer.text = "Corner Deli\nTotal: $45.00\nTax: $4.50"
		})

		It("should use the rule extractor directly", func() {
			Expect(rec.Vendor).To(Equal("Corner Deli"))
			Expect(rec.Amount).To(Equal(45.00))
		})
	})
})
