package extract

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
	"github.com/receiptly/receiptly/internal/llm"
)

func strPtr(s string) *string   { return &s }
func numPtr(f float64) *float64 { return &f }

var _ = Describe("RepairFields", func() {
	var (
		fields llm.ReceiptFields
		rec    entity.ExtractedReceipt
	)

	BeforeEach(func() {
		fields = llm.ReceiptFields{}
	})

	JustBeforeEach(func() {
		rec = RepairFields(fields, testToday)
	})

	When("every field is null", func() {
		It("should return the all-defaults record", func() {
			Expect(rec).To(Equal(Defaults(testToday)))
		})
	})

	When("the model returns a complete response", func() {
		BeforeEach(func() {
			fields = llm.ReceiptFields{
				Vendor:   strPtr("Blue Bottle Coffee"),
				Amount:   numPtr(12.75),
				Currency: strPtr("usd"),
				Date:     strPtr("2025-02-01"),
				Category: strPtr("Food"),
				Tax:      numPtr(1.02),
			}
		})

		It("should keep the vendor", func() {
			Expect(rec.Vendor).To(Equal("Blue Bottle Coffee"))
		})

		It("should keep the amounts", func() {
			Expect(rec.Amount).To(Equal(12.75))
			Expect(rec.Tax).To(Equal(1.02))
		})

		It("should uppercase the currency", func() {
			Expect(rec.Currency).To(Equal("USD"))
		})

		It("should keep the date", func() {
			Expect(rec.Date).To(Equal("2025-02-01"))
		})

		It("should keep the category", func() {
			Expect(rec.Category).To(Equal(constants.Food))
		})
	})

	When("the vendor is whitespace", func() {
		BeforeEach(func() {
			fields.Vendor = strPtr("   ")
		})

		It("should fall back to the default vendor", func() {
			Expect(rec.Vendor).To(Equal("Unknown Vendor"))
		})
	})

	When("money fields are negative", func() {
		BeforeEach(func() {
			fields.Amount = numPtr(-10)
			fields.Tax = numPtr(-1)
		})

		It("should clamp both to zero", func() {
			Expect(rec.Amount).To(Equal(0.0))
			Expect(rec.Tax).To(Equal(0.0))
		})
	})

	When("the currency is unsupported", func() {
		BeforeEach(func() {
			fields.Currency = strPtr("DOGE")
		})

		It("should fall back to USD", func() {
			Expect(rec.Currency).To(Equal("USD"))
		})
	})

	When("the date is malformed", func() {
		BeforeEach(func() {
			fields.Date = strPtr("02/01/2025")
		})

		It("should use the processing date", func() {
			Expect(rec.Date).To(Equal("2025-03-14"))
		})
	})

	When("the category is outside the taxonomy", func() {
		BeforeEach(func() {
			fields.Category = strPtr("Groceries")
		})

		It("should collapse to other", func() {
			Expect(rec.Category).To(Equal(constants.Other))
		})
	})

	When("the category differs only in case", func() {
		BeforeEach(func() {
			fields.Category = strPtr("travel")
		})

		It("should canonicalize it", func() {
			Expect(rec.Category).To(Equal(constants.Travel))
		})
	})
})
