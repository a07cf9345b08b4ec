package extract

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptly/receiptly/constants"
	"github.com/receiptly/receiptly/internal/entity"
)

func TestExtract(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Extract Suite")
}

var testToday = time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)

var _ = Describe("RuleExtract", func() {
	var (
		text string
		rec  entity.ExtractedReceipt
	)

	JustBeforeEach(func() {
		rec = RuleExtract(text, testToday)
	})

	When("the text has a labeled total and tax", func() {
		BeforeEach(func() {
			text = "Corner Deli\nTotal: $45.00\nTax: $4.50"
		})

		It("should extract the amount", func() {
			Expect(rec.Amount).To(Equal(45.00))
		})

		It("should extract the tax", func() {
			Expect(rec.Tax).To(Equal(4.50))
		})

		It("should detect USD from the dollar sign", func() {
			Expect(rec.Currency).To(Equal("USD"))
		})

		It("should pick the first substantial line as the vendor", func() {
			Expect(rec.Vendor).To(Equal("Corner Deli"))
		})
	})

	When("the text has an amount but no tax line", func() {
		BeforeEach(func() {
			text = "Morning Supplies\nAmount: 100"
		})

		It("should extract the labeled amount", func() {
			Expect(rec.Amount).To(Equal(100.0))
		})

		It("should estimate tax at 18 percent", func() {
			Expect(rec.Tax).To(Equal(18.0))
		})
	})

	When("the text mentions a ride-hailing vendor", func() {
		BeforeEach(func() {
			text = "Uber\nTrip fare: $25.50\nThanks for riding"
		})

		It("should keep the vendor line", func() {
			Expect(rec.Vendor).To(Equal("Uber"))
		})

		It("should classify as travel", func() {
			Expect(rec.Category).To(Equal(constants.Travel))
		})
	})

	When("the text uses a rupee symbol", func() {
		BeforeEach(func() {
			text = "Chai Point\n₹ 250.00\nGST: ₹45.00"
		})

		It("should detect INR", func() {
			Expect(rec.Currency).To(Equal("INR"))
		})

		It("should extract the rupee amount", func() {
			Expect(rec.Amount).To(Equal(250.00))
		})

		It("should read the GST line as tax", func() {
			Expect(rec.Tax).To(Equal(45.00))
		})
	})

	When("the text uses a Canadian dollar prefix", func() {
		BeforeEach(func() {
			text = "Maple Cafe\nTotal C$ 20.00"
		})

		It("should detect CAD, not USD", func() {
			Expect(rec.Currency).To(Equal("CAD"))
		})
	})

	When("the text is empty", func() {
		BeforeEach(func() {
			text = ""
		})

		It("should return the default vendor", func() {
			Expect(rec.Vendor).To(Equal("Unknown Vendor"))
		})

		It("should return zero amounts", func() {
			Expect(rec.Amount).To(Equal(0.0))
			Expect(rec.Tax).To(Equal(0.0))
		})

		It("should default the currency", func() {
			Expect(rec.Currency).To(Equal("USD"))
		})

		It("should use the processing date", func() {
			Expect(rec.Date).To(Equal("2025-03-14"))
		})

		It("should categorize as other", func() {
			Expect(rec.Category).To(Equal(constants.Other))
		})
	})

	When("every candidate vendor line is a header word", func() {
		BeforeEach(func() {
			text = "RECEIPT\nTax Invoice\nDate: 2025-01-01\nTime: 10:00\nBill #42"
		})

		It("should fall back to the default vendor", func() {
			Expect(rec.Vendor).To(Equal("Unknown Vendor"))
		})
	})

	When("a vendor line exceeds the length cap", func() {
		BeforeEach(func() {
			text = "Super Extended Vendor Name That Keeps Going On And On Forever Inc\n$10.00"
		})

		It("should truncate to fifty characters", func() {
			Expect(rec.Vendor).To(HaveLen(50))
		})
	})

	When("a long vendor line holds multi-byte characters", func() {
		BeforeEach(func() {
			text = strings.Repeat("é", 60) + "\n$10.00"
		})

		It("should truncate on a rune boundary", func() {
			Expect(utf8.ValidString(rec.Vendor)).To(BeTrue())
			Expect(utf8.RuneCountInString(rec.Vendor)).To(Equal(50))
		})
	})

	When("run twice on the same text", func() {
		BeforeEach(func() {
			text = "Corner Deli\nTotal: $45.00\nTax: $4.50"
		})

		It("should be deterministic", func() {
			Expect(RuleExtract(text, testToday)).To(Equal(rec))
		})
	})
})

var _ = Describe("Defaults", func() {
	It("should populate every field", func() {
		rec := Defaults(testToday)
		Expect(rec.Vendor).To(Equal("Unknown Vendor"))
		Expect(rec.Amount).To(Equal(0.0))
		Expect(rec.Currency).To(Equal("USD"))
		Expect(rec.Date).To(Equal("2025-03-14"))
		Expect(rec.Category).To(Equal(constants.Other))
		Expect(rec.Tax).To(Equal(0.0))
	})
})
