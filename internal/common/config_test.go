package common

import (
	"errors"
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestCommon(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Common Suite")
}

var _ = Describe("LoadConfig", func() {
	It("should apply defaults when the environment is empty", func() {
		cfg := LoadConfig()
		Expect(cfg.Server.Addr).To(Equal(":5000"))
		Expect(cfg.Database.DSN).To(Equal("receipts.db"))
		Expect(cfg.Upload.Dir).To(Equal("static/uploads"))
		Expect(cfg.OCR.Tesseract).To(Equal("tesseract"))
		Expect(cfg.OCR.Timeout).To(Equal(20 * time.Second))
		Expect(cfg.LLM.Model).To(Equal("gpt-4o"))
		Expect(cfg.Limits.FreeReceipts).To(Equal(10))
	})

	It("should read overrides from the environment", func() {
		GinkgoT().Setenv("ADDR", ":8080")
		GinkgoT().Setenv("FREE_RECEIPT_LIMIT", "25")
		GinkgoT().Setenv("OCR_TIMEOUT", "5s")

		cfg := LoadConfig()
		Expect(cfg.Server.Addr).To(Equal(":8080"))
		Expect(cfg.Limits.FreeReceipts).To(Equal(25))
		Expect(cfg.OCR.Timeout).To(Equal(5 * time.Second))
	})

	It("should ignore unparseable numeric overrides", func() {
		GinkgoT().Setenv("FREE_RECEIPT_LIMIT", "lots")
		Expect(LoadConfig().Limits.FreeReceipts).To(Equal(10))
	})
})

var _ = Describe("Config.Validate", func() {
	var cfg *Config

	BeforeEach(func() {
		cfg = LoadConfig()
	})

	It("should pass for the defaults", func() {
		Expect(cfg.Validate()).To(Succeed())
	})

	It("should reject a missing database DSN", func() {
		cfg.Database.DSN = ""
		Expect(cfg.Validate()).NotTo(Succeed())
	})

	It("should reject a non-positive free limit", func() {
		cfg.Limits.FreeReceipts = 0
		Expect(cfg.Validate()).NotTo(Succeed())
	})
})

var _ = Describe("AppError", func() {
	It("should format code and message", func() {
		err := NewAppError("PERSIST_FAILED", "saving receipt", nil)
		Expect(err.Error()).To(Equal("PERSIST_FAILED: saving receipt"))
	})

	It("should include and unwrap the cause", func() {
		err := NewAppError("CONFIG_ERROR", "ADDR is required", ErrInvalidInput)
		Expect(err.Error()).To(ContainSubstring("invalid input"))
		Expect(errors.Is(err, ErrInvalidInput)).To(BeTrue())
	})
})

var _ = Describe("WrapError", func() {
	It("should pass nil through", func() {
		Expect(WrapError(nil, "context")).To(Succeed())
	})

	It("should keep the original error in the chain", func() {
		err := WrapError(ErrNotFound, "resolving user")
		Expect(errors.Is(err, ErrNotFound)).To(BeTrue())
		Expect(err.Error()).To(Equal("resolving user: resource not found"))
	})
})
