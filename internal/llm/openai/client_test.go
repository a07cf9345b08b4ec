package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptly/receiptly/internal/llm"
)

func TestOpenAI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "OpenAI Suite")
}

func chatReply(content string) string {
	b, _ := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"content": content}},
		},
	})
	return string(b)
}

var _ = Describe("Config.Configured", func() {
	It("should be false for an empty key", func() {
		Expect(Config{}.Configured()).To(BeFalse())
	})

	It("should be false for the placeholder key", func() {
		Expect(Config{APIKey: PlaceholderAPIKey}.Configured()).To(BeFalse())
	})

	It("should be true for a real key", func() {
		Expect(Config{APIKey: "sk-test"}.Configured()).To(BeTrue())
	})
})

var _ = Describe("Client.ExtractFields", func() {
	var (
		replyStatus int
		replyBody   string
		gotAuth     string
		gotReq      map[string]any

		fields llm.ReceiptFields
		err    error
	)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	BeforeEach(func() {
		replyStatus = http.StatusOK
		replyBody = chatReply(`{"vendor":"Uber","amount":25.5,"currency":"USD","date":"2025-03-14","category":"Travel","tax":2.5}`)
		gotAuth = ""
		gotReq = nil
	})

	JustBeforeEach(func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotAuth = r.Header.Get("Authorization")
			_ = json.NewDecoder(r.Body).Decode(&gotReq)
			w.WriteHeader(replyStatus)
			_, _ = w.Write([]byte(replyBody))
		}))
		DeferCleanup(srv.Close)

		client := NewClient(Config{APIKey: "sk-test", BaseURL: srv.URL, Model: "gpt-4o"}, logger)
		fields, _, err = client.ExtractFields(context.Background(), llm.ExtractRequest{
			OCRText:           "Uber\nTrip fare: $25.50",
			AllowedCategories: []string{"Food", "Travel", "Office", "Entertainment", "Other"},
			DefaultCurrency:   "USD",
		})
	})

	When("the model answers with valid JSON", func() {
		It("should decode every field", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(*fields.Vendor).To(Equal("Uber"))
			Expect(*fields.Amount).To(Equal(25.5))
			Expect(*fields.Category).To(Equal("Travel"))
		})

		It("should send the bearer credential", func() {
			Expect(gotAuth).To(Equal("Bearer sk-test"))
		})

		It("should request a JSON object response", func() {
			format := gotReq["response_format"].(map[string]any)
			Expect(format["type"]).To(Equal("json_object"))
		})

		It("should pass the configured model", func() {
			Expect(gotReq["model"]).To(Equal("gpt-4o"))
		})
	})

	When("the reply wraps the object in a markdown fence", func() {
		BeforeEach(func() {
			replyBody = chatReply("```json\n{\"vendor\":\"Uber\",\"amount\":25.5,\"currency\":\"USD\",\"date\":\"2025-03-14\",\"category\":\"Travel\",\"tax\":2.5}\n```")
		})

		It("should still decode the fields", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(*fields.Vendor).To(Equal("Uber"))
		})
	})

	When("the reply uses nulls for unknowns", func() {
		BeforeEach(func() {
			replyBody = chatReply(`{"vendor":null,"amount":null,"currency":null,"date":null,"category":null,"tax":null}`)
		})

		It("should leave the pointers nil", func() {
			Expect(err).NotTo(HaveOccurred())
			Expect(fields.Vendor).To(BeNil())
			Expect(fields.Amount).To(BeNil())
		})
	})

	When("the API returns an error status", func() {
		BeforeEach(func() {
			replyStatus = http.StatusTooManyRequests
			replyBody = `{"error": {"message": "rate limited"}}`
		})

		It("should surface the status", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("429"))
		})
	})

	When("the reply has no choices", func() {
		BeforeEach(func() {
			replyBody = `{"choices": []}`
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})

	When("the reply violates the schema", func() {
		BeforeEach(func() {
			replyBody = chatReply(`{"vendor":"Uber","amount":"25.50","currency":null,"date":null,"category":null,"tax":null}`)
		})

		It("should reject it", func() {
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("schema"))
		})
	})

	When("the reply has no JSON at all", func() {
		BeforeEach(func() {
			replyBody = chatReply("Sorry, I cannot read this receipt.")
		})

		It("should return an error", func() {
			Expect(err).To(HaveOccurred())
		})
	})
})
