package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/receiptly/receiptly/constants"
)

// ExtractedReceipt is the normalized result of field extraction. Every field
// is always populated: absence of information is replaced by a documented
// default, never by a zero-length or null value. The record is a value type;
// it is handed to persistence once and never mutated afterwards.
type ExtractedReceipt struct {
	Vendor   string             `json:"vendor"`   // "Unknown Vendor" when undeterminable
	Amount   float64            `json:"amount"`   // non-negative; 0.0 when undeterminable
	Currency string             `json:"currency"` // ISO-like code, USD default
	Date     string             `json:"date"`     // YYYY-MM-DD, processing date default
	Category constants.Category `json:"category"` // coerced to Other when unrecognized
	Tax      float64            `json:"tax"`      // non-negative; 0.0 default
}

// Receipt is a persisted receipt row owned by a user.
type Receipt struct {
	ID        uuid.UUID          `json:"id"`
	UserID    uuid.UUID          `json:"user_id"`
	Filename  string             `json:"filename"`
	Vendor    string             `json:"vendor"`
	Amount    float64            `json:"amount"`
	Currency  string             `json:"currency"`
	Date      string             `json:"date"`
	Category  constants.Category `json:"category"`
	Tax       float64            `json:"tax"`
	CreatedAt time.Time          `json:"created_at"`
}

// User is an email-identified account with a usage tier.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Plan         string    `json:"plan"` // "free" | "pro"
	ReceiptCount int       `json:"receipt_count"`
	CreatedAt    time.Time `json:"created_at"`
}

const (
	PlanFree = "free"
	PlanPro  = "pro"
)

// Fields returns the extracted portion of a persisted receipt, the canonical
// record shape shared by the extractor, storage, and export paths.
func (r *Receipt) Fields() ExtractedReceipt {
	return ExtractedReceipt{
		Vendor:   r.Vendor,
		Amount:   r.Amount,
		Currency: r.Currency,
		Date:     r.Date,
		Category: r.Category,
		Tax:      r.Tax,
	}
}
