package models

import (
	"database/sql"
	"encoding/json"
	"time"
)

// Order status lifecycle. Transitions only ever move forward:
// processing -> paid -> generating -> completed, with failed as the
// terminal alternate branch. Completed and failed orders are never
// re-opened.
const (
	OrderStatusProcessing = "processing"
	OrderStatusPaid       = "paid"
	OrderStatusGenerating = "generating"
	OrderStatusCompleted  = "completed"
	OrderStatusFailed     = "failed"
)

const (
	TierDigital = "digital"
	TierPrinted = "printed"
)

type Order struct {
	ID                    string
	UserEmail             string
	Tier                  string
	Status                string
	ImageData             json.RawMessage
	StripeSessionID       string
	StripePaymentIntentID sql.NullString
	PDFURL                sql.NullString
	ErrorMessage          sql.NullString
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

type Subscriber struct {
	Email        string
	SubscribedAt time.Time
	Source       string
}
