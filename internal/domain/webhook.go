package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WebhookPayload is the body POSTed to a merchant webhook target.
//
// Amount is a decimal.Decimal so precision survives the encode/decode
// round trip; it marshals as a quoted decimal string.
type WebhookPayload struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Status        string          `json:"status"`
	Amount        decimal.Decimal `json:"amount"`
}

// WebhookEnvelope binds a payload to its delivery target. Envelopes are
// ephemeral: they exist only on the relay topic, never in the store.
type WebhookEnvelope struct {
	WebhookURL string         `json:"webhook_url"`
	Payload    WebhookPayload `json:"payload"`
}
