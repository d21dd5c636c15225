// Package gateway verifies payment-gateway webhooks and normalizes captured
// payments into a CaptureEvent.
package gateway

import (
	"encoding/json"
	"errors"
)

// ErrInvalidSignature is returned when the webhook signature does not match the payload.
var ErrInvalidSignature = errors.New("invalid signature")

// Supported gateways.
const (
	ProviderRazorpay = "razorpay"
	ProviderStripe   = "stripe"
)

// Processor authenticates a raw webhook body and maps it onto a CaptureEvent.
// The payload must be the exact bytes received; it is only decoded after the
// signature has been accepted.
type Processor interface {
	Provider() string
	SignatureHeader() string
	VerifyAndParse(payload []byte, signature string) (*CaptureEvent, error)
}

// CaptureEvent is a gateway-neutral view of a payment webhook.
type CaptureEvent struct {
	Gateway   string
	EventType string
	// Handled is false for event types that are acknowledged but ignored.
	Handled bool

	PaymentID string
	// Amount is in minor currency units (paise/cents).
	Amount *int64
	// CreatedAt is a Unix timestamp in seconds.
	CreatedAt *int64
	Method    string
	Currency  string
	Email     string
	Contact   string

	// Notes is nil when the gateway sent no notes at all.
	Notes map[string]string
	Raw   json.RawMessage
}
