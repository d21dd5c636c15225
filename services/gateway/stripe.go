package gateway

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"
)

const (
	StripeSignatureHeader = "Stripe-Signature"
	StripeEventSucceeded  = "payment_intent.succeeded"
)

// StripeProcessor verifies Stripe webhooks and maps succeeded payment intents
// onto captures. Booking context is read from the intent's metadata.
type StripeProcessor struct {
	secret string
}

func NewStripeProcessor(secret string) *StripeProcessor {
	return &StripeProcessor{secret: secret}
}

func (p *StripeProcessor) Provider() string {
	return ProviderStripe
}

func (p *StripeProcessor) SignatureHeader() string {
	return StripeSignatureHeader
}

func (p *StripeProcessor) VerifyAndParse(payload []byte, signature string) (*CaptureEvent, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		if isStripeSignatureError(err) {
			return nil, ErrInvalidSignature
		}
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	capture := &CaptureEvent{
		Gateway:   ProviderStripe,
		EventType: string(event.Type),
		Raw:       json.RawMessage(payload),
	}
	if string(event.Type) != StripeEventSucceeded || event.Data == nil {
		return capture, nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		return nil, fmt.Errorf("invalid payment intent: %w", err)
	}

	amount := pi.AmountReceived
	if amount <= 0 {
		amount = pi.Amount
	}
	created := pi.Created

	capture.Handled = true
	capture.PaymentID = pi.ID
	capture.Amount = &amount
	if created > 0 {
		capture.CreatedAt = &created
	}
	capture.Currency = string(pi.Currency)
	capture.Email = pi.ReceiptEmail
	if len(pi.PaymentMethodTypes) > 0 {
		capture.Method = pi.PaymentMethodTypes[0]
	}
	if pi.Metadata != nil {
		capture.Notes = pi.Metadata
	}
	return capture, nil
}

func isStripeSignatureError(err error) bool {
	return errors.Is(err, webhook.ErrNotSigned) ||
		errors.Is(err, webhook.ErrInvalidHeader) ||
		errors.Is(err, webhook.ErrNoValidSignature) ||
		errors.Is(err, webhook.ErrTooOld)
}
