package gateway

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"tourbook/models"
)

const (
	RazorpaySignatureHeader = "X-Razorpay-Signature"
	RazorpayEventCaptured   = "payment.captured"
)

// RazorpayProcessor verifies HMAC-SHA256 signed Razorpay webhooks.
type RazorpayProcessor struct {
	secret string
}

func NewRazorpayProcessor(secret string) *RazorpayProcessor {
	return &RazorpayProcessor{secret: secret}
}

func (p *RazorpayProcessor) Provider() string {
	return ProviderRazorpay
}

func (p *RazorpayProcessor) SignatureHeader() string {
	return RazorpaySignatureHeader
}

// Sign returns the hex HMAC-SHA256 digest of payload.
func (p *RazorpayProcessor) Sign(payload []byte) string {
	mac := hmac.New(sha256.New, []byte(p.secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature compares the expected digest with signature in constant time.
func (p *RazorpayProcessor) VerifySignature(payload []byte, signature string) bool {
	expected := p.Sign(payload)
	return hmac.Equal([]byte(expected), []byte(strings.TrimSpace(signature)))
}

func (p *RazorpayProcessor) VerifyAndParse(payload []byte, signature string) (*CaptureEvent, error) {
	if signature == "" || !p.VerifySignature(payload, signature) {
		return nil, ErrInvalidSignature
	}

	var envelope models.RazorpayWebhook
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("invalid webhook payload: %w", err)
	}

	event := &CaptureEvent{
		Gateway:   ProviderRazorpay,
		EventType: envelope.Event,
		Raw:       json.RawMessage(payload),
	}
	if envelope.Event != RazorpayEventCaptured {
		return event, nil
	}

	entity := envelope.Payload.Payment.Entity
	notes, err := decodeRazorpayNotes(entity.Notes)
	if err != nil {
		return nil, fmt.Errorf("invalid payment notes: %w", err)
	}

	event.Handled = true
	event.PaymentID = entity.ID
	event.Amount = entity.Amount
	event.CreatedAt = entity.CreatedAt
	event.Method = entity.Method
	event.Currency = entity.Currency
	event.Email = entity.Email
	event.Contact = entity.Contact
	event.Notes = notes
	return event, nil
}

// decodeRazorpayNotes flattens the notes object into strings. Razorpay sends
// an empty array instead of an object when no notes were set.
func decodeRazorpayNotes(raw json.RawMessage) (map[string]string, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		return map[string]string{}, nil
	}

	var fields map[string]any
	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, err
	}

	notes := make(map[string]string, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case nil:
			continue
		case string:
			notes[k] = val
		case json.Number:
			notes[k] = val.String()
		default:
			notes[k] = fmt.Sprint(val)
		}
	}
	return notes, nil
}
