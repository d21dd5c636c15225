package gateway

import (
	"encoding/hex"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stripe/stripe-go/v76/webhook"
)

const testSecret = "whsec_test_secret"

const capturedPayload = `{
  "event": "payment.captured",
  "payload": {"payment": {"entity": {
    "id": "pay_123",
    "amount": 210000,
    "currency": "INR",
    "method": "upi",
    "email": "jane@x.com",
    "contact": "+91999",
    "created_at": 1748736000,
    "notes": {"tourID": "T1", "tourPricePerHead": 1000, "customer": "map[name:Jane]", "agentID": null}
  }}}
}`

func TestRazorpayVerifyAndParse(t *testing.T) {
	p := NewRazorpayProcessor(testSecret)
	payload := []byte(capturedPayload)

	event, err := p.VerifyAndParse(payload, p.Sign(payload))
	if err != nil {
		t.Fatalf("VerifyAndParse() error: %v", err)
	}
	if !event.Handled || event.PaymentID != "pay_123" || event.Gateway != ProviderRazorpay {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Amount == nil || *event.Amount != 210000 {
		t.Fatalf("unexpected amount %v", event.Amount)
	}
	if event.CreatedAt == nil || *event.CreatedAt != 1748736000 {
		t.Fatalf("unexpected created_at %v", event.CreatedAt)
	}
	if event.Notes["tourPricePerHead"] != "1000" || event.Notes["customer"] != "map[name:Jane]" {
		t.Fatalf("unexpected notes %#v", event.Notes)
	}
	if _, ok := event.Notes["agentID"]; ok {
		t.Fatal("null notes must be dropped")
	}
}

func TestRazorpayRejectsBadSignature(t *testing.T) {
	p := NewRazorpayProcessor(testSecret)
	payload := []byte(capturedPayload)

	cases := map[string]string{
		"empty":     "",
		"wrong":     NewRazorpayProcessor("other").Sign(payload),
		"truncated": p.Sign(payload)[:10],
		"not hex":   "zzzz",
	}
	for name, sig := range cases {
		if _, err := p.VerifyAndParse(payload, sig); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("%s: expected ErrInvalidSignature, got %v", name, err)
		}
	}

	// A re-serialized body no longer matches the original digest.
	sig := p.Sign(payload)
	if _, err := p.VerifyAndParse([]byte(capturedPayload+" "), sig); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature for modified body, got %v", err)
	}
}

func TestRazorpayIgnoresOtherEvents(t *testing.T) {
	p := NewRazorpayProcessor(testSecret)
	payload := []byte(`{"event":"payment.failed","payload":{"payment":{"entity":{"id":"pay_1"}}}}`)

	event, err := p.VerifyAndParse(payload, p.Sign(payload))
	if err != nil {
		t.Fatalf("VerifyAndParse() error: %v", err)
	}
	if event.Handled || event.EventType != "payment.failed" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestRazorpayEmptyNotesArray(t *testing.T) {
	p := NewRazorpayProcessor(testSecret)
	payload := []byte(`{"event":"payment.captured","payload":{"payment":{"entity":{"id":"pay_1","amount":100,"created_at":1,"notes":[]}}}}`)

	event, err := p.VerifyAndParse(payload, p.Sign(payload))
	if err != nil {
		t.Fatalf("VerifyAndParse() error: %v", err)
	}
	if event.Notes == nil || len(event.Notes) != 0 {
		t.Fatalf("expected empty notes, got %#v", event.Notes)
	}
}

func TestRazorpayMalformedJSON(t *testing.T) {
	p := NewRazorpayProcessor(testSecret)
	payload := []byte(`{"event":`)
	_, err := p.VerifyAndParse(payload, p.Sign(payload))
	if err == nil || errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected decode error, got %v", err)
	}
}

func stripeHeader(payload []byte, secret string) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, secret)
	return fmt.Sprintf("t=%d,v1=%s", now.Unix(), hex.EncodeToString(sig))
}

const stripePayload = `{
  "id": "evt_1",
  "object": "event",
  "type": "payment_intent.succeeded",
  "data": {"object": {
    "id": "pi_123",
    "object": "payment_intent",
    "amount": 210000,
    "amount_received": 210000,
    "currency": "inr",
    "created": 1748736000,
    "payment_method_types": ["card"],
    "receipt_email": "jane@x.com",
    "metadata": {"tourID": "T1", "finalAmount": "2100"}
  }}
}`

func TestStripeVerifyAndParse(t *testing.T) {
	p := NewStripeProcessor(testSecret)
	payload := []byte(stripePayload)

	event, err := p.VerifyAndParse(payload, stripeHeader(payload, testSecret))
	if err != nil {
		t.Fatalf("VerifyAndParse() error: %v", err)
	}
	if !event.Handled || event.PaymentID != "pi_123" || event.Gateway != ProviderStripe {
		t.Fatalf("unexpected event %+v", event)
	}
	if event.Amount == nil || *event.Amount != 210000 || event.CreatedAt == nil || *event.CreatedAt != 1748736000 {
		t.Fatalf("unexpected amount/created %v %v", event.Amount, event.CreatedAt)
	}
	if event.Method != "card" || event.Notes["tourID"] != "T1" {
		t.Fatalf("unexpected event %+v", event)
	}
}

func TestStripeRejectsBadSignature(t *testing.T) {
	p := NewStripeProcessor(testSecret)
	payload := []byte(stripePayload)

	for _, header := range []string{"", "garbage", stripeHeader(payload, "whsec_other")} {
		if _, err := p.VerifyAndParse(payload, header); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("header %q: expected ErrInvalidSignature, got %v", header, err)
		}
	}
}

func TestStripeIgnoresOtherEvents(t *testing.T) {
	p := NewStripeProcessor(testSecret)
	payload := []byte(`{"id":"evt_2","object":"event","type":"charge.refunded","data":{"object":{"id":"ch_1"}}}`)

	event, err := p.VerifyAndParse(payload, stripeHeader(payload, testSecret))
	if err != nil {
		t.Fatalf("VerifyAndParse() error: %v", err)
	}
	if event.Handled {
		t.Fatalf("expected unhandled event, got %+v", event)
	}
}
