package models

import "encoding/json"

// RazorpayWebhook is the gateway event envelope.
type RazorpayWebhook struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity RazorpayPayment `json:"entity"`
		} `json:"payment"`
	} `json:"payload"`
}

// RazorpayPayment is the payment entity. Notes is kept raw because the
// gateway sends an empty array instead of an empty object.
type RazorpayPayment struct {
	ID        string          `json:"id"`
	Amount    *int64          `json:"amount"`
	Currency  string          `json:"currency"`
	Status    string          `json:"status"`
	Method    string          `json:"method"`
	Email     string          `json:"email"`
	Contact   string          `json:"contact"`
	CreatedAt *int64          `json:"created_at"`
	Notes     json.RawMessage `json:"notes"`
}
