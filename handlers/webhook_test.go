package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	ledgerRepo "tourbook/database/repository/ledger"
	"tourbook/models"
	"tourbook/services/gateway"
	"tourbook/services/notes"
	"tourbook/services/reconcile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const webhookSecret = "rzp_webhook_secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newWebhookRouter(repo *ledgerRepo.MemoryLedgerRepo) (*gin.Engine, *gateway.RazorpayProcessor) {
	processor := gateway.NewRazorpayProcessor(webhookSecret)
	svc := &reconcile.DefaultReconciliationService{
		Ledger:  repo,
		Decoder: notes.MapStringDecoder{},
		Logger:  zap.NewNop(),
	}
	r := gin.New()
	r.POST("/webhook", NewWebhookHandler(processor, svc).HandleWebhook)
	return r, processor
}

func capturedBody(t *testing.T, paymentID string, n map[string]string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"event": "payment.captured",
		"payload": map[string]any{"payment": map[string]any{"entity": map[string]any{
			"id":         paymentID,
			"amount":     210000,
			"currency":   "INR",
			"method":     "upi",
			"created_at": 1748736000,
			"notes":      n,
		}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func scenarioNotes() map[string]string {
	return map[string]string{
		"tourID":              "T1",
		"tourPricePerHead":    "1000",
		"tourActualOccupancy": "50",
		"tourGivenOccupancy":  "2",
		"tourStartDate":       "2025-06-01",
		"GST":                 "100",
		"finalAmount":         "2100",
		"customer":            "map[name:Jane email:jane@x.com phone:999 address:NA]",
		"travelers":           "[map[name:Jane age:30 gender:f]]",
		"tourName":            "Goa",
	}
}

func postWebhook(r *gin.Engine, body []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if signature != "" {
		req.Header.Set(gateway.RazorpaySignatureHeader, signature)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("invalid JSON response %q: %v", w.Body.String(), err)
	}
	return out
}

func TestWebhookSuccessAndReplay(t *testing.T) {
	repo := ledgerRepo.NewMemoryLedgerRepo()
	repo.SeedTour(models.Tour{ID: "T1", ActualOccupancy: 50, RemainingOccupancy: 50})
	r, p := newWebhookRouter(repo)

	body := capturedBody(t, "pay_1", scenarioNotes())
	w := postWebhook(r, body, p.Sign(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", w.Code, w.Body.String())
	}
	resp := decodeBody(t, w)
	if resp["received"] != true || resp["bookingId"] == "" {
		t.Fatalf("unexpected response %v", resp)
	}
	if _, ok := resp["duplicate"]; ok {
		t.Fatalf("first delivery must not be a duplicate: %v", resp)
	}

	w = postWebhook(r, body, p.Sign(body))
	replay := decodeBody(t, w)
	if w.Code != http.StatusOK || replay["duplicate"] != true || replay["bookingId"] != resp["bookingId"] {
		t.Fatalf("unexpected replay response %d %v", w.Code, replay)
	}
	if len(repo.Bookings()) != 1 {
		t.Fatalf("expected 1 booking, got %d", len(repo.Bookings()))
	}
}

func TestWebhookSignatureGate(t *testing.T) {
	repo := ledgerRepo.NewMemoryLedgerRepo()
	r, _ := newWebhookRouter(repo)
	body := capturedBody(t, "pay_1", scenarioNotes())

	for _, sig := range []string{"", "deadbeef", gateway.NewRazorpayProcessor("other").Sign(body)} {
		w := postWebhook(r, body, sig)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("signature %q: status = %d", sig, w.Code)
		}
		if resp := decodeBody(t, w); resp["error"] != "Invalid signature" {
			t.Fatalf("unexpected response %v", resp)
		}
	}
	if len(repo.Bookings()) != 0 || len(repo.Transactions()) != 0 {
		t.Fatal("rejected webhook wrote documents")
	}
}

func TestWebhookIgnoredEvent(t *testing.T) {
	r, p := newWebhookRouter(ledgerRepo.NewMemoryLedgerRepo())
	body := []byte(`{"event":"order.paid","payload":{}}`)

	w := postWebhook(r, body, p.Sign(body))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp := decodeBody(t, w); resp["message"] != "Webhook received but event not handled" {
		t.Fatalf("unexpected response %v", resp)
	}
}

func TestWebhookErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(map[string]string)
		status int
		error  string
	}{
		{"invalid number", func(n map[string]string) { n["tourPricePerHead"] = "abc" }, http.StatusBadRequest, "Invalid numeric values in payment notes"},
		{"missing tour", func(n map[string]string) { delete(n, "tourID") }, http.StatusBadRequest, "Missing required payment data"},
		{"unknown agent", func(n map[string]string) { n["agentID"] = "AG404" }, http.StatusNotFound, "Agent not found"},
	}
	for i, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := ledgerRepo.NewMemoryLedgerRepo()
			r, p := newWebhookRouter(repo)
			n := scenarioNotes()
			tc.mutate(n)
			body := capturedBody(t, fmt.Sprintf("pay_%d", i), n)

			w := postWebhook(r, body, p.Sign(body))
			if w.Code != tc.status {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tc.status, w.Body.String())
			}
			if resp := decodeBody(t, w); resp["error"] != tc.error {
				t.Fatalf("error = %v, want %q", resp["error"], tc.error)
			}
			if len(repo.Bookings()) != 0 {
				t.Fatal("documents written on error")
			}
		})
	}
}

func TestWebhookMalformedPayload(t *testing.T) {
	r, p := newWebhookRouter(ledgerRepo.NewMemoryLedgerRepo())
	body := []byte(`{"event": "payment.captured", "payload":`)

	w := postWebhook(r, body, p.Sign(body))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", w.Code)
	}
}
