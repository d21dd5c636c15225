package notification

import (
	"context"
	"testing"

	"tourbook/models"

	"go.uber.org/zap"
)

func TestRenderBookingConfirmation(t *testing.T) {
	title, body := RenderBookingConfirmation(models.BookingConfirmationPayload{
		BookingID:     "BKG-1",
		CustomerName:  "Jane",
		TourName:      "Goa",
		TourStartDate: "2025-06-01",
		Travelers:     2,
		PaidAmount:    2100,
	})
	if title != "Booking BKG-1 confirmed" {
		t.Fatalf("title = %q", title)
	}
	want := "Hi Jane, your booking for Goa starting 2025-06-01 is confirmed for 2 travelers. Amount paid: 2100.00."
	if body != want {
		t.Fatalf("body = %q, want %q", body, want)
	}
}

func TestSendBookingConfirmationRequiresBookingID(t *testing.T) {
	svc, err := NewDefaultNotificationService(zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	if err := svc.SendBookingConfirmation(context.Background(), models.BookingConfirmationPayload{}); err == nil {
		t.Fatal("expected error for empty booking id")
	}
	if err := svc.SendBookingConfirmation(context.Background(), models.BookingConfirmationPayload{BookingID: "BKG-1", Travelers: 1}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
