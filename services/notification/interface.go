package notification

import (
	"context"
	"fmt"
	"strings"

	"tourbook/models"

	"go.uber.org/zap"
)

// NotificationService delivers customer-facing booking messages.
type NotificationService interface {
	SendBookingConfirmation(ctx context.Context, p models.BookingConfirmationPayload) error
}

// DefaultNotificationService renders the confirmation and hands it to the
// structured log. Delivery channels plug in behind the same interface.
type DefaultNotificationService struct {
	Logger *zap.Logger
}

func NewDefaultNotificationService(logger *zap.Logger) (*DefaultNotificationService, error) {
	if logger == nil {
		return nil, fmt.Errorf("notification service initialization error: logger is nil")
	}
	return &DefaultNotificationService{Logger: logger}, nil
}

func (s *DefaultNotificationService) SendBookingConfirmation(ctx context.Context, p models.BookingConfirmationPayload) error {
	if p.BookingID == "" {
		return fmt.Errorf("SendBookingConfirmation: booking id is empty")
	}
	title, body := RenderBookingConfirmation(p)
	s.Logger.Info("Booking confirmation sent",
		zap.String("bookingId", p.BookingID),
		zap.String("email", p.CustomerEmail),
		zap.String("phone", p.CustomerPhone),
		zap.String("title", title),
		zap.String("body", body))
	return nil
}

// RenderBookingConfirmation builds the message title and body.
func RenderBookingConfirmation(p models.BookingConfirmationPayload) (string, string) {
	tour := p.TourName
	if strings.TrimSpace(tour) == "" {
		tour = "your tour"
	}
	title := fmt.Sprintf("Booking %s confirmed", p.BookingID)

	var b strings.Builder
	fmt.Fprintf(&b, "Hi %s, your booking for %s", p.CustomerName, tour)
	if p.TourStartDate != "" {
		fmt.Fprintf(&b, " starting %s", p.TourStartDate)
	}
	fmt.Fprintf(&b, " is confirmed for %d traveler", p.Travelers)
	if p.Travelers != 1 {
		b.WriteString("s")
	}
	fmt.Fprintf(&b, ". Amount paid: %.2f.", p.PaidAmount)
	return title, b.String()
}
