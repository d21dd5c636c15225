package handlers

import (
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Webhook endpoints. StripeWebhookHandler is nil when Stripe is not configured.
	RazorpayWebhookHandler gin.HandlerFunc
	StripeWebhookHandler   gin.HandlerFunc

	// Read endpoints
	GetBookingHandler    gin.HandlerFunc
	GetAgentStatsHandler gin.HandlerFunc

	// Cancellation endpoints
	RequestCancellationHandler gin.HandlerFunc

	// Admin endpoints
	AdminHandler *AdminHandler
}
