package handlers

import (
	"errors"
	"net/http"

	"tourbook/services/gateway"
	"tourbook/services/reconcile"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// WebhookHandler receives payment gateway webhooks.
type WebhookHandler struct {
	Processor  gateway.Processor
	Reconciler reconcile.ReconciliationService
}

// NewWebhookHandler creates a new WebhookHandler.
func NewWebhookHandler(p gateway.Processor, r reconcile.ReconciliationService) *WebhookHandler {
	return &WebhookHandler{
		Processor:  p,
		Reconciler: r,
	}
}

// HandleWebhook verifies the raw body, ignores non-capture events and
// reconciles captured payments.
func (h *WebhookHandler) HandleWebhook(c *gin.Context) {
	logger := getLogger(c).With(zap.String("gateway", h.Processor.Provider()))

	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read request body"})
		return
	}

	event, err := h.Processor.VerifyAndParse(payload, c.GetHeader(h.Processor.SignatureHeader()))
	if errors.Is(err, gateway.ErrInvalidSignature) {
		logger.Warn("Webhook signature verification failed", zap.String("ip", c.ClientIP()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid signature"})
		return
	}
	if err != nil {
		logger.Warn("Invalid webhook payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid webhook payload", "details": err.Error()})
		return
	}

	if !event.Handled {
		logger.Info("Webhook event ignored", zap.String("event", event.EventType))
		c.JSON(http.StatusOK, gin.H{"message": "Webhook received but event not handled"})
		return
	}

	outcome, err := h.Reconciler.Reconcile(c.Request.Context(), event)
	if err != nil {
		var verr *reconcile.ValidationError
		switch {
		case errors.As(err, &verr):
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "details": verr.Details})
		case errors.Is(err, reconcile.ErrAgentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Agent not found"})
		default:
			logger.Error("Failed to process webhook",
				zap.String("paymentId", event.PaymentID),
				zap.ByteString("payload", payload),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process webhook", "details": err.Error()})
		}
		return
	}

	resp := gin.H{"received": true, "bookingId": outcome.BookingID}
	if outcome.Duplicate {
		resp["duplicate"] = true
	}
	c.JSON(http.StatusOK, resp)
}
