package handlers

import (
	"errors"
	"net/http"

	ledgerRepo "tourbook/database/repository/ledger"
	"tourbook/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves read-only views of reconciled data.
type BookingHandler struct {
	Ledger ledgerRepo.LedgerRepository
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(ledger ledgerRepo.LedgerRepository) *BookingHandler {
	return &BookingHandler{Ledger: ledger}
}

// GetBookingHandler returns a booking by its booking id.
func (h *BookingHandler) GetBookingHandler(c *gin.Context) {
	bookingID := c.Param("bookingId")
	booking, err := h.Ledger.GetBookingByID(c.Request.Context(), bookingID)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}
	if err != nil {
		getLogger(c).Error("Failed to fetch booking", zap.String("bookingId", bookingID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch booking"})
		return
	}
	c.JSON(http.StatusOK, booking)
}

// GetAgentStatsHandler returns every tour aggregate of an agent.
func (h *BookingHandler) GetAgentStatsHandler(c *gin.Context) {
	agentID := c.Param("agentId")
	stats, err := h.Ledger.ListAgentTourStats(c.Request.Context(), agentID)
	if err != nil {
		getLogger(c).Error("Failed to fetch agent stats", zap.String("agentId", agentID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch agent stats"})
		return
	}
	if stats == nil {
		stats = []models.AgentTourStats{}
	}
	c.JSON(http.StatusOK, gin.H{"agentId": agentID, "stats": stats})
}
