package handlers

import (
	"errors"
	"io"
	"net/http"

	"tourbook/services/cancellation"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CancellationHandler lets customers request a cancellation.
type CancellationHandler struct {
	Service cancellation.CancellationService
}

// NewCancellationHandler creates a new CancellationHandler.
func NewCancellationHandler(svc cancellation.CancellationService) *CancellationHandler {
	return &CancellationHandler{Service: svc}
}

type cancellationReasonInput struct {
	Reason string `json:"reason" binding:"max=500"`
}

// RequestCancellationHandler marks a transaction and its booking as pending cancellation.
func (h *CancellationHandler) RequestCancellationHandler(c *gin.Context) {
	var input cancellationReasonInput
	if err := bindOptionalJSON(c, &input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	txn, err := h.Service.Request(c.Request.Context(), c.Param("transactionId"), input.Reason)
	if err != nil {
		writeCancellationError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cancellation requested", "transaction": txn})
}

// bindOptionalJSON binds the body when one was sent.
func bindOptionalJSON(c *gin.Context, obj any) error {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func writeCancellationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cancellation.ErrTransactionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "Transaction not found"})
	case errors.Is(err, cancellation.ErrAlreadyRequested),
		errors.Is(err, cancellation.ErrAlreadyResolved),
		errors.Is(err, cancellation.ErrNotRequested):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, cancellation.ErrInvalidRefund):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		getLogger(c).Error("Cancellation update failed", zap.String("transactionId", c.Param("transactionId")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cancellation", "details": err.Error()})
	}
}
