package handlers

import (
	"net/http"

	"tourbook/models"
	"tourbook/services/cancellation"
	"tourbook/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminHandler encapsulates elevated admin-level operations.
type AdminHandler struct {
	CancellationService cancellation.CancellationService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(cs cancellation.CancellationService) *AdminHandler {
	return &AdminHandler{
		CancellationService: cs,
	}
}

type approveCancellationInput struct {
	RefundAmount *float64 `json:"refundAmount" binding:"omitempty,gte=0"`
}

// ApproveCancellationHandler approves a pending cancellation and sets the refund.
func (ah *AdminHandler) ApproveCancellationHandler(c *gin.Context) {
	var input approveCancellationInput
	if err := bindOptionalJSON(c, &input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	txn, err := ah.CancellationService.Approve(c.Request.Context(), c.Param("transactionId"), input.RefundAmount)
	if err != nil {
		writeCancellationError(c, err)
		return
	}
	zap.L().Info("Admin approved cancellation", zap.String("admin", c.GetString("adminID")), zap.String("transactionId", txn.TransactionID))
	c.JSON(http.StatusOK, gin.H{"message": "Cancellation approved", "transaction": txn})
}

// RejectCancellationHandler rejects a pending cancellation.
func (ah *AdminHandler) RejectCancellationHandler(c *gin.Context) {
	var input cancellationReasonInput
	if err := bindOptionalJSON(c, &input); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid input", err.Error())
		return
	}

	txn, err := ah.CancellationService.Reject(c.Request.Context(), c.Param("transactionId"), input.Reason)
	if err != nil {
		writeCancellationError(c, err)
		return
	}
	zap.L().Info("Admin rejected cancellation", zap.String("admin", c.GetString("adminID")), zap.String("transactionId", txn.TransactionID))
	c.JSON(http.StatusOK, gin.H{"message": "Cancellation rejected", "transaction": txn})
}

// GetPendingCancellationsHandler lists cancellations awaiting a decision.
func (ah *AdminHandler) GetPendingCancellationsHandler(c *gin.Context) {
	txns, err := ah.CancellationService.ListPending(c.Request.Context())
	if err != nil {
		zap.L().Error("Failed to fetch pending cancellations", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cancellations"})
		return
	}
	if txns == nil {
		txns = []models.Transaction{}
	}
	c.JSON(http.StatusOK, txns)
}
