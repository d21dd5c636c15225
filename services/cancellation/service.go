// Package cancellation implements the customer cancellation request and the
// admin approve/reject flow on recorded transactions.
package cancellation

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerRepo "tourbook/database/repository/ledger"
	"tourbook/models"

	"go.uber.org/zap"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrAlreadyRequested    = errors.New("cancellation already requested")
	ErrAlreadyResolved     = errors.New("cancellation already resolved")
	ErrNotRequested        = errors.New("cancellation was not requested")
	ErrInvalidRefund       = errors.New("refund amount must be between 0 and the final amount")
)

// CancellationService manages the cancellation lifecycle of a transaction.
type CancellationService interface {
	Request(ctx context.Context, transactionID, reason string) (*models.Transaction, error)
	// Approve cancels the booking. A nil refundAmount refunds the full final amount.
	Approve(ctx context.Context, transactionID string, refundAmount *float64) (*models.Transaction, error)
	Reject(ctx context.Context, transactionID, reason string) (*models.Transaction, error)
	ListPending(ctx context.Context) ([]models.Transaction, error)
}

// DefaultCancellationService implements CancellationService.
type DefaultCancellationService struct {
	Ledger ledgerRepo.LedgerRepository
	Logger *zap.Logger
	Now    func() time.Time
}

func (s *DefaultCancellationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultCancellationService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

// mutate loads the transaction and its booking, applies fn and saves both in one store transaction.
func (s *DefaultCancellationService) mutate(ctx context.Context, transactionID string, fn func(txn *models.Transaction, booking *models.Booking, now time.Time) error) (*models.Transaction, error) {
	var result *models.Transaction
	err := s.Ledger.RunInTransaction(ctx, func(ctx context.Context, tx ledgerRepo.LedgerTx) error {
		txn, err := tx.FindTransactionByPaymentID(ctx, transactionID)
		if errors.Is(err, ledgerRepo.ErrNotFound) {
			return ErrTransactionNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to load transaction: %w", err)
		}
		booking, err := tx.FindBookingByID(ctx, txn.BookingID)
		if err != nil {
			return fmt.Errorf("failed to load booking %s: %w", txn.BookingID, err)
		}

		if err := fn(txn, booking, s.now()); err != nil {
			return err
		}

		if err := tx.UpdateTransaction(ctx, txn); err != nil {
			return fmt.Errorf("failed to update transaction: %w", err)
		}
		if err := tx.UpdateBooking(ctx, booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		result = txn
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *DefaultCancellationService) Request(ctx context.Context, transactionID, reason string) (*models.Transaction, error) {
	txn, err := s.mutate(ctx, transactionID, func(txn *models.Transaction, booking *models.Booking, now time.Time) error {
		if txn.Cancellation.Resolved() {
			return ErrAlreadyResolved
		}
		if txn.Cancellation.Requested {
			return ErrAlreadyRequested
		}
		txn.Cancellation.Requested = true
		txn.Cancellation.Reason = reason
		txn.Cancellation.RequestedAt = &now
		booking.Cancellation.Requested = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("Cancellation requested", zap.String("transactionId", transactionID), zap.String("reason", reason))
	return txn, nil
}

func (s *DefaultCancellationService) Approve(ctx context.Context, transactionID string, refundAmount *float64) (*models.Transaction, error) {
	txn, err := s.mutate(ctx, transactionID, func(txn *models.Transaction, booking *models.Booking, now time.Time) error {
		if err := checkPending(txn.Cancellation); err != nil {
			return err
		}
		refund := txn.FinalAmount
		if refundAmount != nil {
			refund = *refundAmount
		}
		if refund < 0 || refund > txn.FinalAmount {
			return ErrInvalidRefund
		}

		txn.Cancellation.Approved = true
		txn.Cancellation.ResolvedAt = &now
		txn.RefundAmount = refund
		txn.RefundStatus = models.RefundStatusPending
		if refund == 0 {
			txn.RefundStatus = models.RefundStatusNone
		}

		booking.Status = models.BookingStatusCancelled
		booking.Cancellation.Approved = true
		booking.Cancellation.RefundAmount = refund
		booking.Cancellation.CancelledAt = &now
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("Cancellation approved",
		zap.String("transactionId", transactionID),
		zap.String("bookingId", txn.BookingID),
		zap.Float64("refundAmount", txn.RefundAmount))
	return txn, nil
}

func (s *DefaultCancellationService) Reject(ctx context.Context, transactionID, reason string) (*models.Transaction, error) {
	txn, err := s.mutate(ctx, transactionID, func(txn *models.Transaction, booking *models.Booking, now time.Time) error {
		if err := checkPending(txn.Cancellation); err != nil {
			return err
		}
		txn.Cancellation.Rejected = true
		txn.Cancellation.ResolvedAt = &now
		if reason != "" {
			txn.Cancellation.Reason = reason
		}
		booking.Cancellation.Requested = false
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger().Info("Cancellation rejected", zap.String("transactionId", transactionID), zap.String("reason", reason))
	return txn, nil
}

func (s *DefaultCancellationService) ListPending(ctx context.Context) ([]models.Transaction, error) {
	txns, err := s.Ledger.ListPendingCancellations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending cancellations: %w", err)
	}
	return txns, nil
}

func checkPending(c models.Cancellation) error {
	if c.Resolved() {
		return ErrAlreadyResolved
	}
	if !c.Requested {
		return ErrNotRequested
	}
	return nil
}
