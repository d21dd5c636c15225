package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	ledgerRepo "tourbook/database/repository/ledger"
	"tourbook/models"
	"tourbook/services/commission"
	"tourbook/services/gateway"
	"tourbook/services/notes"
	"tourbook/services/tasks"
	"tourbook/utils"

	"go.uber.org/zap"
)

const (
	defaultLockTTL    = 30 * time.Second
	paymentStatusPaid = "paid"
)

// DefaultReconciliationService implements ReconciliationService.
type DefaultReconciliationService struct {
	Ledger  ledgerRepo.LedgerRepository
	Decoder notes.Decoder
	// Locker and Tasks are optional.
	Locker  Locker
	LockTTL time.Duration
	Tasks   TaskEnqueuer
	Logger  *zap.Logger
	Now     func() time.Time
}

func (s *DefaultReconciliationService) logger() *zap.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return zap.L()
}

func (s *DefaultReconciliationService) decoder() notes.Decoder {
	if s.Decoder != nil {
		return s.Decoder
	}
	return notes.MapStringDecoder{}
}

func (s *DefaultReconciliationService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Reconcile records a captured payment. Every write happens in one store
// transaction; a payment id that was already recorded returns the original
// booking with Duplicate set.
func (s *DefaultReconciliationService) Reconcile(ctx context.Context, event *gateway.CaptureEvent) (*Outcome, error) {
	if event == nil || !event.Handled {
		return nil, errors.New("event is not a payment capture")
	}

	in, err := s.extract(event)
	if err != nil {
		return nil, err
	}

	release := s.acquire(ctx, in.PaymentID)
	defer release()

	var (
		outcome *Outcome
		booking *models.Booking
	)
	err = s.Ledger.RunInTransaction(ctx, func(ctx context.Context, tx ledgerRepo.LedgerTx) error {
		outcome, booking = nil, nil

		existing, err := tx.FindTransactionByPaymentID(ctx, in.PaymentID)
		if err == nil {
			outcome = duplicateOutcome(existing)
			return nil
		}
		if !errors.Is(err, ledgerRepo.ErrNotFound) {
			return fmt.Errorf("failed to check existing transaction: %w", err)
		}

		if in.AgentID == "" {
			outcome, booking, err = s.recordDirect(ctx, tx, in)
		} else {
			outcome, booking, err = s.recordReferred(ctx, tx, in)
		}
		return err
	})
	if errors.Is(err, ledgerRepo.ErrDuplicateTransaction) {
		existing, getErr := s.Ledger.GetTransactionByPaymentID(ctx, in.PaymentID)
		if getErr != nil {
			return nil, fmt.Errorf("failed to load duplicate transaction: %w", getErr)
		}
		outcome, booking, err = duplicateOutcome(existing), nil, nil
	}
	if err != nil {
		var verr *ValidationError
		if !errors.As(err, &verr) && !errors.Is(err, ErrAgentNotFound) {
			s.logger().Error("Reconciliation failed; nothing was committed",
				zap.String("paymentId", in.PaymentID),
				zap.Any("notes", event.Notes),
				zap.Any("customer", in.Customer),
				zap.Any("travelers", in.Travelers),
				zap.Error(err))
		}
		return nil, err
	}

	if outcome.Duplicate {
		s.logger().Info("Payment already reconciled",
			zap.String("paymentId", in.PaymentID),
			zap.String("bookingId", outcome.BookingID))
		return outcome, nil
	}

	s.logger().Info("Payment reconciled",
		zap.String("paymentId", in.PaymentID),
		zap.String("bookingId", outcome.BookingID),
		zap.String("tourId", in.TourID),
		zap.String("agentId", in.AgentID),
		zap.Int("commissionLines", len(outcome.Commissions)),
		zap.Bool("tourMissing", outcome.TourMissing))

	s.enqueueConfirmation(booking, in.TourStartDate)
	return outcome, nil
}

func duplicateOutcome(existing *models.Transaction) *Outcome {
	return &Outcome{
		BookingID:     existing.BookingID,
		TransactionID: existing.TransactionID,
		Duplicate:     true,
		Commissions:   existing.Commissions,
	}
}

// acquire takes the per-payment lock. Lock failures are logged and the run
// continues; the unique transaction index still rejects duplicates.
func (s *DefaultReconciliationService) acquire(ctx context.Context, paymentID string) func() {
	if s.Locker == nil {
		return func() {}
	}
	ttl := s.LockTTL
	if ttl <= 0 {
		ttl = defaultLockTTL
	}
	release, err := s.Locker.Obtain(ctx, utils.WebhookLockPrefix+paymentID, ttl)
	if err != nil {
		s.logger().Warn("Could not obtain payment lock; proceeding without lock",
			zap.String("paymentId", paymentID), zap.Error(err))
		return func() {}
	}
	return release
}

func (s *DefaultReconciliationService) newBooking(in *captureInput, now time.Time) *models.Booking {
	return &models.Booking{
		BookingID:   nextBookingID(now),
		Status:      models.BookingStatusConfirmed,
		BookingDate: now,
		Tour:        models.BookingTour{TourID: in.TourID, Name: in.TourName},
		Customer:    in.Customer,
		Travelers:   in.Travelers,
		Payment: models.BookingPayment{
			TotalAmount:   in.FinalAmount,
			PaidAmount:    in.PaidAmount,
			Status:        paymentStatusPaid,
			Method:        in.PaymentMethod,
			TransactionID: in.PaymentID,
			PaymentDate:   in.PaymentDate,
			Breakdown: models.PaymentBreakdown{
				BasePrice:   in.PricePerHead * float64(in.GivenOccupancy),
				GST:         in.GST,
				FinalAmount: in.FinalAmount,
			},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *DefaultReconciliationService) newTransaction(in *captureInput, bookingID string, now time.Time) *models.Transaction {
	return &models.Transaction{
		TourID:              in.TourID,
		CustomerEmail:       in.Customer.Email,
		TransactionID:       in.PaymentID,
		BookingID:           bookingID,
		Gateway:             in.Gateway,
		TourPricePerHead:    in.PricePerHead,
		TourActualOccupancy: in.ActualOccupancy,
		TourGivenOccupancy:  in.GivenOccupancy,
		TourStartDate:       in.TourStartDate,
		Commissions:         []models.CommissionRecord{},
		FinalAmount:         in.FinalAmount,
		RefundStatus:        models.RefundStatusNone,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
}

func (s *DefaultReconciliationService) recordDirect(ctx context.Context, tx ledgerRepo.LedgerTx, in *captureInput) (*Outcome, *models.Booking, error) {
	now := s.now()
	booking := s.newBooking(in, now)
	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, nil, err
	}

	txn := s.newTransaction(in, booking.BookingID, now)
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return nil, nil, err
	}

	outcome := &Outcome{BookingID: booking.BookingID, TransactionID: txn.TransactionID, Commissions: txn.Commissions}
	if err := s.decrementOccupancy(ctx, tx, in, outcome); err != nil {
		return nil, nil, err
	}
	return outcome, booking, nil
}

func (s *DefaultReconciliationService) recordReferred(ctx context.Context, tx ledgerRepo.LedgerTx, in *captureInput) (*Outcome, *models.Booking, error) {
	agent, err := tx.FindAgentByAgentID(ctx, in.AgentID)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		return nil, nil, ErrAgentNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load agent: %w", err)
	}

	var parentAgentID string
	if agent.ParentAgent != "" {
		parent, err := tx.FindAgentByID(ctx, agent.ParentAgent)
		switch {
		case errors.Is(err, ledgerRepo.ErrNotFound):
			s.logger().Warn("Parent agent not found; skipping level-2 commission",
				zap.String("agentId", agent.AgentID), zap.String("parentAgent", agent.ParentAgent))
		case err != nil:
			return nil, nil, fmt.Errorf("failed to load parent agent: %w", err)
		default:
			parentAgentID = parent.AgentID
		}
	}

	key := models.AgentTourStatsKey{AgentID: agent.AgentID, TourID: in.TourID, TourStartDate: in.TourStartDate}
	stats, err := tx.FindAgentTourStats(ctx, key)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		stats = &models.AgentTourStats{AgentID: key.AgentID, TourID: key.TourID, TourStartDate: key.TourStartDate}
	} else if err != nil {
		return nil, nil, fmt.Errorf("failed to load agent tour stats: %w", err)
	}

	res := commission.Calculate(commission.Input{
		TourID:                  in.TourID,
		AgentID:                 agent.AgentID,
		ParentAgentID:           parentAgentID,
		PriorCustomerGiven:      stats.CustomerGiven,
		PriorTotalAmount:        stats.TotalAmount,
		PriorCommissionReceived: stats.CommissionReceived,
		GivenCount:              in.GivenOccupancy,
		PricePerHead:            in.PricePerHead,
		ActualOccupancy:         in.ActualOccupancy,
	})

	stats.CustomerGiven = res.CustomerGiven
	stats.TotalAmount = res.TotalAmount
	stats.CommissionReceived = res.CommissionReceived
	if err := tx.SaveAgentTourStats(ctx, stats); err != nil {
		return nil, nil, fmt.Errorf("failed to save agent tour stats: %w", err)
	}

	now := s.now()
	booking := s.newBooking(in, now)
	booking.Agent = &models.BookingAgent{AgentID: agent.AgentID, Name: agent.Name, Commission: res.AgentAmount}
	if err := tx.InsertBooking(ctx, booking); err != nil {
		return nil, nil, err
	}

	txn := s.newTransaction(in, booking.BookingID, now)
	agentID := agent.AgentID
	txn.AgentID = &agentID
	if len(res.Records) > 0 {
		txn.Commissions = res.Records
	}
	if err := tx.InsertTransaction(ctx, txn); err != nil {
		return nil, nil, err
	}

	outcome := &Outcome{BookingID: booking.BookingID, TransactionID: txn.TransactionID, Commissions: txn.Commissions}
	if err := s.decrementOccupancy(ctx, tx, in, outcome); err != nil {
		return nil, nil, err
	}

	for _, rec := range txn.Commissions {
		if err := tx.IncrementWallet(ctx, rec.AgentID, rec.CommissionAmount); err != nil {
			return nil, nil, fmt.Errorf("failed to credit wallet of agent %s: %w", rec.AgentID, err)
		}
	}
	return outcome, booking, nil
}

// decrementOccupancy lowers the tour's remaining seats. A missing tour is
// logged and does not block the booking.
func (s *DefaultReconciliationService) decrementOccupancy(ctx context.Context, tx ledgerRepo.LedgerTx, in *captureInput, outcome *Outcome) error {
	remaining, err := tx.DecrementTourOccupancy(ctx, in.TourID, in.GivenOccupancy)
	if errors.Is(err, ledgerRepo.ErrNotFound) {
		s.logger().Warn("Tour not found; occupancy not updated",
			zap.String("tourId", in.TourID), zap.String("paymentId", in.PaymentID))
		outcome.TourMissing = true
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to update tour occupancy: %w", err)
	}
	outcome.RemainingOccupancy = &remaining
	return nil
}

func (s *DefaultReconciliationService) enqueueConfirmation(booking *models.Booking, tourStartDate string) {
	if s.Tasks == nil || booking == nil {
		return
	}
	task, opts, err := tasks.NewBookingConfirmationTask(models.BookingConfirmationPayload{
		BookingID:     booking.BookingID,
		TransactionID: booking.Payment.TransactionID,
		CustomerName:  booking.Customer.Name,
		CustomerEmail: booking.Customer.Email,
		CustomerPhone: booking.Customer.Phone,
		TourName:      booking.Tour.Name,
		TourStartDate: tourStartDate,
		Travelers:     len(booking.Travelers),
		PaidAmount:    booking.Payment.PaidAmount,
	})
	if err != nil {
		s.logger().Error("Failed to build confirmation task", zap.String("bookingId", booking.BookingID), zap.Error(err))
		return
	}
	if _, err := s.Tasks.Enqueue(task, opts...); err != nil {
		s.logger().Error("Failed to enqueue confirmation task", zap.String("bookingId", booking.BookingID), zap.Error(err))
	}
}
