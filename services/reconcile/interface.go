package reconcile

import (
	"context"

	"tourbook/models"
	"tourbook/services/gateway"

	"github.com/hibiken/asynq"
)

// ReconciliationService turns a verified capture into bookings, transactions,
// commission credits and occupancy updates.
type ReconciliationService interface {
	Reconcile(ctx context.Context, event *gateway.CaptureEvent) (*Outcome, error)
}

// Outcome describes the result of one reconciliation run.
type Outcome struct {
	BookingID     string
	TransactionID string
	// Duplicate is set when the payment was already reconciled; nothing was written.
	Duplicate bool
	// TourMissing is set when the tour could not be found for the occupancy update.
	TourMissing        bool
	RemainingOccupancy *int
	Commissions        []models.CommissionRecord
}

// TaskEnqueuer is satisfied by *asynq.Client.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}
