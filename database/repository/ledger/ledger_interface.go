package ledgerRepo

import (
	"context"
	"errors"

	"tourbook/models"
)

var (
	// ErrNotFound is returned when a looked-up document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrDuplicateTransaction is returned when a capture with the same gateway payment id was already stored.
	ErrDuplicateTransaction = errors.New("transaction already recorded")
)

// TxFunc is executed inside a store transaction. Returning an error rolls back
// every write performed through tx.
type TxFunc func(ctx context.Context, tx LedgerTx) error

// LedgerTx exposes the document operations available inside a transaction.
// All methods must be called with the ctx handed to the TxFunc.
type LedgerTx interface {
	// FindAgentByAgentID looks an agent up by its business identifier.
	FindAgentByAgentID(ctx context.Context, agentID string) (*models.Agent, error)
	// FindAgentByID looks an agent up by its internal identifier.
	FindAgentByID(ctx context.Context, id string) (*models.Agent, error)
	// IncrementWallet atomically adds amount to the wallet of the agent with the given business id.
	IncrementWallet(ctx context.Context, agentID string, amount float64) error

	FindAgentTourStats(ctx context.Context, key models.AgentTourStatsKey) (*models.AgentTourStats, error)
	// SaveAgentTourStats upserts the stats document by its composite key.
	SaveAgentTourStats(ctx context.Context, stats *models.AgentTourStats) error

	FindTransactionByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error)
	InsertTransaction(ctx context.Context, txn *models.Transaction) error
	UpdateTransaction(ctx context.Context, txn *models.Transaction) error

	FindBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	InsertBooking(ctx context.Context, booking *models.Booking) error
	UpdateBooking(ctx context.Context, booking *models.Booking) error

	// DecrementTourOccupancy lowers remainingOccupancy by count, clamped at zero,
	// and returns the new value. ErrNotFound when the tour does not exist.
	DecrementTourOccupancy(ctx context.Context, tourID string, count int) (int, error)
}

// LedgerRepository persists bookings, transactions, commission statistics,
// wallets and tour occupancy.
type LedgerRepository interface {
	// RunInTransaction executes fn atomically.
	RunInTransaction(ctx context.Context, fn TxFunc) error

	GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error)
	GetTransactionByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error)
	ListPendingCancellations(ctx context.Context) ([]models.Transaction, error)
	ListAgentTourStats(ctx context.Context, agentID string) ([]models.AgentTourStats, error)
}
