package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"tourbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetBookingByID retrieves a booking by its business booking id.
func (r *MongoLedgerRepo) GetBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	return r.FindBookingByID(ctx, bookingID)
}

// GetTransactionByPaymentID retrieves a transaction by the gateway payment id.
func (r *MongoLedgerRepo) GetTransactionByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	return r.FindTransactionByPaymentID(ctx, paymentID)
}

// ListPendingCancellations returns transactions with an unresolved cancellation request, newest first.
func (r *MongoLedgerRepo) ListPendingCancellations(ctx context.Context) ([]models.Transaction, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"cancellation.requested": true,
		"cancellation.approved":  false,
		"cancellation.rejected":  false,
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.transactionColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve pending cancellations: %w", err)
	}
	defer cursor.Close(ctx)

	var txns []models.Transaction
	if err := cursor.All(ctx, &txns); err != nil {
		return nil, fmt.Errorf("failed to decode transactions: %w", err)
	}
	return txns, nil
}

// ListAgentTourStats returns every stats document of one agent, most recent departure first.
func (r *MongoLedgerRepo) ListAgentTourStats(ctx context.Context, agentID string) ([]models.AgentTourStats, error) {
	ctx, cancel := newContext(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "tourStartDate", Value: -1}})
	cursor, err := r.statsColl.Find(ctx, bson.M{"agentID": agentID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve agent tour stats: %w", err)
	}
	defer cursor.Close(ctx)

	var stats []models.AgentTourStats
	for cursor.Next(ctx) {
		var s models.AgentTourStats
		if err := cursor.Decode(&s); err != nil {
			return nil, fmt.Errorf("failed to decode agent tour stats: %w", err)
		}
		stats = append(stats, s)
	}
	return stats, nil
}
