package ledgerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tourbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --- Agents ---

func (r *MongoLedgerRepo) FindAgentByAgentID(ctx context.Context, agentID string) (*models.Agent, error) {
	return r.findAgent(ctx, bson.M{"agentID": agentID})
}

func (r *MongoLedgerRepo) FindAgentByID(ctx context.Context, id string) (*models.Agent, error) {
	return r.findAgent(ctx, bson.M{"id": id})
}

func (r *MongoLedgerRepo) findAgent(ctx context.Context, filter bson.M) (*models.Agent, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var agent models.Agent
	if err := r.agentColl.FindOne(ctx, filter).Decode(&agent); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch agent: %w", err)
	}
	return &agent, nil
}

// IncrementWallet credits the agent's wallet with a single $inc.
func (r *MongoLedgerRepo) IncrementWallet(ctx context.Context, agentID string, amount float64) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{
		"$inc": bson.M{"walletBalance": amount},
		"$set": bson.M{"updatedAt": time.Now()},
	}
	res, err := r.agentColl.UpdateOne(ctx, bson.M{"agentID": agentID}, update)
	if err != nil {
		return fmt.Errorf("failed to credit wallet of agent %s: %w", agentID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Agent tour statistics ---

func statsFilter(key models.AgentTourStatsKey) bson.M {
	return bson.M{
		"agentID":       key.AgentID,
		"tourID":        key.TourID,
		"tourStartDate": key.TourStartDate,
	}
}

func (r *MongoLedgerRepo) FindAgentTourStats(ctx context.Context, key models.AgentTourStatsKey) (*models.AgentTourStats, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var stats models.AgentTourStats
	if err := r.statsColl.FindOne(ctx, statsFilter(key)).Decode(&stats); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch agent tour stats: %w", err)
	}
	return &stats, nil
}

// SaveAgentTourStats upserts the running totals and bumps the version counter.
func (r *MongoLedgerRepo) SaveAgentTourStats(ctx context.Context, stats *models.AgentTourStats) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	if stats.ID == "" {
		stats.ID = uuid.New().String()
	}
	if stats.CreatedAt.IsZero() {
		stats.CreatedAt = now
	}
	stats.UpdatedAt = now

	update := bson.M{
		"$set": bson.M{
			"customerGiven":      stats.CustomerGiven,
			"totalAmount":        stats.TotalAmount,
			"commissionReceived": stats.CommissionReceived,
			"updatedAt":          now,
		},
		"$inc":         bson.M{"version": 1},
		"$setOnInsert": bson.M{"id": stats.ID, "createdAt": stats.CreatedAt},
	}
	opts := options.Update().SetUpsert(true)
	if _, err := r.statsColl.UpdateOne(ctx, statsFilter(stats.Key()), update, opts); err != nil {
		return fmt.Errorf("failed to save agent tour stats: %w", err)
	}
	stats.Version++
	return nil
}

// --- Transactions ---

func (r *MongoLedgerRepo) FindTransactionByPaymentID(ctx context.Context, paymentID string) (*models.Transaction, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var txn models.Transaction
	if err := r.transactionColl.FindOne(ctx, bson.M{"transactionId": paymentID}).Decode(&txn); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch transaction %s: %w", paymentID, err)
	}
	return &txn, nil
}

func (r *MongoLedgerRepo) InsertTransaction(ctx context.Context, txn *models.Transaction) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if txn.ID == "" {
		txn.ID = uuid.New().String()
	}
	if _, err := r.transactionColl.InsertOne(ctx, txn); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateTransaction
		}
		return fmt.Errorf("error creating transaction: %w", err)
	}
	return nil
}

func (r *MongoLedgerRepo) UpdateTransaction(ctx context.Context, txn *models.Transaction) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	txn.UpdatedAt = time.Now()
	res, err := r.transactionColl.ReplaceOne(ctx, bson.M{"transactionId": txn.TransactionID}, txn)
	if err != nil {
		return fmt.Errorf("error updating transaction %s: %w", txn.TransactionID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Bookings ---

func (r *MongoLedgerRepo) FindBookingByID(ctx context.Context, bookingID string) (*models.Booking, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	if err := r.bookingColl.FindOne(ctx, bson.M{"bookingID": bookingID}).Decode(&booking); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch booking %s: %w", bookingID, err)
	}
	return &booking, nil
}

// InsertBooking inserts a new booking document.
func (r *MongoLedgerRepo) InsertBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if _, err := r.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("error creating booking: %w", err)
	}
	return nil
}

// UpdateBooking replaces an existing booking document.
func (r *MongoLedgerRepo) UpdateBooking(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	booking.UpdatedAt = time.Now()
	res, err := r.bookingColl.ReplaceOne(ctx, bson.M{"bookingID": booking.BookingID}, booking)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", booking.BookingID, err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Tours ---

// DecrementTourOccupancy subtracts count from remainingOccupancy in a single
// pipeline update so concurrent captures cannot drive it below zero.
func (r *MongoLedgerRepo) DecrementTourOccupancy(ctx context.Context, tourID string, count int) (int, error) {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	update := mongo.Pipeline{
		bson.D{
			{Key: "$set", Value: bson.D{
				{Key: "remainingOccupancy", Value: bson.D{
					{Key: "$max", Value: bson.A{
						0,
						bson.D{{Key: "$subtract", Value: bson.A{"$remainingOccupancy", count}}},
					}},
				}},
				{Key: "updatedAt", Value: "$$NOW"},
			}},
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var tour models.Tour
	if err := r.tourColl.FindOneAndUpdate(ctx, bson.M{"id": tourID}, update, opts).Decode(&tour); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return 0, ErrNotFound
		}
		return 0, fmt.Errorf("failed to update occupancy of tour %s: %w", tourID, err)
	}
	return tour.RemainingOccupancy, nil
}
