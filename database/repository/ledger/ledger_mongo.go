package ledgerRepo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoLedgerRepo implements LedgerRepository using MongoDB.
type MongoLedgerRepo struct {
	client          *mongo.Client
	bookingColl     *mongo.Collection
	transactionColl *mongo.Collection
	agentColl       *mongo.Collection
	statsColl       *mongo.Collection
	tourColl        *mongo.Collection
}

var (
	_ LedgerRepository = (*MongoLedgerRepo)(nil)
	_ LedgerTx         = (*MongoLedgerRepo)(nil)
)

// NewMongoLedgerRepo creates a new instance of LedgerRepository using MongoDB.
// It fails when the unique indexes cannot be created, since they back the
// duplicate-capture guarantee.
func NewMongoLedgerRepo(client *mongo.Client, dbName string) (*MongoLedgerRepo, error) {
	db := client.Database(dbName)
	repo := &MongoLedgerRepo{
		client:          client,
		bookingColl:     db.Collection("bookings"),
		transactionColl: db.Collection("transactions"),
		agentColl:       db.Collection("agents"),
		statsColl:       db.Collection("agent_tour_stats"),
		tourColl:        db.Collection("tours"),
	}

	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("Failed to create ledger indexes", zap.String("database", dbName), zap.Error(err))
		return nil, fmt.Errorf("failed to create ledger indexes: %w", err)
	}
	return repo, nil
}

// newContext creates a context with the given timeout.
func newContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, timeout)
}

// ensureIndexes creates the unique keys the reconciliation flow relies on.
func (r *MongoLedgerRepo) ensureIndexes() error {
	ctx, cancel := newContext(context.Background(), 10*time.Second)
	defer cancel()

	unique := options.Index().SetUnique(true)
	indexes := map[*mongo.Collection][]mongo.IndexModel{
		r.bookingColl: {
			{Keys: bson.D{{Key: "bookingID", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "payment.transactionId", Value: 1}}},
		},
		r.transactionColl: {
			{Keys: bson.D{{Key: "transactionId", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "cancellation.requested", Value: 1}, {Key: "createdAt", Value: -1}}},
		},
		r.agentColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
			{Keys: bson.D{{Key: "agentID", Value: 1}}, Options: unique},
		},
		r.statsColl: {
			{Keys: bson.D{{Key: "agentID", Value: 1}, {Key: "tourID", Value: 1}, {Key: "tourStartDate", Value: 1}}, Options: unique},
		},
		r.tourColl: {
			{Keys: bson.D{{Key: "id", Value: 1}}, Options: unique},
		},
	}

	for coll, idx := range indexes {
		if _, err := coll.Indexes().CreateMany(ctx, idx); err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}
