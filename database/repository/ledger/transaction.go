package ledgerRepo

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
)

const (
	maxTransactionAttempts = 3
	maxCommitAttempts      = 3

	labelTransientTransaction = "TransientTransactionError"
	labelUnknownCommitResult  = "UnknownTransactionCommitResult"
)

// txnSession is the part of a mongo session the retry loop drives.
type txnSession interface {
	StartTransaction() error
	AbortTransaction(ctx context.Context) error
	CommitTransaction(ctx context.Context) error
}

type mongoTxnSession struct {
	sc mongo.SessionContext
}

func (s mongoTxnSession) StartTransaction() error { return s.sc.StartTransaction() }

func (s mongoTxnSession) AbortTransaction(ctx context.Context) error {
	return s.sc.AbortTransaction(ctx)
}

func (s mongoTxnSession) CommitTransaction(ctx context.Context) error {
	return s.sc.CommitTransaction(ctx)
}

// RunInTransaction runs fn inside a MongoDB multi-document transaction. The
// callback is rerun only on TransientTransactionError, so fn must derive every
// write from reads it performs itself. An UnknownTransactionCommitResult
// retries the commit alone.
func (r *MongoLedgerRepo) RunInTransaction(ctx context.Context, fn TxFunc) error {
	sess, err := r.client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		return runTransaction(sc, mongoTxnSession{sc: sc}, func(ctx context.Context) error {
			return fn(ctx, r)
		})
	})
}

func runTransaction(ctx context.Context, sess txnSession, fn func(ctx context.Context) error) error {
	for attempt := 1; ; attempt++ {
		if err := sess.StartTransaction(); err != nil {
			return err
		}

		if err := fn(ctx); err != nil {
			_ = sess.AbortTransaction(ctx)
			if attempt < maxTransactionAttempts && hasErrorLabel(err, labelTransientTransaction) {
				continue
			}
			return err
		}

		err := commitWithRetry(ctx, sess)
		if err == nil {
			return nil
		}
		if attempt < maxTransactionAttempts && hasErrorLabel(err, labelTransientTransaction) {
			continue
		}
		return err
	}
}

// commitWithRetry repeats the commit while its outcome is unknown. Commit is
// idempotent on the server, so a commit that already landed succeeds again.
func commitWithRetry(ctx context.Context, sess txnSession) error {
	for attempt := 1; ; attempt++ {
		err := sess.CommitTransaction(ctx)
		if err == nil || attempt >= maxCommitAttempts || !hasErrorLabel(err, labelUnknownCommitResult) {
			return err
		}
	}
}

func hasErrorLabel(err error, label string) bool {
	var se mongo.ServerError
	if !errors.As(err, &se) {
		return false
	}
	return se.HasErrorLabel(label)
}
