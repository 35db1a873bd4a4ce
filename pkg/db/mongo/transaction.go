package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	apperrors "clinic/pkg/errors"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readconcern"
	"go.mongodb.org/mongo-driver/mongo/writeconcern"
)

// ErrTransactionsUnsupported is returned against a standalone mongod; the
// booking store needs a replica set or mongos.
var ErrTransactionsUnsupported = errors.New("mongo deployment does not support transactions")

const codeIllegalOperation = 20

type TransactionFunc func(ctx mongo.SessionContext) error

type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn TransactionFunc) error
}

type mongoTransactionManager struct {
	client        *mongo.Client
	maxCommitTime time.Duration
}

// NewTransactionManager bounds each commit by maxCommitTime when positive.
func NewTransactionManager(client *mongo.Client, maxCommitTime time.Duration) TransactionManager {
	return &mongoTransactionManager{
		client:        client,
		maxCommitTime: maxCommitTime,
	}
}

// ExecuteTransaction runs fn with snapshot reads and majority writes, so a
// check-then-insert inside fn commits whole or not at all. fn may run more
// than once on transient errors and must be safe to repeat.
func (m *mongoTransactionManager) ExecuteTransaction(ctx context.Context, fn TransactionFunc) error {
	session, err := m.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(context.WithoutCancel(ctx))

	txnOpts := options.Transaction().
		SetReadConcern(readconcern.Snapshot()).
		SetWriteConcern(writeconcern.Majority())
	if m.maxCommitTime > 0 {
		txnOpts.SetMaxCommitTime(&m.maxCommitTime)
	}

	_, err = session.WithTransaction(ctx, func(sessCtx mongo.SessionContext) (any, error) {
		return nil, fn(sessCtx)
	}, txnOpts)

	switch {
	case err == nil:
		return nil
	case apperrors.IsAppError(err):
		return err
	case isTransactionsUnsupported(err):
		return fmt.Errorf("%w: %v", ErrTransactionsUnsupported, err)
	}
	return fmt.Errorf("transaction failed: %w", err)
}

func isTransactionsUnsupported(err error) bool {
	var cmdErr mongo.CommandError
	return errors.As(err, &cmdErr) && cmdErr.Code == codeIllegalOperation
}
