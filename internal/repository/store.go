package repository

import (
	"context"

	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jmoiron/sqlx"
)

// AnalysisStore is the bookkeeping contract the analyzer pipeline writes
// through: one success commit (counter + audit row, atomically) or one
// failure record per attempt.
type AnalysisStore interface {
	// CommitSuccess increments the client's usage counter with its limit
	// guard and inserts the audit row in the same transaction. Returns
	// ErrQuotaExceeded when a concurrent request exhausted the quota first.
	CommitSuccess(ctx context.Context, clientID string, entry model.EmailLog) error
	// RecordFailure appends the audit row for a failed attempt.
	RecordFailure(ctx context.Context, entry model.EmailLog) error
}

type AnalysisStoreImpl struct {
	db      *sqlx.DB
	clients ClientsRepository
	logs    LogsRepository
}

func NewAnalysisStore(db *sqlx.DB, clients ClientsRepository, logs LogsRepository) *AnalysisStoreImpl {
	return &AnalysisStoreImpl{db: db, clients: clients, logs: logs}
}

var _ AnalysisStore = (*AnalysisStoreImpl)(nil)

func (s *AnalysisStoreImpl) CommitSuccess(ctx context.Context, clientID string, entry model.EmailLog) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.clients.IncrementCalls(ctx, tx, clientID); err != nil {
		return err
	}
	if err := s.logs.Insert(ctx, tx, entry); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *AnalysisStoreImpl) RecordFailure(ctx context.Context, entry model.EmailLog) error {
	return s.logs.Insert(ctx, nil, entry)
}
