package repository

import (
	"context"

	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jmoiron/sqlx"
)

// LogsRepository defines persistence for the append-only logs table.
type LogsRepository interface {
	// Insert writes one audit row. If tx is nil, it opens/commits an
	// internal transaction; otherwise it uses the given tx.
	Insert(ctx context.Context, tx *sqlx.Tx, e model.EmailLog) error
	// List returns the newest rows first, optionally filtered by client.
	// limit defaults to 100 when non-positive and is capped at 1000.
	List(ctx context.Context, clientID string, limit int) ([]model.EmailLog, error)
	// CountToday counts rows stamped on the current calendar day in the
	// database server's local time zone.
	CountToday(ctx context.Context) (int, error)
}

type LogsRepositoryImpl struct {
	db *sqlx.DB
}

func NewLogsRepository(db *sqlx.DB) *LogsRepositoryImpl {
	return &LogsRepositoryImpl{db: db}
}

var _ LogsRepository = (*LogsRepositoryImpl)(nil)

func (r *LogsRepositoryImpl) withTx(ctx context.Context, tx *sqlx.Tx, fn func(*sqlx.Tx) error) error {
	if tx != nil {
		return fn(tx)
	}

	t, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() { _ = t.Rollback() }()
	if err := fn(t); err != nil {
		return err
	}

	return t.Commit()
}

func (r *LogsRepositoryImpl) Insert(ctx context.Context, tx *sqlx.Tx, e model.EmailLog) error {
	const q = `
		INSERT INTO logs
		    (request_id, client_id, email_from, email_subject, email_type,
		     response_generated, quote_generated, success, timestamp)
		VALUES
		    (?, ?, ?, ?, ?, ?, ?, ?, NOW())
	`
	return r.withTx(ctx, tx, func(tx *sqlx.Tx) error {
		_, err := tx.ExecContext(ctx, q,
			e.RequestID, e.ClientID, e.EmailFrom, e.EmailSubject, e.EmailType,
			e.ResponseGenerated, e.QuoteGenerated, e.Success,
		)
		return err
	})
}

// clampLimit normalizes a caller-supplied page size: default 100, cap 1000.
func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return 100
	case limit > 1000:
		return 1000
	default:
		return limit
	}
}

func (r *LogsRepositoryImpl) List(ctx context.Context, clientID string, limit int) ([]model.EmailLog, error) {
	limit = clampLimit(limit)

	q := `
		SELECT id, request_id, client_id, email_from, email_subject, email_type,
		       response_generated, quote_generated, success, timestamp
		  FROM logs
	`
	args := []any{}

	if clientID != "" {
		q += " WHERE client_id = ?"
		args = append(args, clientID)
	}

	q += " ORDER BY timestamp DESC LIMIT ?"
	args = append(args, limit)

	rows := []model.EmailLog{}
	if err := r.db.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *LogsRepositoryImpl) CountToday(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n,
		`SELECT COUNT(*) FROM logs WHERE DATE(timestamp) = CURDATE()`,
	)
	return n, err
}
