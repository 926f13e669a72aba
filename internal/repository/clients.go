package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jmoiron/sqlx"
)

var (
	// ErrQuotaExceeded signals the atomic increment guard hit the limit.
	ErrQuotaExceeded = errors.New("api calls limit reached")
	// ErrInvalidField rejects toggle targets outside the allowed set.
	ErrInvalidField = errors.New("field not togglable")
)

// ClientsRepository defines persistence for the clients table.
type ClientsRepository interface {
	GetByID(ctx context.Context, clientID string) (*model.Client, error)
	List(ctx context.Context) ([]model.Client, error)
	Create(ctx context.Context, c model.Client) error
	// SetFlag flips is_active or draft_mode; any other field is rejected
	// before touching SQL. Returns false when no row matched.
	SetFlag(ctx context.Context, clientID, field string, value bool) (bool, error)
	UpdateConfig(ctx context.Context, clientID, configJSON string) (bool, error)
	// IncrementCalls bumps the usage counter only while it is below the
	// limit, in one statement, so two concurrent requests cannot race past
	// the ceiling. Returns ErrQuotaExceeded when the guard blocks.
	IncrementCalls(ctx context.Context, tx *sqlx.Tx, clientID string) error
	Stats(ctx context.Context) (ClientStats, error)
}

// ClientStats aggregates over the clients table.
type ClientStats struct {
	TotalClients  int `db:"total_clients"`
	ActiveClients int `db:"active_clients"`
	TotalAPICalls int `db:"total_api_calls"`
}

type ClientsRepositoryImpl struct {
	db *sqlx.DB
}

func NewClientsRepository(db *sqlx.DB) *ClientsRepositoryImpl {
	return &ClientsRepositoryImpl{db: db}
}

var _ ClientsRepository = (*ClientsRepositoryImpl)(nil)

func (r *ClientsRepositoryImpl) GetByID(ctx context.Context, clientID string) (*model.Client, error) {
	var c model.Client
	err := r.db.GetContext(ctx, &c, `
		SELECT client_id, company_name, email, config, is_active, draft_mode,
		       api_calls_count, api_calls_limit, created_at, updated_at
		  FROM clients
		 WHERE client_id = ? LIMIT 1
	`, clientID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *ClientsRepositoryImpl) List(ctx context.Context) ([]model.Client, error) {
	clients := []model.Client{}
	err := r.db.SelectContext(ctx, &clients, `
		SELECT client_id, company_name, email, config, is_active, draft_mode,
		       api_calls_count, api_calls_limit, created_at, updated_at
		  FROM clients
		 ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientsRepositoryImpl) Create(ctx context.Context, c model.Client) error {
	const q = `
		INSERT INTO clients
		    (client_id, company_name, email, config, is_active, draft_mode,
		     api_calls_count, api_calls_limit, created_at, updated_at)
		VALUES
		    (?, ?, ?, ?, 1, 1, 0, ?, NOW(), NOW())
	`
	_, err := r.db.ExecContext(ctx, q,
		c.ClientID, c.CompanyName, c.Email, c.ConfigJSON, c.APICallsLimit,
	)
	return err
}

// toggleColumn maps a caller-supplied field name to a real column. The
// whitelist is the whole point: the field arrives from the admin API and
// must never select arbitrary columns.
func toggleColumn(field string) (string, bool) {
	switch field {
	case "is_active":
		return "is_active", true
	case "draft_mode":
		return "draft_mode", true
	default:
		return "", false
	}
}

func (r *ClientsRepositoryImpl) SetFlag(ctx context.Context, clientID, field string, value bool) (bool, error) {
	col, ok := toggleColumn(field)
	if !ok {
		return false, ErrInvalidField
	}

	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET `+col+` = ?, updated_at = NOW() WHERE client_id = ?`,
		value, clientID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ClientsRepositoryImpl) UpdateConfig(ctx context.Context, clientID, configJSON string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE clients SET config = ?, updated_at = NOW() WHERE client_id = ?`,
		configJSON, clientID,
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *ClientsRepositoryImpl) IncrementCalls(ctx context.Context, tx *sqlx.Tx, clientID string) error {
	const q = `
		UPDATE clients
		   SET api_calls_count = api_calls_count + 1, updated_at = NOW()
		 WHERE client_id = ? AND api_calls_count < api_calls_limit
	`
	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, q, clientID)
	} else {
		res, err = r.db.ExecContext(ctx, q, clientID)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrQuotaExceeded
	}
	return nil
}

func (r *ClientsRepositoryImpl) Stats(ctx context.Context) (ClientStats, error) {
	var s ClientStats
	err := r.db.GetContext(ctx, &s, `
		SELECT COUNT(*)                                  AS total_clients,
		       COALESCE(SUM(is_active), 0)               AS active_clients,
		       COALESCE(SUM(api_calls_count), 0)         AS total_api_calls
		  FROM clients
	`)
	return s, err
}
