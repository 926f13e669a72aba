package model

import "time"

// Client is the DB entity persisted in the clients table, one row per tenant.
// ClientID doubles as the authentication token for /api routes.
type Client struct {
	ClientID      string    `db:"client_id" json:"client_id"`
	CompanyName   string    `db:"company_name" json:"company_name"`
	Email         string    `db:"email" json:"email"`
	ConfigJSON    string    `db:"config" json:"-"`
	IsActive      bool      `db:"is_active" json:"is_active"`
	DraftMode     bool      `db:"draft_mode" json:"draft_mode"`
	APICallsCount int       `db:"api_calls_count" json:"api_calls_count"`
	APICallsLimit int       `db:"api_calls_limit" json:"api_calls_limit"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}

// Config decodes the stored JSON document. A broken or empty document
// degrades to the zero config (prompt builder falls back to defaults).
func (c *Client) Config() ClientConfig {
	return ParseClientConfig(c.ConfigJSON)
}
