package model

import "time"

// EmailLog is one row of the append-only audit trail: one per analysis
// attempt, success or failure. ResponseGenerated is truncated before insert.
type EmailLog struct {
	ID                int64     `db:"id" json:"id"`
	RequestID         string    `db:"request_id" json:"request_id"`
	ClientID          string    `db:"client_id" json:"client_id"`
	EmailFrom         string    `db:"email_from" json:"email_from"`
	EmailSubject      string    `db:"email_subject" json:"email_subject"`
	EmailType         string    `db:"email_type" json:"email_type"`
	ResponseGenerated string    `db:"response_generated" json:"response_generated"`
	QuoteGenerated    bool      `db:"quote_generated" json:"quote_generated"`
	Success           bool      `db:"success" json:"success"`
	Timestamp         time.Time `db:"timestamp" json:"timestamp"`
}
