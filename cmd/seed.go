package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/jfaurel/email-agent/internal/config"
	"github.com/jfaurel/email-agent/internal/db"
	"github.com/jfaurel/email-agent/internal/model"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with demo clients",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		sqlDB, err := db.NewMySQLConnection(cfg.MySQL.DSN, db.MySQLOpts{
			MaxOpenConns:    cfg.MySQL.MaxOpenConns,
			MaxIdleConns:    cfg.MySQL.MaxIdleConns,
			ConnMaxLifetime: cfg.MySQL.ConnMaxLifetime,
			ConnMaxIdleTime: cfg.MySQL.ConnMaxIdleTime,
			PingTimeout:     cfg.MySQL.PingTimeout,
		})
		if err != nil {
			return fmt.Errorf("mysql connect: %w", err)
		}
		defer sqlDB.Close()

		log.Println(">> Seeding demo clients...")

		if err := seedClients(sqlDB, cfg.Defaults.APICallsLimit); err != nil {
			return err
		}

		log.Println(">> Seed completed")
		return nil
	},
}

// seedClients inserts deterministic demo tenants (idempotent).
func seedClients(dbx *sqlx.DB, callsLimit int) error {
	clients := []model.Client{
		{
			ClientID:    "11111111-1111-1111-1111-111111111111",
			CompanyName: "Menuiserie Dupont",
			Email:       "contact@menuiserie-dupont.fr",
			ConfigJSON: model.ClientConfig{
				CompanyName:        "Menuiserie Dupont",
				CompanyDescription: "Menuiserie artisanale depuis 1987.",
				SignatoryName:      "Jean Dupont",
				SignatoryRole:      "Gérant",
				Email:              "contact@menuiserie-dupont.fr",
				Phone:              "01 02 03 04 05",
				PaymentDelay:       "30",
			}.Marshal(),
			IsActive:  true,
			DraftMode: true,
		},
		{
			ClientID:    "22222222-2222-2222-2222-222222222222",
			CompanyName: "Studio Graphique Nova",
			Email:       "hello@studionova.fr",
			ConfigJSON: model.ClientConfig{
				CompanyName:   "Studio Graphique Nova",
				SignatoryName: "Claire Martin",
				SignatoryRole: "Directrice artistique",
				Email:         "hello@studionova.fr",
				PaymentDelay:  "45",
			}.Marshal(),
			IsActive:  true,
			DraftMode: false,
		},
		{
			ClientID:    "33333333-3333-3333-3333-333333333333",
			CompanyName: "Compte Suspendu SARL",
			Email:       "ops@suspendu.fr",
			ConfigJSON:  "{}",
			IsActive:    false,
			DraftMode:   true,
		},
	}

	// idempotent upsert based on client_id (PK)
	const q = `
INSERT INTO clients
    (client_id, company_name, email, config, is_active, draft_mode,
     api_calls_count, api_calls_limit, created_at, updated_at)
VALUES
    (?, ?, ?, ?, ?, ?, 0, ?, ?, ?)
ON DUPLICATE KEY UPDATE
    company_name = VALUES(company_name),
    email        = VALUES(email),
    config       = VALUES(config),
    is_active    = VALUES(is_active),
    draft_mode   = VALUES(draft_mode),
    updated_at   = VALUES(updated_at)
`
	tx, err := dbx.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	now := time.Now()
	for _, c := range clients {
		if _, err := tx.Exec(q, c.ClientID, c.CompanyName, c.Email, c.ConfigJSON,
			c.IsActive, c.DraftMode, callsLimit, now, now); err != nil {
			return fmt.Errorf("insert client %q: %w", c.CompanyName, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clients: %w", err)
	}
	return nil
}
