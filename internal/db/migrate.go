package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RunMigrations ensures required tables and materialized views exist. This
// keeps the service self-contained without an external migration step; the
// workflow engine that writes rows assumes the same schema.
func RunMigrations(ctx context.Context, pool *pgxpool.Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS email_events (
			id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			idempotency_key TEXT NOT NULL UNIQUE,
			workspace_id    TEXT NOT NULL,
			campaign_name   TEXT,
			contact_email   TEXT NOT NULL,
			event_type      TEXT NOT NULL,
			step            INT NOT NULL DEFAULT 1,
			event_timestamp TIMESTAMPTZ NOT NULL,
			metadata        JSONB,
			ingested_at     TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_email_events_ws_ts
			ON email_events (workspace_id, event_timestamp)`,
		`CREATE INDEX IF NOT EXISTS idx_email_events_ws_campaign
			ON email_events (workspace_id, campaign_name)`,

		`CREATE TABLE IF NOT EXISTS usage_records (
			id              BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			idempotency_key TEXT NOT NULL UNIQUE,
			workspace_id    TEXT NOT NULL,
			campaign_name   TEXT,
			provider        TEXT NOT NULL,
			model           TEXT NOT NULL,
			tokens_in       BIGINT NOT NULL DEFAULT 0,
			tokens_out      BIGINT NOT NULL DEFAULT 0,
			cost_usd        NUMERIC(12,6) NOT NULL DEFAULT 0,
			created_at      TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_usage_records_ws_created
			ON usage_records (workspace_id, created_at)`,

		`CREATE TABLE IF NOT EXISTS leads (
			id            BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
			workspace_id  TEXT NOT NULL,
			email         TEXT NOT NULL,
			sender_email  TEXT,
			campaign_name TEXT,
			created_at    TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_leads_ws_email
			ON leads (workspace_id, lower(email))`,

		`CREATE MATERIALIZED VIEW IF NOT EXISTS mv_daily_stats AS
			SELECT workspace_id,
			       campaign_name,
			       (event_timestamp AT TIME ZONE 'UTC')::date AS day,
			       count(*) FILTER (WHERE event_type IN ('sent', 'delivered')) AS sends,
			       count(*) FILTER (WHERE event_type = 'replied')              AS replies,
			       count(*) FILTER (WHERE event_type = 'opt_out')              AS opt_outs,
			       count(*) FILTER (WHERE event_type = 'bounced')              AS bounces,
			       count(*) FILTER (WHERE event_type = 'opened')               AS opens,
			       count(*) FILTER (WHERE event_type = 'clicked')              AS clicks
			FROM email_events
			GROUP BY workspace_id, campaign_name, day`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_mv_daily_stats_key
			ON mv_daily_stats (workspace_id, campaign_name, day)`,

		`CREATE MATERIALIZED VIEW IF NOT EXISTS mv_llm_cost AS
			SELECT workspace_id,
			       campaign_name,
			       (created_at AT TIME ZONE 'UTC')::date AS day,
			       sum(cost_usd)   AS cost_usd,
			       sum(tokens_in)  AS tokens_in,
			       sum(tokens_out) AS tokens_out,
			       count(*)        AS calls
			FROM usage_records
			GROUP BY workspace_id, campaign_name, day`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_mv_llm_cost_key
			ON mv_llm_cost (workspace_id, campaign_name, day)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("apply migrations: %w", err)
		}
	}
	return nil
}
