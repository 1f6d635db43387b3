// Package repository is the row-query boundary over the Postgres store.
// Every query is workspace-scoped; fetch failures surface as either
// ErrDataUnavailable (no store at all) or a QueryError (store rejected the
// query), and callers substitute zeroed responses rather than propagate.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"outreach-metrics-service/internal/model"
)

// ErrDataUnavailable marks the store as unreachable or unconfigured.
var ErrDataUnavailable = errors.New("metrics store unavailable")

// QueryError wraps a store-side rejection of a fetch or write.
type QueryError struct {
	Op  string
	Err error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// EventQuery filters an email-event fetch. An explicit Campaign takes
// precedence over the Excluded deny-list.
type EventQuery struct {
	WorkspaceID string
	StartDate   string
	EndDate     string
	Campaign    string
	Sender      string
	Excluded    []string
}

// UsageQuery filters a usage-record fetch.
type UsageQuery struct {
	WorkspaceID string
	StartDate   string
	EndDate     string
	Campaign    string
	Provider    string
	Excluded    []string
}

// MetricsRepository defines database operations for events, usage and
// pre-aggregated daily views.
type MetricsRepository interface {
	// CreateEvent inserts a single event, idempotently.
	CreateEvent(ctx context.Context, event model.EmailEvent) error

	// CreateEventBatch inserts multiple events efficiently using pgx.Batch.
	CreateEventBatch(ctx context.Context, events []model.EmailEvent) error

	// CreateUsageBatch inserts multiple usage records using pgx.Batch.
	CreateUsageBatch(ctx context.Context, rows []model.UsageRecord) error

	// FetchEvents returns raw event rows matching the query, with the
	// sender email resolved from the leads table where possible.
	FetchEvents(ctx context.Context, q EventQuery) ([]model.EmailEvent, error)

	// FetchUsage returns raw usage rows matching the query.
	FetchUsage(ctx context.Context, q UsageQuery) ([]model.UsageRecord, error)

	// FetchDailyStats returns per-campaign-per-day event counts from the
	// mv_daily_stats materialized view.
	FetchDailyStats(ctx context.Context, q EventQuery) ([]model.DailyStat, error)

	// FetchDailyCost returns per-campaign-per-day cost rows from the
	// mv_llm_cost materialized view.
	FetchDailyCost(ctx context.Context, q UsageQuery) ([]model.DailyCost, error)

	// CountLeads counts lead rows for the workspace, optionally scoped to
	// one campaign.
	CountLeads(ctx context.Context, workspaceID, campaign string) (int64, error)
}

type metricsRepository struct {
	pool *pgxpool.Pool
}

// NewMetricsRepository creates a MetricsRepository backed by PostgreSQL.
// A nil pool is legal and makes every operation report ErrDataUnavailable.
func NewMetricsRepository(pool *pgxpool.Pool) MetricsRepository {
	return &metricsRepository{pool: pool}
}

const insertEventQuery = `
	INSERT INTO email_events (idempotency_key, workspace_id, campaign_name, contact_email, event_type, step, event_timestamp, metadata)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (idempotency_key) DO NOTHING
`

func (r *metricsRepository) CreateEvent(ctx context.Context, event model.EmailEvent) error {
	if r.pool == nil {
		return ErrDataUnavailable
	}

	metadata, err := marshalMetadata(event.Metadata)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, insertEventQuery,
		event.IdempotencyKey,
		event.WorkspaceID,
		event.CampaignName,
		event.ContactEmail,
		string(event.EventType),
		event.Step,
		event.EventTimestamp,
		metadata,
	)
	if err != nil {
		return &QueryError{Op: "insert event", Err: err}
	}
	return nil
}

func (r *metricsRepository) CreateEventBatch(ctx context.Context, events []model.EmailEvent) error {
	if len(events) == 0 {
		return nil
	}
	if r.pool == nil {
		return ErrDataUnavailable
	}

	batch := &pgx.Batch{}
	for _, event := range events {
		metadata, err := marshalMetadata(event.Metadata)
		if err != nil {
			return err
		}
		batch.Queue(insertEventQuery,
			event.IdempotencyKey,
			event.WorkspaceID,
			event.CampaignName,
			event.ContactEmail,
			string(event.EventType),
			event.Step,
			event.EventTimestamp,
			metadata,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range events {
		if _, err := br.Exec(); err != nil {
			return &QueryError{Op: "insert event batch", Err: err}
		}
	}
	return nil
}

const insertUsageQuery = `
	INSERT INTO usage_records (idempotency_key, workspace_id, campaign_name, provider, model, tokens_in, tokens_out, cost_usd, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (idempotency_key) DO NOTHING
`

func (r *metricsRepository) CreateUsageBatch(ctx context.Context, rows []model.UsageRecord) error {
	if len(rows) == 0 {
		return nil
	}
	if r.pool == nil {
		return ErrDataUnavailable
	}

	batch := &pgx.Batch{}
	for _, u := range rows {
		batch.Queue(insertUsageQuery,
			u.IdempotencyKey,
			u.WorkspaceID,
			u.CampaignName,
			u.Provider,
			u.Model,
			u.TokensIn,
			u.TokensOut,
			u.CostUSD,
			u.CreatedAt,
		)
	}

	br := r.pool.SendBatch(ctx, batch)
	defer br.Close()

	for range rows {
		if _, err := br.Exec(); err != nil {
			return &QueryError{Op: "insert usage batch", Err: err}
		}
	}
	return nil
}

func (r *metricsRepository) CountLeads(ctx context.Context, workspaceID, campaign string) (int64, error) {
	if r.pool == nil {
		return 0, ErrDataUnavailable
	}

	query := `SELECT count(*) FROM leads WHERE workspace_id = $1`
	args := []interface{}{workspaceID}
	if campaign != "" {
		query += ` AND campaign_name = $2`
		args = append(args, campaign)
	}

	var count int64
	if err := r.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		return 0, &QueryError{Op: "count leads", Err: err}
	}
	return count, nil
}

func marshalMetadata(metadata map[string]interface{}) ([]byte, error) {
	if metadata == nil {
		return nil, nil // JSONB null
	}
	b, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return b, nil
}
