package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"outreach-metrics-service/internal/model"
)

const fetchEventsQuery = `
	SELECT e.id, e.idempotency_key, e.workspace_id, e.campaign_name, e.contact_email,
	       e.event_type, e.step,
	       COALESCE(l.sender_email, '') AS sender_email,
	       e.event_timestamp, e.metadata
	FROM email_events e
	LEFT JOIN leads l
	       ON l.workspace_id = e.workspace_id
	      AND lower(l.email) = lower(e.contact_email)
	WHERE %s
	ORDER BY e.event_timestamp
`

func (r *metricsRepository) FetchEvents(ctx context.Context, q EventQuery) ([]model.EmailEvent, error) {
	if r.pool == nil {
		return nil, ErrDataUnavailable
	}

	where, args := eventFilter(q)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(fetchEventsQuery, where), args...)
	if err != nil {
		return nil, &QueryError{Op: "fetch events", Err: err}
	}
	defer rows.Close()

	var events []model.EmailEvent
	for rows.Next() {
		var (
			e        model.EmailEvent
			et       string
			metadata []byte
		)
		if err := rows.Scan(&e.ID, &e.IdempotencyKey, &e.WorkspaceID, &e.CampaignName, &e.ContactEmail,
			&et, &e.Step, &e.SenderEmail, &e.EventTimestamp, &metadata); err != nil {
			return nil, &QueryError{Op: "scan event", Err: err}
		}
		e.EventType = model.EventType(et)
		if len(metadata) > 0 {
			if err := json.Unmarshal(metadata, &e.Metadata); err != nil {
				return nil, &QueryError{Op: "decode event metadata", Err: err}
			}
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "fetch events", Err: err}
	}
	return events, nil
}

const fetchUsageQuery = `
	SELECT id, idempotency_key, workspace_id, campaign_name, provider, model,
	       tokens_in, tokens_out, cost_usd, created_at
	FROM usage_records
	WHERE %s
	ORDER BY created_at
`

func (r *metricsRepository) FetchUsage(ctx context.Context, q UsageQuery) ([]model.UsageRecord, error) {
	if r.pool == nil {
		return nil, ErrDataUnavailable
	}

	where, args := usageFilter(q)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(fetchUsageQuery, where), args...)
	if err != nil {
		return nil, &QueryError{Op: "fetch usage", Err: err}
	}
	defer rows.Close()

	var records []model.UsageRecord
	for rows.Next() {
		var u model.UsageRecord
		if err := rows.Scan(&u.ID, &u.IdempotencyKey, &u.WorkspaceID, &u.CampaignName, &u.Provider, &u.Model,
			&u.TokensIn, &u.TokensOut, &u.CostUSD, &u.CreatedAt); err != nil {
			return nil, &QueryError{Op: "scan usage", Err: err}
		}
		records = append(records, u)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "fetch usage", Err: err}
	}
	return records, nil
}

const fetchDailyStatsQuery = `
	SELECT day, campaign_name, sends, replies, opt_outs, bounces, opens, clicks
	FROM mv_daily_stats
	WHERE %s
	ORDER BY day
`

// FetchDailyStats serves the pre-aggregated query mode. The view carries no
// sender column, so callers needing a sender filter must fetch raw rows.
func (r *metricsRepository) FetchDailyStats(ctx context.Context, q EventQuery) ([]model.DailyStat, error) {
	if r.pool == nil {
		return nil, ErrDataUnavailable
	}

	where, args := dailyFilter(q.WorkspaceID, q.StartDate, q.EndDate, q.Campaign, q.Excluded)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(fetchDailyStatsQuery, where), args...)
	if err != nil {
		return nil, &QueryError{Op: "fetch daily stats", Err: err}
	}
	defer rows.Close()

	var stats []model.DailyStat
	for rows.Next() {
		var (
			s   model.DailyStat
			day time.Time
		)
		if err := rows.Scan(&day, &s.CampaignName, &s.Sends, &s.Replies, &s.OptOuts, &s.Bounces, &s.Opens, &s.Clicks); err != nil {
			return nil, &QueryError{Op: "scan daily stat", Err: err}
		}
		s.Day = day.Format("2006-01-02")
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "fetch daily stats", Err: err}
	}
	return stats, nil
}

const fetchDailyCostQuery = `
	SELECT day, campaign_name, cost_usd, tokens_in, tokens_out, calls
	FROM mv_llm_cost
	WHERE %s
	ORDER BY day
`

// FetchDailyCost serves the pre-aggregated cost mode. The view carries no
// provider column, so callers needing a provider filter must fetch raw rows.
func (r *metricsRepository) FetchDailyCost(ctx context.Context, q UsageQuery) ([]model.DailyCost, error) {
	if r.pool == nil {
		return nil, ErrDataUnavailable
	}

	where, args := dailyFilter(q.WorkspaceID, q.StartDate, q.EndDate, q.Campaign, q.Excluded)
	rows, err := r.pool.Query(ctx, fmt.Sprintf(fetchDailyCostQuery, where), args...)
	if err != nil {
		return nil, &QueryError{Op: "fetch daily cost", Err: err}
	}
	defer rows.Close()

	var costs []model.DailyCost
	for rows.Next() {
		var (
			c   model.DailyCost
			day time.Time
		)
		if err := rows.Scan(&day, &c.CampaignName, &c.CostUSD, &c.TokensIn, &c.TokensOut, &c.Calls); err != nil {
			return nil, &QueryError{Op: "scan daily cost", Err: err}
		}
		c.Day = day.Format("2006-01-02")
		costs = append(costs, c)
	}
	if err := rows.Err(); err != nil {
		return nil, &QueryError{Op: "fetch daily cost", Err: err}
	}
	return costs, nil
}

// eventFilter builds the WHERE clause for raw event fetches. An explicit
// campaign filter replaces the deny-list exclusion, so a deny-listed
// campaign remains reachable by name.
func eventFilter(q EventQuery) (string, []interface{}) {
	clauses := []string{
		"e.workspace_id = $1",
		"e.event_timestamp >= $2::date",
		"e.event_timestamp < $3::date + interval '1 day'",
	}
	args := []interface{}{q.WorkspaceID, q.StartDate, q.EndDate}

	if q.Campaign != "" {
		args = append(args, q.Campaign)
		clauses = append(clauses, fmt.Sprintf("e.campaign_name = $%d", len(args)))
	} else if len(q.Excluded) > 0 {
		args = append(args, q.Excluded)
		clauses = append(clauses, fmt.Sprintf("(e.campaign_name IS NULL OR e.campaign_name != ALL($%d))", len(args)))
	}

	if q.Sender != "" {
		args = append(args, q.Sender)
		clauses = append(clauses, fmt.Sprintf("lower(COALESCE(l.sender_email, e.metadata->>'sender_email', 'unknown')) = lower($%d)", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// usageFilter builds the WHERE clause for raw usage fetches.
func usageFilter(q UsageQuery) (string, []interface{}) {
	clauses := []string{
		"workspace_id = $1",
		"created_at >= $2::date",
		"created_at < $3::date + interval '1 day'",
	}
	args := []interface{}{q.WorkspaceID, q.StartDate, q.EndDate}

	if q.Campaign != "" {
		args = append(args, q.Campaign)
		clauses = append(clauses, fmt.Sprintf("campaign_name = $%d", len(args)))
	} else if len(q.Excluded) > 0 {
		args = append(args, q.Excluded)
		clauses = append(clauses, fmt.Sprintf("(campaign_name IS NULL OR campaign_name != ALL($%d))", len(args)))
	}

	if q.Provider != "" {
		args = append(args, q.Provider)
		clauses = append(clauses, fmt.Sprintf("provider = $%d", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}

// dailyFilter builds the WHERE clause shared by both materialized views.
func dailyFilter(workspaceID, startDate, endDate, campaign string, excluded []string) (string, []interface{}) {
	clauses := []string{
		"workspace_id = $1",
		"day >= $2::date",
		"day <= $3::date",
	}
	args := []interface{}{workspaceID, startDate, endDate}

	if campaign != "" {
		args = append(args, campaign)
		clauses = append(clauses, fmt.Sprintf("campaign_name = $%d", len(args)))
	} else if len(excluded) > 0 {
		args = append(args, excluded)
		clauses = append(clauses, fmt.Sprintf("(campaign_name IS NULL OR campaign_name != ALL($%d))", len(args)))
	}

	return strings.Join(clauses, " AND "), args
}
