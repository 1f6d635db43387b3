// Package service composes the aggregation pipeline behind every dashboard
// endpoint: resolve the period, fetch rows, apply the deny-list safety net,
// fold, derive rates, assemble the response. Store failures never escape as
// errors; they degrade to zeroed responses with a diagnostic source tag.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/period"
	"outreach-metrics-service/internal/repository"
)

// Diagnostic source tags. The dashboard treats these as a fixed contract
// indicating which code path produced the response.
const (
	SourceDatabase   = "supabase"
	SourceNoDatabase = "no_database"
	SourceFallback   = "fallback"
	SourceError      = "error"
)

// Default trailing windows when no explicit range is requested.
const (
	defaultSummaryDays = 30
	defaultSeriesDays  = 7
)

// ValidationError represents user input issues on the ingest path.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// MetricsService exposes the aggregation pipelines and the ingest surface.
type MetricsService interface {
	Summary(ctx context.Context, q model.MetricsQuery) (model.SummaryResponse, error)
	TimeSeries(ctx context.Context, q model.MetricsQuery) (model.TimeSeriesResponse, error)
	CostBreakdown(ctx context.Context, q model.MetricsQuery) (model.CostBreakdownResponse, error)
	StepBreakdown(ctx context.Context, q model.MetricsQuery) (model.StepBreakdownResponse, error)
	CampaignStats(ctx context.Context, q model.MetricsQuery) ([]model.CampaignStat, error)
	SenderStats(ctx context.Context, q model.MetricsQuery) ([]model.SenderStat, error)

	BuildEvent(req model.EventRequest) (model.EmailEvent, error)
	IngestEvent(ctx context.Context, event model.EmailEvent)
	BuildUsage(req model.UsageRequest) (model.UsageRecord, error)
	IngestUsage(ctx context.Context, rows []model.UsageRecord) error
}

type metricsService struct {
	repo     repository.MetricsRepository
	worker   IngestWorker
	excluded []string
	logger   *slog.Logger
	now      func() time.Time
}

// NewMetricsService constructs a metricsService. excluded is the campaign
// deny-list applied to every fetch and again post-fetch as a safety net.
func NewMetricsService(repo repository.MetricsRepository, worker IngestWorker, excluded []string, logger *slog.Logger) MetricsService {
	if logger == nil {
		logger = slog.Default()
	}
	return &metricsService{
		repo:     repo,
		worker:   worker,
		excluded: excluded,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *metricsService) eventQuery(q model.MetricsQuery, w period.Window) repository.EventQuery {
	return repository.EventQuery{
		WorkspaceID: q.WorkspaceID,
		StartDate:   w.StartDate(),
		EndDate:     w.EndDate(),
		Campaign:    q.Campaign,
		Sender:      q.Sender,
		Excluded:    s.excluded,
	}
}

func (s *metricsService) usageQuery(q model.MetricsQuery, w period.Window) repository.UsageQuery {
	return repository.UsageQuery{
		WorkspaceID: q.WorkspaceID,
		StartDate:   w.StartDate(),
		EndDate:     w.EndDate(),
		Campaign:    q.Campaign,
		Provider:    q.Provider,
		Excluded:    s.excluded,
	}
}

func sourceFor(err error) string {
	if errors.Is(err, repository.ErrDataUnavailable) {
		return SourceNoDatabase
	}
	return SourceError
}
