package cache

import (
	"context"
	"time"

	"github.com/bytedance/sonic"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/service"
)

// DefaultTTL keeps cached panels fresh enough for a live dashboard while
// absorbing bursts of identical requests.
const DefaultTTL = 30 * time.Second

// Key builds a deterministic cache key from the endpoint name and every
// resolved query parameter.
func Key(endpoint string, q model.MetricsQuery) string {
	return "metrics:" + endpoint +
		":ws=" + q.WorkspaceID +
		":start=" + q.Start +
		":end=" + q.End +
		":campaign=" + q.Campaign +
		":provider=" + q.Provider +
		":sender=" + q.Sender +
		":metric=" + q.Metric
}

// Service decorates a MetricsService with read-through result caching.
// Ingest methods pass straight through.
type Service struct {
	inner service.MetricsService
	store Store
	ttl   time.Duration
}

var _ service.MetricsService = (*Service)(nil)

// NewService wraps inner with the given store. A non-positive ttl falls
// back to DefaultTTL.
func NewService(inner service.MetricsService, store Store, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Service{inner: inner, store: store, ttl: ttl}
}

func (s *Service) Summary(ctx context.Context, q model.MetricsQuery) (model.SummaryResponse, error) {
	key := Key("summary", q)
	var cached model.SummaryResponse
	if hit(ctx, s.store, key, &cached) {
		return cached, nil
	}
	resp, err := s.inner.Summary(ctx, q)
	if err == nil {
		put(ctx, s.store, key, resp, s.ttl)
	}
	return resp, err
}

func (s *Service) TimeSeries(ctx context.Context, q model.MetricsQuery) (model.TimeSeriesResponse, error) {
	key := Key("timeseries", q)
	var cached model.TimeSeriesResponse
	if hit(ctx, s.store, key, &cached) {
		return cached, nil
	}
	resp, err := s.inner.TimeSeries(ctx, q)
	if err == nil {
		put(ctx, s.store, key, resp, s.ttl)
	}
	return resp, err
}

func (s *Service) CostBreakdown(ctx context.Context, q model.MetricsQuery) (model.CostBreakdownResponse, error) {
	key := Key("costs", q)
	var cached model.CostBreakdownResponse
	if hit(ctx, s.store, key, &cached) {
		return cached, nil
	}
	resp, err := s.inner.CostBreakdown(ctx, q)
	if err == nil {
		put(ctx, s.store, key, resp, s.ttl)
	}
	return resp, err
}

func (s *Service) StepBreakdown(ctx context.Context, q model.MetricsQuery) (model.StepBreakdownResponse, error) {
	key := Key("steps", q)
	var cached model.StepBreakdownResponse
	if hit(ctx, s.store, key, &cached) {
		return cached, nil
	}
	resp, err := s.inner.StepBreakdown(ctx, q)
	if err == nil {
		put(ctx, s.store, key, resp, s.ttl)
	}
	return resp, err
}

func (s *Service) CampaignStats(ctx context.Context, q model.MetricsQuery) ([]model.CampaignStat, error) {
	key := Key("campaigns", q)
	var cached []model.CampaignStat
	if hit(ctx, s.store, key, &cached) {
		return cached, nil
	}
	resp, err := s.inner.CampaignStats(ctx, q)
	if err == nil {
		put(ctx, s.store, key, resp, s.ttl)
	}
	return resp, err
}

func (s *Service) SenderStats(ctx context.Context, q model.MetricsQuery) ([]model.SenderStat, error) {
	key := Key("senders", q)
	var cached []model.SenderStat
	if hit(ctx, s.store, key, &cached) {
		return cached, nil
	}
	resp, err := s.inner.SenderStats(ctx, q)
	if err == nil {
		put(ctx, s.store, key, resp, s.ttl)
	}
	return resp, err
}

func (s *Service) BuildEvent(req model.EventRequest) (model.EmailEvent, error) {
	return s.inner.BuildEvent(req)
}

func (s *Service) IngestEvent(ctx context.Context, event model.EmailEvent) {
	s.inner.IngestEvent(ctx, event)
}

func (s *Service) BuildUsage(req model.UsageRequest) (model.UsageRecord, error) {
	return s.inner.BuildUsage(req)
}

func (s *Service) IngestUsage(ctx context.Context, rows []model.UsageRecord) error {
	return s.inner.IngestUsage(ctx, rows)
}

func hit(ctx context.Context, store Store, key string, dst interface{}) bool {
	b, ok := store.Get(ctx, key)
	if !ok {
		return false
	}
	return sonic.Unmarshal(b, dst) == nil
}

func put(ctx context.Context, store Store, key string, value interface{}, ttl time.Duration) {
	b, err := sonic.Marshal(value)
	if err != nil {
		return
	}
	store.Set(ctx, key, b, ttl)
}
