package mockservice

import (
	"context"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/service"

	"github.com/stretchr/testify/mock"
)

type Service struct {
	mock.Mock
}

// Interface compliance check
var _ service.MetricsService = &Service{}

func (m *Service) Summary(ctx context.Context, q model.MetricsQuery) (model.SummaryResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.SummaryResponse), args.Error(1)
}

func (m *Service) TimeSeries(ctx context.Context, q model.MetricsQuery) (model.TimeSeriesResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.TimeSeriesResponse), args.Error(1)
}

func (m *Service) CostBreakdown(ctx context.Context, q model.MetricsQuery) (model.CostBreakdownResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.CostBreakdownResponse), args.Error(1)
}

func (m *Service) StepBreakdown(ctx context.Context, q model.MetricsQuery) (model.StepBreakdownResponse, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(model.StepBreakdownResponse), args.Error(1)
}

func (m *Service) CampaignStats(ctx context.Context, q model.MetricsQuery) ([]model.CampaignStat, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.CampaignStat), args.Error(1)
}

func (m *Service) SenderStats(ctx context.Context, q model.MetricsQuery) ([]model.SenderStat, error) {
	args := m.Called(ctx, q)
	return args.Get(0).([]model.SenderStat), args.Error(1)
}

func (m *Service) BuildEvent(req model.EventRequest) (model.EmailEvent, error) {
	args := m.Called(req)
	return args.Get(0).(model.EmailEvent), args.Error(1)
}

func (m *Service) IngestEvent(ctx context.Context, event model.EmailEvent) {
	m.Called(ctx, event)
}

func (m *Service) BuildUsage(req model.UsageRequest) (model.UsageRecord, error) {
	args := m.Called(req)
	return args.Get(0).(model.UsageRecord), args.Error(1)
}

func (m *Service) IngestUsage(ctx context.Context, rows []model.UsageRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}
