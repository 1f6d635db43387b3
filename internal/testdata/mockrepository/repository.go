package mockrepository

import (
	"context"

	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/repository"

	"github.com/stretchr/testify/mock"
)

type Repository struct {
	mock.Mock
}

// Interface compliance check
var _ repository.MetricsRepository = &Repository{}

func (m *Repository) CreateEvent(ctx context.Context, event model.EmailEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *Repository) CreateEventBatch(ctx context.Context, events []model.EmailEvent) error {
	args := m.Called(ctx, events)
	return args.Error(0)
}

func (m *Repository) CreateUsageBatch(ctx context.Context, rows []model.UsageRecord) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *Repository) FetchEvents(ctx context.Context, q repository.EventQuery) ([]model.EmailEvent, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.EmailEvent), args.Error(1)
}

func (m *Repository) FetchUsage(ctx context.Context, q repository.UsageQuery) ([]model.UsageRecord, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.UsageRecord), args.Error(1)
}

func (m *Repository) FetchDailyStats(ctx context.Context, q repository.EventQuery) ([]model.DailyStat, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyStat), args.Error(1)
}

func (m *Repository) FetchDailyCost(ctx context.Context, q repository.UsageQuery) ([]model.DailyCost, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.DailyCost), args.Error(1)
}

func (m *Repository) CountLeads(ctx context.Context, workspaceID, campaign string) (int64, error) {
	args := m.Called(ctx, workspaceID, campaign)
	return args.Get(0).(int64), args.Error(1)
}
