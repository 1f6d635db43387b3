package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"outreach-metrics-service/internal/model"
)

// BuildEvent validates and constructs an EmailEvent from an incoming
// request. Rows without an idempotency key get one assigned so retried
// deliveries from the workflow engine stay idempotent.
func (s *metricsService) BuildEvent(req model.EventRequest) (model.EmailEvent, error) {
	if req.WorkspaceID == "" {
		return model.EmailEvent{}, &ValidationError{Message: "workspace_id is required"}
	}
	if req.ContactEmail == "" {
		return model.EmailEvent{}, &ValidationError{Message: "contact_email is required"}
	}
	if req.EventType == "" {
		return model.EmailEvent{}, &ValidationError{Message: "event_type is required"}
	}
	if !model.ValidEventType(req.EventType) {
		return model.EmailEvent{}, &ValidationError{Message: "unsupported event_type"}
	}
	if req.Timestamp == 0 {
		return model.EmailEvent{}, &ValidationError{Message: "timestamp is required"}
	}

	step := req.Step
	if step <= 0 {
		step = 1
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}

	return model.EmailEvent{
		IdempotencyKey: key,
		WorkspaceID:    req.WorkspaceID,
		CampaignName:   req.CampaignName,
		ContactEmail:   req.ContactEmail,
		EventType:      model.EventType(req.EventType),
		Step:           step,
		EventTimestamp: time.Unix(req.Timestamp, 0).UTC(),
		Metadata:       req.Metadata,
	}, nil
}

// IngestEvent hands the event to the batch worker.
func (s *metricsService) IngestEvent(ctx context.Context, event model.EmailEvent) {
	s.worker.Enqueue(event)
}

// BuildUsage validates and constructs a UsageRecord from an incoming request.
func (s *metricsService) BuildUsage(req model.UsageRequest) (model.UsageRecord, error) {
	if req.WorkspaceID == "" {
		return model.UsageRecord{}, &ValidationError{Message: "workspace_id is required"}
	}
	if req.Provider == "" {
		return model.UsageRecord{}, &ValidationError{Message: "provider is required"}
	}
	if req.Model == "" {
		return model.UsageRecord{}, &ValidationError{Message: "model is required"}
	}
	if req.TokensIn < 0 || req.TokensOut < 0 {
		return model.UsageRecord{}, &ValidationError{Message: "token counts must be non-negative"}
	}
	if req.CostUSD < 0 {
		return model.UsageRecord{}, &ValidationError{Message: "cost_usd must be non-negative"}
	}

	createdAt := time.Unix(req.Timestamp, 0).UTC()
	if req.Timestamp == 0 {
		createdAt = s.now().UTC()
	}

	key := req.IdempotencyKey
	if key == "" {
		key = uuid.New().String()
	}

	return model.UsageRecord{
		IdempotencyKey: key,
		WorkspaceID:    req.WorkspaceID,
		CampaignName:   req.CampaignName,
		Provider:       req.Provider,
		Model:          req.Model,
		TokensIn:       req.TokensIn,
		TokensOut:      req.TokensOut,
		CostUSD:        req.CostUSD,
		CreatedAt:      createdAt,
	}, nil
}

// IngestUsage writes usage rows directly; volume is far below the event
// stream, so no buffering worker is involved.
func (s *metricsService) IngestUsage(ctx context.Context, rows []model.UsageRecord) error {
	return s.repo.CreateUsageBatch(ctx, rows)
}
