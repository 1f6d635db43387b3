package controller

import (
	"outreach-metrics-service/internal/model"
	"outreach-metrics-service/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
)

// MetricsController exposes HTTP handlers for the dashboard and ingest
// endpoints.
type MetricsController interface {
	GetSummary(c *fiber.Ctx) error
	GetTimeSeries(c *fiber.Ctx) error
	GetCostBreakdown(c *fiber.Ctx) error
	GetStepBreakdown(c *fiber.Ctx) error
	GetCampaignStats(c *fiber.Ctx) error
	GetSenderStats(c *fiber.Ctx) error
	CreateEvent(c *fiber.Ctx) error
	CreateUsage(c *fiber.Ctx) error
}

type metricsController struct {
	metricsService     service.MetricsService
	authorizer         WorkspaceAuthorizer
	defaultWorkspaceID string
}

// NewMetricsController builds a MetricsController. defaultWorkspaceID
// substitutes for a missing workspace_id parameter and should be empty in
// production.
func NewMetricsController(svc service.MetricsService, authorizer WorkspaceAuthorizer, defaultWorkspaceID string) MetricsController {
	return &metricsController{
		metricsService:     svc,
		authorizer:         authorizer,
		defaultWorkspaceID: defaultWorkspaceID,
	}
}

// GetSummary returns the KPI block for the requested window.
func (h *metricsController) GetSummary(c *fiber.Ctx) error {
	q, err := h.buildQuery(c)
	if err != nil {
		return err
	}
	resp, svcErr := h.metricsService.Summary(c.Context(), q)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch summary")
	}
	return c.JSON(resp)
}

// GetTimeSeries returns one dense per-day series for the requested metric.
func (h *metricsController) GetTimeSeries(c *fiber.Ctx) error {
	q, err := h.buildQuery(c)
	if err != nil {
		return err
	}
	resp, svcErr := h.metricsService.TimeSeries(c.Context(), q)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch timeseries")
	}
	return c.JSON(resp)
}

// GetCostBreakdown returns the LLM spend panel.
func (h *metricsController) GetCostBreakdown(c *fiber.Ctx) error {
	q, err := h.buildQuery(c)
	if err != nil {
		return err
	}
	resp, svcErr := h.metricsService.CostBreakdown(c.Context(), q)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch cost breakdown")
	}
	return c.JSON(resp)
}

// GetStepBreakdown returns the sequence-step panel.
func (h *metricsController) GetStepBreakdown(c *fiber.Ctx) error {
	q, err := h.buildQuery(c)
	if err != nil {
		return err
	}
	resp, svcErr := h.metricsService.StepBreakdown(c.Context(), q)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch step breakdown")
	}
	return c.JSON(resp)
}

// GetCampaignStats returns per-campaign stat objects.
func (h *metricsController) GetCampaignStats(c *fiber.Ctx) error {
	q, err := h.buildQuery(c)
	if err != nil {
		return err
	}
	resp, svcErr := h.metricsService.CampaignStats(c.Context(), q)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch campaign stats")
	}
	return c.JSON(resp)
}

// GetSenderStats returns per-sender stat objects.
func (h *metricsController) GetSenderStats(c *fiber.Ctx) error {
	q, err := h.buildQuery(c)
	if err != nil {
		return err
	}
	resp, svcErr := h.metricsService.SenderStats(c.Context(), q)
	if svcErr != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch sender stats")
	}
	return c.JSON(resp)
}

// CreateEvent accepts single event payloads from the workflow engine.
func (h *metricsController) CreateEvent(c *fiber.Ctx) error {
	var req model.EventRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	event, err := h.metricsService.BuildEvent(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	h.metricsService.IngestEvent(c.Context(), event)

	return c.SendStatus(fiber.StatusAccepted)
}

// CreateUsage accepts single usage payloads from the workflow engine.
func (h *metricsController) CreateUsage(c *fiber.Ctx) error {
	var req model.UsageRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid json payload")
	}

	record, err := h.metricsService.BuildUsage(req)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	if err := h.metricsService.IngestUsage(c.Context(), []model.UsageRecord{record}); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "failed to store usage")
	}

	return c.SendStatus(fiber.StatusAccepted)
}

// buildQuery parses the shared query parameters. Dates are passed through
// verbatim: malformed or inverted ranges degrade to defaults or empty
// aggregates downstream, never a validation error.
func (h *metricsController) buildQuery(c *fiber.Ctx) (model.MetricsQuery, error) {
	workspaceID := utils.Trim(c.Query("workspace_id"), ' ')
	if workspaceID == "" {
		workspaceID = h.defaultWorkspaceID
	}
	if workspaceID == "" {
		return model.MetricsQuery{}, fiber.NewError(fiber.StatusBadRequest, "workspace_id is required")
	}

	if err := h.authorizer.Authorize(c.Context(), workspaceID); err != nil {
		return model.MetricsQuery{}, fiber.NewError(fiber.StatusForbidden, "workspace access denied")
	}

	return model.MetricsQuery{
		WorkspaceID: workspaceID,
		Start:       utils.Trim(c.Query("start"), ' '),
		End:         utils.Trim(c.Query("end"), ' '),
		Campaign:    utils.Trim(c.Query("campaign"), ' '),
		Provider:    utils.Trim(c.Query("provider"), ' '),
		Sender:      utils.Trim(c.Query("sender"), ' '),
		Metric:      utils.Trim(c.Query("metric"), ' '),
	}, nil
}
