package routes

import (
	"outreach-metrics-service/internal/controller"

	"github.com/gofiber/fiber/v2"
)

// Register attaches all HTTP routes to the Fiber app.
func Register(app *fiber.App, mc controller.MetricsController) {
	app.Post("/events", mc.CreateEvent)
	app.Post("/usage", mc.CreateUsage)

	metrics := app.Group("/metrics")
	metrics.Get("/summary", mc.GetSummary)
	metrics.Get("/timeseries", mc.GetTimeSeries)
	metrics.Get("/costs", mc.GetCostBreakdown)
	metrics.Get("/steps", mc.GetStepBreakdown)
	metrics.Get("/campaigns", mc.GetCampaignStats)
	metrics.Get("/senders", mc.GetSenderStats)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}
