package httpapi

import (
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/sales-data-pipeline/internal/pipeline"
)

// RegisterRoutes wires the status handlers into the Fiber app. The status API
// is only served in scheduled mode; a single-shot run exits before serving.
func RegisterRoutes(app *fiber.App, runner *pipeline.Runner) {
	v1 := app.Group("/api/v1")

	v1.Get("/runs/latest", func(c *fiber.Ctx) error {
		summary := runner.LastRun()
		if summary == nil {
			return fiber.NewError(fiber.StatusNotFound, "no pipeline run has completed yet")
		}
		return c.JSON(summary)
	})
}
