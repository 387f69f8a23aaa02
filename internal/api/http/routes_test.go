package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
	"github.com/i474232898/sales-data-pipeline/internal/config"
	"github.com/i474232898/sales-data-pipeline/internal/pipeline"
)

func newTestRunner() *pipeline.Runner {
	cfg := &config.AppConfig{
		UserAPIURL:        "http://127.0.0.1:1/users",
		SalesDataFile:     "does-not-exist.csv",
		SalesMergeKey:     "customer_id",
		OpenWeatherAPIURL: "http://127.0.0.1:1/weather",
		OpenWeatherAPIKey: "k",
		OrderMergeKey:     "order_id",
		ChartDir:          ".",
	}
	return pipeline.NewRunner(cfg, apiclient.New(time.Second), nil)
}

// TestLatestRunNotFoundBeforeFirstRun verifies the status endpoint reports 404
// until a pipeline run has been recorded.
func TestLatestRunNotFoundBeforeFirstRun(t *testing.T) {
	app := fiber.New()
	RegisterRoutes(app, newTestRunner())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status %d, got %d", http.StatusNotFound, resp.StatusCode)
	}
}

// TestLatestRunReportedAfterRun verifies a recorded run (even a failed one) is
// served by the status endpoint.
func TestLatestRunReportedAfterRun(t *testing.T) {
	runner := newTestRunner()

	// The unreachable user API makes this run fail, which still records a summary.
	if err := runner.Run(context.Background()); err == nil {
		t.Fatal("expected pipeline run against unreachable API to fail")
	}

	app := fiber.New()
	RegisterRoutes(app, runner)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/runs/latest", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
}
