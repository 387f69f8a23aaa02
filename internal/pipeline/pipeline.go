package pipeline

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/i474232898/sales-data-pipeline/internal/analysis"
	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
	"github.com/i474232898/sales-data-pipeline/internal/config"
	"github.com/i474232898/sales-data-pipeline/internal/sales"
	"github.com/i474232898/sales-data-pipeline/internal/store"
	"github.com/i474232898/sales-data-pipeline/internal/users"
	"github.com/i474232898/sales-data-pipeline/internal/weather"
)

// RunSummary describes the outcome of one pipeline run.
type RunSummary struct {
	RunID        uuid.UUID `json:"runId"`
	StartedAt    time.Time `json:"startedAt"`
	FinishedAt   time.Time `json:"finishedAt"`
	UserRows     int       `json:"userRows"`
	SalesRows    int       `json:"salesRows"`
	EnrichedRows int       `json:"enrichedRows"`
	Error        string    `json:"error,omitempty"`
}

// Runner sequences the pipeline stages: fetch, merge, enrich, aggregate,
// persist. All collaborators are constructed once and passed in explicitly.
type Runner struct {
	cfg    *config.AppConfig
	client *apiclient.Client
	writer *store.Writer
	charts analysis.ChartWriter
	rng    *rand.Rand

	mu      sync.RWMutex
	lastRun *RunSummary
}

// NewRunner creates a Runner with its own seeded RNG for synthetic coordinates.
func NewRunner(cfg *config.AppConfig, client *apiclient.Client, writer *store.Writer) *Runner {
	return &Runner{
		cfg:    cfg,
		client: client,
		writer: writer,
		charts: analysis.ChartWriter{Dir: cfg.ChartDir},
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Run executes the whole pipeline once. The first stage error aborts the run;
// there is no partial-data continuation.
func (r *Runner) Run(ctx context.Context) error {
	summary := RunSummary{
		RunID:     uuid.New(),
		StartedAt: time.Now().UTC(),
	}
	log.Printf("pipeline: run %s started", summary.RunID)

	err := r.run(ctx, &summary)

	summary.FinishedAt = time.Now().UTC()
	if err != nil {
		summary.Error = err.Error()
		log.Printf("pipeline: run %s failed: %v", summary.RunID, err)
	} else {
		log.Printf("pipeline: run %s completed with %d enriched rows", summary.RunID, summary.EnrichedRows)
	}

	r.mu.Lock()
	r.lastRun = &summary
	r.mu.Unlock()

	return err
}

func (r *Runner) run(ctx context.Context, summary *RunSummary) error {
	userRows, err := users.Fetch(ctx, r.client, r.cfg.UserAPIURL)
	if err != nil {
		return err
	}
	summary.UserRows = len(userRows)

	salesRows, err := sales.Load(r.cfg.SalesDataFile, r.cfg.MaxSalesRows)
	if err != nil {
		return err
	}
	summary.SalesRows = len(salesRows)

	orders, err := sales.MergeWithUsers(salesRows, userRows, r.cfg.SalesMergeKey)
	if err != nil {
		return err
	}

	providerCfg := weather.ProviderConfig{
		APIURL: r.cfg.OpenWeatherAPIURL,
		APIKey: r.cfg.OpenWeatherAPIKey,
	}
	weatherRows, err := weather.FetchForOrders(ctx, r.client, providerCfg, r.rng, orders)
	if err != nil {
		return err
	}

	enriched, err := weather.MergeWithOrders(weatherRows, orders, r.cfg.OrderMergeKey)
	if err != nil {
		return err
	}
	summary.EnrichedRows = len(enriched)

	if err := r.charts.WriteAll(enriched); err != nil {
		return err
	}

	return r.writer.Persist(enriched)
}

// LastRun returns the most recent run summary, or nil before the first run.
func (r *Runner) LastRun() *RunSummary {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.lastRun
}
