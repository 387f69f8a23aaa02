package pipeline

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
	"github.com/i474232898/sales-data-pipeline/internal/config"
	"github.com/i474232898/sales-data-pipeline/internal/store"
)

const userPayload = `[
	{"id": 1, "name": "Leanne Graham", "username": "Bret", "email": "a@b.c",
	 "address": {"geo": {"lat": "-37.3159", "lng": "81.1496"}}},
	{"id": 2, "name": "Ervin Howell", "username": "Antonette", "email": "d@e.f",
	 "address": {"geo": {"lat": "-43.9509", "lng": "-34.4618"}}},
	{"id": 3, "name": "Clementine Bauch", "username": "Samantha", "email": "g@h.i",
	 "address": {"geo": {"lat": "-68.6102", "lng": "-47.0653"}}}
]`

const weatherPayload = `{
	"main": {"temp": 283.15, "temp_min": 280.0, "temp_max": 285.5, "pressure": 1012, "humidity": 81},
	"wind": {"speed": 4.1, "deg": 80},
	"weather": [{"description": "light rain"}]
}`

func testConfig(t *testing.T, userURL, weatherURL string) *config.AppConfig {
	t.Helper()

	dir := t.TempDir()
	csv := "customer_id,order_id,product_id,quantity,price,order_date\n" +
		"1,101,11,2,10,2022-01-01\n" +
		"2,102,12,3,20,2022-01-02\n" +
		"3,103,13,1,15,2022-01-03\n"
	salesPath := filepath.Join(dir, "sales_data.csv")
	require.NoError(t, os.WriteFile(salesPath, []byte(csv), 0o644))

	return &config.AppConfig{
		UserAPIURL:        userURL,
		SalesDataFile:     salesPath,
		SalesMergeKey:     "customer_id",
		OpenWeatherAPIURL: weatherURL,
		OpenWeatherAPIKey: "test-key",
		OrderMergeKey:     "order_id",
		DatabasePath:      filepath.Join(dir, "internal_database.db"),
		ChartDir:          filepath.Join(dir, "charts"),
		HTTPTimeout:       5 * time.Second,
		MaxSalesRows:      20,
	}
}

func TestRunEndToEnd(t *testing.T) {
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(userPayload))
	}))
	defer userSrv.Close()

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("appid") != "test-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(weatherPayload))
	}))
	defer weatherSrv.Close()

	cfg := testConfig(t, userSrv.URL, weatherSrv.URL)
	writer, err := store.Open(cfg.DatabasePath)
	require.NoError(t, err)

	runner := NewRunner(cfg, apiclient.New(cfg.HTTPTimeout), writer)
	require.NoError(t, runner.Run(context.Background()))

	summary := runner.LastRun()
	require.NotNil(t, summary)
	assert.Equal(t, 3, summary.UserRows)
	assert.Equal(t, 3, summary.SalesRows)
	assert.Equal(t, 3, summary.EnrichedRows)
	assert.Empty(t, summary.Error)

	// Chart artifacts are written with their fixed names.
	for _, name := range []string{"total_sales_per_customer.png", "weather_trend.png", "sales_trend_daily.png"} {
		_, err := os.Stat(filepath.Join(cfg.ChartDir, name))
		assert.NoError(t, err, name)
	}

	// The destination store holds one row per enriched order in every table.
	verify, err := store.Open(cfg.DatabasePath)
	require.NoError(t, err)
	var orders []store.Order
	require.NoError(t, verify.DB().Find(&orders).Error)
	require.Len(t, orders, 3)
	assert.Equal(t, 101, orders[0].OrderID)
}

func TestRunAbortsWhenUserAPIFails(t *testing.T) {
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer userSrv.Close()

	cfg := testConfig(t, userSrv.URL, "http://127.0.0.1:1/weather")
	writer, err := store.Open(cfg.DatabasePath)
	require.NoError(t, err)

	runner := NewRunner(cfg, apiclient.New(cfg.HTTPTimeout), writer)
	err = runner.Run(context.Background())
	require.Error(t, err)

	summary := runner.LastRun()
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.Error)
	assert.Zero(t, summary.EnrichedRows)
}

func TestRunAbortsWhenWeatherAPIFails(t *testing.T) {
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(userPayload))
	}))
	defer userSrv.Close()

	var weatherCalls int
	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		weatherCalls++
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer weatherSrv.Close()

	cfg := testConfig(t, userSrv.URL, weatherSrv.URL)
	writer, err := store.Open(cfg.DatabasePath)
	require.NoError(t, err)

	runner := NewRunner(cfg, apiclient.New(cfg.HTTPTimeout), writer)
	require.Error(t, runner.Run(context.Background()))

	// The first failed fetch aborts the enrichment loop.
	assert.Equal(t, 1, weatherCalls)
}

func TestRunWithPartialJoinMatches(t *testing.T) {
	// Only customers 1 and 2 exist; the order for customer 3 is silently dropped.
	partial := `[
		{"id": 1, "name": "Leanne Graham", "username": "Bret", "email": "a@b.c",
		 "address": {"geo": {"lat": "0", "lng": "0"}}},
		{"id": 2, "name": "Ervin Howell", "username": "Antonette", "email": "d@e.f",
		 "address": {"geo": {"lat": "0", "lng": "0"}}}
	]`
	userSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(partial))
	}))
	defer userSrv.Close()

	weatherSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(weatherPayload))
	}))
	defer weatherSrv.Close()

	cfg := testConfig(t, userSrv.URL, weatherSrv.URL)
	writer, err := store.Open(cfg.DatabasePath)
	require.NoError(t, err)

	runner := NewRunner(cfg, apiclient.New(cfg.HTTPTimeout), writer)
	require.NoError(t, runner.Run(context.Background()))

	summary := runner.LastRun()
	require.NotNil(t, summary)
	assert.Equal(t, 2, summary.EnrichedRows, fmt.Sprintf("summary: %+v", summary))
}
