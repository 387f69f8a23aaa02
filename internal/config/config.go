package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// AppConfig carries every externally supplied setting for one pipeline run.
// It is constructed once in main and passed to each component explicitly.
type AppConfig struct {
	UserAPIURL    string `validate:"required,url"`
	SalesDataFile string `validate:"required"`
	SalesMergeKey string `validate:"required"`

	OpenWeatherAPIURL string `validate:"required,url"`
	OpenWeatherAPIKey string `validate:"required"`
	OrderMergeKey     string `validate:"required"`

	// DatabasePath is the sqlite file the persistence writer replaces tables in.
	DatabasePath string `validate:"required"`

	// ChartDir receives the rendered chart images.
	ChartDir string `validate:"required"`

	// HTTPTimeout applies to every outbound API call.
	HTTPTimeout time.Duration

	// MaxSalesRows caps the sales file rows consumed (0 = unlimited).
	MaxSalesRows int

	// RunInterval enables scheduled mode when > 0; zero means run once and exit.
	RunInterval time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{
		UserAPIURL:        os.Getenv("USER_API_URL"),
		SalesDataFile:     getenvDefault("SALES_DATA_FILE_NAME", "sales_data.csv"),
		SalesMergeKey:     getenvDefault("SALES_MERGE_KEY", "customer_id"),
		OpenWeatherAPIURL: os.Getenv("OPEN_WEATHER_API_URL"),
		OpenWeatherAPIKey: os.Getenv("OPEN_WEATHER_API_KEY"),
		OrderMergeKey:     getenvDefault("ORDER_MERGE_KEY", "order_id"),
		DatabasePath:      getenvDefault("DATABASE_PATH", "internal_database.db"),
		ChartDir:          getenvDefault("CHART_DIR", "."),
		Port:              getenvDefault("PORT", "8080"),
	}

	timeoutStr := getenvDefault("HTTP_TIMEOUT", "120s")
	timeout, err := time.ParseDuration(timeoutStr)
	if err != nil {
		return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
	}
	cfg.HTTPTimeout = timeout

	cfg.MaxSalesRows = getenvInt("MAX_SALES_ROWS", 20)
	if cfg.MaxSalesRows < 0 {
		return nil, fmt.Errorf("MAX_SALES_ROWS must not be negative")
	}

	// Scheduled mode is off unless an interval is configured.
	intervalStr := getenvDefault("RUN_INTERVAL", "0")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		return nil, fmt.Errorf("invalid RUN_INTERVAL: %w", err)
	}
	cfg.RunInterval = interval

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}
