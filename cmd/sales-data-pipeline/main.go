package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	httpapi "github.com/i474232898/sales-data-pipeline/internal/api/http"
	"github.com/i474232898/sales-data-pipeline/internal/apiclient"
	"github.com/i474232898/sales-data-pipeline/internal/config"
	"github.com/i474232898/sales-data-pipeline/internal/pipeline"
	"github.com/i474232898/sales-data-pipeline/internal/scheduler"
	"github.com/i474232898/sales-data-pipeline/internal/store"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	// Shared HTTP client for outbound API calls.
	client := apiclient.New(cfg.HTTPTimeout)

	// Destination sqlite store; tables are replaced wholly on each run.
	writer, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}

	runner := pipeline.NewRunner(cfg, client, writer)

	// Default mode: a single pipeline execution.
	if cfg.RunInterval <= 0 {
		if err := runner.Run(context.Background()); err != nil {
			log.Fatalf("pipeline run failed: %v", err)
		}
		return
	}

	// Scheduled mode: periodic runs plus a small status API.
	sched := scheduler.New(runner, cfg.RunInterval)
	if err := sched.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}
	defer sched.Stop()

	app := fiber.New(fiber.Config{
		AppName:               "sales-data-pipeline",
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			// Centralized error response
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error":   true,
				"message": err.Error(),
			})
		},
	})

	// Global middleware
	app.Use(logger.New())
	app.Use(recover.New())

	// Basic health endpoint
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "ok",
			"service": "sales-data-pipeline",
		})
	})

	// Status routes.
	httpapi.RegisterRoutes(app, runner)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("fiber server stopped: %v", err)
		}
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("error during shutdown: %v", err)
	}
}
