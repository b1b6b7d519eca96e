package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/light-bringer/order-service/internal/services"
)

func main() {
	if err := run(); err != nil {
		slog.Error("failed to run server", "err", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Load configuration from environment variables
	config := loadConfig()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})).With("service", "order-service")

	logger.Info("starting order service",
		"spanner_database", config.Services.SpannerDB,
		"http_port", config.HTTPPort,
		"kafka_brokers", strings.Join(config.Services.KafkaBrokers, ","),
		"kafka_topic", config.Services.KafkaTopic,
	)

	// 2. Initialize service dependencies (explicit constructor wiring)
	serviceOpts, err := services.NewServiceOptions(ctx, config.Services, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize service: %w", err)
	}
	defer serviceOpts.Close()

	// 3. Start the outbox publisher in the background
	go serviceOpts.Publisher.Run(ctx)

	// 4. Drain discarded entries so exhausted retries reach the operator log
	go func() {
		for entry := range serviceOpts.Publisher.Discarded() {
			logger.Error("outbox entry needs manual remediation",
				"entry_id", entry.EntryID,
				"order_id", entry.OrderID,
				"attempts", entry.Attempts+1,
			)
		}
	}()

	// 5. Mount HTTP routes
	mux := http.NewServeMux()
	serviceOpts.OrdersHandler.Register(mux)
	serviceOpts.OutboxHandler.Register(mux)

	httpServer := &http.Server{
		Addr:    ":" + config.HTTPPort,
		Handler: mux,
	}

	// 6. Start the HTTP server in the background
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 7. Wait for shutdown signal or server failure
	select {
	case <-ctx.Done():
	case err := <-errCh:
		return fmt.Errorf("http server error: %w", err)
	}

	logger.Info("shutting down gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "err", err)
	}

	return nil
}

// Config holds application configuration.
type Config struct {
	HTTPPort string
	Services services.Config
}

// loadConfig loads configuration from environment variables with defaults.
func loadConfig() Config {
	spannerDB := getEnv("SPANNER_DATABASE",
		"projects/test-project/instances/dev-instance/databases/order-service-db")

	var brokers []string
	for _, b := range strings.Split(os.Getenv("KAFKA_BROKERS"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}

	return Config{
		HTTPPort: getEnv("HTTP_PORT", "8080"),
		Services: services.Config{
			SpannerDB:      spannerDB,
			KafkaBrokers:   brokers,
			KafkaTopic:     getEnv("KAFKA_TOPIC", "order.created"),
			PollInterval:   getEnvDuration("OUTBOX_POLL_INTERVAL", time.Second),
			BatchSize:      getEnvInt("OUTBOX_BATCH_SIZE", 50),
			MaxAttempts:    int64(getEnvInt("OUTBOX_MAX_ATTEMPTS", 5)),
			BackoffBase:    getEnvDuration("OUTBOX_BACKOFF_BASE", 200*time.Millisecond),
			BackoffCap:     getEnvDuration("OUTBOX_BACKOFF_CAP", 30*time.Second),
			ClaimTTL:       getEnvDuration("OUTBOX_CLAIM_TTL", 30*time.Second),
			StorageTimeout: getEnvDuration("STORAGE_TIMEOUT", 5*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return fallback
}
