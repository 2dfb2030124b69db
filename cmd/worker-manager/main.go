// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"rentcheck-workers/internal/common/aws"
	"rentcheck-workers/internal/common/camunda"
	"rentcheck-workers/internal/common/config"
	"rentcheck-workers/internal/common/database"
	"rentcheck-workers/internal/common/logger"
	"rentcheck-workers/internal/common/observability"
	"rentcheck-workers/internal/common/validation"
	indexevaluation "rentcheck-workers/internal/workers/rental/index-evaluation"
	"rentcheck-workers/pkg/registry"
)

func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log logger.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName), map[string]interface{}{
				"error":       err,
				"attempt":     i + 1,
				"maxRetries":  maxRetries,
				"nextRetryIn": delay.String(),
			})
			time.Sleep(delay)
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func fatal(log logger.Logger, msg string, err error) {
	log.Error(msg, map[string]interface{}{"error": err})
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.NewStructured("info", "console", "worker-manager")
		fatal(bootLog, "config load failed", err)
	}

	log := logger.NewStructured(cfg.Logging.Level, cfg.Logging.Format, cfg.App.Name)
	log.Info("starting worker manager", map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	})

	obs := observability.New(cfg.App.Name, log)
	defer obs.Shutdown()

	ctx := context.Background()

	// --- Activity registry and input schemas ---
	reg, err := registry.LoadOrDefault(cfg.Scoring.RegistryPath)
	if err != nil {
		fatal(log, "activity registry load failed", err)
	}
	if err := reg.Validate(); err != nil {
		fatal(log, "activity registry invalid", err)
	}
	validator, err := validation.NewValidator(reg)
	if err != nil {
		fatal(log, "input schema compilation failed", err)
	}
	log.Info("activity registry loaded", map[string]interface{}{
		"version":    reg.Version,
		"activities": len(reg.Activities),
	})

	// --- Zeebe ---
	zeebe, err := camunda.NewClientWithConfig(ctx, &camunda.ClientConfig{
		GatewayAddress:         cfg.Camunda.BrokerAddress,
		UsePlaintextConnection: cfg.Camunda.Plaintext,
		RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
		RetryConfig: &camunda.RetryConfig{
			MaxRetries: 10,
			BaseDelay:  2 * time.Second,
			MaxDelay:   30 * time.Second,
		},
	})
	if err != nil {
		fatal(log, "zeebe client failed after retries", err)
	}
	log.Info("zeebe client connected", map[string]interface{}{
		"gateway": cfg.Camunda.BrokerAddress,
	})

	// --- PostgreSQL ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log, "PostgreSQL connection")
	if err != nil {
		fatal(log, "postgres failed after retries", err)
	}
	if err := pg.EnsureSchema(ctx); err != nil {
		fatal(log, "postgres schema setup failed", err)
	}
	log.Info("postgres connected", nil)

	// --- Redis ---
	rdb := database.NewRedis(cfg.Database.Redis)
	err = retryWithBackoff(func() error {
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, log, "Redis connection")
	if err != nil {
		fatal(log, "redis failed after retries", err)
	}
	log.Info("redis connected", nil)

	// --- Elasticsearch ---
	esClient, err := database.NewElasticsearch(cfg.Database.Elasticsearch)
	if err != nil {
		fatal(log, "elasticsearch client failed", err)
	}
	err = retryWithBackoff(func() error {
		return esClient.Ping(ctx)
	}, 15, 2*time.Second, log, "Elasticsearch connection")
	if err != nil {
		fatal(log, "elasticsearch failed after retries", err)
	}
	created, err := esClient.EnsureIndex(ctx, cfg.Scoring.IndexName, indexevaluation.IndexMapping)
	if err != nil {
		fatal(log, "evaluation index setup failed", err)
	}
	log.Info("elasticsearch connected", map[string]interface{}{
		"index":        cfg.Scoring.IndexName,
		"indexCreated": created,
	})

	// --- AWS (notifications) ---
	var awsClients *aws.Clients
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		awsClients, err = aws.NewClients(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			fatal(log, "aws client setup failed", err)
		}
		log.Info("aws clients ready", map[string]interface{}{
			"region": cfg.Notifications.AWS.Region,
			"email":  cfg.Notifications.Email.Enabled,
			"sms":    cfg.Notifications.SMS.Enabled,
		})
	}

	deps := &dependencies{
		cfg:       cfg,
		db:        pg.DB,
		redis:     rdb.Client,
		es:        esClient.Client,
		aws:       awsClients,
		validator: validator,
		obs:       obs,
		log:       log,
	}

	workers, err := registerWorkers(zeebe.GetClient(), deps)
	if err != nil {
		fatal(log, "worker registration failed", err)
	}
	log.Info("workers registered", map[string]interface{}{
		"count": len(workers),
	})

	// --- Health & Metrics Server ---
	server := newHealthServer(fmt.Sprintf(":%d", cfg.Server.HealthPort), map[string]readinessCheck{
		"zeebe":         zeebe.HealthCheck,
		"postgres":      pg.Ping,
		"redis":         rdb.Ping,
		"elasticsearch": esClient.Ping,
	}, log)
	go func() {
		log.Info("health/metrics server listening", map[string]interface{}{
			"port": cfg.Server.HealthPort,
		})
		if err := server.ListenAndServe(); err != nil && !isServerClosed(err) {
			log.Error("health/metrics server failed", map[string]interface{}{"error": err})
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	sig := <-sigCh

	log.Info("shutdown signal received, stopping workers", map[string]interface{}{
		"signal": sig.String(),
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, w := range workers {
		w.Stop()
	}
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("health server shutdown failed", map[string]interface{}{"error": err})
	}
	if err := zeebe.Close(); err != nil {
		log.Error("error closing zeebe client", map[string]interface{}{"error": err})
	}
	if err := rdb.Close(); err != nil {
		log.Error("error closing redis client", map[string]interface{}{"error": err})
	}
	if err := pg.Close(); err != nil {
		log.Error("error closing postgres client", map[string]interface{}{"error": err})
	}

	log.Info("worker manager stopped gracefully", nil)
}
