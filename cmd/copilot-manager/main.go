// cmd/copilot-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"discard-copilot/internal/api"
	"discard-copilot/internal/audit"
	"discard-copilot/internal/cards"
	"discard-copilot/internal/common/aws"
	"discard-copilot/internal/common/config"
	"discard-copilot/internal/common/database"
	"discard-copilot/internal/common/logger"
	"discard-copilot/internal/common/observability"
	"discard-copilot/internal/executors"
	"discard-copilot/internal/executors/balancecheck"
	"discard-copilot/internal/executors/cardfund"
	"discard-copilot/internal/executors/cardstate"
	"discard-copilot/internal/executors/merchantpay"
	"discard-copilot/internal/executors/notify"
	"discard-copilot/internal/executors/policycheck"
	"discard-copilot/internal/executors/wallet"
	"discard-copilot/internal/intent"
	"discard-copilot/internal/merchants"
	"discard-copilot/internal/plan/archive"
	"discard-copilot/internal/plan/builder"
	"discard-copilot/internal/plan/engine"
	"discard-copilot/internal/plan/templates"
	"discard-copilot/pkg/registry"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config load failed: %v\n", err)
		os.Exit(1)
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format)
	defer zapLog.Sync()

	// Wrap zap logger with our logger interface
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting copilot manager...")

	obs := observability.New("copilot-manager")
	defer obs.Shutdown()

	tracing := observability.NewTracing("copilot-manager", os.Getenv("JAEGER_ENDPOINT"))
	defer tracing.Shutdown()

	ctx := context.Background()

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		// Test the connection with context
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Redis with retry ---
	var rdb *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		rdb, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		// Test the connection with context
		return rdb.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer rdb.Close()
	zapLog.Info("Redis connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		// Test the connection
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init AWS notification clients ---
	var sesService notify.SESService
	var snsService notify.SNSService
	if cfg.Notifications.Email.Enabled || cfg.Notifications.SMS.Enabled {
		if sesClient, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region); err != nil {
			zapLog.Warn("SES client unavailable, email notifications disabled", zap.Error(err))
		} else {
			sesService = sesClient
		}
		if snsClient, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region); err != nil {
			zapLog.Warn("SNS client unavailable, SMS notifications disabled", zap.Error(err))
		} else {
			snsService = snsClient
		}
	}

	// --- Action catalog ---
	catalog, err := registry.LoadCatalog(cfg.Catalog.Path)
	if err != nil {
		zapLog.Warn("action catalog unavailable, parameter validation disabled",
			zap.String("path", cfg.Catalog.Path), zap.Error(err))
		catalog = nil
	}

	// --- Domain stores ---
	cardStore := cards.NewPostgresStore(pg.DB)
	velocityStore := cards.NewRedisVelocityStore(rdb.Client)
	merchantStore := merchants.NewPostgresStore(pg.DB)

	// --- Plan pipeline ---
	templateRegistry, err := templates.NewRegistry()
	if err != nil {
		zapLog.Fatal("template registry failed", zap.Error(err))
	}

	parser := intent.NewParser(cfg.Intent, log)
	planBuilder := builder.New(cfg.Planner, cfg.Fees, templateRegistry, log)
	planCache := builder.NewPlanCache(rdb.Client, log)
	planArchive := archive.New(pg.DB, log)

	gateway := &wallet.FixedDelayGateway{Delay: 50 * time.Millisecond}

	execRegistry := executors.NewRegistry()
	execRegistry.Register(balancecheck.NewHandler(cardStore, log))
	execRegistry.Register(policycheck.NewHandler(cardStore, velocityStore, log))
	execRegistry.Register(cardfund.NewHandler(cardStore, velocityStore, log))
	execRegistry.Register(merchantpay.NewScreenHandler(merchantStore, log))
	execRegistry.Register(merchantpay.NewPayHandler(merchantStore, cardStore, velocityStore, log))
	execRegistry.Register(cardstate.NewFreezeHandler(cardStore, log))
	execRegistry.Register(cardstate.NewUnfreezeHandler(cardStore, log))
	execRegistry.Register(wallet.NewTransferHandler(gateway, log))
	execRegistry.Register(wallet.NewSwapHandler(gateway, cfg.Planner.DefaultSlippageBps, log))
	execRegistry.Register(wallet.NewWithdrawHandler(gateway, log))
	execRegistry.Register(notify.NewHandler(cfg.Notifications, sesService, snsService, log))
	zapLog.Info("Executors registered", zap.Strings("actions", execRegistry.Actions()))

	var verifier engine.Verifier
	switch cfg.Verification.Mode {
	case "remote":
		verifier = engine.NewRemoteVerifier(cfg.Verification.URL, config.GetDuration(cfg.Verification.TimeoutMs))
		zapLog.Info("Using remote soul verifier", zap.String("url", cfg.Verification.URL))
	default:
		verifier = &engine.StubVerifier{Delay: config.GetDuration(cfg.Verification.DelayMs)}
		zapLog.Info("Using stub soul verifier", zap.Int("delayMs", cfg.Verification.DelayMs))
	}

	eng := engine.New(cfg.Planner, engine.Deps{
		Templates: templateRegistry,
		Executors: execRegistry,
		Verifier:  verifier,
		Catalog:   catalog,
		Tracing:   tracing,
		Obs:       obs,
		Logger:    log,
	})

	// --- Audit sink ---
	var auditSink engine.EventSink
	if cfg.Audit.Enabled {
		auditSink = audit.NewSink(audit.NewESIndexer(esClient.Client), cfg.Audit.IndexPrefix, nil, log)
		zapLog.Info("Audit sink enabled", zap.String("indexPrefix", cfg.Audit.IndexPrefix))
	}

	// --- HTTP API ---
	server := api.NewServer(parser, planBuilder, eng, api.Options{
		Cache:   planCache,
		Archive: planArchive,
		Audit:   auditSink,
	}, log)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.Router(),
	}

	go func() {
		zapLog.Info("API server listening", zap.String("address", cfg.Server.Address))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLog.Fatal("API server failed", zap.Error(err))
		}
	}()

	// --- Health & Metrics Server ---
	go func() {
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Metrics server listening", zap.String("address", cfg.Server.MetricsAddress))
		if err := http.ListenAndServe(cfg.Server.MetricsAddress, nil); err != nil {
			zapLog.Error("Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		zapLog.Error("Error shutting down API server", zap.Error(err))
	}

	zapLog.Info("Copilot manager stopped gracefully")
}
