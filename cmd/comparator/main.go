// Command comparator starts the posting-list compression comparison
// service.
//
// It accepts datasets of document-gap and term-frequency sequences over
// HTTP (POST /api/v1/compare), encodes them with the requested codec per
// field, and answers with total encoded bits, an uncompressed baseline,
// and timing. Completed runs are cached in Redis, persisted to
// PostgreSQL, and published to Kafka when those backends are available;
// without them the service still serves pure in-memory comparisons.
//
// Usage:
//
//	go run ./cmd/comparator [-config configs/development.yaml]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/comparator/handler"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/internal/report"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/postgres"
	pkgredis "github.com/Adithya-Monish-Kumar-K/Posting-Compression-Service/pkg/redis"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting comparator service",
		"port", cfg.Server.Port,
		"gap_codec", cfg.Comparator.GapCodec,
		"frequency_codec", cfg.Comparator.FrequencyCodec,
		"parallelism", cfg.Comparator.Parallelism,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	checker := health.NewChecker()

	deps := handler.Deps{
		Comparator: comparator.New(comparator.Options{
			Parallelism:       cfg.Comparator.Parallelism,
			BaselineValueBits: cfg.Comparator.BaselineValueBits,
		}),
		Defaults: cfg.Comparator,
		Metrics:  m,
	}

	// Run history store: optional, the service degrades without it.
	if db, err := postgres.New(cfg.Postgres); err != nil {
		slog.Warn("postgres unavailable, run history disabled", "error", err)
	} else {
		defer db.Close()
		store := report.NewStore(db)
		if err := store.EnsureSchema(ctx); err != nil {
			slog.Error("ensuring run history schema", "error", err)
		} else {
			deps.Store = store
			slog.Info("run history store ready")
		}
		checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
			if err := db.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	// Report cache: optional.
	if rdb, err := pkgredis.NewClient(cfg.Redis); err != nil {
		slog.Warn("redis unavailable, report caching disabled", "error", err)
	} else {
		defer rdb.Close()
		deps.Cache = report.NewCache(rdb, cfg.Redis)
		slog.Info("report cache ready", "ttl", cfg.Redis.CacheTTL)
		checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
			if err := rdb.Ping(ctx); err != nil {
				return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
			}
			return health.ComponentHealth{Status: health.StatusUp}
		})
	}

	// Report publisher: the producer connects lazily on first write.
	producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.ComparisonReports)
	publisher := report.NewPublisher(producer)
	defer publisher.Close()
	deps.Publisher = publisher

	h := handler.New(deps)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/compare", h.Compare)
	mux.HandleFunc("GET /api/v1/codecs", h.Codecs)
	mux.HandleFunc("GET /api/v1/runs", h.Runs)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			shutdownMetrics(shutdownCtx)
		}()
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("comparator service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("comparator service stopped")
}
