package main

import (
	"context"
	"database/sql"
	"dock-rebalance-service/internal/adapters/auditlog"
	"dock-rebalance-service/internal/adapters/events"
	"dock-rebalance-service/internal/adapters/feasibility"
	"dock-rebalance-service/internal/adapters/memory"
	"dock-rebalance-service/internal/adapters/repositories"
	"dock-rebalance-service/internal/api"
	"dock-rebalance-service/internal/api/handlers"
	"dock-rebalance-service/internal/config"
	"dock-rebalance-service/internal/platform/db"
	"dock-rebalance-service/internal/platform/metrics"
	"dock-rebalance-service/internal/platform/obs"
	"dock-rebalance-service/internal/ports"
	"dock-rebalance-service/internal/scheduler"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"
)

// main is the application composition root.
// It wires concrete adapters (SQL, Redis, NATS) behind ports and starts the HTTP server.
func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found, using environment variables")
	}

	cfg, err := config.Load(config.Get("CONFIG_PATH", "configs/config.yaml"))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	logger, err := obs.NewLogger(os.Stderr, cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg.Database.Driver, cfg.Database.DSN)
	if err != nil {
		return err
	}
	defer conn.Close()

	dialect, err := repositories.ParseDialect(cfg.Database.Driver)
	if err != nil {
		return err
	}
	if err := initAndSeed(conn, dialect, cfg); err != nil {
		return err
	}

	health := map[string]handlers.Pinger{"db": conn}

	logs, closeLogs, err := openAuditStore(ctx, cfg, conn, dialect, health)
	if err != nil {
		return err
	}
	defer closeLogs()

	visits := repositories.NewVesselVisitRepository(conn, dialect)
	collector := metrics.New(prometheus.DefaultRegisterer, cfg.Metrics.Namespace)

	router := api.NewRouter(api.Deps{
		Visits:       visits,
		Logs:         logs,
		Oracles:      feasibility.FromDocks,
		Metrics:      collector,
		Gatherer:     prometheus.DefaultGatherer,
		Health:       health,
		Location:     loc,
		EntryTimeout: cfg.Apply.EntryTimeout,
		APIToken:     cfg.Server.APIToken,
	})

	if cfg.Scheduler.PreviewCron != "" {
		sched := scheduler.NewScheduler(ctx, visits, feasibility.FromDocks, collector, loc)
		if err := sched.RegisterPreview(cfg.Scheduler.PreviewCron); err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", cfg.Server.Addr, "driver", cfg.Database.Driver, "audit", cfg.Audit.Backend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		slog.Info("shutting down", "timeout", cfg.Server.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func initAndSeed(conn *sql.DB, dialect repositories.Dialect, cfg *config.Config) error {
	if err := repositories.InitSchema(conn, dialect); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	if !cfg.Database.SeedOnStart {
		return nil
	}
	if err := repositories.SeedFromJSON(conn, dialect, cfg.Database.SeedPath); err != nil {
		return fmt.Errorf("init and seed: %w", err)
	}
	slog.Info("seeded database", "path", cfg.Database.SeedPath)
	return nil
}

// openAuditStore picks the audit log backend and, when NATS is configured,
// publishes every appended record. The returned func releases connections.
func openAuditStore(
	ctx context.Context,
	cfg *config.Config,
	conn *sql.DB,
	dialect repositories.Dialect,
	health map[string]handlers.Pinger,
) (ports.ReassignmentLogStore, func(), error) {
	var (
		store   ports.ReassignmentLogStore
		closers []func()
	)
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	switch cfg.Audit.Backend {
	case config.AuditRedis:
		client, err := auditlog.DialRedis(ctx, cfg.Audit.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })

		rs := auditlog.NewRedisStore(client, cfg.Audit.RedisKey)
		health["redis"] = rs
		store = rs
	case config.AuditMemory:
		slog.Warn("audit log kept in memory; records are lost on restart")
		store = memory.NewReassignmentLogStore()
	default:
		store = repositories.NewReassignmentLogRepository(conn, dialect)
	}

	if cfg.Events.NATSURL != "" {
		nc, err := events.Connect(cfg.Events.NATSURL)
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		closers = append(closers, nc.Close)
		store = events.NewPublishingLogStore(store, events.NewPublisher(nc, cfg.Events.Subject))
	}

	return store, closeAll, nil
}
