package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"opsdesk/internal/activity"
	activityhandler "opsdesk/internal/activity/handler"
	"opsdesk/internal/activity/sink"
	authhandler "opsdesk/internal/auth/handler"
	"opsdesk/internal/gate"
	"opsdesk/internal/platform/config"
	"opsdesk/internal/platform/httpserver"
	"opsdesk/internal/platform/kafka"
	"opsdesk/internal/platform/logger"
	"opsdesk/internal/platform/metrics"
	"opsdesk/internal/platform/postgres"
	platformredis "opsdesk/internal/platform/redis"
	"opsdesk/internal/rbac"
	rbachandler "opsdesk/internal/rbac/handler"
	"opsdesk/internal/session"
	httptransport "opsdesk/internal/transport/http"
	"opsdesk/internal/users"
	usershandler "opsdesk/internal/users/handler"
	"opsdesk/internal/warehouse"
	warehousehandler "opsdesk/internal/warehouse/handler"
)

// main wires dependencies and owns process lifecycle. Business logic lives in
// the internal services packages.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()
	m := metrics.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Activity store: memory is canonical; Postgres replaces it when a DSN is
	// configured, and Redis echoes the in-memory log across restarts.
	var store activity.Store
	memStore := activity.NewInMemoryStore()
	store = memStore

	db, err := postgres.Open(cfg.Postgres)
	if err != nil {
		log.Error("postgres unavailable", "error", err)
		return
	}
	if db != nil {
		defer db.Close()
		if _, err := db.ExecContext(ctx, activity.Schema); err != nil {
			log.Error("apply activity schema", "error", err)
			return
		}
		store = activity.NewPostgresStore(db)
		log.Info("activity log backed by postgres")
	}

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis unavailable", "error", err)
		return
	}
	if redisClient != nil && db == nil {
		defer redisClient.Close()
		snap := activity.NewSnapshotStore(memStore, redisClient.Client, cfg.Redis.SnapshotKey, log)
		snap.Load(ctx)
		store = snap
		log.Info("activity log snapshot enabled", "key", cfg.Redis.SnapshotKey)
	}

	group, ctx := errgroup.WithContext(ctx)

	// Optional Kafka fan-out wraps whichever store is active.
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka unavailable", "error", err)
			return
		}
		defer producer.Close()
		fanout := sink.NewStore(store, 256, log)
		worker := sink.NewWorker(producer, fanout.Inbox(), log)
		group.Go(func() error {
			if err := worker.Run(ctx); !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		})
		store = fanout
		log.Info("activity fan-out enabled", "topic", cfg.Kafka.Topic)
	}

	registry := rbac.NewRegistry()
	sessions := session.NewManager(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL, registry, store, log, m)
	g := gate.New(m)

	userStore := users.NewInMemoryStore()
	userService := users.NewService(userStore)
	seedBootstrapAdmin(ctx, cfg, userService, log)

	var warehouseClient warehousehandler.Client
	if cfg.Warehouse.BaseURL != "" {
		warehouseClient = warehouse.NewClient(cfg.Warehouse.BaseURL, cfg.Warehouse.AuthToken, cfg.Warehouse.TenantID, nil)
	}

	handlers := []httptransport.Registrar{
		authhandler.New(userService, sessions, log),
		activityhandler.New(store, g, log),
		rbachandler.New(registry, g, log),
		usershandler.New(userService, g, log),
	}
	if warehouseClient != nil {
		handlers = append(handlers, warehousehandler.New(warehouseClient, g, log))
	}

	router := httptransport.NewRouter(httptransport.Deps{
		Logger:         log,
		Metrics:        m,
		SessionBuilder: sessions,
	}, handlers...)

	srv := httpserver.New(cfg.Addr, router)

	group.Go(func() error {
		log.Info("starting opsdesk", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("shutdown with error", "error", err)
	}
}

// seedBootstrapAdmin guarantees one super_admin account exists so a fresh
// deployment can sign in. Skipped when no bootstrap password is configured.
func seedBootstrapAdmin(ctx context.Context, cfg config.Config, svc *users.Service, log *slog.Logger) {
	if cfg.BootstrapPassword == "" {
		log.Warn("no bootstrap password configured, skipping admin seed")
		return
	}
	if _, err := svc.Create(ctx, "Administrator", cfg.BootstrapEmail, cfg.BootstrapPassword, rbac.RoleSuperAdmin); err != nil {
		log.Warn("bootstrap admin seed failed", "error", err)
		return
	}
	log.Info("bootstrap admin seeded", "email", cfg.BootstrapEmail)
}
