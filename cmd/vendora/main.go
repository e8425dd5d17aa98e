package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"log/slog"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/vendora/vendora/internal/app"
	"github.com/vendora/vendora/internal/auth"
	"github.com/vendora/vendora/internal/observability"
	"github.com/vendora/vendora/internal/products"
	"github.com/vendora/vendora/internal/rbac"
	"github.com/vendora/vendora/internal/vendors"
	"github.com/vendora/vendora/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := pgxpool.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Warn("redis ping", slog.Any("error", err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	var revocationStore auth.RevocationStore
	switch cfg.RevocationBackend {
	case "redis":
		revocationStore = auth.NewRedisRevocationStore(redisClient, "revoked")
	default:
		revocationStore = auth.NewMemoryRevocationStore()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)

	authRepo := auth.NewRepository(dbpool)
	gate := auth.NewGate(logger, tokens, revocationStore, authRepo)
	authService := auth.NewService(authRepo, tokens, revocationStore)
	authHandler := auth.NewHandler(logger, authService, gate, cfg.IsProduction())

	guard := rbac.Guard{Logger: logger}
	permissionsHandler := rbac.NewPermissionsHandler(guard)

	jobClient, err := jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	if err != nil {
		logger.Error("init job client", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()
	notifier := jobs.NewEmailNotifier(jobClient)

	vendorsRepo := vendors.NewRepository(dbpool)
	vendorsService := vendors.NewService(vendorsRepo, notifier, logger)
	vendorsHandler := vendors.NewHandler(logger, vendorsService, guard)

	productsRepo := products.NewRepository(dbpool)
	productsHandler := products.NewHandler(logger, productsRepo, guard)

	metrics := observability.NewMetrics()

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := inspector.Close(); err != nil {
			logger.Warn("inspector close", slog.Any("error", err))
		}
	}()
	jobHandler := jobs.NewHandler(inspector, logger)

	router := app.NewRouter(app.RouterParams{
		Logger:             logger,
		Config:             cfg,
		Gate:               gate,
		AuthHandler:        authHandler,
		PermissionsHandler: permissionsHandler,
		VendorsHandler:     vendorsHandler,
		ProductsHandler:    productsHandler,
		JobHandler:         jobHandler,
		Metrics:            metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("server exit", slog.Any("error", err))
		os.Exit(1)
	}
}
