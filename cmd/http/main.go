package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vinfast/dashboard/internal/config"
	"vinfast/dashboard/internal/dashboard"
	"vinfast/dashboard/internal/handler"
	"vinfast/dashboard/internal/logger"
	"vinfast/dashboard/internal/service/gateway"
	"vinfast/dashboard/internal/session"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		bootLog := logger.New("order-dashboard", "info")
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	log := logger.New("order-dashboard", cfg.LogLevel)
	ctx := context.Background()

	// 2. Setup session store
	store, closeStore, err := openStore(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.Session.Backend).Msg("failed to open session store")
	}
	defer closeStore()
	sess := session.New(store, log)

	// 3. Setup logic
	gw := gateway.NewClient(gateway.Config{
		URL:     cfg.Gateway.URL,
		Timeout: cfg.Gateway.Timeout,
	}, log)

	dashboardHandler := handler.NewDashboardHandler(gw, dashboard.Options{
		Concurrency: cfg.ResolveConcurrency,
		GatewayURL:  gw.BaseURL(),
		Logger:      log,
	})
	sessionHandler := handler.NewSessionHandler(sess, gw, log)

	h := handler.NewHandler(log, dashboardHandler, sessionHandler)

	// 4. Setup server
	server := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	// 5. Run server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.ServerPort).Str("gateway", gw.BaseURL()).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 2)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return
	}

	log.Info().Msg("server exiting")
}

func openStore(ctx context.Context, cfg *config.Config, log zerolog.Logger) (session.Store, func(), error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		client, err := session.ConnectRedis(ctx, cfg.Session.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		log.Info().Str("addr", cfg.Session.RedisAddr).Msg("session store: redis")
		return session.NewRedisStore(client), func() { _ = client.Close() }, nil

	case config.SessionBackendPostgres:
		pool, err := pgxpool.New(ctx, cfg.Session.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		store := session.NewPostgresStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		log.Info().Msg("session store: postgres")
		return store, pool.Close, nil

	default:
		log.Info().Msg("session store: memory")
		return session.NewMemoryStore(), func() {}, nil
	}
}
