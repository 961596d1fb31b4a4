package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vidtycoon/internal/account"
	"vidtycoon/internal/api"
	"vidtycoon/internal/config"
	"vidtycoon/internal/db"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPI()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: config.ParseLevel(cfg.LogLevel)}))

	var repo account.Repository
	switch cfg.StoreBackend {
	case "memory":
		logger.Warn("using in-memory account store, data is lost on restart")
		repo = account.NewMemoryRepository()
	default:
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("db connect failed", "err", err)
			os.Exit(1)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Error("db migrate failed", "err", err)
			os.Exit(1)
		}
		repo = account.NewPostgresRepository(pool)
	}

	opts := account.Options{Logger: logger, LeaderboardSize: cfg.LeaderboardSize}
	if cfg.RedisURL != "" {
		rdb, err := account.DialRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Warn("redis unavailable, leaderboard reads go to the account store", "err", err)
		} else {
			defer rdb.Close()
			opts.Ranking = account.NewRedisRanking(rdb)
		}
	}
	accounts := account.NewService(repo, opts)
	if err := accounts.SeedRanking(ctx); err != nil {
		logger.Warn("ranking seed failed", "err", err)
	}

	server := api.New(cfg, logger, accounts)
	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	logger.Info("vidtycoon api listening", "addr", cfg.Addr, "store", cfg.StoreBackend, "metrics", cfg.MetricsEnabled)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
