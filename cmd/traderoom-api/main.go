package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"traderoom/internal/api"
	"traderoom/internal/config"
	"traderoom/internal/game"
	"traderoom/internal/submitlog"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadAPIFromEnv()
	if err != nil {
		slog.Error("load config", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	rounds, err := game.LoadRounds(cfg.RoundsPath)
	if err != nil {
		logger.Error("load rounds failed", "path", cfg.RoundsPath, "err", err)
		os.Exit(1)
	}

	var store submitlog.Store
	switch cfg.StoreKind {
	case config.StoreSQLite:
		store, err = submitlog.NewSQLite(cfg.DBPath, game.Tickers)
		if err != nil {
			logger.Error("open submission db failed", "path", cfg.DBPath, "err", err)
			os.Exit(1)
		}
	default:
		store = submitlog.NewCSV(cfg.SubmissionsPath, game.Tickers)
	}
	defer store.Close()

	gameSvc := game.NewService(rounds, store, logger)
	server := api.New(cfg, logger, gameSvc)
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

	logger.Info("traderoom api listening", "addr", cfg.Addr, "rounds", rounds.Len(), "store", cfg.StoreKind)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
