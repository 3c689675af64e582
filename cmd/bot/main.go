package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"kursbot/internal/app"
	"kursbot/internal/bot"
	"kursbot/internal/service"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// 1. Pprof Server (for performance profiling)
	go func() {
		// Localhost only for security
		slog.Info("🕵️ Pprof server started on localhost:6060")
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("Pprof server failed", slog.Any("error", err))
		}
	}()

	// 2. System Bootstrapping
	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize(); err != nil {
		slog.Error("❌ Bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	// 3. Graceful Shutdown Context
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 4. Rate cache + aggregation over the finance client
	cfg := bootstrap.Config
	cache := service.NewRateCache(bootstrap.Finance, cfg.CacheTTL())
	aggregation := service.NewAggregation(cache)

	// 5. Telegram transport
	b, err := bot.New(cfg.Telegram.Token, bootstrap.Storage, aggregation, slog.Default())
	if err != nil {
		slog.Error("❌ Telegram authorization failed", slog.Any("error", err))
		os.Exit(1)
	}

	slog.InfoContext(ctx, "✨ kursbot fully operational. Press Ctrl+C to exit.")

	b.Run(ctx)

	slog.InfoContext(ctx, "👋 Shutting down gracefully...")
}
