package app

import (
	"log/slog"

	"kursbot/internal/infra"
	"kursbot/internal/infra/storage"
)

// Bootstrap orchestrates the application startup sequence
type Bootstrap struct {
	Config  *infra.Config
	Storage *storage.Storage
	Finance *infra.FinanceClient
}

// NewBootstrap creates a new Bootstrap instance
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize performs core system initialization (config, logger, DB,
// provider client).
func (b *Bootstrap) Initialize() error {
	slog.Info("🚀 Bootstrapping kursbot...")

	// 1. Load Config
	cfg, err := infra.LoadConfig("configs/config.yaml")
	if err != nil {
		return err // Let main handle the error
	}
	b.Config = cfg

	// 2. Setup Logger
	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	// 3. Initialize Storage (DB)
	store, err := storage.NewStorage(cfg.Storage.Path)
	if err != nil {
		return err
	}
	b.Storage = store
	slog.Info("✅ Database initialized")

	// 4. Finance provider client
	b.Finance = infra.NewFinanceClient(cfg.Finance.BaseURL, cfg.FetchTimeout())
	slog.Info("✅ Finance client ready", slog.String("base_url", cfg.Finance.BaseURL))

	return nil
}
