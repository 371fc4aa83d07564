package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/anthonykantara/businesshub/internal/cache"
	"github.com/anthonykantara/businesshub/internal/config"
	"github.com/anthonykantara/businesshub/internal/db"
	"github.com/anthonykantara/businesshub/internal/handlers"
	"github.com/anthonykantara/businesshub/internal/logging"
	"github.com/anthonykantara/businesshub/internal/observability"
	"github.com/anthonykantara/businesshub/internal/seed"
	"github.com/anthonykantara/businesshub/internal/services"
)

type App struct {
	Config        *config.Config
	Logger        *slog.Logger
	OrderStore    *db.OrderStore
	CacheProvider cache.Provider
	Handlers      *handlers.Handlers

	logCloser   io.Closer
	flushSentry func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	return NewWithConfig(cfg, os.Stdout)
}

// NewWithConfig wires the application from an already loaded config. Logs go
// to out.
func NewWithConfig(cfg *config.Config, out io.Writer) (*App, error) {
	logger, logCloser, err := logging.New(out, logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogFile,
	})
	if err != nil {
		return nil, err
	}

	flushSentry, err := observability.InitSentry(observability.SentryConfig{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
	})
	if err != nil {
		closeLog(logger, logCloser)
		return nil, err
	}

	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	cacheProvider, err := cache.NewProvider(startupCtx, cache.Config{
		Provider:              cfg.CacheProvider,
		RedisConnectionString: cfg.RedisConnectionString,
		MemorySize:            cfg.CacheMemorySize,
	})
	if err != nil {
		flushSentry()
		closeLog(logger, logCloser)
		return nil, fmt.Errorf("failed to initialize cache provider: %w", err)
	}

	dataset, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		flushSentry()
		closeLog(logger, logCloser)
		return nil, fmt.Errorf("failed to load seed data: %w", err)
	}

	orderStore := db.NewOrderStore()
	if err := dataset.Apply(startupCtx, orderStore); err != nil {
		closeCacheProvider(logger, cacheProvider)
		flushSentry()
		closeLog(logger, logCloser)
		return nil, err
	}

	defaultStats := services.DefaultRiskStats
	if dataset.DefaultRiskStats != nil {
		defaultStats = *dataset.DefaultRiskStats
	}
	riskStats := services.NewStaticRiskStats(defaultStats, dataset.CustomerRiskStats)

	adminService := services.NewAdminService(
		orderStore,
		riskStats,
		cacheProvider,
		cfg.RiskCacheTTL,
		logger.With("component", "admin_service"),
	)

	h, err := handlers.New(handlers.Dependencies{
		Config:        cfg,
		OrderStore:    orderStore,
		CacheProvider: cacheProvider,
		AdminService:  adminService,
		Logger:        logger,
	})
	if err != nil {
		closeCacheProvider(logger, cacheProvider)
		flushSentry()
		closeLog(logger, logCloser)
		return nil, fmt.Errorf("failed to initialize handlers: %w", err)
	}

	logger.Info("order data loaded",
		"orders", orderStore.Len(),
		"risk_overrides", len(dataset.CustomerRiskStats),
		"cache_provider", cfg.CacheProvider,
	)

	return &App{
		Config:        cfg,
		Logger:        logger,
		OrderStore:    orderStore,
		CacheProvider: cacheProvider,
		Handlers:      h,
		logCloser:     logCloser,
		flushSentry:   flushSentry,
	}, nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.CacheProvider != nil {
		closeCacheProvider(a.Logger, a.CacheProvider)
	}
	if a.flushSentry != nil {
		a.flushSentry()
	}
	if a.logCloser != nil {
		closeLog(a.Logger, a.logCloser)
	}
}

func closeCacheProvider(logger *slog.Logger, provider cache.Provider) {
	if provider == nil {
		return
	}
	if err := provider.Close(); err != nil && logger != nil {
		logger.Warn("failed to close cache provider", "error", err)
	}
}

func closeLog(logger *slog.Logger, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil && logger != nil {
		logger.Warn("failed to close log file", "error", err)
	}
}
