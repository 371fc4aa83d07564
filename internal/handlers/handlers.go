package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anthonykantara/businesshub/internal/cache"
	"github.com/anthonykantara/businesshub/internal/config"
	"github.com/anthonykantara/businesshub/internal/db"
	"github.com/anthonykantara/businesshub/internal/logging"
	"github.com/anthonykantara/businesshub/internal/services"
)

const maxRequestBodyBytes = 1 << 20 // 1 MB

// Handlers serves the order back-office JSON API.
type Handlers struct {
	config        *config.Config
	orderStore    *db.OrderStore
	cacheProvider cache.Provider
	adminService  *services.AdminService
	logger        *slog.Logger
}

type Dependencies struct {
	Config        *config.Config
	OrderStore    *db.OrderStore
	CacheProvider cache.Provider
	AdminService  *services.AdminService
	Logger        *slog.Logger
}

func New(deps Dependencies) (*Handlers, error) {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	if deps.Config == nil {
		return nil, fmt.Errorf("handlers dependencies: config is required")
	}
	if deps.OrderStore == nil {
		return nil, fmt.Errorf("handlers dependencies: orderStore is required")
	}
	if deps.CacheProvider == nil {
		return nil, fmt.Errorf("handlers dependencies: cacheProvider is required")
	}
	if deps.AdminService == nil {
		return nil, fmt.Errorf("handlers dependencies: adminService is required")
	}

	return &Handlers{
		config:        deps.Config,
		orderStore:    deps.OrderStore,
		cacheProvider: deps.CacheProvider,
		adminService:  deps.AdminService,
		logger:        logger.With("component", "handlers"),
	}, nil
}

func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.cacheProvider.Ping(r.Context()); err != nil {
		h.loggerFromContext(r.Context()).Error("cache health check failed", "error", err)
		h.writeError(w, r, http.StatusServiceUnavailable, "Cache unhealthy")
		return
	}

	h.writeJSON(w, r, http.StatusOK, map[string]any{
		"status": "healthy",
		"orders": h.orderStore.Len(),
	})
}

func (h *Handlers) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, h.logger)
}
