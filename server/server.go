package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/anthonykantara/businesshub/internal/config"
	"github.com/anthonykantara/businesshub/internal/handlers"
)

const (
	readTimeout       = 15 * time.Second
	readHeaderTimeout = 5 * time.Second
	writeTimeout      = 15 * time.Second
	idleTimeout       = 60 * time.Second
)

// Server owns the HTTP listener for the back-office API.
type Server struct {
	cfg        *config.Config
	logger     *slog.Logger
	handlers   *handlers.Handlers
	httpServer *http.Server
}

func New(cfg *config.Config, logger *slog.Logger, h *handlers.Handlers) (*Server, error) {
	switch {
	case cfg == nil:
		return nil, fmt.Errorf("config is required")
	case logger == nil:
		return nil, fmt.Errorf("logger is required")
	case h == nil:
		return nil, fmt.Errorf("handlers are required")
	}

	s := &Server{cfg: cfg, logger: logger.With("component", "server"), handlers: h}
	s.httpServer = &http.Server{
		Addr:              net.JoinHostPort("", cfg.Port),
		Handler:           s.buildRouter(),
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		MaxHeaderBytes:    1 << 20,
	}
	return s, nil
}

// Run blocks until the server stops. A graceful Close is not an error.
func (s *Server) Run() error {
	s.logger.Info("server starting", "addr", s.httpServer.Addr, "base_url", s.cfg.BaseURL)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close drains in-flight requests until ctx expires.
func (s *Server) Close(ctx context.Context) error {
	if s == nil || s.httpServer == nil {
		return nil
	}

	s.logger.Info("server shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Handler exposes the router for in-process tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

func (s *Server) buildRouter() *mux.Router {
	h := s.handlers

	r := mux.NewRouter()
	r.Use(h.RequestLogger)
	r.Use(h.SecurityHeaders)
	r.Use(h.MetricsContext)
	r.HandleFunc("/health", h.Health).Methods("GET").Name("health")

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not found"}` + "\n"))
	})

	adminRouter := r.PathPrefix("/admin").Subrouter()
	adminRouter.Use(h.RequireSameOrigin)
	adminRouter.HandleFunc("/orders", h.ListOrders).Methods("GET").Name("admin.orders.list")
	adminRouter.HandleFunc("/orders/{id}", h.GetOrder).Methods("GET").Name("admin.orders.get")
	adminRouter.HandleFunc("/orders/{id}/items", h.EditOrderItems).Methods("PUT").Name("admin.orders.items")
	adminRouter.HandleFunc("/orders/{id}/delivery", h.SelectDeliveryOption).Methods("PUT").Name("admin.orders.delivery")
	adminRouter.HandleFunc("/orders/{id}/fulfill", h.FulfillOrder).Methods("POST").Name("admin.orders.fulfill")
	adminRouter.HandleFunc("/orders/{id}/risk", h.OrderRisk).Methods("GET").Name("admin.orders.risk")
	adminRouter.HandleFunc("/orders/{id}/documents/{kind}", h.OrderDocument).Methods("GET").Name("admin.orders.document")

	return r
}
