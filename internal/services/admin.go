package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/anthonykantara/businesshub/internal/cache"
	"github.com/anthonykantara/businesshub/internal/db"
	"github.com/anthonykantara/businesshub/internal/logging"
	"github.com/anthonykantara/businesshub/internal/models"
	"github.com/anthonykantara/businesshub/internal/observability"
	"github.com/anthonykantara/businesshub/internal/risk"
)

var (
	ErrAdminInvalidInput        = errors.New("invalid input")
	ErrAdminOrderNotFound       = errors.New("order not found")
	ErrAdminOrderStatusConflict = errors.New("order status conflict")
	ErrAdminServiceUnavailable  = errors.New("admin service unavailable")
)

var errAlreadyFulfilled = errors.New("order already fulfilled")

const defaultRiskCacheTTL = 5 * time.Minute

type FulfillOrderInput struct {
	OrderID   string
	Documents []DocumentKind
}

type FulfillmentResult struct {
	Order     *models.Order `json:"order"`
	Changed   bool          `json:"changed"`
	Documents []Document    `json:"documents"`
}

type RiskResult struct {
	OrderID    string           `json:"order_id"`
	Assessment risk.Assessment  `json:"assessment"`
	Color      string           `json:"color"`
	Stats      models.RiskStats `json:"stats"`
}

type AdminService struct {
	orderStore   *db.OrderStore
	riskStats    RiskStatsSource
	cache        cache.Provider
	riskCacheTTL time.Duration
	logger       *slog.Logger
	now          func() time.Time
}

func NewAdminService(
	orderStore *db.OrderStore,
	riskStats RiskStatsSource,
	cacheProvider cache.Provider,
	riskCacheTTL time.Duration,
	logger *slog.Logger,
) *AdminService {
	if riskStats == nil {
		riskStats = NewStaticRiskStats(DefaultRiskStats, nil)
	}
	if riskCacheTTL <= 0 {
		riskCacheTTL = defaultRiskCacheTTL
	}

	return &AdminService{
		orderStore:   orderStore,
		riskStats:    riskStats,
		cache:        cacheProvider,
		riskCacheTTL: riskCacheTTL,
		logger:       logger,
		now:          time.Now,
	}
}

func (s *AdminService) loggerFromContext(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, s.logger)
}

func (s *AdminService) ListOrders(ctx context.Context, filter OrderFilter) ([]models.Order, error) {
	if s == nil || s.orderStore == nil {
		return nil, fmt.Errorf("%w: order store unavailable", ErrAdminServiceUnavailable)
	}

	orders, err := s.orderStore.List(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, filter), nil
}

func (s *AdminService) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	if s == nil || s.orderStore == nil {
		return nil, fmt.Errorf("%w: order store unavailable", ErrAdminServiceUnavailable)
	}
	if models.NormalizeOrderID(orderID) == "" {
		return nil, fmt.Errorf("%w: order id is required", ErrAdminInvalidInput)
	}

	order, err := s.orderStore.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapStoreError(err)
	}
	return order, nil
}

func (s *AdminService) EditOrderItems(ctx context.Context, orderID string, items []models.OrderItem) (*models.Order, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	updated, err := s.orderStore.Update(ctx, orderID, func(order models.Order) (models.Order, error) {
		return EditItems(order, items), nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}

	s.loggerFromContext(ctx).Info("order items updated",
		"order_id", updated.ID,
		"items", len(updated.Items),
		"total", updated.Total().StringFixed(2),
	)
	return updated, nil
}

func (s *AdminService) SelectDeliveryOption(ctx context.Context, orderID string, option models.DeliveryOption) (*models.Order, error) {
	if _, err := s.GetOrder(ctx, orderID); err != nil {
		return nil, err
	}

	updated, err := s.orderStore.Update(ctx, orderID, func(order models.Order) (models.Order, error) {
		return SelectDeliveryOption(order, option)
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidDeliveryOption):
			return nil, fmt.Errorf("%w: %w", ErrAdminInvalidInput, err)
		case errors.Is(err, ErrOrderStatusConflict):
			return nil, fmt.Errorf("%w: %w", ErrAdminOrderStatusConflict, err)
		default:
			return nil, mapStoreError(err)
		}
	}

	s.loggerFromContext(ctx).Info("order delivery option updated",
		"order_id", updated.ID,
		"delivery_option", updated.DeliveryOption,
	)
	return updated, nil
}

// FulfillOrder renders the requested documents and then marks the order
// fulfilled. A document failure leaves the order unfulfilled. Fulfilling an
// already fulfilled order succeeds with Changed=false.
func (s *AdminService) FulfillOrder(ctx context.Context, input FulfillOrderInput) (*FulfillmentResult, error) {
	span := sentry.StartSpan(
		ctx,
		"service.admin.fulfill_order",
		sentry.WithOpName("service.admin"),
		sentry.WithDescription("FulfillOrder"),
		sentry.WithSpanOrigin(sentry.SpanOriginManual),
	)
	defer span.Finish()
	ctx = span.Context()

	logger := s.loggerFromContext(ctx)
	meter := observability.MeterFromContext(ctx)
	meter.Count("orders.fulfillment.received", 1)
	recordFailed := func(reason string) {
		observability.CountReason(ctx, "orders.fulfillment.failed", reason)
	}

	for _, kind := range input.Documents {
		if !kind.Valid() {
			recordFailed("invalid_document_kind")
			return nil, fmt.Errorf("%w: %w: %q", ErrAdminInvalidInput, ErrUnknownDocument, kind)
		}
	}

	order, err := s.GetOrder(ctx, input.OrderID)
	if err != nil {
		recordFailed("order_lookup_failed")
		return nil, err
	}

	if order.IsFulfilled() {
		meter.Count("orders.fulfillment.skipped", 1)
		logger.Info("order already fulfilled", "order_id", order.ID)
		return &FulfillmentResult{Order: order, Changed: false, Documents: []Document{}}, nil
	}

	documents, err := RenderDocuments(*order, input.Documents)
	if err != nil {
		recordFailed("document_render_failed")
		return nil, fmt.Errorf("failed to render fulfillment documents: %w", err)
	}

	fulfilled, err := s.orderStore.Update(ctx, order.ID, func(current models.Order) (models.Order, error) {
		next, changed := Fulfill(current, s.now())
		if !changed {
			return current, errAlreadyFulfilled
		}
		return next, nil
	})
	if err != nil {
		if errors.Is(err, errAlreadyFulfilled) {
			// Another request fulfilled it between the read and the write.
			meter.Count("orders.fulfillment.skipped", 1)
			current, getErr := s.GetOrder(ctx, order.ID)
			if getErr != nil {
				return nil, getErr
			}
			return &FulfillmentResult{Order: current, Changed: false, Documents: []Document{}}, nil
		}
		recordFailed("mark_fulfilled_failed")
		return nil, mapStoreError(err)
	}

	meter.Count("orders.fulfillment.processed", 1, sentry.WithAttributes(
		attribute.Int("documents", len(documents)),
	))
	logger.Info("order fulfilled", "order_id", fulfilled.ID, "documents", len(documents))

	return &FulfillmentResult{Order: fulfilled, Changed: true, Documents: documents}, nil
}

// OrderRisk scores the customer behind an order. Assessments are cached per order.
func (s *AdminService) OrderRisk(ctx context.Context, orderID string) (*RiskResult, error) {
	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	logger := s.loggerFromContext(ctx)

	cacheKey := cache.RiskKey(order.ID)
	if s.cache != nil {
		if cached, cacheErr := s.cache.Get(ctx, cacheKey); cacheErr == nil {
			var result RiskResult
			if err := json.Unmarshal([]byte(cached), &result); err == nil {
				return &result, nil
			}
			logger.Warn("discarding unreadable cached risk assessment", "order_id", order.ID)
		} else if !errors.Is(cacheErr, cache.ErrNotFound) {
			logger.Warn("failed to read risk cache", "error", cacheErr, "order_id", order.ID)
		}
	}

	stats, err := s.riskStats.RiskStats(ctx, order.Customer)
	if err != nil {
		return nil, fmt.Errorf("failed to load risk stats: %w", err)
	}

	assessment := risk.Score(stats)
	result := &RiskResult{
		OrderID:    order.ID,
		Assessment: assessment,
		Color:      risk.BadgeColor(assessment.Level),
		Stats:      stats,
	}

	if s.cache != nil {
		payload, err := json.Marshal(result)
		if err == nil {
			err = s.cache.Set(ctx, cacheKey, string(payload), s.riskCacheTTL)
		}
		if err != nil {
			logger.Warn("failed to cache risk assessment", "error", err, "order_id", order.ID)
		}
	}

	return result, nil
}

func (s *AdminService) RenderDocument(ctx context.Context, orderID string, kind DocumentKind) (*Document, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: %w: %q", ErrAdminInvalidInput, ErrUnknownDocument, kind)
	}

	order, err := s.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return RenderDocument(*order, kind)
}

// ParseDocumentKinds accepts kinds with either underscores or dashes.
func ParseDocumentKinds(values []string) []DocumentKind {
	kinds := make([]DocumentKind, 0, len(values))
	for _, value := range values {
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "-", "_")
		if normalized == "" {
			continue
		}
		kinds = append(kinds, DocumentKind(normalized))
	}
	return kinds
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, db.ErrOrderNotFound):
		return fmt.Errorf("%w: %w", ErrAdminOrderNotFound, err)
	case errors.Is(err, db.ErrInvalidStatusTransition):
		return fmt.Errorf("%w: %w", ErrAdminOrderStatusConflict, err)
	default:
		return err
	}
}
