package services

import (
	"context"
	"strings"

	"github.com/anthonykantara/businesshub/internal/models"
)

// RiskStatsSource supplies history counters for the customer on an order.
type RiskStatsSource interface {
	RiskStats(ctx context.Context, customer models.Customer) (models.RiskStats, error)
}

// DefaultRiskStats are the counters returned for customers without an override.
var DefaultRiskStats = models.RiskStats{
	ChangedOrders:  2,
	DeliveryIssues: 1,
	FakeOrders:     0,
	RejectedOrders: 0,
	CanceledOrders: 1,
	Exchanges:      1,
	Returns:        2,
	NumberOfOrders: 12,
}

// StaticRiskStats is a stand-in until order history aggregation exists: every
// customer gets the same counters unless an override is keyed by their email.
type StaticRiskStats struct {
	fallback  models.RiskStats
	overrides map[string]models.RiskStats
}

func NewStaticRiskStats(fallback models.RiskStats, overrides map[string]models.RiskStats) *StaticRiskStats {
	normalized := make(map[string]models.RiskStats, len(overrides))
	for email, stats := range overrides {
		normalized[normalizeEmail(email)] = stats
	}
	return &StaticRiskStats{
		fallback:  fallback,
		overrides: normalized,
	}
}

func (s *StaticRiskStats) RiskStats(_ context.Context, customer models.Customer) (models.RiskStats, error) {
	if stats, ok := s.overrides[normalizeEmail(customer.Email)]; ok {
		return stats, nil
	}
	return s.fallback, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
