package services

import (
	"strings"

	"github.com/anthonykantara/businesshub/internal/models"
)

// FilterAll is the wildcard accepted for status and payment status filters.
const FilterAll = "all"

// LocalRegionSuffix marks destinations inside the merchant's home region.
const LocalRegionSuffix = ", LB"

type OrderFilter struct {
	SearchText    string
	Status        models.OrderStatus
	PaymentStatus models.PaymentStatus
	RegionOnly    bool
}

// FilterOrders keeps the orders matching every predicate in f, preserving their
// relative order. An empty or "all" status matches anything.
func FilterOrders(orders []models.Order, f OrderFilter) []models.Order {
	search := strings.ToLower(strings.TrimSpace(f.SearchText))

	filtered := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if !matchesSearch(order, search) {
			continue
		}
		if !isWildcard(string(f.Status)) && order.Status != f.Status {
			continue
		}
		if !isWildcard(string(f.PaymentStatus)) && order.PaymentStatus != f.PaymentStatus {
			continue
		}
		if f.RegionOnly && !IsLocalDestination(order.Destination) {
			continue
		}
		filtered = append(filtered, order)
	}
	return filtered
}

// IsLocalDestination reports whether the destination carries the home region suffix.
func IsLocalDestination(destination string) bool {
	return strings.HasSuffix(destination, LocalRegionSuffix)
}

func matchesSearch(order models.Order, search string) bool {
	if search == "" {
		return true
	}
	for _, field := range []string{order.ID, order.Customer.Name, order.Destination} {
		if strings.Contains(strings.ToLower(field), search) {
			return true
		}
	}
	return false
}

func isWildcard(value string) bool {
	return value == "" || strings.EqualFold(value, FilterAll)
}
