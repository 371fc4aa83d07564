package services

import (
	"github.com/shopspring/decimal"

	"github.com/anthonykantara/businesshub/internal/models"
)

// EditItems returns a copy of order carrying items in place of its current
// lines. Negative quantities and prices are clamped to zero. The order total is
// always derived from the items, so there is nothing else to update.
func EditItems(order models.Order, items []models.OrderItem) models.Order {
	edited := order.Clone()
	edited.Items = SanitizeItems(items)
	return edited
}

// SanitizeItems copies items and clamps quantity and price to zero.
func SanitizeItems(items []models.OrderItem) []models.OrderItem {
	sanitized := make([]models.OrderItem, 0, len(items))
	for _, item := range items {
		if item.Quantity < 0 {
			item.Quantity = 0
		}
		if item.Price.IsNegative() {
			item.Price = decimal.Zero
		}
		sanitized = append(sanitized, item)
	}
	return sanitized
}
