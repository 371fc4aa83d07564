package services

import "github.com/anthonykantara/businesshub/internal/models"

// Badge colors used by the order list and detail views.
const (
	BadgeGray   = "gray"
	BadgeGreen  = "green"
	BadgeYellow = "yellow"
	BadgeBlue   = "blue"
	BadgePurple = "purple"
)

func OrderStatusBadge(status models.OrderStatus) string {
	switch status {
	case models.StatusPreorder:
		return BadgePurple
	case models.StatusPending:
		return BadgeYellow
	case models.StatusScheduled:
		return BadgeBlue
	case models.StatusDelivered:
		return BadgeGreen
	default:
		return BadgeGray
	}
}

func PaymentStatusBadge(status models.PaymentStatus) string {
	switch status {
	case models.PaymentPaid:
		return BadgeGreen
	case models.PaymentPending:
		return BadgeYellow
	default:
		return BadgeGray
	}
}

func FulfillmentStatusBadge(status models.FulfillmentStatus) string {
	switch status {
	case models.FulfillmentFulfilled:
		return BadgeGreen
	case models.FulfillmentUnfulfilled:
		return BadgeYellow
	default:
		return BadgeGray
	}
}
