// Package risk classifies customers by their order history.
package risk

import "github.com/anthonykantara/businesshub/internal/models"

type Level string

const (
	LevelNoInfo Level = "no_info"
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Issue weights. Fraud-like outcomes weigh the most.
const (
	weightChanged        = 1
	weightExchange       = 2
	weightReturn         = 3
	weightDeliveryIssue  = 4
	weightRejected       = 5
	weightFake           = 5
	weightCanceled       = 5
	lowThresholdPerOrder = 1.0
	medThresholdPerOrder = 3.0
)

type Assessment struct {
	Level         Level   `json:"level"`
	Score         int     `json:"score"`
	ScorePerOrder float64 `json:"score_per_order"`
}

// Score maps history counters to a risk tier. It is total over its input:
// negative counters count as zero and no division by zero is reachable.
func Score(stats models.RiskStats) Assessment {
	orders := nonNegative(stats.NumberOfOrders)
	if orders == 0 {
		return Assessment{Level: LevelNoInfo}
	}

	score := nonNegative(stats.ChangedOrders)*weightChanged +
		nonNegative(stats.Exchanges)*weightExchange +
		nonNegative(stats.Returns)*weightReturn +
		nonNegative(stats.DeliveryIssues)*weightDeliveryIssue +
		nonNegative(stats.RejectedOrders)*weightRejected +
		nonNegative(stats.FakeOrders)*weightFake +
		nonNegative(stats.CanceledOrders)*weightCanceled
	if score == 0 {
		return Assessment{Level: LevelLow}
	}

	perOrder := float64(score) / float64(orders)
	assessment := Assessment{Score: score, ScorePerOrder: perOrder}
	switch {
	case perOrder <= lowThresholdPerOrder:
		assessment.Level = LevelLow
	case perOrder <= medThresholdPerOrder:
		assessment.Level = LevelMedium
	default:
		assessment.Level = LevelHigh
	}
	return assessment
}

// BadgeColor is the dashboard badge color for a level.
func BadgeColor(level Level) string {
	switch level {
	case LevelLow:
		return "green"
	case LevelMedium:
		return "yellow"
	case LevelHigh:
		return "red"
	case LevelNoInfo:
		return "gray"
	default:
		return "gray"
	}
}

func nonNegative(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
