package models

// RiskStats are per-customer history counters used for risk scoring.
type RiskStats struct {
	ChangedOrders  int `json:"changed_orders" yaml:"changed_orders" validate:"gte=0"`
	DeliveryIssues int `json:"delivery_issues" yaml:"delivery_issues" validate:"gte=0"`
	FakeOrders     int `json:"fake_orders" yaml:"fake_orders" validate:"gte=0"`
	RejectedOrders int `json:"rejected_orders" yaml:"rejected_orders" validate:"gte=0"`
	CanceledOrders int `json:"canceled_orders" yaml:"canceled_orders" validate:"gte=0"`
	Exchanges      int `json:"exchanges" yaml:"exchanges" validate:"gte=0"`
	Returns        int `json:"returns" yaml:"returns" validate:"gte=0"`
	NumberOfOrders int `json:"number_of_orders" yaml:"number_of_orders" validate:"gte=0"`
}
