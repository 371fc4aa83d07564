package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	StatusPreorder  OrderStatus = "preorder"
	StatusPending   OrderStatus = "pending"
	StatusScheduled OrderStatus = "scheduled"
	StatusDelivered OrderStatus = "delivered"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case StatusPreorder, StatusPending, StatusScheduled, StatusDelivered:
		return true
	default:
		return false
	}
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid:
		return true
	default:
		return false
	}
}

// FulfillmentStatus only ever moves from unfulfilled to fulfilled.
type FulfillmentStatus string

const (
	FulfillmentUnfulfilled FulfillmentStatus = "unfulfilled"
	FulfillmentFulfilled   FulfillmentStatus = "fulfilled"
)

func (s FulfillmentStatus) Valid() bool {
	switch s {
	case FulfillmentUnfulfilled, FulfillmentFulfilled:
		return true
	default:
		return false
	}
}

type DeliveryOption string

const (
	DeliveryStandard DeliveryOption = "standard"
	DeliveryExpress  DeliveryOption = "express"
	DeliveryPickup   DeliveryOption = "pickup"
)

func (o DeliveryOption) Valid() bool {
	switch o {
	case DeliveryStandard, DeliveryExpress, DeliveryPickup:
		return true
	default:
		return false
	}
}

type Address struct {
	Street    string  `json:"street"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Customer struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

type OrderItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image"`
}

// LineTotal is quantity times unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order has no stored total; Total derives it from Items so the two cannot drift.
type Order struct {
	ID                string            `json:"id"`
	Date              time.Time         `json:"date"`
	Customer          Customer          `json:"customer"`
	Items             []OrderItem       `json:"items"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	Status            OrderStatus       `json:"status"`
	FulfillmentStatus FulfillmentStatus `json:"fulfillment_status"`
	DeliveryOption    DeliveryOption    `json:"delivery_option"`
	Destination       string            `json:"destination"`
	FulfilledAt       time.Time         `json:"fulfilled_at"`
}

// Total sums the line totals, rounded to cents.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range o.Items {
		total = total.Add(item.LineTotal())
	}
	return total.Round(2)
}

func (o Order) IsFulfilled() bool {
	return o.FulfillmentStatus == FulfillmentFulfilled
}

// Clone returns a copy that shares no slice storage with o.
func (o Order) Clone() Order {
	clone := o
	if o.Items != nil {
		clone.Items = make([]OrderItem, len(o.Items))
		copy(clone.Items, o.Items)
	}
	return clone
}

// NormalizeOrderID accepts both "1493" and "#1493" and returns the display form.
func NormalizeOrderID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	return "#" + strings.TrimLeft(trimmed, "#")
}
