package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/anthonykantara/businesshub/internal/models"
)

var (
	ErrInvalidDeliveryOption = errors.New("invalid delivery option")
	ErrOrderStatusConflict   = errors.New("order status conflict")
)

// Fulfill moves an unfulfilled order to fulfilled and reports whether it
// changed anything. Fulfilling a fulfilled order is a no-op. Status, payment
// status and items are left untouched.
func Fulfill(order models.Order, at time.Time) (models.Order, bool) {
	if order.IsFulfilled() {
		return order, false
	}
	fulfilled := order.Clone()
	fulfilled.FulfillmentStatus = models.FulfillmentFulfilled
	fulfilled.FulfilledAt = at
	return fulfilled, true
}

// SelectDeliveryOption sets the delivery choice on an order that has not been
// fulfilled yet.
func SelectDeliveryOption(order models.Order, option models.DeliveryOption) (models.Order, error) {
	if !option.Valid() {
		return order, fmt.Errorf("%w: %q", ErrInvalidDeliveryOption, option)
	}
	if order.IsFulfilled() {
		return order, fmt.Errorf("%w: delivery option is locked once fulfilled", ErrOrderStatusConflict)
	}
	updated := order.Clone()
	updated.DeliveryOption = option
	return updated, nil
}
