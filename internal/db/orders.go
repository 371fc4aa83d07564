package db

// Package db holds the in-memory order store backing the admin service.

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/anthonykantara/businesshub/internal/models"
)

var (
	ErrOrderNotFound           = errors.New("order not found")
	ErrOrderExists             = errors.New("order already exists")
	ErrInvalidStatusTransition = errors.New("invalid order status transition")
)

// OrderStore keeps orders in insertion order. Every read and write copies the
// order so callers never share item slices with the store.
type OrderStore struct {
	mu     sync.RWMutex
	orders map[string]*models.Order
	order  []string
}

func NewOrderStore() *OrderStore {
	return &OrderStore{
		orders: make(map[string]*models.Order),
	}
}

func (s *OrderStore) Insert(_ context.Context, order models.Order) error {
	id := models.NormalizeOrderID(order.ID)
	if id == "" {
		return fmt.Errorf("order id is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.orders[id]; exists {
		return fmt.Errorf("%w: %s", ErrOrderExists, id)
	}

	stored := order.Clone()
	stored.ID = id
	if stored.FulfillmentStatus == "" {
		stored.FulfillmentStatus = models.FulfillmentUnfulfilled
	}
	s.orders[id] = &stored
	s.order = append(s.order, id)
	return nil
}

func (s *OrderStore) GetByID(_ context.Context, id string) (*models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored, ok := s.orders[models.NormalizeOrderID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	clone := stored.Clone()
	return &clone, nil
}

// List returns every order in insertion order.
func (s *OrderStore) List(_ context.Context) ([]models.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	orders := make([]models.Order, 0, len(s.order))
	for _, id := range s.order {
		orders = append(orders, s.orders[id].Clone())
	}
	return orders, nil
}

// Update applies mutate to a copy of the stored order and saves the result
// under the same id. An error from mutate leaves the stored order unchanged.
// A fulfilled order never goes back to unfulfilled.
func (s *OrderStore) Update(_ context.Context, id string, mutate func(models.Order) (models.Order, error)) (*models.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.orders[models.NormalizeOrderID(id)]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}

	updated, err := mutate(stored.Clone())
	if err != nil {
		return nil, err
	}
	if stored.IsFulfilled() && !updated.IsFulfilled() {
		return nil, fmt.Errorf("%w: %s cannot leave fulfilled", ErrInvalidStatusTransition, stored.ID)
	}

	updated = updated.Clone()
	updated.ID = stored.ID
	*stored = updated

	clone := stored.Clone()
	return &clone, nil
}

func (s *OrderStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}
