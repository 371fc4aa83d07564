// Package seed loads the sample orders the dashboard starts with.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/anthonykantara/businesshub/internal/models"
)

//go:embed sample.yaml
var sampleYAML []byte

type File struct {
	Orders    []OrderEntry   `yaml:"orders" validate:"dive"`
	RiskStats RiskStatsEntry `yaml:"risk_stats"`
}

type OrderEntry struct {
	ID                string        `yaml:"id" validate:"required"`
	Date              string        `yaml:"date" validate:"required"`
	Customer          CustomerEntry `yaml:"customer"`
	Items             []ItemEntry   `yaml:"items" validate:"dive"`
	PaymentStatus     string        `yaml:"payment_status" validate:"required,oneof=pending paid"`
	Status            string        `yaml:"status" validate:"required,oneof=preorder pending scheduled delivered"`
	FulfillmentStatus string        `yaml:"fulfillment_status" validate:"omitempty,oneof=unfulfilled fulfilled"`
	DeliveryOption    string        `yaml:"delivery_option" validate:"omitempty,oneof=standard express pickup"`
	Destination       string        `yaml:"destination"`
}

type CustomerEntry struct {
	Name    string         `yaml:"name" validate:"required"`
	Email   string         `yaml:"email" validate:"omitempty,email"`
	Phone   string         `yaml:"phone"`
	Address models.Address `yaml:"address"`
}

type ItemEntry struct {
	Name     string `yaml:"name" validate:"required"`
	Quantity int    `yaml:"quantity" validate:"gte=0"`
	Price    string `yaml:"price" validate:"required,numeric"`
	Image    string `yaml:"image"`
}

type RiskStatsEntry struct {
	Default   *models.RiskStats           `yaml:"default"`
	Customers map[string]models.RiskStats `yaml:"customers" validate:"dive"`
}

// Dataset is a parsed and validated seed file.
type Dataset struct {
	Orders            []models.Order
	DefaultRiskStats  *models.RiskStats
	CustomerRiskStats map[string]models.RiskStats
}

// OrderInserter is the part of the order store the seed needs.
type OrderInserter interface {
	Insert(ctx context.Context, order models.Order) error
}

var seedValidator = validator.New()

// Sample returns the embedded sample dataset.
func Sample() (*Dataset, error) {
	return Parse(sampleYAML)
}

// LoadFile parses the seed file at path, or the embedded sample when path is empty.
func LoadFile(path string) (*Dataset, error) {
	if strings.TrimSpace(path) == "" {
		return Sample()
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return Parse(content)
}

func Parse(content []byte) (*Dataset, error) {
	var file File
	if err := yaml.Unmarshal(content, &file); err != nil {
		return nil, fmt.Errorf("failed to parse seed YAML: %w", err)
	}

	if err := seedValidator.Struct(&file); err != nil {
		return nil, fmt.Errorf("invalid seed: %w", err)
	}

	dataset := &Dataset{
		Orders:            make([]models.Order, 0, len(file.Orders)),
		DefaultRiskStats:  file.RiskStats.Default,
		CustomerRiskStats: file.RiskStats.Customers,
	}
	seen := make(map[string]bool, len(file.Orders))
	for i, entry := range file.Orders {
		order, err := entry.toOrder()
		if err != nil {
			return nil, fmt.Errorf("order %d: %w", i, err)
		}
		if seen[order.ID] {
			return nil, fmt.Errorf("duplicate order id: %s", order.ID)
		}
		seen[order.ID] = true
		dataset.Orders = append(dataset.Orders, order)
	}

	return dataset, nil
}

// Apply inserts every order of the dataset into store.
func (d *Dataset) Apply(ctx context.Context, store OrderInserter) error {
	if d == nil {
		return errors.New("dataset is required")
	}
	for _, order := range d.Orders {
		if err := store.Insert(ctx, order); err != nil {
			return fmt.Errorf("failed to seed order %s: %w", order.ID, err)
		}
	}
	return nil
}

func (e OrderEntry) toOrder() (models.Order, error) {
	date, err := time.Parse(time.RFC3339, strings.TrimSpace(e.Date))
	if err != nil {
		return models.Order{}, fmt.Errorf("invalid date %q: %w", e.Date, err)
	}

	items := make([]models.OrderItem, 0, len(e.Items))
	for _, item := range e.Items {
		price, err := decimal.NewFromString(strings.TrimSpace(item.Price))
		if err != nil {
			return models.Order{}, fmt.Errorf("invalid price for %s: %w", item.Name, err)
		}
		if price.IsNegative() {
			return models.Order{}, fmt.Errorf("price for %s must not be negative", item.Name)
		}
		items = append(items, models.OrderItem{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    price,
			Image:    item.Image,
		})
	}

	fulfillment := models.FulfillmentStatus(e.FulfillmentStatus)
	if fulfillment == "" {
		fulfillment = models.FulfillmentUnfulfilled
	}
	delivery := models.DeliveryOption(e.DeliveryOption)
	if delivery == "" {
		delivery = models.DeliveryStandard
	}

	return models.Order{
		ID:   models.NormalizeOrderID(e.ID),
		Date: date,
		Customer: models.Customer{
			Name:    e.Customer.Name,
			Email:   e.Customer.Email,
			Phone:   e.Customer.Phone,
			Address: e.Customer.Address,
		},
		Items:             items,
		PaymentStatus:     models.PaymentStatus(e.PaymentStatus),
		Status:            models.OrderStatus(e.Status),
		FulfillmentStatus: fulfillment,
		DeliveryOption:    delivery,
		Destination:       e.Destination,
	}, nil
}
