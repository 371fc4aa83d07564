package services

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/shopspring/decimal"

	"github.com/anthonykantara/businesshub/internal/models"
)

type DocumentKind string

const (
	DocumentPackingSlip   DocumentKind = "packing_slip"
	DocumentShippingLabel DocumentKind = "shipping_label"
)

func (k DocumentKind) Valid() bool {
	switch k {
	case DocumentPackingSlip, DocumentShippingLabel:
		return true
	default:
		return false
	}
}

var (
	ErrUnknownDocument     = errors.New("unknown document kind")
	ErrDocumentUnavailable = errors.New("document unavailable for order")
)

// Document is a rendered, presentation-only artifact for an order.
type Document struct {
	Kind        DocumentKind `json:"kind"`
	Filename    string       `json:"filename"`
	ContentType string       `json:"content_type"`
	Body        string       `json:"body"`
}

// RenderDocument formats existing order fields into the requested document. It
// never changes the order.
func RenderDocument(order models.Order, kind DocumentKind) (*Document, error) {
	var (
		body string
		err  error
	)
	switch kind {
	case DocumentPackingSlip:
		body, err = renderPackingSlip(order)
	case DocumentShippingLabel:
		body, err = renderShippingLabel(order)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDocument, kind)
	}
	if err != nil {
		return nil, err
	}

	return &Document{
		Kind:        kind,
		Filename:    documentFilename(order.ID, kind),
		ContentType: "text/plain; charset=utf-8",
		Body:        body,
	}, nil
}

// RenderDocuments renders every kind or none: the first failure aborts.
func RenderDocuments(order models.Order, kinds []DocumentKind) ([]Document, error) {
	documents := make([]Document, 0, len(kinds))
	seen := make(map[DocumentKind]bool, len(kinds))
	for _, kind := range kinds {
		if seen[kind] {
			continue
		}
		seen[kind] = true

		doc, err := RenderDocument(order, kind)
		if err != nil {
			return nil, err
		}
		documents = append(documents, *doc)
	}
	return documents, nil
}

func renderPackingSlip(order models.Order) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "PACKING SLIP %s\n", order.ID)
	if !order.Date.IsZero() {
		fmt.Fprintf(&b, "Order date: %s\n", order.Date.Format("January 2, 2006"))
	}
	fmt.Fprintf(&b, "Customer: %s\n", strings.TrimSpace(order.Customer.Name))
	if address := formatAddress(order.Customer.Address); address != "" {
		b.WriteString("Ship to:\n")
		for _, line := range strings.Split(address, "\n") {
			fmt.Fprintf(&b, "  %s\n", line)
		}
	}
	fmt.Fprintf(&b, "Delivery: %s\n\n", deliveryLabel(order.DeliveryOption))

	var table bytes.Buffer
	writer := tablewriter.NewWriter(&table)
	writer.Header("Item", "Qty", "Unit price", "Line total")
	for _, item := range order.Items {
		if err := writer.Append([]string{
			item.Name,
			strconv.Itoa(item.Quantity),
			formatPrice(item.Price),
			formatPrice(item.LineTotal()),
		}); err != nil {
			return "", fmt.Errorf("failed to append packing slip row: %w", err)
		}
	}
	if err := writer.Render(); err != nil {
		return "", fmt.Errorf("failed to render packing slip table: %w", err)
	}
	b.Write(table.Bytes())

	fmt.Fprintf(&b, "\nTotal: %s\n", formatPrice(order.Total()))
	return b.String(), nil
}

func renderShippingLabel(order models.Order) (string, error) {
	address := order.Customer.Address
	if strings.TrimSpace(address.Street) == "" {
		return "", fmt.Errorf("%w: %s has no shipping street", ErrDocumentUnavailable, order.ID)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "SHIPPING LABEL %s\n", order.ID)
	fmt.Fprintf(&b, "Service: %s\n", strings.ToUpper(deliveryLabel(order.DeliveryOption)))
	fmt.Fprintf(&b, "To: %s\n", strings.TrimSpace(order.Customer.Name))
	if phone := strings.TrimSpace(order.Customer.Phone); phone != "" {
		fmt.Fprintf(&b, "Phone: %s\n", phone)
	}
	b.WriteString(formatAddress(address))
	b.WriteString("\n")
	if address.Latitude != 0 || address.Longitude != 0 {
		fmt.Fprintf(&b, "Coordinates: %.4f, %.4f\n", address.Latitude, address.Longitude)
	}
	fmt.Fprintf(&b, "Pieces: %d\n", itemCount(order.Items))
	return b.String(), nil
}

func formatPrice(amount decimal.Decimal) string {
	return "$" + amount.StringFixed(2)
}

func formatAddress(address models.Address) string {
	lines := make([]string, 0, 3)
	if street := strings.TrimSpace(address.Street); street != "" {
		lines = append(lines, street)
	}
	if city := strings.TrimSpace(address.City); city != "" {
		lines = append(lines, city)
	}
	if country := strings.TrimSpace(address.Country); country != "" {
		lines = append(lines, country)
	}
	return strings.Join(lines, "\n")
}

func deliveryLabel(option models.DeliveryOption) string {
	if option == "" {
		return string(models.DeliveryStandard)
	}
	return string(option)
}

func itemCount(items []models.OrderItem) int {
	count := 0
	for _, item := range items {
		count += item.Quantity
	}
	return count
}

func documentFilename(orderID string, kind DocumentKind) string {
	return fmt.Sprintf("order-%s-%s.txt", strings.TrimPrefix(orderID, "#"), strings.ReplaceAll(string(kind), "_", "-"))
}
