package services

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/anthonykantara/businesshub/internal/models"
)

func testOrder(id, customer, destination string, status models.OrderStatus, payment models.PaymentStatus) models.Order {
	return models.Order{
		ID:   id,
		Date: time.Date(2024, time.May, 2, 10, 15, 0, 0, time.UTC),
		Customer: models.Customer{
			Name:  customer,
			Email: "customer@example.com",
			Phone: "+961 3 123 456",
			Address: models.Address{
				Street:  "12 Hamra Street",
				City:    "Beirut",
				Country: "Lebanon",
			},
		},
		Items: []models.OrderItem{
			{Name: "Linen Tote Bag", Quantity: 2, Price: decimal.RequireFromString("24.50")},
			{Name: "Olive Oil Soap", Quantity: 3, Price: decimal.RequireFromString("6.00")},
		},
		PaymentStatus:     payment,
		Status:            status,
		FulfillmentStatus: models.FulfillmentUnfulfilled,
		DeliveryOption:    models.DeliveryStandard,
		Destination:       destination,
	}
}

func testOrders() []models.Order {
	return []models.Order{
		testOrder("#1493", "Rania Haddad", "Beirut, LB", models.StatusPending, models.PaymentPaid),
		testOrder("#1492", "Karim Nassar", "Beirut, LB", models.StatusScheduled, models.PaymentPending),
		testOrder("#1491", "Sophie Martin", "Paris, FR", models.StatusDelivered, models.PaymentPaid),
		testOrder("#1490", "Omar Khalil", "Tripoli, LB", models.StatusPreorder, models.PaymentPending),
		testOrder("#2493", "Lena Fischer", "Berlin, DE", models.StatusPending, models.PaymentPaid),
	}
}

func orderIDs(orders []models.Order) []string {
	ids := make([]string, 0, len(orders))
	for _, order := range orders {
		ids = append(ids, order.ID)
	}
	return ids
}
