package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"github.com/anthonykantara/businesshub/internal/cache"
	"github.com/anthonykantara/businesshub/internal/config"
	"github.com/anthonykantara/businesshub/internal/db"
	"github.com/anthonykantara/businesshub/internal/logging"
	"github.com/anthonykantara/businesshub/internal/models"
	"github.com/anthonykantara/businesshub/internal/services"
)

func newTestHandlers(t *testing.T) *Handlers {
	t.Helper()

	store := db.NewOrderStore()
	orders := []models.Order{
		{
			ID:   "#1493",
			Date: time.Date(2024, time.May, 2, 10, 15, 0, 0, time.UTC),
			Customer: models.Customer{
				Name:    "Rania Haddad",
				Email:   "rania@example.com",
				Address: models.Address{Street: "12 Hamra Street", City: "Beirut", Country: "Lebanon"},
			},
			Items: []models.OrderItem{
				{Name: "Linen Tote Bag", Quantity: 2, Price: decimal.RequireFromString("24.50")},
			},
			PaymentStatus:  models.PaymentPaid,
			Status:         models.StatusPending,
			DeliveryOption: models.DeliveryStandard,
			Destination:    "Beirut, LB",
		},
		{
			ID:             "#1490",
			Date:           time.Date(2024, time.April, 27, 12, 30, 0, 0, time.UTC),
			Customer:       models.Customer{Name: "Omar Khalil", Address: models.Address{City: "Tripoli"}},
			PaymentStatus:  models.PaymentPending,
			Status:         models.StatusPreorder,
			DeliveryOption: models.DeliveryPickup,
			Destination:    "Paris, FR",
		},
	}
	for _, order := range orders {
		if err := store.Insert(t.Context(), order); err != nil {
			t.Fatalf("insert %s: %v", order.ID, err)
		}
	}

	provider, err := cache.NewMemoryProvider(16)
	if err != nil {
		t.Fatalf("NewMemoryProvider() error = %v", err)
	}
	t.Cleanup(func() { _ = provider.Close() })

	admin := services.NewAdminService(store, nil, provider, time.Minute, logging.Discard())
	h, err := New(Dependencies{
		Config:        &config.Config{BaseURL: "https://example.com", Port: "8080"},
		OrderStore:    store,
		CacheProvider: provider,
		AdminService:  admin,
		Logger:        logging.Discard(),
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return h
}

func serve(handler http.HandlerFunc, req *http.Request, vars map[string]string) *httptest.ResponseRecorder {
	if vars != nil {
		req = mux.SetURLVars(req, vars)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out T
	if err := json.NewDecoder(rec.Body).Decode(&out); err != nil {
		t.Fatalf("decode response: %v (body %q)", err, rec.Body.String())
	}
	return out
}

func TestNew_RequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(Dependencies{}); err == nil {
		t.Fatal("expected error for missing config")
	}
	if _, err := New(Dependencies{Config: &config.Config{}}); err == nil {
		t.Fatal("expected error for missing order store")
	}
	if _, err := New(Dependencies{Config: &config.Config{}, OrderStore: db.NewOrderStore()}); err == nil {
		t.Fatal("expected error for missing cache provider")
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	rec := serve(h.Health, httptest.NewRequest(http.MethodGet, "/health", nil), nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[map[string]any](t, rec)
	if body["status"] != "healthy" || body["orders"] != float64(2) {
		t.Fatalf("unexpected health body %v", body)
	}
}

type failingCache struct {
	cache.Provider
}

func (failingCache) Ping(context.Context) error {
	return errors.New("connection refused")
}

func TestHealth_CacheDown(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	h.cacheProvider = failingCache{}

	rec := serve(h.Health, httptest.NewRequest(http.MethodGet, "/health", nil), nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestListOrders(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		query    string
		wantCode int
		wantIDs  []string
	}{
		{name: "all", query: "", wantCode: http.StatusOK, wantIDs: []string{"#1493", "#1490"}},
		{name: "search", query: "?q=1493&status=all&payment_status=all", wantCode: http.StatusOK, wantIDs: []string{"#1493"}},
		{name: "local only", query: "?local_only=true", wantCode: http.StatusOK, wantIDs: []string{"#1493"}},
		{name: "status", query: "?status=Preorder", wantCode: http.StatusOK, wantIDs: []string{"#1490"}},
		{name: "invalid status", query: "?status=shipped", wantCode: http.StatusBadRequest},
		{name: "invalid payment status", query: "?payment_status=refunded", wantCode: http.StatusBadRequest},
		{name: "invalid local_only", query: "?local_only=maybe", wantCode: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := newTestHandlers(t)
			rec := serve(h.ListOrders, httptest.NewRequest(http.MethodGet, "/admin/orders"+tt.query, nil), nil)
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, rec.Code, rec.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}

			body := decodeBody[orderListResponse](t, rec)
			if body.Count != len(tt.wantIDs) {
				t.Fatalf("expected %d orders, got %d", len(tt.wantIDs), body.Count)
			}
			for i, id := range tt.wantIDs {
				if body.Orders[i].ID != id {
					t.Fatalf("order %d: expected %s, got %s", i, id, body.Orders[i].ID)
				}
			}
		})
	}
}

func TestGetOrder(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := serve(h.GetOrder, httptest.NewRequest(http.MethodGet, "/admin/orders/1493", nil), map[string]string{"id": "1493"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[orderResponse](t, rec)
	if body.Total != "49.00" || !body.Local || body.StatusBadge != services.BadgeYellow || body.PaymentBadge != services.BadgeGreen {
		t.Fatalf("unexpected order response %+v", body)
	}

	rec = serve(h.GetOrder, httptest.NewRequest(http.MethodGet, "/admin/orders/404", nil), map[string]string{"id": "404"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEditOrderItems(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	vars := map[string]string{"id": "1493"}

	body := `{"items":[{"name":"Ceramic Mug","quantity":3,"price":"18.00","image":""}]}`
	rec := serve(h.EditOrderItems, httptest.NewRequest(http.MethodPut, "/admin/orders/1493/items", strings.NewReader(body)), vars)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeBody[orderResponse](t, rec).Total; got != "54.00" {
		t.Fatalf("expected total 54.00, got %s", got)
	}

	rec = serve(h.EditOrderItems, httptest.NewRequest(http.MethodPut, "/admin/orders/1493/items", strings.NewReader(`{"items":[]}`)), vars)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := decodeBody[orderResponse](t, rec).Total; got != "0.00" {
		t.Fatalf("expected total 0.00, got %s", got)
	}

	for _, bad := range []string{"", "{", `{"items":[],"extra":1}`} {
		rec = serve(h.EditOrderItems, httptest.NewRequest(http.MethodPut, "/admin/orders/1493/items", strings.NewReader(bad)), vars)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("body %q: expected 400, got %d", bad, rec.Code)
		}
	}
}

func TestSelectDeliveryOption(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	vars := map[string]string{"id": "1493"}

	rec := serve(h.SelectDeliveryOption, httptest.NewRequest(http.MethodPut, "/admin/orders/1493/delivery", strings.NewReader(`{"delivery_option":"Express"}`)), vars)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := decodeBody[orderResponse](t, rec).DeliveryOption; got != models.DeliveryExpress {
		t.Fatalf("expected express, got %q", got)
	}

	rec = serve(h.SelectDeliveryOption, httptest.NewRequest(http.MethodPut, "/admin/orders/1493/delivery", strings.NewReader(`{"delivery_option":"drone"}`)), vars)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	rec = serve(h.FulfillOrder, httptest.NewRequest(http.MethodPost, "/admin/orders/1493/fulfill", nil), vars)
	if rec.Code != http.StatusOK {
		t.Fatalf("fulfill: expected 200, got %d", rec.Code)
	}
	rec = serve(h.SelectDeliveryOption, httptest.NewRequest(http.MethodPut, "/admin/orders/1493/delivery", strings.NewReader(`{"delivery_option":"pickup"}`)), vars)
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 after fulfillment, got %d", rec.Code)
	}
}

func TestFulfillOrder(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)
	vars := map[string]string{"id": "1493"}

	body := `{"documents":["packing-slip","shipping_label"]}`
	rec := serve(h.FulfillOrder, httptest.NewRequest(http.MethodPost, "/admin/orders/1493/fulfill", strings.NewReader(body)), vars)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	first := decodeBody[fulfillResponse](t, rec)
	if !first.Changed || first.Order.FulfillmentStatus != models.FulfillmentFulfilled || len(first.Documents) != 2 {
		t.Fatalf("unexpected fulfill response %+v", first)
	}
	if first.Order.FulfillmentBadge != services.BadgeGreen {
		t.Fatalf("expected green fulfillment badge, got %q", first.Order.FulfillmentBadge)
	}

	rec = serve(h.FulfillOrder, httptest.NewRequest(http.MethodPost, "/admin/orders/1493/fulfill", nil), vars)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 on second fulfill, got %d", rec.Code)
	}
	if decodeBody[fulfillResponse](t, rec).Changed {
		t.Fatal("expected second fulfill to report no change")
	}
}

func TestFulfillOrder_Errors(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	tests := []struct {
		name     string
		id       string
		body     string
		wantCode int
	}{
		{name: "unknown order", id: "404", wantCode: http.StatusNotFound},
		{name: "unknown document", id: "1493", body: `{"documents":["invoice"]}`, wantCode: http.StatusBadRequest},
		{name: "label without street", id: "1490", body: `{"documents":["shipping_label"]}`, wantCode: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/admin/orders/"+tt.id+"/fulfill", strings.NewReader(tt.body))
			rec := serve(h.FulfillOrder, req, map[string]string{"id": tt.id})
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d (%s)", tt.wantCode, rec.Code, rec.Body.String())
			}
		})
	}

	rec := serve(h.GetOrder, httptest.NewRequest(http.MethodGet, "/admin/orders/1490", nil), map[string]string{"id": "1490"})
	if decodeBody[orderResponse](t, rec).FulfillmentStatus != models.FulfillmentUnfulfilled {
		t.Fatal("failed fulfillment must leave the order unfulfilled")
	}
}

func TestOrderRisk(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := serve(h.OrderRisk, httptest.NewRequest(http.MethodGet, "/admin/orders/1493/risk", nil), map[string]string{"id": "1493"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := decodeBody[services.RiskResult](t, rec)
	if body.OrderID != "#1493" || body.Assessment.Level == "" || body.Color == "" {
		t.Fatalf("unexpected risk response %+v", body)
	}
}

func TestOrderDocument(t *testing.T) {
	t.Parallel()

	h := newTestHandlers(t)

	rec := serve(h.OrderDocument, httptest.NewRequest(http.MethodGet, "/admin/orders/1493/documents/packing-slip", nil), map[string]string{"id": "1493", "kind": "packing-slip"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Content-Disposition"); !strings.Contains(got, "order-1493-packing-slip.txt") {
		t.Fatalf("unexpected Content-Disposition %q", got)
	}
	if !strings.Contains(rec.Body.String(), "PACKING SLIP #1493") {
		t.Fatalf("unexpected document body %q", rec.Body.String())
	}

	rec = serve(h.OrderDocument, httptest.NewRequest(http.MethodGet, "/admin/orders/1493/documents/invoice", nil), map[string]string{"id": "1493", "kind": "invoice"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
