package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/anthonykantara/businesshub/internal/models"
	"github.com/anthonykantara/businesshub/internal/services"
)

type orderResponse struct {
	models.Order
	Total            string `json:"total"`
	Local            bool   `json:"local"`
	StatusBadge      string `json:"status_badge"`
	PaymentBadge     string `json:"payment_badge"`
	FulfillmentBadge string `json:"fulfillment_badge"`
}

type orderListResponse struct {
	Orders []orderResponse `json:"orders"`
	Count  int             `json:"count"`
}

type editItemsRequest struct {
	Items []models.OrderItem `json:"items"`
}

type deliveryRequest struct {
	DeliveryOption models.DeliveryOption `json:"delivery_option"`
}

type fulfillRequest struct {
	Documents []string `json:"documents"`
}

type fulfillResponse struct {
	Order     orderResponse       `json:"order"`
	Changed   bool                `json:"changed"`
	Documents []services.Document `json:"documents"`
}

func newOrderResponse(order models.Order) orderResponse {
	return orderResponse{
		Order:            order,
		Total:            order.Total().StringFixed(2),
		Local:            services.IsLocalDestination(order.Destination),
		StatusBadge:      services.OrderStatusBadge(order.Status),
		PaymentBadge:     services.PaymentStatusBadge(order.PaymentStatus),
		FulfillmentBadge: services.FulfillmentStatusBadge(order.FulfillmentStatus),
	}
}

func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	filter, err := orderFilterFromQuery(r)
	if err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	orders, err := h.adminService.ListOrders(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, r, err, "list orders")
		return
	}

	response := orderListResponse{
		Orders: make([]orderResponse, 0, len(orders)),
		Count:  len(orders),
	}
	for _, order := range orders {
		response.Orders = append(response.Orders, newOrderResponse(order))
	}
	h.writeJSON(w, r, http.StatusOK, response)
}

func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	order, err := h.adminService.GetOrder(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err, "load order")
		return
	}
	h.writeJSON(w, r, http.StatusOK, newOrderResponse(*order))
}

func (h *Handlers) EditOrderItems(w http.ResponseWriter, r *http.Request) {
	var req editItemsRequest
	if err := decodeJSONBody(w, r, &req, false); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	order, err := h.adminService.EditOrderItems(r.Context(), mux.Vars(r)["id"], req.Items)
	if err != nil {
		h.writeServiceError(w, r, err, "update order items")
		return
	}
	h.writeJSON(w, r, http.StatusOK, newOrderResponse(*order))
}

func (h *Handlers) SelectDeliveryOption(w http.ResponseWriter, r *http.Request) {
	var req deliveryRequest
	if err := decodeJSONBody(w, r, &req, false); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	option := models.DeliveryOption(strings.ToLower(strings.TrimSpace(string(req.DeliveryOption))))
	order, err := h.adminService.SelectDeliveryOption(r.Context(), mux.Vars(r)["id"], option)
	if err != nil {
		h.writeServiceError(w, r, err, "update delivery option")
		return
	}
	h.writeJSON(w, r, http.StatusOK, newOrderResponse(*order))
}

func (h *Handlers) FulfillOrder(w http.ResponseWriter, r *http.Request) {
	var req fulfillRequest
	if err := decodeJSONBody(w, r, &req, true); err != nil {
		h.writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.adminService.FulfillOrder(r.Context(), services.FulfillOrderInput{
		OrderID:   mux.Vars(r)["id"],
		Documents: services.ParseDocumentKinds(req.Documents),
	})
	if err != nil {
		h.writeServiceError(w, r, err, "fulfill order")
		return
	}

	h.writeJSON(w, r, http.StatusOK, fulfillResponse{
		Order:     newOrderResponse(*result.Order),
		Changed:   result.Changed,
		Documents: result.Documents,
	})
}

func (h *Handlers) OrderRisk(w http.ResponseWriter, r *http.Request) {
	result, err := h.adminService.OrderRisk(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.writeServiceError(w, r, err, "assess order risk")
		return
	}
	h.writeJSON(w, r, http.StatusOK, result)
}

// OrderDocument downloads a single rendered document as a text attachment.
func (h *Handlers) OrderDocument(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kinds := services.ParseDocumentKinds([]string{vars["kind"]})
	if len(kinds) != 1 {
		h.writeError(w, r, http.StatusBadRequest, "document kind is required")
		return
	}

	doc, err := h.adminService.RenderDocument(r.Context(), vars["id"], kinds[0])
	if err != nil {
		h.writeServiceError(w, r, err, "render document")
		return
	}

	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := io.WriteString(w, doc.Body); err != nil {
		h.loggerFromContext(r.Context()).Warn("failed to write document", "error", err, "filename", doc.Filename)
	}
}

func orderFilterFromQuery(r *http.Request) (services.OrderFilter, error) {
	query := r.URL.Query()
	filter := services.OrderFilter{
		SearchText:    query.Get("q"),
		Status:        models.OrderStatus(strings.ToLower(strings.TrimSpace(query.Get("status")))),
		PaymentStatus: models.PaymentStatus(strings.ToLower(strings.TrimSpace(query.Get("payment_status")))),
	}

	if filter.Status != "" && filter.Status != services.FilterAll && !filter.Status.Valid() {
		return filter, fmt.Errorf("invalid status filter: %q", filter.Status)
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != services.FilterAll && !filter.PaymentStatus.Valid() {
		return filter, fmt.Errorf("invalid payment_status filter: %q", filter.PaymentStatus)
	}

	if raw := strings.TrimSpace(query.Get("local_only")); raw != "" {
		localOnly, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, fmt.Errorf("invalid local_only value: %q", raw)
		}
		filter.RegionOnly = localOnly
	}

	return filter, nil
}

// decodeJSONBody reads a single JSON object into dst. With allowEmpty an
// empty body leaves dst untouched.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any, allowEmpty bool) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			if allowEmpty {
				return nil
			}
			return errors.New("request body is required")
		}
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return errors.New("request body too large")
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if decoder.More() {
		return errors.New("request body must contain a single JSON object")
	}
	return nil
}
