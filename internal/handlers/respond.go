package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/anthonykantara/businesshub/internal/services"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handlers) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.loggerFromContext(r.Context()).Error("failed to encode response", "error", err)
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, status int, message string) {
	h.writeJSON(w, r, status, errorResponse{Error: message})
}

// writeServiceError maps admin service errors to HTTP statuses.
func (h *Handlers) writeServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, services.ErrAdminInvalidInput):
		h.writeError(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrAdminOrderNotFound):
		h.writeError(w, r, http.StatusNotFound, "Order not found")
	case errors.Is(err, services.ErrAdminOrderStatusConflict):
		h.writeError(w, r, http.StatusConflict, err.Error())
	case errors.Is(err, services.ErrDocumentUnavailable):
		h.writeError(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, services.ErrAdminServiceUnavailable):
		h.loggerFromContext(r.Context()).Error("admin service unavailable", "error", err, "action", action)
		h.writeError(w, r, http.StatusServiceUnavailable, "Service unavailable")
	default:
		h.loggerFromContext(r.Context()).Error("failed to "+action, "error", err)
		h.writeError(w, r, http.StatusInternalServerError, "Failed to "+action)
	}
}
