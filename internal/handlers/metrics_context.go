package handlers

import (
	"net/http"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"
	"github.com/gorilla/mux"

	"github.com/anthonykantara/businesshub/internal/models"
	"github.com/anthonykantara/businesshub/internal/observability"
)

// MetricsContext stores a meter pre-tagged with the request's route and order
// so service metrics can be sliced the same way as request metrics.
func (h *Handlers) MetricsContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		attrs := []attribute.Builder{
			attribute.String("http.request_id", w.Header().Get(requestIDHeader)),
			attribute.String("http.method", r.Method),
			attribute.String("network.client.ip", clientIP(r)),
		}
		if route := routeLabel(r); route != "" {
			attrs = append(attrs, attribute.String("http.route", route))
		}
		if orderID := models.NormalizeOrderID(mux.Vars(r)["id"]); orderID != "" {
			attrs = append(attrs, attribute.String("order.id", orderID))
		}

		meter := sentry.NewMeter(ctx).WithCtx(ctx)
		meter.SetAttributes(attrs...)

		next.ServeHTTP(w, r.WithContext(observability.WithMeter(ctx, meter)))
	})
}
