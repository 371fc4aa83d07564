package handlers

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/getsentry/sentry-go"
	"github.com/getsentry/sentry-go/attribute"

	"github.com/anthonykantara/businesshub/internal/observability"
)

// SecurityHeaders sets baseline security headers. Admin responses carry order
// and customer data, so they are never cached.
func (h *Handlers) SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers := w.Header()
		headers.Set("X-Content-Type-Options", "nosniff")
		headers.Set("X-Frame-Options", "DENY")
		headers.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		headers.Set("Cross-Origin-Opener-Policy", "same-origin")
		headers.Set("Cross-Origin-Resource-Policy", "same-origin")
		if strings.HasPrefix(r.URL.Path, "/admin/") {
			headers.Set("Cache-Control", "no-store")
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSameOrigin rejects state-changing requests whose Origin or Referer
// points at a host other than the request host or BASE_URL.
func (h *Handlers) RequireSameOrigin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !requestMutatesState(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		meter := observability.MeterFromContext(r.Context())
		meter.SetAttributes(attribute.String("component", "security.same_origin"))
		meter.Count("security.same_origin.checked", 1)

		reason, detail := h.crossOriginReason(r)
		if reason != "" {
			meter.Count("security.same_origin.blocked", 1, sentry.WithAttributes(attribute.String("reason", reason)))
			h.loggerFromContext(r.Context()).Warn("blocked cross-origin admin request",
				"reason", reason,
				"detail", detail,
				"origin", r.Header.Get("Origin"),
				"referer", r.Header.Get("Referer"),
			)
			h.writeError(w, r, http.StatusForbidden, "Forbidden")
			return
		}

		next.ServeHTTP(w, r)
	})
}

// crossOriginReason returns an empty reason when the request may proceed.
func (h *Handlers) crossOriginReason(r *http.Request) (string, string) {
	origin := strings.TrimSpace(r.Header.Get("Origin"))
	referer := strings.TrimSpace(r.Header.Get("Referer"))

	if origin == "" && referer == "" {
		return "missing_origin_and_referer", ""
	}
	if origin != "" {
		if ok, err := h.headerMatchesAllowedHost(origin, r); err != nil || !ok {
			return "invalid_origin", errorDetail(err)
		}
	}
	if referer != "" {
		if ok, err := h.headerMatchesAllowedHost(referer, r); err != nil || !ok {
			return "invalid_referer", errorDetail(err)
		}
	}
	return "", ""
}

func errorDetail(err error) string {
	if err == nil {
		return "host not allowed"
	}
	return err.Error()
}

func requestMutatesState(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

func (h *Handlers) headerMatchesAllowedHost(value string, r *http.Request) (bool, error) {
	parsed, err := url.Parse(value)
	if err != nil {
		return false, fmt.Errorf("failed to parse URL: %w", err)
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false, fmt.Errorf("missing host")
	}

	if host == requestHost(r.Host) {
		return true, nil
	}
	if h.config != nil && host == baseURLHost(h.config.BaseURL) {
		return true, nil
	}
	return false, nil
}

func requestHost(hostport string) string {
	hostport = strings.TrimSpace(hostport)
	if host, _, err := net.SplitHostPort(hostport); err == nil {
		hostport = host
	}
	return strings.ToLower(hostport)
}

func baseURLHost(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Hostname())
}
