package observability

import (
	"fmt"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
)

const flushTimeout = 2 * time.Second

type SentryConfig struct {
	DSN         string
	Environment string
	Release     string
}

// InitSentry configures the global Sentry client. With an empty DSN it does
// nothing and spans and meters stay no-ops. The returned func flushes buffered
// events and is always safe to call.
func InitSentry(cfg SentryConfig) (func(), error) {
	dsn := strings.TrimSpace(cfg.DSN)
	if dsn == "" {
		return func() {}, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              dsn,
		Environment:      cfg.Environment,
		Release:          cfg.Release,
		TracesSampleRate: 1.0,
		AttachStacktrace: true,
	})
	if err != nil {
		return func() {}, fmt.Errorf("failed to initialize sentry: %w", err)
	}

	return func() {
		sentry.Flush(flushTimeout)
	}, nil
}
