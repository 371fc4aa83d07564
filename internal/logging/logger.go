package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

type Options struct {
	Level  slog.Level
	Format string
	// FilePath, when set, also writes JSON records to that file.
	FilePath string
}

// New builds the application logger writing to out. The returned closer
// releases the log file, if any.
func New(out io.Writer, opts Options) (*slog.Logger, io.Closer, error) {
	handler := consoleHandler(out, opts)

	filePath := strings.TrimSpace(opts.FilePath)
	if filePath == "" {
		return slog.New(handler), nopCloser{}, nil
	}

	file, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o640)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: opts.Level})
	return slog.New(MultiHandler(handler, fileHandler)), file, nil
}

func consoleHandler(out io.Writer, opts Options) slog.Handler {
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: opts.Level})
	default:
		return tint.NewHandler(out, &tint.Options{Level: opts.Level})
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
