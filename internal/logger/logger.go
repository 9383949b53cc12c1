package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/bank-account-ledger/internal/config"
	"github.com/bank-account-ledger/internal/domain/shared"
)

// NewLogger creates the process logger from cfg, writing JSON to stdout
func NewLogger(cfg *config.Config) *slog.Logger {
	logger := New(cfg.Logging.Level, os.Stdout).With("app", cfg.Application.Name, "env", cfg.Application.Env)
	logger.Info("logger initialized", "level", ParseLevel(cfg.Logging.Level))
	return logger
}

// New builds a JSON logger at the named level
func New(level string, w io.Writer) *slog.Logger {
	lvl := ParseLevel(level)
	opts := &slog.HandlerOptions{
		Level: lvl,
		// Add source code location to log output
		AddSource: lvl == slog.LevelDebug,
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

// ParseLevel maps debug/info/warn/error to a slog level, defaulting to info
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromContext returns base annotated with the correlation id carried by ctx, if any
func FromContext(ctx context.Context, base *slog.Logger) *slog.Logger {
	if id := shared.CorrelationIDFromContext(ctx); id != "" {
		return base.With("correlation_id", id)
	}
	return base
}
