package logger

import (
	"log/slog"
	"os"
	"strings"

	"github.com/PocketPalCo/receipt-service/config"
)

// NewLogger creates a slog logger with the handler format and level from config
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.GetSlogLevel(),
	}

	var handler slog.Handler
	if strings.ToLower(cfg.LogFormat) == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}
