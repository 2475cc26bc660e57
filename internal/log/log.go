package log

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"github.com/tuanvumaihuynh/product-catalog/internal/config"
)

// NewSlogLogger creates the process logger and installs it as the slog default.
func NewSlogLogger(cfg config.Log) *slog.Logger {
	log := slog.New(NewHandler(os.Stdout, cfg))
	slog.SetDefault(log)

	return log
}

// NewHandler builds the configured handler writing to w, wrapped so that
// records carry correlation and trace identifiers from the context.
func NewHandler(w io.Writer, cfg config.Log) slog.Handler {
	var handler slog.Handler

	switch cfg.Format {
	case config.LogFormatText:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      cfg.Level,
			AddSource:  cfg.AddSource,
			TimeFormat: time.RFC3339,
			ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
				if a.Value.Kind() == slog.KindAny {
					if _, ok := a.Value.Any().(error); ok {
						return tint.Attr(9, a)
					}
				}
				return a
			},
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level:     cfg.Level,
			AddSource: cfg.AddSource,
		})
	}

	return newEnrichedHandler(handler)
}
