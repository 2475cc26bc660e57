package render

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/tuanvumaihuynh/product-catalog/internal/http/apierr"
	"github.com/tuanvumaihuynh/product-catalog/internal/query"
)

// Envelope is the body of every API response.
type Envelope struct {
	Success    bool                `json:"success"`
	Data       any                 `json:"data,omitempty"`
	Message    string              `json:"message,omitempty"`
	Error      string              `json:"error,omitempty"`
	Details    []apierr.FieldError `json:"details,omitempty"`
	Pagination *query.Pagination   `json:"pagination,omitempty"`
}

// JSON writes v with the given status. Encoding failures are logged since
// the status line is already sent.
func JSON(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.WarnContext(r.Context(), "error encoding response", slog.Any("error", err))
	}
}

func OK(w http.ResponseWriter, r *http.Request, logger *slog.Logger, status int, data any, message string) {
	JSON(w, r, logger, status, Envelope{
		Success: true,
		Data:    data,
		Message: message,
	})
}

// Error maps err to its API error and writes it. Server errors are logged
// at error level, client errors at warn.
func Error(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	res := apierr.New(err)

	logLevel := slog.LevelInfo
	if res.StatusCode >= 500 {
		logLevel = slog.LevelError
	} else if res.StatusCode >= 400 {
		logLevel = slog.LevelWarn
	}
	logger.Log(r.Context(), logLevel, "http response error", slog.Any("error", err))

	JSON(w, r, logger, res.StatusCode, ErrorEnvelope(res))
}

func ErrorEnvelope(res apierr.ErrorResponse) Envelope {
	return Envelope{
		Success: false,
		Message: res.Message,
		Error:   res.Code,
		Details: res.Details,
	}
}
