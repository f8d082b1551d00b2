package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mcoot/leaderboard/internal/api/apierr"
	"github.com/mcoot/leaderboard/internal/metrics"
	"github.com/mcoot/leaderboard/internal/middleware"
	"github.com/mcoot/leaderboard/internal/model"
)

// Re-export from apierr for convenience
type APIError = apierr.APIError

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// writeError logs unexpected failures before writing the response; the
// client only ever sees a generic internal error for those.
func writeError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	if apierr.IsInternal(err) {
		logger.LogAttrs(r.Context(), slog.LevelError, "request failed",
			slog.String("request_id", middleware.RequestID(r.Context())),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
	}
	WriteError(w, err)
}

// outcomeOf classifies err for the registration and submission counters
func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, model.ErrValidation), errors.Is(err, model.ErrConflict), errors.Is(err, model.ErrNotFound):
		return metrics.OutcomeRejected
	default:
		return metrics.OutcomeError
	}
}
