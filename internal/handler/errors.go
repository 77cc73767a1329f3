package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"userledger/internal/domain"
	"userledger/internal/httputil"
)

// handleError converts domain errors to HTTP responses.
// Store failures are logged here and never shown to the client.
func handleError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var httpErr domain.HTTPError

	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized access")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrStore):
		logger.ErrorContext(r.Context(), "store operation failed",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.RequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	case errors.As(err, &httpErr) && httpErr.StatusCode() < http.StatusInternalServerError:
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "not found")
	default:
		logger.ErrorContext(r.Context(), "unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", httputil.RequestID(r.Context()),
		)
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
