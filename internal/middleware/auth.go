package middleware

import (
	"log/slog"
	"net/http"

	"userledger/internal/auth"
	"userledger/internal/httputil"
)

// RequireAuth runs the authorization gate and binds the verified identity
// to the request context. Any gate failure ends the request with 401.
func RequireAuth(gate *auth.Gate, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := gate.Authorize(r.Context(), r.Header)
			if err != nil {
				logger.InfoContext(r.Context(), "request rejected",
					"reason", err.Error(),
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", httputil.RequestID(r.Context()),
				)
				httputil.RespondError(w, http.StatusUnauthorized, "unauthorized access")
				return
			}

			next.ServeHTTP(w, httputil.WithIdentity(r, identity))
		})
	}
}

// RequireOwner enforces that the email header names the verified identity.
// It must run after RequireAuth.
func RequireOwner(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := httputil.GetIdentity(r)
			if err := auth.CheckOwner(identity, r.Header.Get(auth.OwnerHeader)); err != nil {
				logger.InfoContext(r.Context(), "ownership mismatch",
					"method", r.Method,
					"path", r.URL.Path,
					"request_id", httputil.RequestID(r.Context()),
				)
				httputil.RespondError(w, http.StatusForbidden, "forbidden")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
