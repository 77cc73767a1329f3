package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"userledger/internal/httputil"
)

// RequestIDHeader is echoed on every response
const RequestIDHeader = "X-Request-ID"

// maxRequestIDLength bounds inbound ids before they reach the logs
const maxRequestIDLength = 128

// RequestID reuses a sane inbound X-Request-ID or generates a uuid v4
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > maxRequestIDLength {
			id = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, httputil.WithRequestID(r, id))
	})
}
