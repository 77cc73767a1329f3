// Package handler implements the HTTP routes as plain functions from a
// typed Request to a typed Result.
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"userledger/internal/domain/models"
	"userledger/internal/httputil"
)

// Request is everything a route may read, built fresh for each request
type Request struct {
	Header   http.Header
	Params   map[string]string
	Body     models.Document
	Identity *models.Identity
}

// Result is a successful response. A string Payload is sent as text,
// anything else as JSON.
type Result struct {
	Status  int
	Payload interface{}
}

// Func is a route implementation
type Func func(ctx context.Context, req *Request) (*Result, error)

// Binding declares which parts of the HTTP request a Func reads
type Binding struct {
	// Params are path wildcards copied into Request.Params
	Params []string
	// Body decodes the request body as a JSON object
	Body bool
}

// OK wraps payload in a 200 result
func OK(payload interface{}) *Result {
	return &Result{Status: http.StatusOK, Payload: payload}
}

// Created wraps payload in a 201 result
func Created(payload interface{}) *Result {
	return &Result{Status: http.StatusCreated, Payload: payload}
}

// Adapt binds fn to net/http
func Adapt(fn Func, binding Binding, logger *slog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		req := &Request{
			Header:   r.Header,
			Params:   make(map[string]string, len(binding.Params)),
			Identity: httputil.GetIdentity(r),
		}
		for _, name := range binding.Params {
			req.Params[name] = r.PathValue(name)
		}

		if binding.Body {
			body, err := httputil.ParseDocument(w, r)
			if err != nil {
				var tooLarge *http.MaxBytesError
				if errors.As(err, &tooLarge) {
					httputil.RespondError(w, http.StatusRequestEntityTooLarge, "request body too large")
					return
				}
				logger.DebugContext(r.Context(), "rejected request body", "error", err, "path", r.URL.Path)
				httputil.RespondError(w, http.StatusBadRequest, httputil.ErrMalformedBody.Error())
				return
			}
			req.Body = body
		}

		result, err := fn(r.Context(), req)
		if err != nil {
			handleError(w, r, err, logger)
			return
		}

		if text, ok := result.Payload.(string); ok {
			httputil.RespondText(w, result.Status, text)
			return
		}
		httputil.RespondJSON(w, result.Status, result.Payload)
	})
}
