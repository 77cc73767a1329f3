// Package server assembles the route table and middleware chain.
package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/cors"

	"userledger/internal/auth"
	"userledger/internal/domain/services"
	"userledger/internal/handler"
	"userledger/internal/middleware"
	"userledger/internal/ratelimit"
)

// Policy is the access rule applied to a route
type Policy int

const (
	// Public routes skip the authorization gate
	Public Policy = iota
	// Owner routes require a verified identity matching the email header
	Owner
)

func (p Policy) String() string {
	if p == Owner {
		return "owner"
	}
	return "public"
}

// Dependencies are the constructed collaborators the router wires together
type Dependencies struct {
	Users        services.DocumentService
	Transactions services.DocumentService
	Gate         *auth.Gate
	Logger       *slog.Logger

	// Limiter is optional; RateLimitRequests <= 0 disables it
	Limiter           ratelimit.Limiter
	RateLimitRequests int
	RateLimitWindow   time.Duration

	AllowedOrigins []string
}

// Route is one entry of the route table
type Route struct {
	Pattern string
	Policy  Policy
	Binding handler.Binding
	Func    handler.Func
}

var (
	idParam    = handler.Binding{Params: []string{"id"}}
	idAndBody  = handler.Binding{Params: []string{"id"}, Body: true}
	bodyOnly   = handler.Binding{Body: true}
	emailParam = handler.Binding{Params: []string{"email"}}
)

// Routes returns the route table
func Routes(deps *Dependencies) []Route {
	health := handler.NewHealthHandler(deps.Users, deps.Logger)
	users := handler.NewUserHandler(deps.Users, deps.Logger)
	transactions := handler.NewTransactionHandler(deps.Transactions, deps.Logger)

	return []Route{
		{"GET /{$}", Public, handler.Binding{}, health.Greet},
		{"GET /health", Public, handler.Binding{}, health.Health},

		// Users
		{"GET /users", Public, handler.Binding{}, users.List},
		{"GET /users/{id}", Public, idParam, users.Get},
		{"GET /users/email/{email}", Public, emailParam, users.GetByEmail},
		{"POST /users", Public, bodyOnly, users.Create},
		{"PUT /users/{id}", Public, idAndBody, users.Update},
		{"DELETE /users/{id}", Owner, idParam, users.Delete},

		// Transactions
		{"POST /transactions", Owner, bodyOnly, transactions.Create},
		{"GET /transactions/{id}", Owner, idParam, transactions.Get},
		{"PUT /transaction/update/{id}", Owner, idAndBody, transactions.Update},
		{"PUT /transactions/update/{id}", Owner, idAndBody, transactions.Update},
		{"GET /get-data", Owner, handler.Binding{}, transactions.ListMine},
	}
}

// NewRouter builds the full HTTP handler.
// Order: CORS → RequestID → AccessLog → Recovery → RateLimit → route policy → handler
func NewRouter(deps *Dependencies) http.Handler {
	mux := http.NewServeMux()

	requireAuth := middleware.RequireAuth(deps.Gate, deps.Logger)
	requireOwner := middleware.RequireOwner(deps.Logger)

	for _, route := range Routes(deps) {
		h := handler.Adapt(route.Func, route.Binding, deps.Logger)

		if route.Policy == Owner {
			h = requireAuth(requireOwner(h))
		}

		mux.Handle(route.Pattern, h)
		deps.Logger.Debug("route registered", "pattern", route.Pattern, "policy", route.Policy.String())
	}

	h := wrap(mux, deps)

	// CORS - must be outermost to answer OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins: deps.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Origin", "Content-Type", "Accept", auth.AuthHeader, auth.OwnerHeader, middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", "Retry-After"},
	})
	return corsHandler.Handler(h)
}

// wrap applies the per-request middleware in reverse order (they wrap each
// other). AccessLog sits outside Recovery so a recovered panic is logged as 500.
func wrap(h http.Handler, deps *Dependencies) http.Handler {
	if deps.Limiter != nil && deps.RateLimitRequests > 0 {
		h = middleware.RateLimit(deps.Limiter, deps.RateLimitRequests, deps.RateLimitWindow, deps.Logger)(h)
	}
	h = middleware.Recovery(deps.Logger)(h)
	h = middleware.AccessLog(deps.Logger)(h)
	return middleware.RequestID(h)
}
