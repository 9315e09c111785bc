// Package handler implements the HTTP handlers for the trip planner API.
// Handlers decode requests, call the service layer through the consumer-side
// interfaces below, and map domain errors to status codes in one place
// (errors.go).
package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/auth"
	"github.com/pkordes/trip-planner/internal/domain"
)

// PlanServicer defines the plan operations the handlers depend on.
// Defining the interface here (in the consumer package) lets handler tests
// inject a mock without touching the database or service layer.
type PlanServicer interface {
	List(ctx context.Context, owner uuid.UUID) ([]domain.Plan, error)
	Create(ctx context.Context, owner uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)
	Update(ctx context.Context, caller, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)
	Delete(ctx context.Context, caller, id uuid.UUID) error
	GetPublic(ctx context.Context, viewer, id uuid.UUID) (domain.Plan, error)
}

// ItemServicer defines the item operations shared by every kind.
type ItemServicer[T any, P any] interface {
	List(ctx context.Context, caller, planID uuid.UUID) ([]T, error)
	ListPublic(ctx context.Context, viewer, planID uuid.UUID) ([]T, error)
	Create(ctx context.Context, caller, planID uuid.UUID, patch P) (T, error)
	Update(ctx context.Context, caller, planID, id uuid.UUID, patch P) (T, error)
	Delete(ctx context.Context, caller, planID, id uuid.UUID) error
}

// AuthServicer resolves identities into local users.
type AuthServicer interface {
	SignIn(ctx context.Context, profile domain.User) (domain.User, error)
	User(ctx context.Context, id uuid.UUID) (domain.User, error)
}

// IdentityProvider is the OAuth provider used to sign users in.
type IdentityProvider interface {
	AuthURL(state string) string
	Exchange(ctx context.Context, code string) (domain.User, error)
}

// Deps holds everything the router wires into handlers.
type Deps struct {
	Plans     PlanServicer
	Itinerary ItemServicer[domain.ItineraryItem, domain.ItineraryPatch]
	Budget    ItemServicer[domain.BudgetItem, domain.BudgetPatch]
	Packing   ItemServicer[domain.PackingItem, domain.PackingPatch]
	Auth      AuthServicer
	Provider  IdentityProvider
	Tokens    *auth.TokenService
	Logger    *slog.Logger

	// AuthLimiter throttles POST /api/auth. Nil disables throttling.
	AuthLimiter func(http.Handler) http.Handler

	// SecureCookies marks session cookies Secure; enable behind HTTPS.
	SecureCookies bool
}

// NewRouter builds the full route table:
//
//	GET    /healthz
//	GET    /openapi.yaml
//	POST   /api/auth                       {action: google|signout}
//	GET    /auth/callback
//	GET    /api/auth/session               (session)
//	GET|POST|PATCH|DELETE /api/plans       (session)
//	GET|POST|PUT|DELETE   /api/{kind}/{planId}  (session)
//	GET    /api/public/plans/{planId}
//	GET    /api/public/itinerary/{planId}
func NewRouter(d Deps) http.Handler {
	if d.Logger == nil {
		d.Logger = slog.Default()
	}
	e := errorWriter{log: d.Logger}

	r := chi.NewRouter()
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{Error: "method not allowed"})
	})

	r.Get("/healthz", GetHealth)
	r.Get("/openapi.yaml", GetOpenAPI)

	ah := &authHandler{auth: d.Auth, provider: d.Provider, tokens: d.Tokens, secure: d.SecureCookies, errs: e}
	r.Get("/auth/callback", ah.callback)

	pub := &publicHandler{plans: d.Plans, itineraryItems: d.Itinerary, errs: e}

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if d.AuthLimiter != nil {
				r.Use(d.AuthLimiter)
			}
			r.Post("/auth", ah.action)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(d.Tokens))

			r.Get("/public/plans/{planId}", pub.plan)
			r.Get("/public/itinerary/{planId}", pub.itinerary)
		})

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(d.Tokens))

			r.Get("/auth/session", ah.session)

			ph := &planHandler{plans: d.Plans, errs: e}
			r.Get("/plans", ph.list)
			r.Post("/plans", ph.create)
			r.Patch("/plans", ph.update)
			r.Delete("/plans", ph.delete)

			mountItems(r, domain.KindItinerary, d.Itinerary, e)
			mountItems(r, domain.KindBudget, d.Budget, e)
			mountItems(r, domain.KindPacking, d.Packing, e)
		})
	})

	return r
}
