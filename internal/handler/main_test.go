package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/auth"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
)

// ---- mocks -----------------------------------------------------------------

// mockPlanServicer is a test double for handler.PlanServicer.
// Set only the method fields your test needs.
type mockPlanServicer struct {
	list      func(ctx context.Context, owner uuid.UUID) ([]domain.Plan, error)
	create    func(ctx context.Context, owner uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)
	update    func(ctx context.Context, caller, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)
	delete    func(ctx context.Context, caller, id uuid.UUID) error
	getPublic func(ctx context.Context, viewer, id uuid.UUID) (domain.Plan, error)
}

func (m *mockPlanServicer) List(ctx context.Context, owner uuid.UUID) ([]domain.Plan, error) {
	return m.list(ctx, owner)
}
func (m *mockPlanServicer) Create(ctx context.Context, owner uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	return m.create(ctx, owner, patch)
}
func (m *mockPlanServicer) Update(ctx context.Context, caller, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	return m.update(ctx, caller, id, patch)
}
func (m *mockPlanServicer) Delete(ctx context.Context, caller, id uuid.UUID) error {
	return m.delete(ctx, caller, id)
}
func (m *mockPlanServicer) GetPublic(ctx context.Context, viewer, id uuid.UUID) (domain.Plan, error) {
	return m.getPublic(ctx, viewer, id)
}

var _ handler.PlanServicer = (*mockPlanServicer)(nil)

// mockItemServicer is a test double for handler.ItemServicer.
type mockItemServicer[T any, P any] struct {
	list       func(ctx context.Context, caller, planID uuid.UUID) ([]T, error)
	listPublic func(ctx context.Context, viewer, planID uuid.UUID) ([]T, error)
	create     func(ctx context.Context, caller, planID uuid.UUID, patch P) (T, error)
	update     func(ctx context.Context, caller, planID, id uuid.UUID, patch P) (T, error)
	delete     func(ctx context.Context, caller, planID, id uuid.UUID) error
}

func (m *mockItemServicer[T, P]) List(ctx context.Context, caller, planID uuid.UUID) ([]T, error) {
	return m.list(ctx, caller, planID)
}
func (m *mockItemServicer[T, P]) ListPublic(ctx context.Context, viewer, planID uuid.UUID) ([]T, error) {
	return m.listPublic(ctx, viewer, planID)
}
func (m *mockItemServicer[T, P]) Create(ctx context.Context, caller, planID uuid.UUID, patch P) (T, error) {
	return m.create(ctx, caller, planID, patch)
}
func (m *mockItemServicer[T, P]) Update(ctx context.Context, caller, planID, id uuid.UUID, patch P) (T, error) {
	return m.update(ctx, caller, planID, id, patch)
}
func (m *mockItemServicer[T, P]) Delete(ctx context.Context, caller, planID, id uuid.UUID) error {
	return m.delete(ctx, caller, planID, id)
}

type (
	mockItinerary = mockItemServicer[domain.ItineraryItem, domain.ItineraryPatch]
	mockBudget    = mockItemServicer[domain.BudgetItem, domain.BudgetPatch]
	mockPacking   = mockItemServicer[domain.PackingItem, domain.PackingPatch]
)

type mockAuthServicer struct {
	signIn func(ctx context.Context, profile domain.User) (domain.User, error)
	user   func(ctx context.Context, id uuid.UUID) (domain.User, error)
}

func (m *mockAuthServicer) SignIn(ctx context.Context, profile domain.User) (domain.User, error) {
	return m.signIn(ctx, profile)
}
func (m *mockAuthServicer) User(ctx context.Context, id uuid.UUID) (domain.User, error) {
	return m.user(ctx, id)
}

type mockProvider struct {
	authURL  func(state string) string
	exchange func(ctx context.Context, code string) (domain.User, error)
}

func (m *mockProvider) AuthURL(state string) string { return m.authURL(state) }
func (m *mockProvider) Exchange(ctx context.Context, code string) (domain.User, error) {
	return m.exchange(ctx, code)
}

// ---- helpers ---------------------------------------------------------------

// testDeps holds the mocks a test wants wired; nil fields get empty mocks.
type testDeps struct {
	plans     handler.PlanServicer
	itinerary *mockItinerary
	budget    *mockBudget
	packing   *mockPacking
	auth      *mockAuthServicer
	provider  *mockProvider
	limiter   func(http.Handler) http.Handler
}

var testTokens = func() *auth.TokenService {
	ts, err := auth.NewTokenService("handler-test-secret-0123456789", time.Hour)
	if err != nil {
		panic(err)
	}
	return ts
}()

// newTestRouter wires the mocks into the real router, exactly as main.go does.
func newTestRouter(t *testing.T, d testDeps) http.Handler {
	t.Helper()
	if d.plans == nil {
		d.plans = &mockPlanServicer{}
	}
	if d.itinerary == nil {
		d.itinerary = &mockItinerary{}
	}
	if d.budget == nil {
		d.budget = &mockBudget{}
	}
	if d.packing == nil {
		d.packing = &mockPacking{}
	}
	if d.auth == nil {
		d.auth = &mockAuthServicer{}
	}
	if d.provider == nil {
		d.provider = &mockProvider{}
	}
	return handler.NewRouter(handler.Deps{
		Plans:       d.plans,
		Itinerary:   d.itinerary,
		Budget:      d.budget,
		Packing:     d.packing,
		Auth:        d.auth,
		Provider:    d.provider,
		Tokens:      testTokens,
		Logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		AuthLimiter: d.limiter,
	})
}

// do sends a request, authenticated as user unless user is uuid.Nil.
func do(t *testing.T, h http.Handler, method, target string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rdr = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, target, rdr)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		token, err := testTokens.Generate(user)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v), "body: %s", rec.Body.String())
	return v
}

type errorResponse struct {
	Error string `json:"error"`
}
