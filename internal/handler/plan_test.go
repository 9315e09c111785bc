package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/service"
)

func TestListPlans_RequiresSession(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rec := do(t, h, http.MethodGet, "/api/plans", uuid.Nil, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListPlans_ReturnsCallerPlans(t *testing.T) {
	user := uuid.New()
	var gotOwner uuid.UUID
	plans := &mockPlanServicer{
		list: func(_ context.Context, owner uuid.UUID) ([]domain.Plan, error) {
			gotOwner = owner
			return nil, nil
		},
	}
	h := newTestRouter(t, testDeps{plans: plans})

	rec := do(t, h, http.MethodGet, "/api/plans", user, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user, gotOwner)
	assert.JSONEq(t, "[]", rec.Body.String(), "an empty list is [] not null")
}

func TestCreatePlan_EmptyBody(t *testing.T) {
	user := uuid.New()
	plans := &mockPlanServicer{
		create: func(_ context.Context, owner uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
			assert.Nil(t, patch.Visibility)
			return domain.Plan{ID: uuid.New(), Owner: owner, Visibility: domain.VisibilityPrivate}, nil
		},
	}
	h := newTestRouter(t, testDeps{plans: plans})

	rec := do(t, h, http.MethodPost, "/api/plans", user, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	got := decode[domain.Plan](t, rec)
	assert.Equal(t, domain.VisibilityPrivate, got.Visibility)
}

func TestPatchPlan_MissingID(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rec := do(t, h, http.MethodPatch, "/api/plans", uuid.New(), map[string]any{"visibility": "PUBLIC"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "id is required", decode[errorResponse](t, rec).Error)
}

// recordingPlanRepo serves one plan and records whether anything was written.
type recordingPlanRepo struct {
	plan    domain.Plan
	written bool
}

func (r *recordingPlanRepo) Create(_ context.Context, p domain.Plan) (domain.Plan, error) {
	r.written = true
	return p, nil
}
func (r *recordingPlanRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Plan, error) {
	if id != r.plan.ID {
		return domain.Plan{}, domain.ErrNotFound
	}
	return r.plan, nil
}
func (r *recordingPlanRepo) ListByOwner(_ context.Context, _ uuid.UUID) ([]domain.Plan, error) {
	return []domain.Plan{r.plan}, nil
}
func (r *recordingPlanRepo) Update(_ context.Context, _ uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	r.written = true
	if patch.Visibility != nil {
		r.plan.Visibility = *patch.Visibility
	}
	return r.plan, nil
}
func (r *recordingPlanRepo) Delete(_ context.Context, _ uuid.UUID) error {
	r.written = true
	return nil
}

var _ repo.PlanRepo = (*recordingPlanRepo)(nil)

// TestPatchPlan_NotOwner_Forbidden drives the real PlanService: a PATCH from
// someone other than the owner answers 403 and leaves the row untouched.
func TestPatchPlan_NotOwner_Forbidden(t *testing.T) {
	owner := uuid.New()
	store := &recordingPlanRepo{plan: domain.Plan{ID: uuid.New(), Owner: owner, Visibility: domain.VisibilityPrivate}}
	h := newTestRouter(t, testDeps{plans: service.NewPlanService(store)})

	rec := do(t, h, http.MethodPatch, "/api/plans", uuid.New(),
		map[string]any{"id": store.plan.ID, "visibility": "PUBLIC"})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, store.written, "no row may be mutated")
	assert.Equal(t, domain.VisibilityPrivate, store.plan.Visibility)
}

func TestPatchPlan_Owner(t *testing.T) {
	owner := uuid.New()
	store := &recordingPlanRepo{plan: domain.Plan{ID: uuid.New(), Owner: owner, Visibility: domain.VisibilityPrivate}}
	h := newTestRouter(t, testDeps{plans: service.NewPlanService(store)})

	rec := do(t, h, http.MethodPatch, "/api/plans", owner,
		map[string]any{"id": store.plan.ID, "visibility": "PUBLIC"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.VisibilityPublic, decode[domain.Plan](t, rec).Visibility)
}

func TestPatchPlan_InvalidVisibility(t *testing.T) {
	owner := uuid.New()
	store := &recordingPlanRepo{plan: domain.Plan{ID: uuid.New(), Owner: owner}}
	h := newTestRouter(t, testDeps{plans: service.NewPlanService(store)})

	rec := do(t, h, http.MethodPatch, "/api/plans", owner,
		map[string]any{"id": store.plan.ID, "visibility": "SECRET"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "visibility must be PUBLIC or PRIVATE", decode[errorResponse](t, rec).Error)
	assert.False(t, store.written)
}

func TestDeletePlan_NotOwner_Forbidden(t *testing.T) {
	store := &recordingPlanRepo{plan: domain.Plan{ID: uuid.New(), Owner: uuid.New()}}
	h := newTestRouter(t, testDeps{plans: service.NewPlanService(store)})

	rec := do(t, h, http.MethodDelete, "/api/plans", uuid.New(), map[string]any{"id": store.plan.ID})

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, store.written)
}

func TestDeletePlan_Owner(t *testing.T) {
	owner := uuid.New()
	store := &recordingPlanRepo{plan: domain.Plan{ID: uuid.New(), Owner: owner}}
	h := newTestRouter(t, testDeps{plans: service.NewPlanService(store)})

	rec := do(t, h, http.MethodDelete, "/api/plans", owner, map[string]any{"id": store.plan.ID})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
}

func TestPlans_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rec := do(t, h, http.MethodPut, "/api/plans", uuid.New(), nil)

	require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "method not allowed", decode[errorResponse](t, rec).Error)
}
