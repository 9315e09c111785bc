package repo_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/testutil"
)

func newTestTx(t *testing.T) pgx.Tx {
	t.Helper()
	return testutil.NewTx(t)
}

// seedUser inserts a user so plans have a valid owner foreign key.
func seedUser(t *testing.T, tx pgx.Tx) domain.User {
	t.Helper()
	u, err := repo.NewUserRepo(tx).Upsert(context.Background(), domain.User{
		GoogleSubject: "google-" + uuid.NewString(),
		Email:         "traveller@example.com",
		Name:          "Traveller",
	})
	require.NoError(t, err)
	return u
}

// seedPlan inserts a private plan owned by a fresh user.
func seedPlan(t *testing.T, tx pgx.Tx) domain.Plan {
	t.Helper()
	owner := seedUser(t, tx)
	p, err := repo.NewPlanRepo(tx).Create(context.Background(), domain.Plan{
		Owner:      owner.ID,
		Visibility: domain.VisibilityPrivate,
	})
	require.NoError(t, err)
	return p
}

func ptr[T any](v T) *T { return &v }

func TestPlanRepo_Create(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPlanRepo(tx)
	owner := seedUser(t, tx)

	got, err := r.Create(context.Background(), domain.Plan{
		Name:       ptr("Japan 2026"),
		Owner:      owner.ID,
		Visibility: domain.VisibilityPrivate,
	})

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID, "ID should be DB-generated UUID")
	require.NotNil(t, got.Name)
	assert.Equal(t, "Japan 2026", *got.Name)
	assert.Equal(t, owner.ID, got.Owner)
	assert.Equal(t, domain.VisibilityPrivate, got.Visibility)
	assert.False(t, got.CreatedAt.IsZero(), "CreatedAt should be set by DB")
}

func TestPlanRepo_Create_NilName(t *testing.T) {
	tx := newTestTx(t)
	p := seedPlan(t, tx)

	assert.Nil(t, p.Name, "Name should be nil when not provided")
}

func TestPlanRepo_GetByID_NotFound(t *testing.T) {
	r := repo.NewPlanRepo(newTestTx(t))

	_, err := r.GetByID(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanRepo_ListByOwner(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPlanRepo(tx)
	ctx := context.Background()
	owner := seedUser(t, tx)
	other := seedUser(t, tx)

	for _, o := range []uuid.UUID{owner.ID, owner.ID, other.ID} {
		_, err := r.Create(ctx, domain.Plan{Owner: o, Visibility: domain.VisibilityPrivate})
		require.NoError(t, err)
	}

	plans, err := r.ListByOwner(ctx, owner.ID)

	require.NoError(t, err)
	assert.Len(t, plans, 2, "only the owner's plans are listed")
	for _, p := range plans {
		assert.Equal(t, owner.ID, p.Owner)
	}
}

func TestPlanRepo_Update_Visibility(t *testing.T) {
	tx := newTestTx(t)
	r := repo.NewPlanRepo(tx)
	p := seedPlan(t, tx)

	public := domain.VisibilityPublic
	got, err := r.Update(context.Background(), p.ID, domain.PlanPatch{Visibility: &public})

	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPublic, got.Visibility)
	assert.Nil(t, got.Name, "unset fields are left unchanged")
}

func TestPlanRepo_Update_NotFound(t *testing.T) {
	r := repo.NewPlanRepo(newTestTx(t))

	_, err := r.Update(context.Background(), uuid.New(), domain.PlanPatch{Name: ptr("x")})

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlanRepo_Delete_CascadesToItems(t *testing.T) {
	tx := newTestTx(t)
	ctx := context.Background()
	p := seedPlan(t, tx)
	packing := repo.NewPackingRepo(tx)

	_, err := packing.Create(ctx, domain.NewPackingItem(p.ID, p.CreatedAt))
	require.NoError(t, err)

	require.NoError(t, repo.NewPlanRepo(tx).Delete(ctx, p.ID))

	items, err := packing.ListByPlan(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, items, "items should be removed with their plan")
}

func TestPlanRepo_Delete_NotFound(t *testing.T) {
	r := repo.NewPlanRepo(newTestTx(t))

	err := r.Delete(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}
