package dashboard_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/dashboard"
	"github.com/pkordes/trip-planner/internal/domain"
)

// mockStore is a test double for dashboard.ItemStore.
// Set only the method fields your test needs.
type mockStore[T any, P any] struct {
	list   func(ctx context.Context, planID uuid.UUID) ([]T, error)
	create func(ctx context.Context, planID uuid.UUID, patch P) (T, error)
	update func(ctx context.Context, planID, id uuid.UUID, patch P) (T, error)
	delete func(ctx context.Context, planID, id uuid.UUID) error
}

func (m *mockStore[T, P]) List(ctx context.Context, planID uuid.UUID) ([]T, error) {
	if m.list == nil {
		return nil, nil
	}
	return m.list(ctx, planID)
}
func (m *mockStore[T, P]) Create(ctx context.Context, planID uuid.UUID, patch P) (T, error) {
	return m.create(ctx, planID, patch)
}
func (m *mockStore[T, P]) Update(ctx context.Context, planID, id uuid.UUID, patch P) (T, error) {
	return m.update(ctx, planID, id, patch)
}
func (m *mockStore[T, P]) Delete(ctx context.Context, planID, id uuid.UUID) error {
	return m.delete(ctx, planID, id)
}

type (
	itineraryStore = mockStore[domain.ItineraryItem, domain.ItineraryPatch]
	budgetStore    = mockStore[domain.BudgetItem, domain.BudgetPatch]
	packingStore   = mockStore[domain.PackingItem, domain.PackingPatch]
)

var _ dashboard.ItemStore[domain.BudgetItem, domain.BudgetPatch] = (*budgetStore)(nil)

type mockPlanStore struct {
	list   func(ctx context.Context) ([]domain.Plan, error)
	create func(ctx context.Context, patch domain.PlanPatch) (domain.Plan, error)
	update func(ctx context.Context, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)
	delete func(ctx context.Context, id uuid.UUID) error
}

func (m *mockPlanStore) ListPlans(ctx context.Context) ([]domain.Plan, error) { return m.list(ctx) }
func (m *mockPlanStore) CreatePlan(ctx context.Context, patch domain.PlanPatch) (domain.Plan, error) {
	return m.create(ctx, patch)
}
func (m *mockPlanStore) UpdatePlan(ctx context.Context, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	return m.update(ctx, id, patch)
}
func (m *mockPlanStore) DeletePlan(ctx context.Context, id uuid.UUID) error { return m.delete(ctx, id) }

// fakeConfirmer answers every question with answer and records the prompts.
type fakeConfirmer struct {
	answer bool
	mu     sync.Mutex
	asked  []string
}

func (f *fakeConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asked = append(f.asked, prompt)
	return f.answer, nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	alerts []string
}

func (n *recordingNotifier) Alert(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.alerts = append(n.alerts, msg)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

func ptr[T any](v T) *T { return &v }
