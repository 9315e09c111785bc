package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// SubmitState is the lifecycle of a list's mutations.
type SubmitState int

const (
	Idle SubmitState = iota
	Submitting
	Settled
)

func (s SubmitState) String() string {
	switch s {
	case Submitting:
		return "submitting"
	case Settled:
		return "settled"
	}
	return "idle"
}

// ItemList is the controller for one kind's collection on one plan.
//
// Mutations are sent as-is: no row is added, changed or removed locally
// before the server answers. The collection only changes through Load or
// SetItems, and a failed request leaves it untouched.
type ItemList[T domain.Item, P domain.Patch[T]] struct {
	spec    *KindSpec[T, P]
	store   ItemStore[T, P]
	confirm Confirmer
	now     func() time.Time

	mu        sync.Mutex
	planID    uuid.UUID
	items     []T
	inflight  int
	state     SubmitState
	listeners []func(context.Context)
}

type (
	ItineraryList = ItemList[domain.ItineraryItem, domain.ItineraryPatch]
	BudgetList    = ItemList[domain.BudgetItem, domain.BudgetPatch]
	PackingList   = ItemList[domain.PackingItem, domain.PackingPatch]
)

// NewItemList creates an empty controller. confirm is asked before every
// delete.
func NewItemList[T domain.Item, P domain.Patch[T]](spec *KindSpec[T, P], store ItemStore[T, P], confirm Confirmer) *ItemList[T, P] {
	return &ItemList[T, P]{spec: spec, store: store, confirm: confirm, now: time.Now}
}

// Spec returns the kind description.
func (l *ItemList[T, P]) Spec() *KindSpec[T, P] { return l.spec }

// OnSettle registers fn to run once after every mutation finishes,
// whether it succeeded or not.
func (l *ItemList[T, P]) OnSettle(fn func(ctx context.Context)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listeners = append(l.listeners, fn)
}

// State returns the submit state.
func (l *ItemList[T, P]) State() SubmitState {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// PlanID returns the plan the collection belongs to.
func (l *ItemList[T, P]) PlanID() uuid.UUID {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.planID
}

// Items returns a copy of the collection.
func (l *ItemList[T, P]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// SetItems replaces the collection and the plan it belongs to.
func (l *ItemList[T, P]) SetItems(planID uuid.UUID, items []T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.planID = planID
	l.items = slices.Clone(items)
}

// Load fetches the collection of the current plan. On error the previous
// collection is kept. A result for a plan that is no longer current is
// dropped.
func (l *ItemList[T, P]) Load(ctx context.Context) error {
	planID := l.PlanID()
	if planID == uuid.Nil {
		return ErrNoPlan
	}
	items, err := l.store.List(ctx, planID)
	if err != nil {
		return fmt.Errorf("dashboard.%s.Load: %w", l.spec.Kind, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.planID == planID {
		l.items = items
	}
	return nil
}

// Add creates an item with the kind's defaults.
func (l *ItemList[T, P]) Add(ctx context.Context) (T, error) {
	var created T
	planID := l.PlanID()
	if planID == uuid.Nil {
		return created, ErrNoPlan
	}
	err := l.submit(ctx, func(ctx context.Context) error {
		var err error
		created, err = l.store.Create(ctx, planID, l.spec.Defaults(l.now()))
		return err
	})
	if err != nil {
		return created, fmt.Errorf("dashboard.%s.Add: %w", l.spec.Kind, err)
	}
	return created, nil
}

// Update sets one field of item id from its raw text. Parse failures are
// returned without sending anything.
func (l *ItemList[T, P]) Update(ctx context.Context, id uuid.UUID, name, raw string) (T, error) {
	var updated T
	planID := l.PlanID()
	if planID == uuid.Nil {
		return updated, ErrNoPlan
	}
	patch, err := l.spec.Parse(name, raw)
	if err != nil {
		return updated, err
	}
	err = l.submit(ctx, func(ctx context.Context) error {
		var err error
		updated, err = l.store.Update(ctx, planID, id, patch)
		return err
	})
	if err != nil {
		return updated, fmt.Errorf("dashboard.%s.Update: %w", l.spec.Kind, err)
	}
	return updated, nil
}

// Delete removes item id after confirmation. Declining returns ErrCancelled
// and sends no request.
func (l *ItemList[T, P]) Delete(ctx context.Context, id uuid.UUID) error {
	planID := l.PlanID()
	if planID == uuid.Nil {
		return ErrNoPlan
	}
	if err := confirm(ctx, l.confirm, fmt.Sprintf("Delete this %s item?", l.spec.Kind)); err != nil {
		return err
	}
	err := l.submit(ctx, func(ctx context.Context) error {
		return l.store.Delete(ctx, planID, id)
	})
	if err != nil {
		return fmt.Errorf("dashboard.%s.Delete: %w", l.spec.Kind, err)
	}
	return nil
}

// submit runs one mutation through Submitting and Settled and then notifies
// the listeners. Overlapping mutations keep the list in Submitting until the
// last one finishes.
func (l *ItemList[T, P]) submit(ctx context.Context, send func(context.Context) error) error {
	l.mu.Lock()
	l.inflight++
	l.state = Submitting
	l.mu.Unlock()

	err := send(ctx)

	l.mu.Lock()
	l.inflight--
	if l.inflight == 0 {
		l.state = Settled
	}
	listeners := slices.Clone(l.listeners)
	l.mu.Unlock()

	for _, fn := range listeners {
		fn(ctx)
	}

	l.mu.Lock()
	if l.inflight == 0 {
		l.state = Idle
	}
	l.mu.Unlock()
	return err
}
