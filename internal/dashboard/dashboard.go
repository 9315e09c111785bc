// Package dashboard holds the client-side state of the planner: one ItemList
// controller per item kind, the Coordinator that keeps them on the selected
// plan, and the read-only Experience view of a shared plan.
//
// Nothing here renders anything. Views (tripctl's commands and its
// bubbletea model) call into these types and read Snapshot.
package dashboard

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

var (
	// ErrCancelled is returned when the user declines a confirmation. No
	// request was sent.
	ErrCancelled = errors.New("dashboard: cancelled")

	// ErrNothingToExport is returned by Export for an empty collection.
	ErrNothingToExport = errors.New("dashboard: nothing to export")

	// ErrNoPlan is returned by operations that need a selected plan.
	ErrNoPlan = errors.New("dashboard: no plan selected")

	// ErrSuperseded is returned by a load whose results were dropped because
	// a newer Select or Refresh started after it.
	ErrSuperseded = errors.New("dashboard: superseded by a newer load")
)

// ItemStore is the Data Service for one item kind.
type ItemStore[T any, P any] interface {
	List(ctx context.Context, planID uuid.UUID) ([]T, error)
	Create(ctx context.Context, planID uuid.UUID, patch P) (T, error)
	Update(ctx context.Context, planID, id uuid.UUID, patch P) (T, error)
	Delete(ctx context.Context, planID, id uuid.UUID) error
}

// PlanStore is the Data Service for plans.
type PlanStore interface {
	ListPlans(ctx context.Context) ([]domain.Plan, error)
	CreatePlan(ctx context.Context, patch domain.PlanPatch) (domain.Plan, error)
	UpdatePlan(ctx context.Context, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error)
	DeletePlan(ctx context.Context, id uuid.UUID) error
}

// PublicStore reads shared plans without a session.
type PublicStore interface {
	PublicPlan(ctx context.Context, id uuid.UUID) (domain.Plan, error)
	PublicItinerary(ctx context.Context, id uuid.UUID) ([]domain.ItineraryItem, error)
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// Notifier shows a short message to the user.
type Notifier interface {
	Alert(msg string)
}

// Clipboard receives the share link of a plan made public.
type Clipboard interface {
	WriteText(text string) error
}

// confirm runs c and turns a "no" into ErrCancelled.
func confirm(ctx context.Context, c Confirmer, prompt string) error {
	ok, err := c.Confirm(ctx, prompt)
	if err != nil {
		return err
	}
	if !ok {
		return ErrCancelled
	}
	return nil
}
