package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// authorizer is the slice of PlanService that item services need.
type authorizer interface {
	Authorize(ctx context.Context, caller, planID uuid.UUID, read bool) (domain.Plan, error)
	GetPublic(ctx context.Context, viewer, id uuid.UUID) (domain.Plan, error)
}

// ItemService implements the CRUD rules shared by itinerary, budget and
// packing items. Every call is checked against the owning plan first.
type ItemService[T domain.Item, P domain.Patch[T]] struct {
	name    string
	repo    repo.ItemRepo[T, P]
	plans   authorizer
	newItem func(planID uuid.UUID, now time.Time) T
	now     func() time.Time
}

type (
	ItineraryService = ItemService[domain.ItineraryItem, domain.ItineraryPatch]
	BudgetService    = ItemService[domain.BudgetItem, domain.BudgetPatch]
	PackingService   = ItemService[domain.PackingItem, domain.PackingPatch]
)

// NewItineraryService constructs the itinerary ItemService.
func NewItineraryService(r repo.ItineraryRepo, plans *PlanService) *ItineraryService {
	return newItemService("ItineraryService", r, plans, domain.NewItineraryItem)
}

// NewBudgetService constructs the budget ItemService.
func NewBudgetService(r repo.BudgetRepo, plans *PlanService) *BudgetService {
	return newItemService("BudgetService", r, plans, domain.NewBudgetItem)
}

// NewPackingService constructs the packing ItemService.
func NewPackingService(r repo.PackingRepo, plans *PlanService) *PackingService {
	return newItemService("PackingService", r, plans, domain.NewPackingItem)
}

func newItemService[T domain.Item, P domain.Patch[T]](
	name string,
	r repo.ItemRepo[T, P],
	plans authorizer,
	newItem func(uuid.UUID, time.Time) T,
) *ItemService[T, P] {
	return &ItemService[T, P]{name: name, repo: r, plans: plans, newItem: newItem, now: time.Now}
}

// List returns the items of a plan the caller owns or that is PUBLIC.
func (s *ItemService[T, P]) List(ctx context.Context, caller, planID uuid.UUID) ([]T, error) {
	if _, err := s.plans.Authorize(ctx, caller, planID, true); err != nil {
		return nil, s.wrap("List", err)
	}
	items, err := s.repo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, s.wrap("List", err)
	}
	return items, nil
}

// ListPublic returns the items of a plan visible through GetPublic.
func (s *ItemService[T, P]) ListPublic(ctx context.Context, viewer, planID uuid.UUID) ([]T, error) {
	if _, err := s.plans.GetPublic(ctx, viewer, planID); err != nil {
		return nil, s.wrap("ListPublic", err)
	}
	items, err := s.repo.ListByPlan(ctx, planID)
	if err != nil {
		return nil, s.wrap("ListPublic", err)
	}
	return items, nil
}

// Create adds an item to the plan: the kind's defaults overlaid with the set
// fields of patch.
func (s *ItemService[T, P]) Create(ctx context.Context, caller, planID uuid.UUID, patch P) (T, error) {
	var zero T
	if err := patch.Validate(); err != nil {
		return zero, s.wrap("Create", err)
	}
	if _, err := s.plans.Authorize(ctx, caller, planID, false); err != nil {
		return zero, s.wrap("Create", err)
	}

	item := patch.ApplyTo(s.newItem(planID, s.now()))
	created, err := s.repo.Create(ctx, item)
	if err != nil {
		return zero, s.wrap("Create", err)
	}
	return created, nil
}

// Update applies patch to item id of the plan.
func (s *ItemService[T, P]) Update(ctx context.Context, caller, planID, id uuid.UUID, patch P) (T, error) {
	var zero T
	if id == uuid.Nil {
		return zero, s.wrap("Update", fmt.Errorf("%w: id is required", domain.ErrValidation))
	}
	if err := patch.Validate(); err != nil {
		return zero, s.wrap("Update", err)
	}
	if _, err := s.plans.Authorize(ctx, caller, planID, false); err != nil {
		return zero, s.wrap("Update", err)
	}

	updated, err := s.repo.Update(ctx, planID, id, patch)
	if err != nil {
		return zero, s.wrap("Update", err)
	}
	return updated, nil
}

// Delete removes item id from the plan.
func (s *ItemService[T, P]) Delete(ctx context.Context, caller, planID, id uuid.UUID) error {
	if id == uuid.Nil {
		return s.wrap("Delete", fmt.Errorf("%w: id is required", domain.ErrValidation))
	}
	if _, err := s.plans.Authorize(ctx, caller, planID, false); err != nil {
		return s.wrap("Delete", err)
	}
	if err := s.repo.Delete(ctx, planID, id); err != nil {
		return s.wrap("Delete", err)
	}
	return nil
}

func (s *ItemService[T, P]) wrap(method string, err error) error {
	return fmt.Errorf("service.%s.%s: %w", s.name, method, err)
}
