// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce ownership, and orchestrate repo calls.
// No SQL lives here: services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// PlanService implements business logic for Plan operations.
type PlanService struct {
	repo repo.PlanRepo
}

// NewPlanService constructs a PlanService backed by the provided PlanRepo.
func NewPlanService(r repo.PlanRepo) *PlanService {
	return &PlanService{repo: r}
}

// List returns the plans owned by owner, newest first.
func (s *PlanService) List(ctx context.Context, owner uuid.UUID) ([]domain.Plan, error) {
	plans, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("service.PlanService.List: %w", err)
	}
	return plans, nil
}

// Create persists a new plan owned by owner. Visibility defaults to PRIVATE.
func (s *PlanService) Create(ctx context.Context, owner uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	if err := patch.Validate(); err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}

	plan := domain.Plan{Owner: owner, Name: patch.Name, Visibility: domain.VisibilityPrivate}
	if patch.Visibility != nil {
		plan.Visibility = *patch.Visibility
	}

	created, err := s.repo.Create(ctx, plan)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Create: %w", err)
	}
	return created, nil
}

// Update applies patch to the plan. Only the owner may update; anyone else
// gets domain.ErrForbidden and nothing is written.
func (s *PlanService) Update(ctx context.Context, caller, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	if err := patch.Validate(); err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}
	if _, err := s.Authorize(ctx, caller, id, false); err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes the plan and its items. Only the owner may delete.
func (s *PlanService) Delete(ctx context.Context, caller, id uuid.UUID) error {
	if _, err := s.Authorize(ctx, caller, id, false); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PlanService.Delete: %w", err)
	}
	return nil
}

// GetPublic returns a plan if it is PUBLIC or viewer owns it; viewer is
// uuid.Nil for an anonymous request. Any other private plan is reported as
// domain.ErrNotFound so its existence is not disclosed.
func (s *PlanService) GetPublic(ctx context.Context, viewer, id uuid.UUID) (domain.Plan, error) {
	plan, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.GetPublic: %w", err)
	}
	ownerPreview := viewer != uuid.Nil && plan.Owner == viewer
	if plan.Visibility != domain.VisibilityPublic && !ownerPreview {
		return domain.Plan{}, fmt.Errorf("service.PlanService.GetPublic: %w", domain.ErrNotFound)
	}
	return plan, nil
}

// EnsureDefault returns the owner's newest plan, creating an unnamed private
// one first if the owner has none.
func (s *PlanService) EnsureDefault(ctx context.Context, owner uuid.UUID) (domain.Plan, error) {
	plans, err := s.repo.ListByOwner(ctx, owner)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.EnsureDefault: %w", err)
	}
	if len(plans) > 0 {
		return plans[0], nil
	}

	created, err := s.repo.Create(ctx, domain.Plan{Owner: owner, Visibility: domain.VisibilityPrivate})
	if err != nil {
		return domain.Plan{}, fmt.Errorf("service.PlanService.EnsureDefault: %w", err)
	}
	return created, nil
}

// Authorize loads the plan and checks that caller may access it. Writes
// require ownership; reads are also allowed on PUBLIC plans.
func (s *PlanService) Authorize(ctx context.Context, caller, planID uuid.UUID, read bool) (domain.Plan, error) {
	plan, err := s.repo.GetByID(ctx, planID)
	if err != nil {
		return domain.Plan{}, err
	}
	if plan.Owner == caller {
		return plan, nil
	}
	if read && plan.Visibility == domain.VisibilityPublic {
		return plan, nil
	}
	return domain.Plan{}, domain.ErrForbidden
}
