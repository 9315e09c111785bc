package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Items is the Data Service for one item kind, addressed as
// /api/{kind}/{planId}.
type Items[T domain.Item, P domain.Patch[T]] struct {
	c    *Client
	kind domain.Kind
}

type (
	ItineraryItems = Items[domain.ItineraryItem, domain.ItineraryPatch]
	BudgetItems    = Items[domain.BudgetItem, domain.BudgetPatch]
	PackingItems   = Items[domain.PackingItem, domain.PackingPatch]
)

// Itinerary returns the itinerary Data Service.
func (c *Client) Itinerary() *ItineraryItems {
	return &ItineraryItems{c: c, kind: domain.KindItinerary}
}

// Budget returns the budget Data Service.
func (c *Client) Budget() *BudgetItems {
	return &BudgetItems{c: c, kind: domain.KindBudget}
}

// Packing returns the packing Data Service.
func (c *Client) Packing() *PackingItems {
	return &PackingItems{c: c, kind: domain.KindPacking}
}

// Kind returns the item kind served.
func (s *Items[T, P]) Kind() domain.Kind { return s.kind }

func (s *Items[T, P]) path(planID uuid.UUID) string {
	return "/api/" + string(s.kind) + "/" + planID.String()
}

// List returns every item of the plan in server order.
func (s *Items[T, P]) List(ctx context.Context, planID uuid.UUID) ([]T, error) {
	var items []T
	if err := s.c.do(ctx, http.MethodGet, s.path(planID), nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// Create adds an item. Fields left nil in patch take the server defaults.
func (s *Items[T, P]) Create(ctx context.Context, planID uuid.UUID, patch P) (T, error) {
	var item T
	err := s.c.do(ctx, http.MethodPost, s.path(planID), patch, &item)
	return item, err
}

// Update changes the set fields of patch on item id.
func (s *Items[T, P]) Update(ctx context.Context, planID, id uuid.UUID, patch P) (T, error) {
	var item T
	body, err := withID(id, patch)
	if err != nil {
		return item, err
	}
	err = s.c.do(ctx, http.MethodPut, s.path(planID), body, &item)
	return item, err
}

// Delete removes item id.
func (s *Items[T, P]) Delete(ctx context.Context, planID, id uuid.UUID) error {
	return s.c.do(ctx, http.MethodDelete, s.path(planID), map[string]uuid.UUID{"id": id}, nil)
}
