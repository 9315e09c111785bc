// Package domain contains the core data types for the trip planner.
// This package has no dependencies beyond uuid and is imported by every other
// internal package (repo, service, handler, client, dashboard).
package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Visibility controls whether a plan can be read by anyone holding its link.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Valid reports whether v is one of the known visibility values.
func (v Visibility) Valid() bool {
	return v == VisibilityPublic || v == VisibilityPrivate
}

// Toggle returns the opposite visibility. Unknown values toggle to PUBLIC.
func (v Visibility) Toggle() Visibility {
	if v == VisibilityPublic {
		return VisibilityPrivate
	}
	return VisibilityPublic
}

// Plan is a single trip: the top-level aggregate that owns itinerary,
// budget, and packing items. Owner is fixed at creation.
type Plan struct {
	ID         uuid.UUID  `json:"id"`
	Name       *string    `json:"name"` // nil until the owner names the trip
	Owner      uuid.UUID  `json:"owner"`
	Visibility Visibility `json:"visibility"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// DisplayName returns the plan name, or a placeholder when unnamed.
func (p Plan) DisplayName() string {
	if p.Name == nil || *p.Name == "" {
		return "Untitled trip"
	}
	return *p.Name
}

// PlanPatch carries the mutable plan fields. Nil fields are left unchanged.
type PlanPatch struct {
	Name       *string     `json:"name,omitempty"`
	Visibility *Visibility `json:"visibility,omitempty"`
}

// Validate rejects unknown visibility values.
func (p PlanPatch) Validate() error {
	if p.Visibility != nil && !p.Visibility.Valid() {
		return fmt.Errorf("%w: visibility must be PUBLIC or PRIVATE", ErrValidation)
	}
	return nil
}
