package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// BudgetCategory classifies a budget line.
type BudgetCategory string

const (
	BudgetTransportation BudgetCategory = "TRANSPORTATION"
	BudgetAccommodation  BudgetCategory = "ACCOMMODATION"
	BudgetFood           BudgetCategory = "FOOD"
	BudgetActivities     BudgetCategory = "ACTIVITIES"
	BudgetMiscellaneous  BudgetCategory = "MISCELLANEOUS"
)

// BudgetCategories lists every budget category in display order.
var BudgetCategories = []BudgetCategory{
	BudgetTransportation, BudgetAccommodation, BudgetFood, BudgetActivities, BudgetMiscellaneous,
}

// Valid reports whether c is a known budget category.
func (c BudgetCategory) Valid() bool {
	for _, known := range BudgetCategories {
		if c == known {
			return true
		}
	}
	return false
}

// BudgetItem is one expected or incurred expense of a plan.
// Actual is nil until the traveller records what was spent; aggregates treat
// nil as zero.
type BudgetItem struct {
	ID        uuid.UUID      `json:"id"`
	PlanID    uuid.UUID      `json:"plan_id"`
	Category  BudgetCategory `json:"category"`
	Item      string         `json:"item"`
	Estimated float64        `json:"estimated"`
	Actual    *float64       `json:"actual"`
	Paid      bool           `json:"paid"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// ItemID returns the primary key.
func (b BudgetItem) ItemID() uuid.UUID { return b.ID }

// ActualOrZero returns Actual, or 0 when it has not been recorded.
func (b BudgetItem) ActualOrZero() float64 {
	if b.Actual == nil {
		return 0
	}
	return *b.Actual
}

// BudgetPatch is a partial budget update. Nil fields are left unchanged.
type BudgetPatch struct {
	Category  *BudgetCategory `json:"category,omitempty"`
	Item      *string         `json:"item,omitempty"`
	Estimated *float64        `json:"estimated,omitempty"`
	Actual    *float64        `json:"actual,omitempty"`
	Paid      *bool           `json:"paid,omitempty"`
}

// Validate rejects unknown categories and negative amounts.
func (p BudgetPatch) Validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return fmt.Errorf("%w: unknown budget category %q", ErrValidation, *p.Category)
	}
	if p.Estimated != nil && *p.Estimated < 0 {
		return fmt.Errorf("%w: estimated must not be negative", ErrValidation)
	}
	if p.Actual != nil && *p.Actual < 0 {
		return fmt.Errorf("%w: actual must not be negative", ErrValidation)
	}
	return nil
}

// ApplyTo copies every set field of p onto item.
func (p BudgetPatch) ApplyTo(item BudgetItem) BudgetItem {
	if p.Category != nil {
		item.Category = *p.Category
	}
	setString(&item.Item, p.Item)
	if p.Estimated != nil {
		item.Estimated = *p.Estimated
	}
	if p.Actual != nil {
		a := *p.Actual
		item.Actual = &a
	}
	if p.Paid != nil {
		item.Paid = *p.Paid
	}
	return item
}

// NewBudgetItem returns an empty MISCELLANEOUS line for planID.
func NewBudgetItem(planID uuid.UUID, _ time.Time) BudgetItem {
	return BudgetItem{PlanID: planID, Category: BudgetMiscellaneous}
}
