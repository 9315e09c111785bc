package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// PackingCategory classifies a packing list entry.
type PackingCategory string

const (
	PackingClothing      PackingCategory = "CLOTHING"
	PackingToiletries    PackingCategory = "TOILETRIES"
	PackingElectronics   PackingCategory = "ELECTRONICS"
	PackingDocuments     PackingCategory = "DOCUMENTS"
	PackingMiscellaneous PackingCategory = "MISCELLANEOUS"
)

// PackingCategories lists every packing category in display order.
var PackingCategories = []PackingCategory{
	PackingClothing, PackingToiletries, PackingElectronics, PackingDocuments, PackingMiscellaneous,
}

// Valid reports whether c is a known packing category.
func (c PackingCategory) Valid() bool {
	for _, known := range PackingCategories {
		if c == known {
			return true
		}
	}
	return false
}

// PackingItem is one thing to bring on the trip.
type PackingItem struct {
	ID        uuid.UUID       `json:"id"`
	PlanID    uuid.UUID       `json:"plan_id"`
	Item      string          `json:"item"`
	Category  PackingCategory `json:"category"`
	Packed    bool            `json:"packed"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemID returns the primary key.
func (p PackingItem) ItemID() uuid.UUID { return p.ID }

// PackingPatch is a partial packing update. Nil fields are left unchanged.
type PackingPatch struct {
	Item     *string          `json:"item,omitempty"`
	Category *PackingCategory `json:"category,omitempty"`
	Packed   *bool            `json:"packed,omitempty"`
}

// Validate rejects unknown categories.
func (p PackingPatch) Validate() error {
	if p.Category != nil && !p.Category.Valid() {
		return fmt.Errorf("%w: unknown packing category %q", ErrValidation, *p.Category)
	}
	return nil
}

// ApplyTo copies every set field of p onto item.
func (p PackingPatch) ApplyTo(item PackingItem) PackingItem {
	setString(&item.Item, p.Item)
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Packed != nil {
		item.Packed = *p.Packed
	}
	return item
}

// NewPackingItem returns an empty, unpacked MISCELLANEOUS entry for planID.
func NewPackingItem(planID uuid.UUID, _ time.Time) PackingItem {
	return PackingItem{PlanID: planID, Category: PackingMiscellaneous}
}
