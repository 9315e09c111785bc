package domain

import "github.com/google/uuid"

// Item is satisfied by the three child item types.
type Item interface {
	ItineraryItem | BudgetItem | PackingItem
	ItemID() uuid.UUID
}

// Patch is satisfied by the partial-update type of item T.
type Patch[T any] interface {
	Validate() error
	ApplyTo(item T) T
}
