package domain

import (
	"time"

	"github.com/google/uuid"
)

// ItineraryItem is one scheduled activity of a plan.
// Items are listed by Datetime ascending.
type ItineraryItem struct {
	ID          uuid.UUID `json:"id"`
	PlanID      uuid.UUID `json:"plan_id"`
	Datetime    time.Time `json:"datetime"`
	City        string    `json:"city"`
	Region      string    `json:"region"`
	Country     string    `json:"country"`
	Activity    string    `json:"activity"`
	Description *string   `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemID returns the primary key.
func (i ItineraryItem) ItemID() uuid.UUID { return i.ID }

// ItineraryPatch is a partial itinerary update. Nil fields are left unchanged.
type ItineraryPatch struct {
	Datetime    *time.Time `json:"datetime,omitempty"`
	City        *string    `json:"city,omitempty"`
	Region      *string    `json:"region,omitempty"`
	Country     *string    `json:"country,omitempty"`
	Activity    *string    `json:"activity,omitempty"`
	Description *string    `json:"description,omitempty"`
	Completed   *bool      `json:"completed,omitempty"`
}

// Validate has nothing to reject: every itinerary field accepts any value.
func (p ItineraryPatch) Validate() error { return nil }

// ApplyTo copies every set field of p onto item.
func (p ItineraryPatch) ApplyTo(item ItineraryItem) ItineraryItem {
	if p.Datetime != nil {
		item.Datetime = *p.Datetime
	}
	setString(&item.City, p.City)
	setString(&item.Region, p.Region)
	setString(&item.Country, p.Country)
	setString(&item.Activity, p.Activity)
	if p.Description != nil {
		d := *p.Description
		item.Description = &d
	}
	if p.Completed != nil {
		item.Completed = *p.Completed
	}
	return item
}

// NewItineraryItem returns an empty item for planID scheduled at now.
func NewItineraryItem(planID uuid.UUID, now time.Time) ItineraryItem {
	return ItineraryItem{PlanID: planID, Datetime: now}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
