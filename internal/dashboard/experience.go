package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/aggregate"
	"github.com/pkordes/trip-planner/internal/domain"
)

// Experience is the read-only presentation of a shared plan. Its only
// mutation is ticking itinerary entries off.
type Experience struct {
	public    PublicStore
	itinerary ItemStore[domain.ItineraryItem, domain.ItineraryPatch]
	loc       *time.Location

	mu    sync.Mutex
	plan  domain.Plan
	items []domain.ItineraryItem
}

// NewExperience creates an Experience grouping days in loc (nil means
// time.Local).
func NewExperience(public PublicStore, itinerary ItemStore[domain.ItineraryItem, domain.ItineraryPatch], loc *time.Location) *Experience {
	if loc == nil {
		loc = time.Local
	}
	return &Experience{public: public, itinerary: itinerary, loc: loc}
}

// Load fetches a PUBLIC plan and its itinerary. A private or missing plan
// fails with domain.ErrNotFound.
func (e *Experience) Load(ctx context.Context, planID uuid.UUID) error {
	plan, err := e.public.PublicPlan(ctx, planID)
	if err != nil {
		return fmt.Errorf("dashboard.Experience.Load: %w", err)
	}
	items, err := e.public.PublicItinerary(ctx, planID)
	if err != nil {
		return fmt.Errorf("dashboard.Experience.Load: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.plan = plan
	e.items = items
	return nil
}

// Plan returns the loaded plan.
func (e *Experience) Plan() domain.Plan {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.plan
}

// Items returns the itinerary in server order.
func (e *Experience) Items() []domain.ItineraryItem {
	e.mu.Lock()
	defer e.mu.Unlock()
	return slices.Clone(e.items)
}

// ToggleComplete flips item id in memory and then sends the change. A
// failed request is returned but the local flip is kept.
func (e *Experience) ToggleComplete(ctx context.Context, id uuid.UUID) error {
	e.mu.Lock()
	i := slices.IndexFunc(e.items, func(it domain.ItineraryItem) bool { return it.ID == id })
	if i < 0 {
		e.mu.Unlock()
		return fmt.Errorf("dashboard.Experience.ToggleComplete: %w", domain.ErrNotFound)
	}
	e.items[i].Completed = !e.items[i].Completed
	completed := e.items[i].Completed
	planID := e.plan.ID
	e.mu.Unlock()

	if _, err := e.itinerary.Update(ctx, planID, id, domain.ItineraryPatch{Completed: &completed}); err != nil {
		return fmt.Errorf("dashboard.Experience.ToggleComplete: %w", err)
	}
	return nil
}

// Groups returns the itinerary grouped by day.
func (e *Experience) Groups() []aggregate.DayGroup {
	return aggregate.GroupItinerary(e.Items(), e.loc)
}

// Progress returns how much of the itinerary is done.
func (e *Experience) Progress() aggregate.Progress {
	return aggregate.ItineraryProgress(e.Items())
}

// CurrentDay returns the index into Groups of today, or -1.
func (e *Experience) CurrentDay(now time.Time) int {
	return aggregate.CurrentDay(e.Groups(), now)
}

// Start returns the datetime of the earliest entry, or false when the
// itinerary is empty.
func (e *Experience) Start() (time.Time, bool) {
	items := e.Items()
	if len(items) == 0 {
		return time.Time{}, false
	}
	first := items[0].Datetime
	for _, it := range items[1:] {
		if it.Datetime.Before(first) {
			first = it.Datetime
		}
	}
	return first, true
}

// Countdown returns a ticking countdown to the first entry, or nil when the
// itinerary is empty.
func (e *Experience) Countdown() *Countdown {
	first, ok := e.Start()
	if !ok {
		return nil
	}
	return NewCountdown(first, time.Now)
}
