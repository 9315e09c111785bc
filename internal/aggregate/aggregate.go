// Package aggregate computes the derived summaries shown next to each item
// list: budget totals, packing and itinerary progress, itinerary day groups
// and the countdown to the first itinerary entry.
//
// Every function is pure and O(n) over the collection it is given.
package aggregate

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// BudgetSummary totals a plan's budget lines.
type BudgetSummary struct {
	EstimatedTotal float64
	ActualTotal    float64
	// Difference is ActualTotal - EstimatedTotal; positive means over budget.
	Difference float64
	OverBudget bool
}

// Budget sums estimated and actual amounts. Unrecorded actuals count as zero.
func Budget(items []domain.BudgetItem) BudgetSummary {
	var s BudgetSummary
	for _, it := range items {
		s.EstimatedTotal += it.Estimated
		s.ActualTotal += it.ActualOrZero()
	}
	s.Difference = s.ActualTotal - s.EstimatedTotal
	s.OverBudget = s.Difference > 0
	return s
}

// Progress counts finished entries of a list.
type Progress struct {
	Done    int
	Total   int
	Percent float64 // 0 when Total is 0, always within [0, 100]
}

func newProgress(done, total int) Progress {
	p := Progress{Done: done, Total: total}
	if total > 0 {
		p.Percent = math.Min(100, math.Max(0, float64(done)/float64(total)*100))
	}
	return p
}

// Packing reports how many packing entries are packed.
func Packing(items []domain.PackingItem) Progress {
	done := 0
	for _, it := range items {
		if it.Packed {
			done++
		}
	}
	return newProgress(done, len(items))
}

// ItineraryProgress reports how many itinerary entries are completed.
func ItineraryProgress(items []domain.ItineraryItem) Progress {
	done := 0
	for _, it := range items {
		if it.Completed {
			done++
		}
	}
	return newProgress(done, len(items))
}

// DayGroup is the itinerary entries falling on one calendar day.
type DayGroup struct {
	// Date is midnight of the day in the grouping location.
	Date      time.Time
	Items     []domain.ItineraryItem
	Completed int
}

// GroupItinerary partitions items by calendar day in loc. Groups appear in
// the order their day is first seen in items; entries inside a group are in
// ascending datetime order. Every item lands in exactly one group.
func GroupItinerary(items []domain.ItineraryItem, loc *time.Location) []DayGroup {
	if loc == nil {
		loc = time.Local
	}

	var groups []DayGroup
	index := make(map[time.Time]int)
	for _, it := range items {
		day := dayOf(it.Datetime, loc)
		i, ok := index[day]
		if !ok {
			i = len(groups)
			index[day] = i
			groups = append(groups, DayGroup{Date: day})
		}
		groups[i].Items = append(groups[i].Items, it)
		if it.Completed {
			groups[i].Completed++
		}
	}

	for i := range groups {
		slices.SortStableFunc(groups[i].Items, func(a, b domain.ItineraryItem) int {
			return a.Datetime.Compare(b.Datetime)
		})
	}
	return groups
}

// CurrentDay returns the index of the group for the calendar day containing
// now, or -1 when the trip has no entries that day.
func CurrentDay(groups []DayGroup, now time.Time) int {
	for i, g := range groups {
		if dayOf(now, g.Date.Location()).Equal(g.Date) {
			return i
		}
	}
	return -1
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Remaining is the time left until a trip starts, broken into whole units.
type Remaining struct {
	Started bool
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Countdown returns the time from now until first. Once now reaches first
// the trip has started and every component is zero.
func Countdown(first, now time.Time) Remaining {
	diff := first.Sub(now)
	if diff <= 0 {
		return Remaining{Started: true}
	}

	total := int64(diff / time.Second)
	return Remaining{
		Days:    int(total / 86400),
		Hours:   int(total % 86400 / 3600),
		Minutes: int(total % 3600 / 60),
		Seconds: int(total % 60),
	}
}

// Duration returns the remaining time as a time.Duration.
func (r Remaining) Duration() time.Duration {
	return time.Duration(r.Days)*24*time.Hour +
		time.Duration(r.Hours)*time.Hour +
		time.Duration(r.Minutes)*time.Minute +
		time.Duration(r.Seconds)*time.Second
}

func (r Remaining) String() string {
	if r.Started {
		return "started"
	}
	return fmt.Sprintf("%dd %dh %dm %ds", r.Days, r.Hours, r.Minutes, r.Seconds)
}
