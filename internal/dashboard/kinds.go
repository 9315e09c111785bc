package dashboard

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/pkordes/trip-planner/internal/csvexport"
	"github.com/pkordes/trip-planner/internal/domain"
)

// CommitPolicy says when a view should send an edited field.
type CommitPolicy int

const (
	// CommitOnBlur fields are sent once editing of the field ends.
	CommitOnBlur CommitPolicy = iota
	// CommitOnChange fields are sent on every change.
	CommitOnChange
)

func (p CommitPolicy) String() string {
	if p == CommitOnChange {
		return "change"
	}
	return "blur"
}

// field turns the raw text of one editable field into a single-field patch.
type field[P any] struct {
	policy CommitPolicy
	parse  func(raw string) (P, error)
}

// KindSpec describes an item kind to the client: its editable fields, the
// defaults sent by "add item", and its CSV columns.
type KindSpec[T domain.Item, P domain.Patch[T]] struct {
	Kind     domain.Kind
	defaults func(now time.Time) P
	fields   map[string]field[P]
	table    func([]T) csvexport.Table
}

// Defaults returns the patch sent when a new item is added at now.
func (k *KindSpec[T, P]) Defaults(now time.Time) P { return k.defaults(now) }

// Fields returns the editable field names in sorted order.
func (k *KindSpec[T, P]) Fields() []string {
	names := make([]string, 0, len(k.fields))
	for name := range k.fields {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// CommitPolicy reports when field should be sent.
func (k *KindSpec[T, P]) CommitPolicy(name string) (CommitPolicy, error) {
	f, ok := k.fields[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s has no field %q", domain.ErrValidation, k.Kind, name)
	}
	return f.policy, nil
}

// Parse builds the patch that sets field name to raw.
func (k *KindSpec[T, P]) Parse(name, raw string) (P, error) {
	var zero P
	f, ok := k.fields[name]
	if !ok {
		return zero, fmt.Errorf("%w: %s has no field %q", domain.ErrValidation, k.Kind, name)
	}
	patch, err := f.parse(raw)
	if err != nil {
		return zero, err
	}
	if err := patch.Validate(); err != nil {
		return zero, err
	}
	return patch, nil
}

// Table renders items as the kind's CSV table.
func (k *KindSpec[T, P]) Table(items []T) csvexport.Table { return k.table(items) }

type (
	ItinerarySpec = KindSpec[domain.ItineraryItem, domain.ItineraryPatch]
	BudgetSpec    = KindSpec[domain.BudgetItem, domain.BudgetPatch]
	PackingSpec   = KindSpec[domain.PackingItem, domain.PackingPatch]
)

// ItineraryKind returns the itinerary spec.
func ItineraryKind() *ItinerarySpec {
	text := func(set func(*domain.ItineraryPatch, *string)) field[domain.ItineraryPatch] {
		return field[domain.ItineraryPatch]{policy: CommitOnBlur, parse: func(raw string) (domain.ItineraryPatch, error) {
			var p domain.ItineraryPatch
			set(&p, &raw)
			return p, nil
		}}
	}
	return &ItinerarySpec{
		Kind: domain.KindItinerary,
		defaults: func(now time.Time) domain.ItineraryPatch {
			empty := ""
			return domain.ItineraryPatch{
				Datetime:  &now,
				City:      &empty,
				Region:    &empty,
				Country:   &empty,
				Activity:  &empty,
				Completed: new(bool),
			}
		},
		fields: map[string]field[domain.ItineraryPatch]{
			"datetime": {policy: CommitOnBlur, parse: func(raw string) (domain.ItineraryPatch, error) {
				t, err := parseDatetime(raw)
				if err != nil {
					return domain.ItineraryPatch{}, err
				}
				return domain.ItineraryPatch{Datetime: &t}, nil
			}},
			"city":        text(func(p *domain.ItineraryPatch, s *string) { p.City = s }),
			"region":      text(func(p *domain.ItineraryPatch, s *string) { p.Region = s }),
			"country":     text(func(p *domain.ItineraryPatch, s *string) { p.Country = s }),
			"activity":    text(func(p *domain.ItineraryPatch, s *string) { p.Activity = s }),
			"description": text(func(p *domain.ItineraryPatch, s *string) { p.Description = s }),
			"completed": {policy: CommitOnChange, parse: func(raw string) (domain.ItineraryPatch, error) {
				b, err := parseBool("completed", raw)
				return domain.ItineraryPatch{Completed: &b}, err
			}},
		},
		table: csvexport.Itinerary,
	}
}

// BudgetKind returns the budget spec.
func BudgetKind() *BudgetSpec {
	return &BudgetSpec{
		Kind: domain.KindBudget,
		defaults: func(time.Time) domain.BudgetPatch {
			cat, empty := domain.BudgetMiscellaneous, ""
			return domain.BudgetPatch{Category: &cat, Item: &empty, Estimated: new(float64), Actual: new(float64), Paid: new(bool)}
		},
		fields: map[string]field[domain.BudgetPatch]{
			"category": {policy: CommitOnChange, parse: func(raw string) (domain.BudgetPatch, error) {
				c := domain.BudgetCategory(strings.ToUpper(strings.TrimSpace(raw)))
				return domain.BudgetPatch{Category: &c}, nil
			}},
			"item": {policy: CommitOnBlur, parse: func(raw string) (domain.BudgetPatch, error) {
				return domain.BudgetPatch{Item: &raw}, nil
			}},
			"estimated": {policy: CommitOnBlur, parse: func(raw string) (domain.BudgetPatch, error) {
				v, err := parseAmount(raw)
				if err != nil {
					return domain.BudgetPatch{}, fmt.Errorf("%w: estimated must be a number", domain.ErrValidation)
				}
				return domain.BudgetPatch{Estimated: &v}, nil
			}},
			// An empty or unreadable actual amount is recorded as 0.
			"actual": {policy: CommitOnBlur, parse: func(raw string) (domain.BudgetPatch, error) {
				v, err := parseAmount(raw)
				if err != nil {
					v = 0
				}
				return domain.BudgetPatch{Actual: &v}, nil
			}},
			"paid": {policy: CommitOnChange, parse: func(raw string) (domain.BudgetPatch, error) {
				b, err := parseBool("paid", raw)
				return domain.BudgetPatch{Paid: &b}, err
			}},
		},
		table: csvexport.Budget,
	}
}

// PackingKind returns the packing spec.
func PackingKind() *PackingSpec {
	return &PackingSpec{
		Kind: domain.KindPacking,
		defaults: func(time.Time) domain.PackingPatch {
			cat, empty := domain.PackingMiscellaneous, ""
			return domain.PackingPatch{Item: &empty, Category: &cat, Packed: new(bool)}
		},
		fields: map[string]field[domain.PackingPatch]{
			"item": {policy: CommitOnBlur, parse: func(raw string) (domain.PackingPatch, error) {
				return domain.PackingPatch{Item: &raw}, nil
			}},
			"category": {policy: CommitOnChange, parse: func(raw string) (domain.PackingPatch, error) {
				c := domain.PackingCategory(strings.ToUpper(strings.TrimSpace(raw)))
				return domain.PackingPatch{Category: &c}, nil
			}},
			"packed": {policy: CommitOnChange, parse: func(raw string) (domain.PackingPatch, error) {
				b, err := parseBool("packed", raw)
				return domain.PackingPatch{Packed: &b}, err
			}},
		},
		table: csvexport.Packing,
	}
}

// datetimeLayouts are tried in order; the last two are read in local time.
var datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

func parseDatetime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for i, layout := range datetimeLayouts {
		var (
			t   time.Time
			err error
		)
		if i == 0 {
			t, err = time.Parse(layout, raw)
		} else {
			t, err = time.ParseInLocation(layout, raw, time.Local)
		}
		if err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: datetime %q is not a date and time", domain.ErrValidation, raw)
}

func parseAmount(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func parseBool(name, raw string) (bool, error) {
	b, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return false, fmt.Errorf("%w: %s must be true or false", domain.ErrValidation, name)
	}
	return b, nil
}
