package domain

import "fmt"

// Kind names one of the three child item families of a plan. All kinds share
// the same CRUD shape and are addressed as /api/{kind}/{planId}.
type Kind string

const (
	KindItinerary Kind = "itinerary"
	KindBudget    Kind = "budget"
	KindPacking   Kind = "packing"
)

// Kinds lists every item kind in display order.
var Kinds = []Kind{KindItinerary, KindBudget, KindPacking}

// ParseKind converts a path segment or flag value into a Kind.
func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown kind %q", ErrValidation, s)
}
