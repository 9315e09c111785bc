package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/auth"
	"github.com/pkordes/trip-planner/internal/domain"
)

// publicHandler serves the read-only experience data. No session is needed,
// and anything that is not PUBLIC answers 404 unless the session belongs to
// the plan's owner.
type publicHandler struct {
	plans          PlanServicer
	itineraryItems ItemServicer[domain.ItineraryItem, domain.ItineraryPatch]
	errs           errorWriter
}

// plan handles GET /api/public/plans/{planId}.
func (h *publicHandler) plan(w http.ResponseWriter, r *http.Request) {
	id, err := bindUUIDParam(r, "planId")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	plan, err := h.plans.GetPublic(r.Context(), viewer(r), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// itinerary handles GET /api/public/itinerary/{planId}.
func (h *publicHandler) itinerary(w http.ResponseWriter, r *http.Request) {
	id, err := bindUUIDParam(r, "planId")
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	items, err := h.itineraryItems.ListPublic(r.Context(), viewer(r), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	if items == nil {
		items = []domain.ItineraryItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

// viewer is the signed-in user, or uuid.Nil for an anonymous request.
func viewer(r *http.Request) uuid.UUID {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
