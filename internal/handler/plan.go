package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/domain"
)

type planHandler struct {
	plans PlanServicer
	errs  errorWriter
}

// list handles GET /api/plans: the caller's plans, newest first.
func (h *planHandler) list(w http.ResponseWriter, r *http.Request) {
	user, err := caller(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	plans, err := h.plans.List(r.Context(), user)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	if plans == nil {
		plans = []domain.Plan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

// create handles POST /api/plans with an optional {name, visibility} body.
func (h *planHandler) create(w http.ResponseWriter, r *http.Request) {
	user, err := caller(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	var patch domain.PlanPatch
	if err := decodeJSON(body, &patch, true); err != nil {
		h.errs.write(w, r, err)
		return
	}

	plan, err := h.plans.Create(r.Context(), user, patch)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, plan)
}

// update handles PATCH /api/plans with body {id, name?, visibility?}.
// Non-owners get 403 and nothing is written.
func (h *planHandler) update(w http.ResponseWriter, r *http.Request) {
	user, err := caller(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	id, err := requireID(body)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	var patch domain.PlanPatch
	if err := decodeJSON(body, &patch, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	plan, err := h.plans.Update(r.Context(), user, id, patch)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}

// delete handles DELETE /api/plans with body {id}.
func (h *planHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, err := caller(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	id, err := requireID(body)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	if err := h.plans.Delete(r.Context(), user, id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
