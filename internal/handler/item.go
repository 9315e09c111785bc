package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// itemHandler serves /api/{kind}/{planId} for one kind. The id of the row
// being changed travels in the body, as {"id": ...}, on PUT and DELETE.
type itemHandler[T any, P any] struct {
	svc  ItemServicer[T, P]
	errs errorWriter
}

func mountItems[T any, P any](r chi.Router, kind domain.Kind, svc ItemServicer[T, P], e errorWriter) {
	h := &itemHandler[T, P]{svc: svc, errs: e}
	base := "/" + string(kind)

	r.HandleFunc(base, h.missingPlanID)
	r.HandleFunc(base+"/", h.missingPlanID)
	r.Route(base+"/{planId}", func(r chi.Router) {
		r.Get("/", h.list)
		r.Post("/", h.create)
		r.Put("/", h.update)
		r.Delete("/", h.delete)
	})
}

func (h *itemHandler[T, P]) missingPlanID(w http.ResponseWriter, r *http.Request) {
	h.errs.write(w, r, badRequest("planId is required"))
}

// scope resolves the caller and the plan id of the request.
func (h *itemHandler[T, P]) scope(r *http.Request) (user, planID uuid.UUID, err error) {
	if user, err = caller(r); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	if planID, err = bindUUIDParam(r, "planId"); err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return user, planID, nil
}

// list handles GET /api/{kind}/{planId}.
func (h *itemHandler[T, P]) list(w http.ResponseWriter, r *http.Request) {
	user, planID, err := h.scope(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	items, err := h.svc.List(r.Context(), user, planID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	writeJSON(w, http.StatusOK, items)
}

// create handles POST /api/{kind}/{planId}. Fields missing from the body take
// the kind's defaults; an empty body creates an all-default row.
func (h *itemHandler[T, P]) create(w http.ResponseWriter, r *http.Request) {
	user, planID, err := h.scope(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	body, err := readBody(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	var patch P
	if err := decodeJSON(body, &patch, true); err != nil {
		h.errs.write(w, r, err)
		return
	}

	created, err := h.svc.Create(r.Context(), user, planID, patch)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// update handles PUT /api/{kind}/{planId} with body {id, ...fields}.
func (h *itemHandler[T, P]) update(w http.ResponseWriter, r *http.Request) {
	user, planID, err := h.scope(r)
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
	var patch P
	if err := decodeJSON(body, &patch, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	updated, err := h.svc.Update(r.Context(), user, planID, id, patch)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// delete handles DELETE /api/{kind}/{planId} with body {id}.
func (h *itemHandler[T, P]) delete(w http.ResponseWriter, r *http.Request) {
	user, planID, err := h.scope(r)
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

	if err := h.svc.Delete(r.Context(), user, planID, id); err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, successBody{Success: true})
}
