package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"

	"github.com/pkordes/trip-planner/internal/auth"
	"github.com/pkordes/trip-planner/internal/domain"
)

// bindUUIDParam reads a required UUID path parameter.
func bindUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	var id uuid.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Required: true})
	if err != nil || id == uuid.Nil {
		return uuid.Nil, badRequest(fmt.Sprintf("%s must be a valid id", name))
	}
	return id, nil
}

// readBody returns the raw request body. An *http.MaxBytesError is passed
// through so errorWriter can answer 413.
func readBody(r *http.Request) ([]byte, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, err
		}
		return nil, badRequest("could not read request body")
	}
	return body, nil
}

// decodeJSON unmarshals body into v. An empty body leaves v untouched when
// allowEmpty is set.
func decodeJSON(body []byte, v any, allowEmpty bool) error {
	if len(body) == 0 {
		if allowEmpty {
			return nil
		}
		return badRequest("request body is required")
	}
	if err := json.Unmarshal(body, v); err != nil {
		return badRequest("invalid JSON: " + err.Error())
	}
	return nil
}

// idBody is the {"id": ...} envelope of PUT, PATCH and DELETE bodies.
type idBody struct {
	ID *uuid.UUID `json:"id"`
}

// requireID extracts the id field from body.
func requireID(body []byte) (uuid.UUID, error) {
	var b idBody
	if err := decodeJSON(body, &b, false); err != nil {
		return uuid.Nil, err
	}
	if b.ID == nil || *b.ID == uuid.Nil {
		return uuid.Nil, badRequest("id is required")
	}
	return *b.ID, nil
}

// caller returns the authenticated user. RequireAuth guarantees presence on
// the routes that call it.
func caller(r *http.Request) (uuid.UUID, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return uuid.Nil, domain.ErrUnauthorized
	}
	return id, nil
}
