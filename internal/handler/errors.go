package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pkordes/trip-planner/internal/domain"
)

// errorBody is the JSON shape of every error response: {"error": "..."}.
type errorBody struct {
	Error string `json:"error"`
}

// successBody is returned by deletes and sign-out.
type successBody struct {
	Success bool `json:"success"`
}

// writeJSON sends v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		// Headers are already sent; all we can do is log.
		slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
	}
}

// errorWriter maps errors returned by the service layer to HTTP responses.
type errorWriter struct {
	log *slog.Logger
}

// write sends the status matching err's sentinel. Unknown errors become a
// generic 500 and are logged; their text never reaches the client.
func (e errorWriter) write(w http.ResponseWriter, r *http.Request, err error) {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: detail(err, domain.ErrValidation)})
	case errors.Is(err, domain.ErrUnauthorized):
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: detail(err, domain.ErrUnauthorized)})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errorBody{Error: "forbidden"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorBody{Error: "not found"})
	case errors.As(err, &tooLarge):
		writeJSON(w, http.StatusRequestEntityTooLarge, errorBody{Error: "request body too large"})
	default:
		e.log.ErrorContext(r.Context(), "request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal server error"})
	}
}

// detail extracts the human-readable part that follows a sentinel in a
// wrapped error chain.
// e.g. "service.BudgetService.Create: validation error: estimated must not be negative"
// → "estimated must not be negative"
func detail(err, sentinel error) string {
	msg := err.Error()
	marker := sentinel.Error() + ": "
	if i := strings.Index(msg, marker); i >= 0 {
		return msg[i+len(marker):]
	}
	return sentinel.Error()
}

// badRequest builds a validation error for problems found by the handler
// itself, before the service layer is reached.
func badRequest(msg string) error {
	return fmt.Errorf("%w: %s", domain.ErrValidation, msg)
}
