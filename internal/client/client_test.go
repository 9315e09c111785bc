package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/client"
	"github.com/pkordes/trip-planner/internal/domain"
)

func ptr[T any](v T) *T { return &v }

// recorded is what the fake server saw for one request.
type recorded struct {
	method string
	path   string
	auth   string
	body   map[string]any
}

// fakeServer answers every request with status and body and records it.
func fakeServer(t *testing.T, status int, body string) (*client.Client, *recorded) {
	t.Helper()
	rec := &recorded{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.method, rec.path, rec.auth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		raw, _ := io.ReadAll(r.Body)
		if len(raw) > 0 {
			require.NoError(t, json.Unmarshal(raw, &rec.body))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return client.New(srv.URL+"/", client.WithToken("tok")), rec
}

func TestItems_List(t *testing.T) {
	planID := uuid.New()
	c, rec := fakeServer(t, http.StatusOK, `[{"id":"`+uuid.NewString()+`","item":"Passport","category":"DOCUMENTS","packed":true}]`)

	items, err := c.Packing().List(context.Background(), planID)

	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Passport", items[0].Item)
	assert.Equal(t, http.MethodGet, rec.method)
	assert.Equal(t, "/api/packing/"+planID.String(), rec.path)
	assert.Equal(t, "Bearer tok", rec.auth)
}

func TestItems_Update_SendsIDWithFields(t *testing.T) {
	planID, id := uuid.New(), uuid.New()
	c, rec := fakeServer(t, http.StatusOK, `{"id":"`+id.String()+`","paid":true}`)

	got, err := c.Budget().Update(context.Background(), planID, id, domain.BudgetPatch{Paid: ptr(true)})

	require.NoError(t, err)
	assert.True(t, got.Paid)
	assert.Equal(t, http.MethodPut, rec.method)
	assert.Equal(t, map[string]any{"id": id.String(), "paid": true}, rec.body)
}

func TestItems_Delete(t *testing.T) {
	id := uuid.New()
	c, rec := fakeServer(t, http.StatusOK, `{"success":true}`)

	require.NoError(t, c.Itinerary().Delete(context.Background(), uuid.New(), id))

	assert.Equal(t, http.MethodDelete, rec.method)
	assert.Equal(t, map[string]any{"id": id.String()}, rec.body)
}

func TestCreatePlan(t *testing.T) {
	c, rec := fakeServer(t, http.StatusCreated, `{"id":"`+uuid.NewString()+`","visibility":"PRIVATE"}`)

	p, err := c.CreatePlan(context.Background(), domain.PlanPatch{})

	require.NoError(t, err)
	assert.Equal(t, domain.VisibilityPrivate, p.Visibility)
	assert.Equal(t, "/api/plans", rec.path)
	assert.Equal(t, http.MethodPost, rec.method)
}

func TestUpdatePlan_UsesPatch(t *testing.T) {
	id := uuid.New()
	c, rec := fakeServer(t, http.StatusOK, `{"id":"`+id.String()+`","visibility":"PUBLIC"}`)
	vis := domain.VisibilityPublic

	_, err := c.UpdatePlan(context.Background(), id, domain.PlanPatch{Visibility: &vis})

	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, rec.method)
	assert.Equal(t, map[string]any{"id": id.String(), "visibility": "PUBLIC"}, rec.body)
}

func TestAPIError_MapsToSentinel(t *testing.T) {
	tests := []struct {
		status int
		want   error
	}{
		{http.StatusBadRequest, domain.ErrValidation},
		{http.StatusUnauthorized, domain.ErrUnauthorized},
		{http.StatusForbidden, domain.ErrForbidden},
		{http.StatusNotFound, domain.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			c, _ := fakeServer(t, tt.status, `{"error":"nope"}`)

			_, err := c.ListPlans(context.Background())

			require.ErrorIs(t, err, tt.want)
			var apiErr *client.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, "nope", apiErr.Message)
		})
	}
}

func TestAPIError_NonJSONBody(t *testing.T) {
	c, _ := fakeServer(t, http.StatusBadGateway, "<html>bad gateway</html>")

	_, err := c.PublicPlan(context.Background(), uuid.New())

	var apiErr *client.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Bad Gateway", apiErr.Message)
	assert.NoError(t, errors.Unwrap(apiErr))
}

func TestSession(t *testing.T) {
	c, rec := fakeServer(t, http.StatusOK, `{"user":{"email":"a@example.com"},"token":"fresh"}`)

	s, err := c.Session(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "fresh", s.Token)
	assert.Equal(t, "a@example.com", s.User.Email)
	assert.Equal(t, "/api/auth/session", rec.path)
}

func TestIsUnauthorized(t *testing.T) {
	c, _ := fakeServer(t, http.StatusUnauthorized, `{"error":"unauthorized"}`)

	_, err := c.ListPlans(context.Background())

	assert.True(t, client.IsUnauthorized(err))
}
