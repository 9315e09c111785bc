package handler_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/auth"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/middleware"
)

func cookieNamed(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func TestAuthAction_Google(t *testing.T) {
	var gotState string
	provider := &mockProvider{
		authURL: func(state string) string {
			gotState = state
			return "https://accounts.google.com/o/oauth2/auth?state=" + state
		},
	}
	h := newTestRouter(t, testDeps{provider: provider})

	rec := do(t, h, http.MethodPost, "/api/auth", uuid.Nil, map[string]string{"action": "google"})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		URL string `json:"url"`
	}](t, rec)
	assert.Contains(t, body.URL, gotState)

	state := cookieNamed(rec, "oauth_state")
	require.NotNil(t, state)
	assert.Equal(t, gotState, state.Value)
	assert.True(t, state.HttpOnly)
}

func TestAuthAction_Signout(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rec := do(t, h, http.MethodPost, "/api/auth", uuid.Nil, map[string]string{"action": "signout"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true}`, rec.Body.String())
	session := cookieNamed(rec, auth.SessionCookie)
	require.NotNil(t, session)
	assert.Empty(t, session.Value)
	assert.Negative(t, session.MaxAge)
}

func TestAuthAction_Invalid(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rec := do(t, h, http.MethodPost, "/api/auth", uuid.Nil, map[string]string{"action": "github"})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid action", decode[errorResponse](t, rec).Error)
}

func TestAuthAction_MethodNotAllowed(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	rec := do(t, h, http.MethodGet, "/api/auth", uuid.Nil, nil)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAuthAction_RateLimited(t *testing.T) {
	h := newTestRouter(t, testDeps{limiter: middleware.NewRateLimiter(1).Handler})

	first := do(t, h, http.MethodPost, "/api/auth", uuid.Nil, map[string]string{"action": "signout"})
	second := do(t, h, http.MethodPost, "/api/auth", uuid.Nil, map[string]string{"action": "signout"})

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func callbackRequest(state, cookieState, code string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/auth/callback?state="+state+"&code="+code, nil)
	if cookieState != "" {
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: cookieState})
	}
	return req
}

func TestAuthCallback_SignsIn(t *testing.T) {
	userID := uuid.New()
	provider := &mockProvider{
		exchange: func(_ context.Context, code string) (domain.User, error) {
			assert.Equal(t, "the-code", code)
			return domain.User{GoogleSubject: "sub-1", Email: "a@example.com"}, nil
		},
	}
	authSvc := &mockAuthServicer{
		signIn: func(_ context.Context, p domain.User) (domain.User, error) {
			p.ID = userID
			return p, nil
		},
	}
	h := newTestRouter(t, testDeps{provider: provider, auth: authSvc})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, callbackRequest("abc", "abc", "the-code"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	session := cookieNamed(rec, auth.SessionCookie)
	require.NotNil(t, session)
	got, err := testTokens.Validate(session.Value)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestAuthCallback_StateMismatch(t *testing.T) {
	h := newTestRouter(t, testDeps{})

	for name, req := range map[string]*http.Request{
		"no cookie": callbackRequest("abc", "", "code"),
		"mismatch":  callbackRequest("abc", "xyz", "code"),
	} {
		t.Run(name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAuthCallback_ExchangeFails(t *testing.T) {
	provider := &mockProvider{
		exchange: func(_ context.Context, _ string) (domain.User, error) {
			return domain.User{}, errors.New("google unavailable")
		},
	}
	h := newTestRouter(t, testDeps{provider: provider})
	rec := httptest.NewRecorder()

	h.ServeHTTP(rec, callbackRequest("abc", "abc", "code"))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, cookieNamed(rec, auth.SessionCookie))
}

func TestSession(t *testing.T) {
	userID := uuid.New()
	authSvc := &mockAuthServicer{
		user: func(_ context.Context, id uuid.UUID) (domain.User, error) {
			return domain.User{ID: id, Email: "a@example.com"}, nil
		},
	}
	h := newTestRouter(t, testDeps{auth: authSvc})

	rec := do(t, h, http.MethodGet, "/api/auth/session", userID, nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[struct {
		User  domain.User `json:"user"`
		Token string      `json:"token"`
	}](t, rec)
	assert.Equal(t, userID, body.User.ID)
	got, err := testTokens.Validate(body.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}
