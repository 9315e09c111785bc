package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/rs/xid"

	"github.com/pkordes/trip-planner/internal/auth"
	"github.com/pkordes/trip-planner/internal/domain"
)

const stateCookie = "oauth_state"

// authHandler runs Google sign-in and session management.
type authHandler struct {
	auth     AuthServicer
	provider IdentityProvider
	tokens   *auth.TokenService
	secure   bool
	errs     errorWriter
}

type authRequest struct {
	Action string `json:"action"`
}

type authURLResponse struct {
	URL string `json:"url"`
}

type sessionResponse struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// action handles POST /api/auth.
//
//	{"action":"google"}  → {"url": <consent URL>} and a state cookie
//	{"action":"signout"} → clears the session cookie, {"success":true}
//
// Any other action is a 400.
func (h *authHandler) action(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	var req authRequest
	if err := decodeJSON(body, &req, false); err != nil {
		h.errs.write(w, r, err)
		return
	}

	switch req.Action {
	case "google":
		state := xid.New().String()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state,
			Path:     "/",
			MaxAge:   600,
			HttpOnly: true,
			Secure:   h.secure,
			SameSite: http.SameSiteLaxMode,
		})
		writeJSON(w, http.StatusOK, authURLResponse{URL: h.provider.AuthURL(state)})
	case "signout":
		h.setSession(w, "", -1)
		writeJSON(w, http.StatusOK, successBody{Success: true})
	default:
		h.errs.write(w, r, badRequest("invalid action"))
	}
}

// callback handles GET /auth/callback?code=...&state=...: it checks the state
// cookie, exchanges the code, signs the user in and redirects home with a
// fresh session cookie.
func (h *authHandler) callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	c, err := r.Cookie(stateCookie)
	if err != nil || c.Value == "" || q.Get("state") != c.Value {
		h.errs.log.WarnContext(r.Context(), "auth callback: state mismatch")
		h.errs.write(w, r, badRequest("invalid OAuth state"))
		return
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/", MaxAge: -1})

	if denied := q.Get("error"); denied != "" {
		h.errs.log.InfoContext(r.Context(), "auth callback: authorization denied", slog.String("error", denied))
		http.Redirect(w, r, "/login?auth=denied", http.StatusSeeOther)
		return
	}
	code := q.Get("code")
	if code == "" {
		h.errs.write(w, r, badRequest("missing OAuth code"))
		return
	}

	profile, err := h.provider.Exchange(r.Context(), code)
	if err != nil {
		h.errs.log.ErrorContext(r.Context(), "auth callback: exchange failed", slog.String("error", err.Error()))
		h.errs.write(w, r, fmt.Errorf("%w: authentication failed", domain.ErrUnauthorized))
		return
	}
	user, err := h.auth.SignIn(r.Context(), profile)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}

	h.errs.log.InfoContext(r.Context(), "user signed in", slog.String("user_id", user.ID.String()))
	h.setSession(w, token, int(h.tokens.TTL().Seconds()))
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// session handles GET /api/auth/session: the signed-in user plus the bearer
// token tripctl stores.
func (h *authHandler) session(w http.ResponseWriter, r *http.Request) {
	id, err := caller(r)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	user, err := h.auth.User(r.Context(), id)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	token, err := h.tokens.Generate(user.ID)
	if err != nil {
		h.errs.write(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{
		User:      user,
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokens.TTL()).UTC(),
	})
}

func (h *authHandler) setSession(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookie,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
