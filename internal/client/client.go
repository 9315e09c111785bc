// Package client is the HTTP Data Service used by tripctl. It speaks the
// JSON API served by cmd/api and maps error responses back onto the domain
// sentinels so callers can use errors.Is the same way the server does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// APIError is a non-2xx response from the API.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d %s", e.Status, e.Message)
}

// Unwrap maps the status code onto the matching domain sentinel.
func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusBadRequest, http.StatusRequestEntityTooLarge:
		return domain.ErrValidation
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	}
	return nil
}

// Client talks to one API server on behalf of one session.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithToken sets the bearer token sent with every request.
func WithToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// New creates a Client for the server at baseURL (e.g. http://localhost:8080).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// Session is the signed-in user together with a fresh bearer token.
type Session struct {
	User      domain.User `json:"user"`
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expires_at"`
}

// Session returns the current user. It fails with ErrUnauthorized when the
// token is missing or expired.
func (c *Client) Session(ctx context.Context) (Session, error) {
	var s Session
	err := c.do(ctx, http.MethodGet, "/api/auth/session", nil, &s)
	return s, err
}

// SignInURL asks the server to start Google sign-in and returns the consent
// URL to open in a browser.
func (c *Client) SignInURL(ctx context.Context) (string, error) {
	var out struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/auth", map[string]string{"action": "google"}, &out); err != nil {
		return "", err
	}
	return out.URL, nil
}

// ListPlans returns the caller's plans, newest first.
func (c *Client) ListPlans(ctx context.Context) ([]domain.Plan, error) {
	var plans []domain.Plan
	err := c.do(ctx, http.MethodGet, "/api/plans", nil, &plans)
	return plans, err
}

// CreatePlan creates a plan owned by the caller.
func (c *Client) CreatePlan(ctx context.Context, patch domain.PlanPatch) (domain.Plan, error) {
	var p domain.Plan
	err := c.do(ctx, http.MethodPost, "/api/plans", patch, &p)
	return p, err
}

// UpdatePlan changes the name or visibility of a plan.
func (c *Client) UpdatePlan(ctx context.Context, id uuid.UUID, patch domain.PlanPatch) (domain.Plan, error) {
	body, err := withID(id, patch)
	if err != nil {
		return domain.Plan{}, err
	}
	var p domain.Plan
	err = c.do(ctx, http.MethodPatch, "/api/plans", body, &p)
	return p, err
}

// DeletePlan removes a plan and all of its items.
func (c *Client) DeletePlan(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/api/plans", map[string]uuid.UUID{"id": id}, nil)
}

// PublicPlan fetches a PUBLIC plan. No session is required.
func (c *Client) PublicPlan(ctx context.Context, id uuid.UUID) (domain.Plan, error) {
	var p domain.Plan
	err := c.do(ctx, http.MethodGet, "/api/public/plans/"+id.String(), nil, &p)
	return p, err
}

// PublicItinerary fetches the itinerary of a PUBLIC plan.
func (c *Client) PublicItinerary(ctx context.Context, id uuid.UUID) ([]domain.ItineraryItem, error) {
	var items []domain.ItineraryItem
	err := c.do(ctx, http.MethodGet, "/api/public/itinerary/"+id.String(), nil, &items)
	return items, err
}

// do sends one JSON request and decodes the response into out (if non-nil).
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("client: encoding request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("client: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("client: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("client: decoding %s %s: %w", method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
	} else {
		apiErr.Message = strings.TrimSpace(http.StatusText(resp.StatusCode))
	}
	return apiErr
}

// withID merges {"id": id} into the JSON object form of patch, giving the
// {id, ...fields} body that PUT and PATCH expect.
func withID(id uuid.UUID, patch any) (map[string]any, error) {
	b, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("client: encoding patch: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, fmt.Errorf("client: patch is not a JSON object: %w", err)
	}
	fields["id"] = id
	return fields, nil
}

// IsUnauthorized reports whether err means the session must be renewed.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}
