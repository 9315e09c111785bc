// Package cli implements the tripctl commands. Each command is a kong
// struct whose Run method receives the shared *App.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/zalando/go-keyring"

	"github.com/pkordes/trip-planner/internal/client"
	"github.com/pkordes/trip-planner/internal/dashboard"
)

const keyringService = "tripctl"

// ErrNotLoggedIn is returned when no session token is available.
var ErrNotLoggedIn = errors.New("not logged in: run `tripctl login`")

// App is the state shared by every command.
type App struct {
	Ctx       context.Context
	Server    string
	Client    *client.Client
	Log       *log.Logger
	Out       io.Writer
	Confirmer dashboard.Confirmer
	Notifier  dashboard.Notifier
	Clipboard dashboard.Clipboard
	Tokens    *TokenStore
}

// Coordinator returns a dashboard coordinator over the API.
func (a *App) Coordinator() *dashboard.Coordinator {
	return dashboard.NewCoordinator(dashboard.Deps{
		Plans:     a.Client,
		Itinerary: a.Client.Itinerary(),
		Budget:    a.Client.Budget(),
		Packing:   a.Client.Packing(),
		Confirmer: a.Confirmer,
		Notifier:  a.Notifier,
		Clipboard: a.Clipboard,
		BaseURL:   a.Server,
		Logger:    a.Log,
	})
}

// open starts a coordinator and selects plan, or the newest plan when plan
// is empty.
func (a *App) open(plan string) (*dashboard.Coordinator, error) {
	c := a.Coordinator()
	if err := c.Start(a.Ctx); err != nil {
		if client.IsUnauthorized(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, err
	}
	if plan == "" {
		return c, nil
	}
	id, err := uuid.Parse(plan)
	if err != nil {
		return nil, fmt.Errorf("invalid plan id %q: %w", plan, err)
	}
	if err := c.Select(a.Ctx, id); err != nil {
		return nil, err
	}
	return c, nil
}

// HuhConfirmer asks yes/no questions on the terminal. With Yes set every
// question is answered yes without prompting.
type HuhConfirmer struct {
	Yes bool
}

func (h HuhConfirmer) Confirm(ctx context.Context, prompt string) (bool, error) {
	if h.Yes {
		return true, nil
	}
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(prompt).
				Affirmative("Yes").
				Negative("No").
				Value(&ok),
		),
	).WithTheme(huh.ThemeDracula()).RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	return ok, err
}

// WriterNotifier prints alerts to W.
type WriterNotifier struct {
	W io.Writer
}

func (n WriterNotifier) Alert(msg string) {
	fmt.Fprintln(n.W, warningStyle.Render(msg))
}

// SystemClipboard copies to the OS clipboard.
type SystemClipboard struct{}

func (SystemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

// TokenStore keeps one session token per server in the OS keyring.
type TokenStore struct {
	Server string
}

// Get returns the stored token, or "" when there is none.
func (s TokenStore) Get() (string, error) {
	tok, err := keyring.Get(keyringService, s.Server)
	if errors.Is(err, keyring.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading token from keyring: %w", err)
	}
	return tok, nil
}

// Set stores token.
func (s TokenStore) Set(token string) error {
	if token == "" {
		return errors.New("token cannot be empty")
	}
	if err := keyring.Set(keyringService, s.Server, token); err != nil {
		return fmt.Errorf("storing token in keyring: %w", err)
	}
	return nil
}

// Delete removes the stored token. Deleting a missing token is not an error.
func (s TokenStore) Delete() error {
	err := keyring.Delete(keyringService, s.Server)
	if err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return fmt.Errorf("deleting token from keyring: %w", err)
	}
	return nil
}
