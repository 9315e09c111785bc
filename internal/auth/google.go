package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	oauth2api "google.golang.org/api/oauth2/v2"
	"google.golang.org/api/option"

	"github.com/pkordes/trip-planner/internal/domain"
)

// GoogleProvider runs the OAuth 2.0 authorization code flow against Google.
type GoogleProvider struct {
	config *oauth2.Config
}

// NewGoogleProvider creates a GoogleProvider. callbackURL must match the
// redirect URI registered for the OAuth client exactly.
func NewGoogleProvider(clientID, clientSecret, callbackURL string) *GoogleProvider {
	return &GoogleProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes:       []string{oauth2api.OpenIDScope, oauth2api.UserinfoEmailScope, oauth2api.UserinfoProfileScope},
			Endpoint:     google.Endpoint,
		},
	}
}

// AuthURL returns the Google consent URL carrying state.
func (p *GoogleProvider) AuthURL(state string) string {
	return p.config.AuthCodeURL(state, oauth2.AccessTypeOnline)
}

// Exchange trades an authorization code for the signed-in user's profile.
// The returned User has GoogleSubject, Email and Name set; it is not yet
// persisted.
func (p *GoogleProvider) Exchange(ctx context.Context, code string) (domain.User, error) {
	token, err := p.config.Exchange(ctx, code)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: exchanging OAuth code: %w", err)
	}

	svc, err := oauth2api.NewService(ctx, option.WithTokenSource(p.config.TokenSource(ctx, token)))
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: creating userinfo client: %w", err)
	}

	info, err := svc.Userinfo.Get().Context(ctx).Do()
	if err != nil {
		return domain.User{}, fmt.Errorf("auth: fetching userinfo: %w", err)
	}
	if info.Id == "" {
		return domain.User{}, errors.New("auth: Google returned a profile without an id")
	}

	return domain.User{GoogleSubject: info.Id, Email: info.Email, Name: info.Name}, nil
}
