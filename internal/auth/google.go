package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/gtix/helpdesk/internal/config"
)

const userinfoEndpoint = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleProfile is the subset of the userinfo payload the service needs.
type GoogleProfile struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// GoogleAuthenticator drives the OAuth authorization-code flow for Google
// login and enforces the configured email domain allow-list.
type GoogleAuthenticator struct {
	oauth         *oauth2.Config
	allowedDomain string
}

// NewGoogleAuthenticator returns nil when Google login is not configured.
func NewGoogleAuthenticator(cfg config.GoogleConfig) *GoogleAuthenticator {
	if !cfg.Enabled() {
		return nil
	}
	return &GoogleAuthenticator{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.CallbackURL,
			Scopes:       []string{"profile", "email"},
			Endpoint:     google.Endpoint,
		},
		allowedDomain: cfg.AllowedDomain,
	}
}

// AuthURL returns the Google consent page URL for the given state nonce.
func (g *GoogleAuthenticator) AuthURL(state string) string {
	return g.oauth.AuthCodeURL(state)
}

// Exchange trades the authorization code for the caller's profile.
func (g *GoogleAuthenticator) Exchange(ctx context.Context, code string) (*GoogleProfile, error) {
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	resp, err := g.oauth.Client(ctx, token).Get(userinfoEndpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo responded with status %d", resp.StatusCode)
	}

	var profile GoogleProfile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, errors.New("google profile does not contain an email")
	}
	if err := g.checkDomain(profile.Email); err != nil {
		return nil, err
	}
	return &profile, nil
}

func (g *GoogleAuthenticator) checkDomain(email string) error {
	if g.allowedDomain == "" {
		return nil
	}
	if strings.HasSuffix(strings.ToLower(email), "@"+strings.ToLower(g.allowedDomain)) {
		return nil
	}
	return fmt.Errorf("unauthorized domain: only @%s accounts are allowed", g.allowedDomain)
}
