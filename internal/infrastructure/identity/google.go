package identity

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Sadman95/bike-island-server/domain"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleProvider implements domain.IdentityProvider with the OAuth2 authorization code flow
type GoogleProvider struct {
	conf        *oauth2.Config
	userInfoURL string
}

// NewGoogleProvider creates a provider against Google's production endpoints
func NewGoogleProvider(clientID, clientSecret, redirectURL string) *GoogleProvider {
	return NewProvider(clientID, clientSecret, redirectURL, google.Endpoint, googleUserInfoURL)
}

// NewProvider creates a provider for an arbitrary OAuth2 endpoint and userinfo URL
func NewProvider(clientID, clientSecret, redirectURL string, endpoint oauth2.Endpoint, userInfoURL string) *GoogleProvider {
	return &GoogleProvider{
		conf: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

type userInfo struct {
	Email         string `json:"email"`
	EmailVerified bool   `json:"email_verified"`
}

// Exchange implements domain.IdentityProvider. It returns the account's verified email.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (string, error) {
	token, err := g.conf.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("%w: exchange code: %v", domain.ErrIdentityProvider, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.userInfoURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrIdentityProvider, err)
	}
	resp, err := g.conf.Client(ctx, token).Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: userinfo: %v", domain.ErrIdentityProvider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: userinfo status %d", domain.ErrIdentityProvider, resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("%w: decode userinfo: %v", domain.ErrIdentityProvider, err)
	}
	if info.Email == "" || !info.EmailVerified {
		return "", fmt.Errorf("%w: email missing or unverified", domain.ErrIdentityProvider)
	}
	return info.Email, nil
}

var _ domain.IdentityProvider = (*GoogleProvider)(nil)
