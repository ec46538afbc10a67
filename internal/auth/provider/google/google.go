package google

import (
	"context"
	"errors"
	"fmt"

	"github.com/FahimJadid/revamp-app/internal/auth"
	"github.com/FahimJadid/revamp-app/internal/logger"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"
)

const providerName = "google"

// Issuer is Google's OIDC issuer, used for endpoint and UserInfo discovery.
const Issuer = "https://accounts.google.com"

// Provider implements the authorization-code flow against Google.
// It returns identity facts only; no user/session decisions are made here.
type Provider struct {
	oauthConfig  *oauth2.Config
	oidcProvider *oidc.Provider
}

func New(
	ctx context.Context,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {
	return NewWithIssuer(ctx, Issuer, clientID, clientSecret, redirectURL)
}

// NewWithIssuer initializes the provider against a non-default issuer.
// Used by tests that stand in for Google.
func NewWithIssuer(
	ctx context.Context,
	issuer string,
	clientID string,
	clientSecret string,
	redirectURL string,
) (*Provider, error) {

	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, issuer)
	if err != nil {
		return nil, fmt.Errorf("failed to init google oidc provider: %w", err)
	}

	oauthCfg := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  redirectURL,
		Endpoint:     oidcProvider.Endpoint(),
		Scopes: []string{
			oidc.ScopeOpenID,
			"profile",
			"email",
		},
	}

	return &Provider{
		oauthConfig:  oauthCfg,
		oidcProvider: oidcProvider,
	}, nil
}

// Name returns the provider identifier used by the registry.
func (p *Provider) Name() string {
	return providerName
}

// AuthCodeURL builds the OAuth authorization URL with PKCE parameters.
func (p *Provider) AuthCodeURL(state string, codeChallenge string) string {
	return p.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOnline,
		oauth2.SetAuthURLParam("code_challenge", codeChallenge),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)
}

// Exchange redeems the authorization code and fetches the profile from
// Google's UserInfo endpoint with the resulting access token.
func (p *Provider) Exchange(
	ctx context.Context,
	code string,
	codeVerifier string,
) (*auth.Profile, error) {

	token, err := p.oauthConfig.Exchange(
		ctx,
		code,
		oauth2.SetAuthURLParam("code_verifier", codeVerifier),
	)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	info, err := p.oidcProvider.UserInfo(ctx, oauth2.StaticTokenSource(token))
	if err != nil {
		return nil, fmt.Errorf("google userinfo fetch failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	}

	if err := info.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google userinfo claims parse failed: %w", err)
	}

	if claims.Subject == "" {
		return nil, errors.New("google userinfo missing subject")
	}

	logger.Info("google profile fetched",
		"subject_present", claims.Subject != "",
		"email_present", claims.Email != "",
	)

	return &auth.Profile{
		Provider:    providerName,
		ProviderID:  claims.Subject,
		DisplayName: claims.Name,
		Email:       claims.Email,
	}, nil
}
