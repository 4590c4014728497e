// Package oauth adapts Google sign-in to domain.OAuthProfile. Two entry points
// exist: verifying an ID token the browser obtained itself, and the
// authorization-code redirect flow with PKCE.
package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/lestrrat-go/jwx/v2/jwk"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const (
	ProviderGoogle = "google"

	DefaultGoogleJWKSURL     = "https://www.googleapis.com/oauth2/v3/certs"
	DefaultGoogleUserInfoURL = "https://openidconnect.googleapis.com/v1/userinfo"
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

// GoogleIDTokenVerifier checks Google-issued ID tokens against the published
// key set. Keys are cached and refreshed in the background.
type GoogleIDTokenVerifier struct {
	cache    *jwk.Cache
	jwksURL  string
	clientID string
	now      func() time.Time
}

type VerifierOption func(*GoogleIDTokenVerifier)

// WithVerifierClock overrides time.Now for expiry checks.
func WithVerifierClock(now func() time.Time) VerifierOption {
	return func(v *GoogleIDTokenVerifier) { v.now = now }
}

// NewGoogleIDTokenVerifier registers jwksURL with a key cache bound to ctx.
// The cache stops refreshing when ctx is cancelled.
func NewGoogleIDTokenVerifier(ctx context.Context, jwksURL, clientID string, client *http.Client, opts ...VerifierOption) (*GoogleIDTokenVerifier, error) {
	if client == nil {
		client = http.DefaultClient
	}

	cache := jwk.NewCache(ctx)
	if err := cache.Register(jwksURL,
		jwk.WithMinRefreshInterval(15*time.Minute),
		jwk.WithHTTPClient(client),
	); err != nil {
		return nil, fmt.Errorf("jwk cache register: %w", err)
	}

	v := &GoogleIDTokenVerifier{
		cache:    cache,
		jwksURL:  jwksURL,
		clientID: clientID,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v, nil
}

// Verify returns the profile asserted by credential, or
// domain.ErrInvalidOAuthCredential when the token cannot be trusted.
// Failing to load the key set is reported as a plain error.
func (v *GoogleIDTokenVerifier) Verify(ctx context.Context, credential string) (*domain.OAuthProfile, error) {
	if credential == "" {
		return nil, domain.ErrInvalidOAuthCredential
	}

	keySet, err := v.cache.Get(ctx, v.jwksURL)
	if err != nil {
		return nil, fmt.Errorf("fetch google jwks: %w", err)
	}

	tok, err := jwt.Parse([]byte(credential),
		jwt.WithKeySet(keySet),
		jwt.WithValidate(true),
		jwt.WithAudience(v.clientID),
		jwt.WithClock(jwt.ClockFunc(v.now)),
		jwt.WithRequiredClaim("exp"),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOAuthCredential, err)
	}

	if !googleIssuers[tok.Issuer()] {
		return nil, fmt.Errorf("%w: unexpected issuer %q", domain.ErrInvalidOAuthCredential, tok.Issuer())
	}

	claims := tok.PrivateClaims()
	email, _ := claims["email"].(string)
	if email == "" {
		return nil, fmt.Errorf("%w: no email claim", domain.ErrInvalidOAuthCredential)
	}
	if !truthy(claims["email_verified"]) {
		return nil, fmt.Errorf("%w: email not verified", domain.ErrInvalidOAuthCredential)
	}
	name, _ := claims["name"].(string)

	return &domain.OAuthProfile{
		Provider: ProviderGoogle,
		Subject:  tok.Subject(),
		Email:    email,
		Name:     name,
	}, nil
}

// Ping reports whether the key set can be served, from cache or by fetching.
func (v *GoogleIDTokenVerifier) Ping(ctx context.Context) error {
	if _, err := v.cache.Get(ctx, v.jwksURL); err != nil {
		return fmt.Errorf("fetch google jwks: %w", err)
	}
	return nil
}

// Google has sent email_verified both as a JSON bool and as a string.
func truthy(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}

// GoogleProvider drives the authorization-code flow.
type GoogleProvider struct {
	cfg         *oauth2.Config
	userInfoURL string
}

type GoogleProviderConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string

	// Endpoint and UserInfoURL default to Google's production endpoints.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

func NewGoogleProvider(c GoogleProviderConfig) *GoogleProvider {
	endpoint := c.Endpoint
	if endpoint.AuthURL == "" {
		endpoint = google.Endpoint
	}
	userInfoURL := c.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultGoogleUserInfoURL
	}

	return &GoogleProvider{
		cfg: &oauth2.Config{
			ClientID:     c.ClientID,
			ClientSecret: c.ClientSecret,
			RedirectURL:  c.RedirectURL,
			Endpoint:     endpoint,
			Scopes:       []string{"openid", "email", "profile"},
		},
		userInfoURL: userInfoURL,
	}
}

// AuthCodeURL is where the browser is sent to consent.
func (p *GoogleProvider) AuthCodeURL(state, verifier string) string {
	return p.cfg.AuthCodeURL(state,
		oauth2.AccessTypeOnline,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("prompt", "select_account"),
	)
}

type userInfo struct {
	Sub           string `json:"sub"`
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	Name          string `json:"name"`
}

// Exchange trades the callback code for a token and reads the profile.
// A rejected code is reported as domain.ErrInvalidOAuthCredential.
func (p *GoogleProvider) Exchange(ctx context.Context, code, verifier string) (*domain.OAuthProfile, error) {
	if code == "" {
		return nil, domain.ErrInvalidOAuthCredential
	}

	tok, err := p.cfg.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		var rErr *oauth2.RetrieveError
		if errors.As(err, &rErr) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidOAuthCredential, err)
		}
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.userInfoURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build userinfo request: %w", err)
	}

	resp, err := p.cfg.Client(ctx, tok).Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch userinfo: unexpected status %d", resp.StatusCode)
	}

	var info userInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode userinfo: %w", err)
	}
	if info.Email == "" || !truthy(info.EmailVerified) {
		return nil, fmt.Errorf("%w: email missing or unverified", domain.ErrInvalidOAuthCredential)
	}

	return &domain.OAuthProfile{
		Provider: ProviderGoogle,
		Subject:  info.Sub,
		Email:    info.Email,
		Name:     info.Name,
	}, nil
}
