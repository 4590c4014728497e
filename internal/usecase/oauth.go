package usecase

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/repository"
	"golang.org/x/oauth2"
)

type IDTokenVerifier interface {
	Verify(ctx context.Context, credential string) (*domain.OAuthProfile, error)
}

type OAuthProvider interface {
	AuthCodeURL(state, verifier string) string
	Exchange(ctx context.Context, code, verifier string) (*domain.OAuthProfile, error)
}

type OAuthUsecase struct {
	users    repository.UserRepository
	states   repository.OAuthStateRepository
	verifier IDTokenVerifier
	provider OAuthProvider
	tokens   TokenIssuer
	tokenTTL time.Duration
	stateTTL time.Duration
	now      func() time.Time
	logger   *slog.Logger
}

type OAuthConfig struct {
	TokenTTL time.Duration
	StateTTL time.Duration
}

func NewOAuthUsecase(
	users repository.UserRepository,
	states repository.OAuthStateRepository,
	verifier IDTokenVerifier,
	provider OAuthProvider,
	tokens TokenIssuer,
	cfg OAuthConfig,
	logger *slog.Logger,
) *OAuthUsecase {
	return &OAuthUsecase{
		users:    users,
		states:   states,
		verifier: verifier,
		provider: provider,
		tokens:   tokens,
		tokenTTL: cfg.TokenTTL,
		stateTTL: cfg.StateTTL,
		now:      time.Now,
		logger:   logger.With("component", "oauth_usecase"),
	}
}

// VerifyGoogleCredential signs in with an ID token the browser obtained from
// Google directly.
func (u *OAuthUsecase) VerifyGoogleCredential(ctx context.Context, credential string) (string, *domain.User, error) {
	profile, err := u.verifier.Verify(ctx, credential)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOAuthCredential) {
			u.logger.InfoContext(ctx, "google credential rejected", "reason", err)
			return "", nil, domain.ErrInvalidOAuthCredential
		}
		return "", nil, fmt.Errorf("verify google credential: %w", err)
	}
	return u.signIn(ctx, profile)
}

// StartGoogleLogin records a fresh state and PKCE verifier and returns the
// consent URL to send the browser to.
func (u *OAuthUsecase) StartGoogleLogin(ctx context.Context) (string, error) {
	raw := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	state := hex.EncodeToString(raw)
	verifier := oauth2.GenerateVerifier()

	err := u.states.Create(ctx, &domain.OAuthState{
		StateHash:    hashState(state),
		CodeVerifier: verifier,
		ExpiresAt:    u.now().Add(u.stateTTL),
	})
	if err != nil {
		return "", fmt.Errorf("store oauth state: %w", err)
	}

	return u.provider.AuthCodeURL(state, verifier), nil
}

// CompleteGoogleLogin redeems the state exactly once, exchanges the code and
// signs the user in.
func (u *OAuthUsecase) CompleteGoogleLogin(ctx context.Context, state, code string) (string, *domain.User, error) {
	if state == "" {
		return "", nil, domain.ErrOAuthStateInvalid
	}

	st, err := u.states.Consume(ctx, hashState(state))
	if err != nil {
		if errors.Is(err, domain.ErrOAuthStateInvalid) {
			return "", nil, err
		}
		return "", nil, fmt.Errorf("consume oauth state: %w", err)
	}

	profile, err := u.provider.Exchange(ctx, code, st.CodeVerifier)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidOAuthCredential) {
			return "", nil, domain.ErrInvalidOAuthCredential
		}
		return "", nil, fmt.Errorf("exchange code: %w", err)
	}
	return u.signIn(ctx, profile)
}

func (u *OAuthUsecase) signIn(ctx context.Context, profile *domain.OAuthProfile) (string, *domain.User, error) {
	user, err := u.users.FindOrCreateByEmail(ctx, NormalizeEmail(profile.Email), profile.Name)
	if err != nil {
		return "", nil, fmt.Errorf("find or create user: %w", err)
	}

	signed, err := u.tokens.Issue(identityOf(user), u.tokenTTL)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}

	u.logger.InfoContext(ctx, "oauth sign-in", "provider", profile.Provider, "user_id", user.ID)
	return signed, user, nil
}

func hashState(state string) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(state)))
}
