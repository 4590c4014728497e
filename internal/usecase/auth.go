package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/email"
	"github.com/ErlanBelekov/calendar-api/internal/repository"
)

const welcomeEmailTimeout = 5 * time.Second

type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, digest string) bool
}

type TokenIssuer interface {
	Issue(id domain.Identity, ttl time.Duration) (string, error)
}

type AuthUsecase struct {
	users    repository.UserRepository
	hasher   PasswordHasher
	tokens   TokenIssuer
	email    email.Sender
	tokenTTL time.Duration
	logger   *slog.Logger
}

func NewAuthUsecase(
	users repository.UserRepository,
	hasher PasswordHasher,
	tokens TokenIssuer,
	emailSender email.Sender,
	tokenTTL time.Duration,
	logger *slog.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		users:    users,
		hasher:   hasher,
		tokens:   tokens,
		email:    emailSender,
		tokenTTL: tokenTTL,
		logger:   logger.With("component", "auth_usecase"),
	}
}

// NormalizeEmail is the canonical form emails are stored and looked up in.
func NormalizeEmail(addr string) string {
	return strings.ToLower(strings.TrimSpace(addr))
}

// Register creates a password account. The welcome email is best effort:
// a delivery failure is logged and the account still exists.
func (u *AuthUsecase) Register(ctx context.Context, emailAddr, plaintext string) (*domain.User, error) {
	emailAddr = NormalizeEmail(emailAddr)

	digest, err := u.hasher.Hash(plaintext)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := u.users.Create(ctx, emailAddr, digest)
	if err != nil {
		if errors.Is(err, domain.ErrEmailTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	u.sendWelcome(ctx, user)
	return user, nil
}

func (u *AuthUsecase) sendWelcome(ctx context.Context, user *domain.User) {
	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), welcomeEmailTimeout)
	defer cancel()

	subject, body := email.Welcome(user.Email)
	if err := u.email.Send(sendCtx, user.Email, subject, body); err != nil {
		u.logger.WarnContext(ctx, "welcome email not sent", "user_id", user.ID, "error", err)
	}
}

// Login returns a signed token. Unknown email, wrong password and accounts
// without a password all fail with domain.ErrInvalidCredentials.
func (u *AuthUsecase) Login(ctx context.Context, emailAddr, plaintext string) (string, error) {
	user, err := u.users.FindByEmail(ctx, NormalizeEmail(emailAddr))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("find user: %w", err)
	}

	if !user.HasPassword() || !u.hasher.Verify(plaintext, *user.PasswordHash) {
		return "", domain.ErrInvalidCredentials
	}

	signed, err := u.tokens.Issue(identityOf(user), u.tokenTTL)
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return signed, nil
}

func identityOf(user *domain.User) domain.Identity {
	id := domain.Identity{UserID: user.ID, Email: user.Email}
	if user.Name != nil {
		id.Name = *user.Name
	}
	return id
}
