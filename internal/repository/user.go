package repository

import (
	"context"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
)

type UserRepository interface {
	// Create inserts a password account. Returns domain.ErrEmailTaken when the
	// email is already registered.
	Create(ctx context.Context, email, passwordHash string) (*domain.User, error)

	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindOrCreateByEmail resolves the account for an OAuth login in a single
	// statement. An existing account is adopted as is, except that an empty
	// name is backfilled from the provider.
	FindOrCreateByEmail(ctx context.Context, email, name string) (*domain.User, error)
}
