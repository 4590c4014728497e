package repository

import (
	"context"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
)

type OAuthStateRepository interface {
	Create(ctx context.Context, state *domain.OAuthState) error

	// Consume deletes and returns an unexpired state in one statement, so a
	// state can be redeemed at most once. Returns domain.ErrOAuthStateInvalid
	// when nothing matched.
	Consume(ctx context.Context, stateHash string) (*domain.OAuthState, error)

	// DeleteExpired purges states whose expiry is before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int, error)
}
