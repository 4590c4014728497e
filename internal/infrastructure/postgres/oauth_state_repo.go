package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OAuthStateRepository struct {
	pool *pgxpool.Pool
}

func NewOAuthStateRepository(pool *pgxpool.Pool) *OAuthStateRepository {
	return &OAuthStateRepository{pool: pool}
}

func (r *OAuthStateRepository) Create(ctx context.Context, s *domain.OAuthState) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO oauth_states (state_hash, code_verifier, expires_at)
		VALUES ($1, $2, $3)`,
		s.StateHash, s.CodeVerifier, s.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("insert oauth state: %w", err)
	}
	return nil
}

func (r *OAuthStateRepository) Consume(ctx context.Context, stateHash string) (*domain.OAuthState, error) {
	var s domain.OAuthState
	err := r.pool.QueryRow(ctx, `
		DELETE FROM oauth_states
		WHERE state_hash = $1 AND expires_at > NOW()
		RETURNING state_hash, code_verifier, expires_at, created_at`,
		stateHash,
	).Scan(&s.StateHash, &s.CodeVerifier, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOAuthStateInvalid
		}
		return nil, fmt.Errorf("consume oauth state: %w", err)
	}
	return &s, nil
}

func (r *OAuthStateRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM oauth_states WHERE expires_at < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("delete expired oauth states: %w", err)
	}
	return int(tag.RowsAffected()), nil
}
