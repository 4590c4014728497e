package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const eventColumns = `id, user_id, title, description, date, created_at, updated_at`

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO events (user_id, title, description, date)
		VALUES ($1, $2, $3, $4)
		RETURNING `+eventColumns,
		e.UserID, e.Title, e.Description, e.Date,
	)

	created, err := scanEvent(row)
	if err != nil {
		return nil, fmt.Errorf("insert event: %w", err)
	}
	return created, nil
}

func (r *EventRepository) GetByID(ctx context.Context, id, userID string) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	return scanEvent(row)
}

func (r *EventRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE user_id = $1
		ORDER BY seq ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// Update rewrites title, description and date of an owned event. The owner
// predicate lives in the same statement, so there is no check-then-write gap.
func (r *EventRepository) Update(ctx context.Context, e *domain.Event) (*domain.Event, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE events
		SET    title       = $3,
		       description = $4,
		       date        = $5,
		       updated_at  = NOW()
		WHERE  id = $1 AND user_id = $2
		RETURNING `+eventColumns,
		e.ID, e.UserID, e.Title, e.Description, e.Date,
	)
	return scanEvent(row)
}

func (r *EventRepository) Delete(ctx context.Context, id, userID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM events WHERE id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		if isInvalidText(err) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}

// pgx.Row and pgx.Rows both implement this.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (*domain.Event, error) {
	var e domain.Event
	err := row.Scan(&e.ID, &e.UserID, &e.Title, &e.Description, &e.Date, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		// a malformed uuid in the id slot means no such row, not a server fault
		if errors.Is(err, pgx.ErrNoRows) || isInvalidText(err) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("scan event: %w", err)
	}
	return &e, nil
}

func isInvalidText(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == invalidTextRepresent
}
