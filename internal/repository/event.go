package repository

import (
	"context"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
)

// EventRepository methods that take an id also take the owner's id, and
// return domain.ErrEventNotFound when the pair matches no row.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id, userID string) (*domain.Event, error)
	ListByUserID(ctx context.Context, userID string) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) (*domain.Event, error)
	Delete(ctx context.Context, id, userID string) error
}
