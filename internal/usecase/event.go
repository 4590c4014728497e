package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ErlanBelekov/calendar-api/internal/domain"
	"github.com/ErlanBelekov/calendar-api/internal/repository"
	"github.com/google/uuid"
)

type EventUsecase struct {
	repo repository.EventRepository
}

func NewEventUsecase(repo repository.EventRepository) *EventUsecase {
	return &EventUsecase{repo: repo}
}

// EventInput carries the writable fields of an event. Update replaces all of
// them.
type EventInput struct {
	Title       string
	Description string
	Date        time.Time
}

func (in EventInput) validate() error {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidEvent)
	}
	if utf8.RuneCountInString(title) > domain.MaxEventTitleLength {
		return fmt.Errorf("%w: title longer than %d characters", domain.ErrInvalidEvent, domain.MaxEventTitleLength)
	}
	if in.Date.IsZero() {
		return fmt.Errorf("%w: date is required", domain.ErrInvalidEvent)
	}
	return nil
}

func (u *EventUsecase) Create(ctx context.Context, userID string, in EventInput) (*domain.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	created, err := u.repo.Create(ctx, &domain.Event{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date.UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return created, nil
}

func (u *EventUsecase) List(ctx context.Context, userID string) ([]*domain.Event, error) {
	events, err := u.repo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return events, nil
}

func (u *EventUsecase) Get(ctx context.Context, id, userID string) (*domain.Event, error) {
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}
	e, err := u.repo.GetByID(ctx, id, userID)
	if err != nil {
		return nil, wrapNotFound("get event", err)
	}
	return e, nil
}

// Update returns domain.ErrEventNotFound when id does not name an event owned
// by userID. Nothing is written in that case.
func (u *EventUsecase) Update(ctx context.Context, id, userID string, in EventInput) (*domain.Event, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, domain.ErrEventNotFound
	}

	updated, err := u.repo.Update(ctx, &domain.Event{
		ID:          id,
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Date:        in.Date.UTC(),
	})
	if err != nil {
		return nil, wrapNotFound("update event", err)
	}
	return updated, nil
}

func (u *EventUsecase) Delete(ctx context.Context, id, userID string) error {
	if !validID(id) {
		return domain.ErrEventNotFound
	}
	if err := u.repo.Delete(ctx, id, userID); err != nil {
		return wrapNotFound("delete event", err)
	}
	return nil
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func wrapNotFound(op string, err error) error {
	if errors.Is(err, domain.ErrEventNotFound) {
		return domain.ErrEventNotFound
	}
	return fmt.Errorf("%s: %w", op, err)
}
