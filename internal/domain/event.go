package domain

import (
	"errors"
	"time"
)

var (
	// ErrEventNotFound covers both a missing event and one owned by someone else.
	ErrEventNotFound = errors.New("event not found")
	ErrInvalidEvent  = errors.New("invalid event")
)

const MaxEventTitleLength = 255

type Event struct {
	ID          string
	UserID      string
	Title       string
	Description string
	Date        time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
