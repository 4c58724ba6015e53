package event

import (
	"errors"
	"time"
)

// Max length constants.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 4000
	MaxVenueLength       = 200
)

// Domain errors
var (
	ErrEmptyTitle     = errors.New("event title cannot be empty")
	ErrTitleTooLong   = errors.New("event title cannot exceed 200 characters")
	ErrNoStart        = errors.New("event start time is required")
	ErrEndBeforeStart = errors.New("event end cannot be before start")
	ErrDescTooLong    = errors.New("event description cannot exceed 4000 characters")
	ErrVenueTooLong   = errors.New("event venue cannot exceed 200 characters")
)

// Event is a community event listing.
// INVARIANT: EndsAt >= StartsAt when EndsAt is set.
type Event struct {
	ID           string     `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Venue        string     `json:"venue"`
	StartsAt     time.Time  `json:"starts_at"`
	EndsAt       *time.Time `json:"ends_at,omitempty"`
	Organizer    string     `json:"organizer"`
	ContactPhone string     `json:"contact_phone"`
	Image        string     `json:"image,omitempty"` // storage path, or public URL once resolved
	CreatedAt    time.Time  `json:"created_at"`
}

// Validate checks the event's invariants.
// PRE: none
// POST: returns nil if valid, error describing the first violation otherwise
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrEmptyTitle
	}
	if len(e.Title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	if e.StartsAt.IsZero() {
		return ErrNoStart
	}
	if e.EndsAt != nil && e.EndsAt.Before(e.StartsAt) {
		return ErrEndBeforeStart
	}
	if len(e.Description) > MaxDescriptionLength {
		return ErrDescTooLong
	}
	if len(e.Venue) > MaxVenueLength {
		return ErrVenueTooLong
	}
	return nil
}

// IsUpcoming reports whether the event has not yet finished at now.
func (e *Event) IsUpcoming(now time.Time) bool {
	end := e.StartsAt
	if e.EndsAt != nil {
		end = *e.EndsAt
	}
	return !end.Before(now)
}
