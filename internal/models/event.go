package models

import (
	"strings"
	"time"
)

// EventStatus represents the lifecycle state of an event
type EventStatus string

const (
	StatusDraft     EventStatus = "draft"
	StatusPublished EventStatus = "published"
	StatusOngoing   EventStatus = "ongoing"
	StatusCompleted EventStatus = "completed"
	StatusCancelled EventStatus = "cancelled"
)

// EventVisibility controls who can discover an event
type EventVisibility string

const (
	VisibilityPublic   EventVisibility = "public"
	VisibilityPrivate  EventVisibility = "private"
	VisibilityUnlisted EventVisibility = "unlisted"
)

// Event represents an event in the system
type Event struct {
	ID          int             `json:"id" db:"id"`
	OrganizerID int             `json:"organizer_id" db:"organizer_id"`
	Title       string          `json:"title" db:"title"`
	Description string          `json:"description" db:"description"`
	Category    string          `json:"category" db:"category"`
	StartsAt    time.Time       `json:"starts_at" db:"starts_at"`
	EndsAt      time.Time       `json:"ends_at" db:"ends_at"`
	Venue       string          `json:"venue" db:"venue"`
	VirtualLink string          `json:"virtual_link" db:"virtual_link"`
	Capacity    int             `json:"capacity" db:"capacity"`
	ImageURL    string          `json:"image_url" db:"image_url"`
	ImageKey    string          `json:"image_key" db:"image_key"`
	Status      EventStatus     `json:"status" db:"status"`
	Visibility  EventVisibility `json:"visibility" db:"visibility"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

// eventTransitions is the complete lifecycle transition table. Nothing
// leaves completed or cancelled, and published never returns to draft.
var eventTransitions = map[EventStatus][]EventStatus{
	StatusDraft:     {StatusPublished, StatusCancelled},
	StatusPublished: {StatusOngoing, StatusCancelled},
	StatusOngoing:   {StatusCompleted},
	StatusCompleted: {},
	StatusCancelled: {},
}

// CanTransition reports whether an event may move from its current status
// to the target status.
func (e *Event) CanTransition(to EventStatus) bool {
	for _, next := range eventTransitions[e.Status] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidStatus reports whether s is a known event status.
func ValidStatus(s EventStatus) bool {
	_, ok := eventTransitions[s]
	return ok
}

// ValidVisibility reports whether v is a known visibility value.
func ValidVisibility(v EventVisibility) bool {
	switch v {
	case VisibilityPublic, VisibilityPrivate, VisibilityUnlisted:
		return true
	}
	return false
}

// HasLocation reports whether the event has either a physical venue or a
// virtual link.
func (e *Event) HasLocation() bool {
	return strings.TrimSpace(e.Venue) != "" || strings.TrimSpace(e.VirtualLink) != ""
}

// IsPublished returns true if the event is published
func (e *Event) IsPublished() bool {
	return e.Status == StatusPublished
}

// IsDraft returns true if the event is a draft
func (e *Event) IsDraft() bool {
	return e.Status == StatusDraft
}

// IsCancelled returns true if the event is cancelled
func (e *Event) IsCancelled() bool {
	return e.Status == StatusCancelled
}

// IsEditable reports whether organizer updates are accepted. Mutation is
// only allowed in draft and published states.
func (e *Event) IsEditable() bool {
	return e.Status == StatusDraft || e.Status == StatusPublished
}

// ValidateForCreate checks the invariants required of every new event:
// title, date, time, and a venue or virtual link.
func (e *Event) ValidateForCreate() error {
	if err := validateEventTitle(e.Title); err != nil {
		return err
	}
	if e.StartsAt.IsZero() {
		return NewValidationError("event_date", "date and time are required")
	}
	if !e.EndsAt.IsZero() && !e.EndsAt.After(e.StartsAt) {
		return NewValidationError("end_time", "end time must be after start time")
	}
	if !e.HasLocation() {
		return NewValidationError("venue", "venue or virtual link is required")
	}
	if e.Capacity < 1 {
		return NewValidationError("capacity", "capacity must be at least 1")
	}
	if len(e.Description) > 10000 {
		return NewValidationError("description", "description must be less than 10000 characters")
	}
	if e.Visibility != "" && !ValidVisibility(e.Visibility) {
		return NewValidationError("visibility", "invalid visibility")
	}
	return nil
}

// ValidateForPublish checks the invariants the publish gate enforces on the
// event row itself. Ticket presence and plan quotas are checked by the
// service, which has access to the related rows.
func (e *Event) ValidateForPublish() error {
	if err := validateEventTitle(e.Title); err != nil {
		return err
	}
	if e.StartsAt.IsZero() {
		return NewValidationError("event_date", "date and time are required")
	}
	if !e.HasLocation() {
		return NewValidationError("venue", "venue or virtual link is required")
	}
	if e.Capacity < 1 {
		return NewValidationError("capacity", "capacity must be at least 1")
	}
	return nil
}

func validateEventTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return NewValidationError("title", "title is required")
	}
	if len(title) > 255 {
		return NewValidationError("title", "title must be less than 255 characters")
	}
	return nil
}
