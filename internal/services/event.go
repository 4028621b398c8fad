package services

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"eventease/internal/models"
	"eventease/internal/notify"
	"eventease/internal/repositories"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

// EventRepository is the data access surface the event service needs
type EventRepository interface {
	Create(event *models.Event) (*models.Event, error)
	GetByID(id int) (*models.Event, error)
	GetByOrganizer(organizerID int) ([]*models.Event, error)
	Update(id, organizerID int, patch *repositories.EventPatch) (*models.Event, error)
	UpdateStatus(id, organizerID int, from, to models.EventStatus) (*models.Event, error)
	Delete(id, organizerID int) error
	CountActiveByOrganizer(organizerID int) (int, error)
	SearchPublished(filters repositories.EventSearchFilters) ([]*models.Event, int, error)
}

// TicketReader exposes the ticket lookups the publish gate needs
type TicketReader interface {
	GetByEvent(eventID int) ([]*models.TicketType, error)
	CountActiveByEvent(eventID int) (int, error)
}

// UserReader resolves authenticated users server-side
type UserReader interface {
	GetByID(id int) (*models.User, error)
}

// AuditRecorder appends entries to the audit log
type AuditRecorder interface {
	Record(actorID int, action, entity string, entityID int, details string) error
}

// EventService handles organizer event CRUD and the publish lifecycle
type EventService struct {
	eventRepo  EventRepository
	ticketRepo TicketReader
	userRepo   UserReader
	audit      AuditRecorder
	storage    StorageService
	policy     *PlanPolicy
	bus        *notify.Bus
}

// NewEventService creates a new event service
func NewEventService(
	eventRepo EventRepository,
	ticketRepo TicketReader,
	userRepo UserReader,
	audit AuditRecorder,
	storage StorageService,
	policy *PlanPolicy,
	bus *notify.Bus,
) *EventService {
	return &EventService{
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		audit:      audit,
		storage:    storage,
		policy:     policy,
		bus:        bus,
	}
}

// EventForm is the UI-facing shape of a create request. Date and times
// arrive as separate strings, the way the client's form fields produce
// them.
type EventForm struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	EventDate   string                 `json:"event_date"` // 2006-01-02
	StartTime   string                 `json:"start_time"` // 15:04
	EndTime     string                 `json:"end_time,omitempty"`
	Venue       string                 `json:"venue"`
	VirtualLink string                 `json:"virtual_link"`
	Capacity    int                    `json:"capacity"`
	Visibility  models.EventVisibility `json:"visibility"`
	Image       *ImageUpload           `json:"-"`
}

// EventPatchForm is the UI-facing shape of a partial update; nil fields
// are left unchanged.
type EventPatchForm struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	Category    *string                 `json:"category"`
	EventDate   *string                 `json:"event_date"`
	StartTime   *string                 `json:"start_time"`
	EndTime     *string                 `json:"end_time"`
	Venue       *string                 `json:"venue"`
	VirtualLink *string                 `json:"virtual_link"`
	Capacity    *int                    `json:"capacity"`
	Visibility  *models.EventVisibility `json:"visibility"`
	Image       *ImageUpload            `json:"-"`
}

// OrganizerEvent is the normalized event shape returned to clients. The
// stored start timestamp is split back into date and time strings.
type OrganizerEvent struct {
	ID          int                    `json:"id"`
	OrganizerID int                    `json:"organizer_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Category    string                 `json:"category"`
	EventDate   string                 `json:"event_date"`
	StartTime   string                 `json:"start_time"`
	EndTime     string                 `json:"end_time,omitempty"`
	Venue       string                 `json:"venue"`
	VirtualLink string                 `json:"virtual_link"`
	Capacity    int                    `json:"capacity"`
	ImageURL    string                 `json:"image_url"`
	Status      models.EventStatus     `json:"status"`
	Visibility  models.EventVisibility `json:"visibility"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// EventPage is a paginated discovery result
type EventPage struct {
	Events []*OrganizerEvent `json:"events"`
	Total  int               `json:"total"`
	Limit  int               `json:"limit"`
	Offset int               `json:"offset"`
}

// CreateEvent validates the form, uploads the image if present, and
// inserts a new draft event. The caller identity always comes from the
// authenticated session, never from the payload.
func (s *EventService) CreateEvent(ctx context.Context, organizerID int, form *EventForm) (*OrganizerEvent, error) {
	organizer, err := s.userRepo.GetByID(organizerID)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}
	if !organizer.IsOrganizer() {
		return nil, models.ErrForbidden
	}

	event, err := eventFromForm(form, organizerID)
	if err != nil {
		return nil, err
	}
	if err := event.ValidateForCreate(); err != nil {
		return nil, err
	}

	// Image is validated before any storage round trip.
	if err := ValidateImage(form.Image); err != nil {
		return nil, err
	}
	if form.Image != nil {
		key, url, err := s.uploadImage(ctx, organizerID, form.Image)
		if err != nil {
			return nil, err
		}
		event.ImageURL = url
		event.ImageKey = key
	}

	created, err := s.eventRepo.Create(event)
	if err != nil {
		if event.ImageKey != "" {
			s.cleanupImage(ctx, event.ImageKey)
		}
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	s.recordAudit(organizerID, models.AuditEventCreated, created.ID, created.Title)
	s.bus.Publish(notify.Change{Op: notify.OpCreated, EventID: created.ID, OrganizerID: organizerID})

	return toOrganizerEvent(created), nil
}

// MyEvents returns every event owned by the authenticated organizer. The
// identity is the session's, so a stale or forged organizer id in the
// request can never widen the result set.
func (s *EventService) MyEvents(ctx context.Context, callerID int) ([]*OrganizerEvent, error) {
	caller, err := s.userRepo.GetByID(callerID)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}

	events, err := s.eventRepo.GetByOrganizer(caller.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load events: %w", err)
	}

	result := make([]*OrganizerEvent, 0, len(events))
	for _, event := range events {
		result = append(result, toOrganizerEvent(event))
	}
	return result, nil
}

// GetEvent returns a single event. Drafts and private events are only
// visible to their owner; unlisted events stay reachable by direct id.
func (s *EventService) GetEvent(ctx context.Context, callerID, eventID int) (*OrganizerEvent, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		if event.Status == models.StatusDraft || event.Visibility == models.VisibilityPrivate {
			return nil, models.ErrEventNotFound
		}
	}
	return toOrganizerEvent(event), nil
}

// UpdateEvent applies a partial update to an event the caller owns.
func (s *EventService) UpdateEvent(ctx context.Context, organizerID, eventID int, form *EventPatchForm) (*OrganizerEvent, error) {
	if _, err := s.userRepo.GetByID(organizerID); err != nil {
		return nil, models.ErrNotAuthenticated
	}

	existing, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if existing.OrganizerID != organizerID {
		return nil, models.ErrForbidden
	}
	if !existing.IsEditable() {
		return nil, models.NewValidationError("status", fmt.Sprintf("a %s event cannot be edited", existing.Status))
	}

	patch, err := patchFromForm(form, existing)
	if err != nil {
		return nil, err
	}

	// The merged result must satisfy the same invariants as a new event,
	// so a partial update cannot move the end before the start or blank a
	// required field.
	merged := *existing
	applyEventPatch(&merged, patch)
	if err := merged.ValidateForCreate(); err != nil {
		return nil, err
	}

	// A replacement image is validated and uploaded before the row is
	// touched, so a failed upload leaves the event unchanged.
	if err := ValidateImage(form.Image); err != nil {
		return nil, err
	}
	var oldImageKey string
	if form.Image != nil {
		key, url, err := s.uploadImage(ctx, organizerID, form.Image)
		if err != nil {
			return nil, err
		}
		patch.ImageURL = &url
		patch.ImageKey = &key
		oldImageKey = existing.ImageKey
	}

	updated, err := s.eventRepo.Update(eventID, organizerID, patch)
	if err != nil {
		if patch.ImageKey != nil {
			s.cleanupImage(ctx, *patch.ImageKey)
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	if oldImageKey != "" {
		s.cleanupImage(ctx, oldImageKey)
	}

	s.recordAudit(organizerID, models.AuditEventUpdated, updated.ID, updated.Title)
	s.bus.Publish(notify.Change{Op: notify.OpUpdated, EventID: updated.ID, OrganizerID: organizerID})

	return toOrganizerEvent(updated), nil
}

// PublishEvent runs the publish gate and transitions a draft event to
// published. The gate re-checks everything itself: required fields,
// ticket presence, and plan quotas. A failed publish leaves the event in
// draft and the caller may resubmit.
func (s *EventService) PublishEvent(ctx context.Context, organizerID, eventID int) (*OrganizerEvent, error) {
	organizer, err := s.userRepo.GetByID(organizerID)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, models.ErrForbidden
	}
	if !event.CanTransition(models.StatusPublished) {
		return nil, models.NewValidationError("status", fmt.Sprintf("cannot publish a %s event", event.Status))
	}

	if err := event.ValidateForPublish(); err != nil {
		return nil, err
	}

	activeTickets, err := s.ticketRepo.CountActiveByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to check ticket types: %w", err)
	}
	if activeTickets == 0 {
		return nil, models.NewValidationError("tickets", "at least one active ticket type is required")
	}

	tickets, err := s.ticketRepo.GetByEvent(eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to load ticket types: %w", err)
	}
	activeEvents, err := s.eventRepo.CountActiveByOrganizer(organizerID)
	if err != nil {
		return nil, fmt.Errorf("failed to count active events: %w", err)
	}
	if decision := s.policy.CanPublish(event, tickets, organizer.Plan, activeEvents); !decision.Allowed {
		return nil, &models.UpgradeRequiredError{Plan: organizer.Plan, Reason: decision.Reason}
	}

	published, err := s.eventRepo.UpdateStatus(eventID, organizerID, models.StatusDraft, models.StatusPublished)
	if err != nil {
		return nil, fmt.Errorf("failed to publish event: %w", err)
	}

	s.recordAudit(organizerID, models.AuditEventPublished, published.ID, published.Title)
	s.bus.Publish(notify.Change{Op: notify.OpPublished, EventID: published.ID, OrganizerID: organizerID})

	return toOrganizerEvent(published), nil
}

// DeleteEvent hard-deletes an event the caller owns, along with its
// stored image.
func (s *EventService) DeleteEvent(ctx context.Context, organizerID, eventID int) error {
	if _, err := s.userRepo.GetByID(organizerID); err != nil {
		return models.ErrNotAuthenticated
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return models.ErrForbidden
	}

	if err := s.eventRepo.Delete(eventID, organizerID); err != nil {
		return err
	}
	if event.ImageKey != "" {
		s.cleanupImage(ctx, event.ImageKey)
	}

	s.recordAudit(organizerID, models.AuditEventDeleted, eventID, event.Title)
	s.bus.Publish(notify.Change{Op: notify.OpDeleted, EventID: eventID, OrganizerID: organizerID})

	return nil
}

// Discover returns published public events for the discovery page.
func (s *EventService) Discover(ctx context.Context, filters repositories.EventSearchFilters) (*EventPage, error) {
	events, total, err := s.eventRepo.SearchPublished(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to search events: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}

	page := &EventPage{
		Events: make([]*OrganizerEvent, 0, len(events)),
		Total:  total,
		Limit:  limit,
		Offset: filters.Offset,
	}
	for _, event := range events {
		page.Events = append(page.Events, toOrganizerEvent(event))
	}
	return page, nil
}

func (s *EventService) uploadImage(ctx context.Context, organizerID int, img *ImageUpload) (key, url string, err error) {
	if s.storage == nil {
		return "", "", models.NewValidationError("image", "image uploads are not available")
	}
	key = ImageKey(strconv.Itoa(organizerID), img.ContentType)
	url, err = s.storage.Upload(ctx, key, img.Reader, img.ContentType, img.Size)
	if err != nil {
		return "", "", fmt.Errorf("failed to upload image: %w", err)
	}
	return key, url, nil
}

func (s *EventService) cleanupImage(ctx context.Context, key string) {
	if s.storage == nil {
		return
	}
	if err := s.storage.Delete(ctx, key); err != nil {
		log.Printf("failed to clean up image %s: %v", key, err)
	}
}

func (s *EventService) recordAudit(actorID int, action string, eventID int, details string) {
	if err := s.audit.Record(actorID, action, "event", eventID, details); err != nil {
		log.Printf("failed to record audit entry %s: %v", action, err)
	}
}

// eventFromForm combines the form's split date and time fields into the
// stored timestamps.
func eventFromForm(form *EventForm, organizerID int) (*models.Event, error) {
	startsAt, err := combineDateTime(form.EventDate, form.StartTime)
	if err != nil {
		return nil, err
	}

	event := &models.Event{
		OrganizerID: organizerID,
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		StartsAt:    startsAt,
		Venue:       form.Venue,
		VirtualLink: form.VirtualLink,
		Capacity:    form.Capacity,
		Visibility:  form.Visibility,
		Status:      models.StatusDraft,
	}
	if event.Capacity == 0 {
		event.Capacity = 1
	}

	if form.EndTime != "" {
		endsAt, err := combineDateTime(form.EventDate, form.EndTime)
		if err != nil {
			return nil, err
		}
		event.EndsAt = endsAt
	}
	return event, nil
}

// patchFromForm builds the column patch; the caller validates the merged
// result before writing.
func patchFromForm(form *EventPatchForm, existing *models.Event) (*repositories.EventPatch, error) {
	patch := &repositories.EventPatch{
		Title:       form.Title,
		Description: form.Description,
		Category:    form.Category,
		Venue:       form.Venue,
		VirtualLink: form.VirtualLink,
		Capacity:    form.Capacity,
		Visibility:  form.Visibility,
	}

	// Date and time fields patch the stored timestamps together: a new
	// date keeps the existing clock time unless a new time is also given.
	if form.EventDate != nil || form.StartTime != nil {
		date := existing.StartsAt.UTC().Format(dateLayout)
		clock := existing.StartsAt.UTC().Format(timeLayout)
		if form.EventDate != nil {
			date = *form.EventDate
		}
		if form.StartTime != nil {
			clock = *form.StartTime
		}
		startsAt, err := combineDateTime(date, clock)
		if err != nil {
			return nil, err
		}
		patch.StartsAt = &startsAt
	}
	if form.EndTime != nil {
		date := existing.StartsAt.UTC().Format(dateLayout)
		if form.EventDate != nil {
			date = *form.EventDate
		}
		endsAt, err := combineDateTime(date, *form.EndTime)
		if err != nil {
			return nil, err
		}
		patch.EndsAt = &endsAt
	}

	return patch, nil
}

// applyEventPatch writes the patched columns onto a copy of the stored
// event, mirroring what the repository update will persist.
func applyEventPatch(event *models.Event, patch *repositories.EventPatch) {
	if patch.Title != nil {
		event.Title = *patch.Title
	}
	if patch.Description != nil {
		event.Description = *patch.Description
	}
	if patch.Category != nil {
		event.Category = *patch.Category
	}
	if patch.StartsAt != nil {
		event.StartsAt = *patch.StartsAt
	}
	if patch.EndsAt != nil {
		event.EndsAt = *patch.EndsAt
	}
	if patch.Venue != nil {
		event.Venue = *patch.Venue
	}
	if patch.VirtualLink != nil {
		event.VirtualLink = *patch.VirtualLink
	}
	if patch.Capacity != nil {
		event.Capacity = *patch.Capacity
	}
	if patch.Visibility != nil {
		event.Visibility = *patch.Visibility
	}
}

// combineDateTime joins "2006-01-02" and "15:04" into a UTC timestamp.
// The split is lossless for whole-minute times.
func combineDateTime(date, clock string) (time.Time, error) {
	if date == "" {
		return time.Time{}, models.NewValidationError("event_date", "date is required")
	}
	if clock == "" {
		return time.Time{}, models.NewValidationError("start_time", "time is required")
	}
	t, err := time.Parse(dateLayout+" "+timeLayout, date+" "+clock)
	if err != nil {
		return time.Time{}, models.NewValidationError("event_date", "invalid date or time format")
	}
	return t, nil
}

func toOrganizerEvent(event *models.Event) *OrganizerEvent {
	oe := &OrganizerEvent{
		ID:          event.ID,
		OrganizerID: event.OrganizerID,
		Title:       event.Title,
		Description: event.Description,
		Category:    event.Category,
		EventDate:   event.StartsAt.UTC().Format(dateLayout),
		StartTime:   event.StartsAt.UTC().Format(timeLayout),
		Venue:       event.Venue,
		VirtualLink: event.VirtualLink,
		Capacity:    event.Capacity,
		ImageURL:    event.ImageURL,
		Status:      event.Status,
		Visibility:  event.Visibility,
		CreatedAt:   event.CreatedAt,
		UpdatedAt:   event.UpdatedAt,
	}
	if !event.EndsAt.IsZero() {
		oe.EndTime = event.EndsAt.UTC().Format(timeLayout)
	}
	return oe
}
