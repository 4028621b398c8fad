package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventease/internal/models"
)

// EventRepository handles event data operations
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// EventSearchFilters represents filters for public event discovery
type EventSearchFilters struct {
	Query    string
	Category string
	After    *time.Time
	Limit    int
	Offset   int
}

const eventColumns = `id, organizer_id, title, description, category, starts_at, ends_at,
	venue, virtual_link, capacity, image_url, image_key, status, visibility, created_at, updated_at`

func scanEvent(row interface{ Scan(...any) error }) (*models.Event, error) {
	event := &models.Event{}
	var endsAt sql.NullTime
	err := row.Scan(
		&event.ID,
		&event.OrganizerID,
		&event.Title,
		&event.Description,
		&event.Category,
		&event.StartsAt,
		&endsAt,
		&event.Venue,
		&event.VirtualLink,
		&event.Capacity,
		&event.ImageURL,
		&event.ImageKey,
		&event.Status,
		&event.Visibility,
		&event.CreatedAt,
		&event.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if endsAt.Valid {
		event.EndsAt = endsAt.Time
	}
	return event, nil
}

// Create inserts a new event row. Status is always forced to draft here;
// publishing goes through UpdateStatus.
func (r *EventRepository) Create(event *models.Event) (*models.Event, error) {
	query := `
		INSERT INTO events (organizer_id, title, description, category, starts_at, ends_at,
			venue, virtual_link, capacity, image_url, image_key, status, visibility, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
		RETURNING ` + eventColumns

	var endsAt any
	if !event.EndsAt.IsZero() {
		endsAt = event.EndsAt
	}
	visibility := event.Visibility
	if visibility == "" {
		visibility = models.VisibilityPublic
	}

	created, err := scanEvent(r.db.QueryRow(
		query,
		event.OrganizerID,
		event.Title,
		event.Description,
		event.Category,
		event.StartsAt,
		endsAt,
		event.Venue,
		event.VirtualLink,
		event.Capacity,
		event.ImageURL,
		event.ImageKey,
		models.StatusDraft,
		visibility,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return created, nil
}

// GetByID retrieves an event by ID
func (r *EventRepository) GetByID(id int) (*models.Event, error) {
	event, err := scanEvent(r.db.QueryRow("SELECT "+eventColumns+" FROM events WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// GetByOrganizer retrieves all events owned by an organizer, newest first
func (r *EventRepository) GetByOrganizer(organizerID int) ([]*models.Event, error) {
	rows, err := r.db.Query(
		"SELECT "+eventColumns+" FROM events WHERE organizer_id = $1 ORDER BY created_at DESC",
		organizerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get events by organizer: %w", err)
	}
	defer rows.Close()
	return collectEvents(rows)
}

// Update applies non-nil fields of the patch to an event row. The query is
// scoped by both event id and organizer id as defense in depth alongside
// the service-level ownership check.
func (r *EventRepository) Update(id, organizerID int, patch *EventPatch) (*models.Event, error) {
	sets := []string{"updated_at = $1"}
	args := []any{time.Now()}
	n := 2

	add := func(column string, value any) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.StartsAt != nil {
		add("starts_at", *patch.StartsAt)
	}
	if patch.EndsAt != nil {
		add("ends_at", *patch.EndsAt)
	}
	if patch.Venue != nil {
		add("venue", *patch.Venue)
	}
	if patch.VirtualLink != nil {
		add("virtual_link", *patch.VirtualLink)
	}
	if patch.Capacity != nil {
		add("capacity", *patch.Capacity)
	}
	if patch.ImageURL != nil {
		add("image_url", *patch.ImageURL)
	}
	if patch.ImageKey != nil {
		add("image_key", *patch.ImageKey)
	}
	if patch.Visibility != nil {
		add("visibility", *patch.Visibility)
	}

	query := fmt.Sprintf(
		"UPDATE events SET %s WHERE id = $%d AND organizer_id = $%d RETURNING %s",
		strings.Join(sets, ", "), n, n+1, eventColumns,
	)
	args = append(args, id, organizerID)

	event, err := scanEvent(r.db.QueryRow(query, args...))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event: %w", err)
	}
	return event, nil
}

// UpdateStatus transitions an event's status, scoped to the owning
// organizer and the expected current status so concurrent transitions
// cannot double-apply.
func (r *EventRepository) UpdateStatus(id, organizerID int, from, to models.EventStatus) (*models.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = $2
		WHERE id = $3 AND organizer_id = $4 AND status = $5
		RETURNING ` + eventColumns

	event, err := scanEvent(r.db.QueryRow(query, to, time.Now(), id, organizerID, from))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrEventNotFound
		}
		return nil, fmt.Errorf("failed to update event status: %w", err)
	}
	return event, nil
}

// Delete removes an event row outright, scoped to the owning organizer
func (r *EventRepository) Delete(id, organizerID int) error {
	result, err := r.db.Exec("DELETE FROM events WHERE id = $1 AND organizer_id = $2", id, organizerID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	return checkAffected(result, models.ErrEventNotFound)
}

// CountActiveByOrganizer counts the organizer's published and ongoing
// events; feeds the plan-tier event quota.
func (r *EventRepository) CountActiveByOrganizer(organizerID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM events WHERE organizer_id = $1 AND status IN ($2, $3)",
		organizerID, models.StatusPublished, models.StatusOngoing,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active events: %w", err)
	}
	return count, nil
}

// SearchPublished returns published public events matching the filters,
// along with the total match count for pagination.
func (r *EventRepository) SearchPublished(filters EventSearchFilters) ([]*models.Event, int, error) {
	where := []string{"status = $1", "visibility = $2"}
	args := []any{models.StatusPublished, models.VisibilityPublic}
	n := 3

	if filters.Query != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR description ILIKE $%d)", n, n))
		args = append(args, "%"+filters.Query+"%")
		n++
	}
	if filters.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", n))
		args = append(args, filters.Category)
		n++
	}
	if filters.After != nil {
		where = append(where, fmt.Sprintf("starts_at >= $%d", n))
		args = append(args, *filters.After)
		n++
	}

	clause := strings.Join(where, " AND ")

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM events WHERE "+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count events: %w", err)
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = 20
	}
	query := fmt.Sprintf(
		"SELECT %s FROM events WHERE %s ORDER BY starts_at ASC LIMIT $%d OFFSET $%d",
		eventColumns, clause, n, n+1,
	)
	args = append(args, limit, filters.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to search events: %w", err)
	}
	defer rows.Close()

	events, err := collectEvents(rows)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

// EventPatch holds the fields an update may change; nil means unchanged
type EventPatch struct {
	Title       *string
	Description *string
	Category    *string
	StartsAt    *time.Time
	EndsAt      *time.Time
	Venue       *string
	VirtualLink *string
	Capacity    *int
	ImageURL    *string
	ImageKey    *string
	Visibility  *models.EventVisibility
}

func collectEvents(rows *sql.Rows) ([]*models.Event, error) {
	var events []*models.Event
	for rows.Next() {
		event, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
