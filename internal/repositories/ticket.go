package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventease/internal/models"
)

// TicketRepository handles ticket type data operations
type TicketRepository struct {
	db *sql.DB
}

// NewTicketRepository creates a new ticket repository
func NewTicketRepository(db *sql.DB) *TicketRepository {
	return &TicketRepository{db: db}
}

const ticketTypeColumns = "id, event_id, name, price, currency, quantity, sold, sale_start, sale_end, active, created_at"

func scanTicketType(row interface{ Scan(...any) error }) (*models.TicketType, error) {
	tt := &models.TicketType{}
	var saleEnd sql.NullTime
	err := row.Scan(
		&tt.ID,
		&tt.EventID,
		&tt.Name,
		&tt.Price,
		&tt.Currency,
		&tt.Quantity,
		&tt.Sold,
		&tt.SaleStart,
		&saleEnd,
		&tt.Active,
		&tt.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if saleEnd.Valid {
		end := saleEnd.Time
		tt.SaleEnd = &end
	}
	return tt, nil
}

// Create inserts a new ticket type with a zero sold count
func (r *TicketRepository) Create(tt *models.TicketType) (*models.TicketType, error) {
	query := `
		INSERT INTO ticket_types (event_id, name, price, currency, quantity, sold, sale_start, sale_end, active, created_at)
		VALUES ($1, $2, $3, $4, $5, 0, $6, $7, $8, $9)
		RETURNING ` + ticketTypeColumns

	var saleEnd any
	if tt.SaleEnd != nil {
		saleEnd = *tt.SaleEnd
	}

	created, err := scanTicketType(r.db.QueryRow(
		query,
		tt.EventID,
		tt.Name,
		tt.Price,
		tt.Currency,
		tt.Quantity,
		tt.SaleStart,
		saleEnd,
		tt.Active,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket type: %w", err)
	}
	return created, nil
}

// GetByID retrieves a ticket type by ID
func (r *TicketRepository) GetByID(id int) (*models.TicketType, error) {
	tt, err := scanTicketType(r.db.QueryRow("SELECT "+ticketTypeColumns+" FROM ticket_types WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("failed to get ticket type: %w", err)
	}
	return tt, nil
}

// GetByEvent retrieves all ticket types for an event, cheapest first
func (r *TicketRepository) GetByEvent(eventID int) ([]*models.TicketType, error) {
	rows, err := r.db.Query(
		"SELECT "+ticketTypeColumns+" FROM ticket_types WHERE event_id = $1 ORDER BY price ASC, created_at ASC",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get ticket types by event: %w", err)
	}
	defer rows.Close()

	var ticketTypes []*models.TicketType
	for rows.Next() {
		tt, err := scanTicketType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ticket type: %w", err)
		}
		ticketTypes = append(ticketTypes, tt)
	}
	return ticketTypes, rows.Err()
}

// Update replaces the mutable fields of a ticket type
func (r *TicketRepository) Update(tt *models.TicketType) (*models.TicketType, error) {
	query := `
		UPDATE ticket_types
		SET name = $1, price = $2, currency = $3, quantity = $4, sale_start = $5, sale_end = $6, active = $7
		WHERE id = $8
		RETURNING ` + ticketTypeColumns

	var saleEnd any
	if tt.SaleEnd != nil {
		saleEnd = *tt.SaleEnd
	}

	updated, err := scanTicketType(r.db.QueryRow(
		query,
		tt.Name,
		tt.Price,
		tt.Currency,
		tt.Quantity,
		tt.SaleStart,
		saleEnd,
		tt.Active,
		tt.ID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrTicketTypeNotFound
		}
		return nil, fmt.Errorf("failed to update ticket type: %w", err)
	}
	return updated, nil
}

// Delete removes a ticket type
func (r *TicketRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM ticket_types WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete ticket type: %w", err)
	}
	return checkAffected(result, models.ErrTicketTypeNotFound)
}

// IncrementSold reserves one ticket. The sold <= quantity invariant is
// enforced in the WHERE clause so two concurrent registrations cannot
// oversell the last ticket.
func (r *TicketRepository) IncrementSold(id int) error {
	result, err := r.db.Exec(
		"UPDATE ticket_types SET sold = sold + 1 WHERE id = $1 AND sold < quantity",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to increment sold count: %w", err)
	}
	return checkAffected(result, models.ErrSoldOut)
}

// DecrementSold releases one reserved ticket. Used to undo an increment
// when the registration insert fails; the sold >= 0 invariant is
// enforced in the WHERE clause.
func (r *TicketRepository) DecrementSold(id int) error {
	result, err := r.db.Exec(
		"UPDATE ticket_types SET sold = sold - 1 WHERE id = $1 AND sold > 0",
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to decrement sold count: %w", err)
	}
	return checkAffected(result, models.ErrTicketTypeNotFound)
}

// CountActiveByEvent counts active ticket types for an event; feeds the
// publish gate's ticket-presence check.
func (r *TicketRepository) CountActiveByEvent(eventID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM ticket_types WHERE event_id = $1 AND active = TRUE",
		eventID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count active ticket types: %w", err)
	}
	return count, nil
}
