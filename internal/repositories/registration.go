package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventease/internal/models"
	"github.com/shopspring/decimal"
)

// RegistrationRepository handles registration data operations
type RegistrationRepository struct {
	db *sql.DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *sql.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

const registrationColumns = `id, user_id, event_id, ticket_type_id, confirmation_code, status,
	check_in_status, payment_status, payment_amount, refund_amount, registered_at, cancelled_at`

func scanRegistration(row interface{ Scan(...any) error }) (*models.Registration, error) {
	reg := &models.Registration{}
	var ticketTypeID sql.NullInt64
	var cancelledAt sql.NullTime
	err := row.Scan(
		&reg.ID,
		&reg.UserID,
		&reg.EventID,
		&ticketTypeID,
		&reg.ConfirmationCode,
		&reg.Status,
		&reg.CheckIn,
		&reg.PaymentStatus,
		&reg.PaymentAmount,
		&reg.RefundAmount,
		&reg.RegisteredAt,
		&cancelledAt,
	)
	if err != nil {
		return nil, err
	}
	if ticketTypeID.Valid {
		id := int(ticketTypeID.Int64)
		reg.TicketTypeID = &id
	}
	if cancelledAt.Valid {
		t := cancelledAt.Time
		reg.CancelledAt = &t
	}
	return reg, nil
}

// Create inserts a new registration row
func (r *RegistrationRepository) Create(reg *models.Registration) (*models.Registration, error) {
	query := `
		INSERT INTO registrations (user_id, event_id, ticket_type_id, confirmation_code, status,
			check_in_status, payment_status, payment_amount, refund_amount, registered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, $9)
		RETURNING ` + registrationColumns

	var ticketTypeID any
	if reg.TicketTypeID != nil {
		ticketTypeID = *reg.TicketTypeID
	}

	created, err := scanRegistration(r.db.QueryRow(
		query,
		reg.UserID,
		reg.EventID,
		ticketTypeID,
		reg.ConfirmationCode,
		reg.Status,
		reg.CheckIn,
		reg.PaymentStatus,
		reg.PaymentAmount,
		time.Now(),
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}
	return created, nil
}

// GetByID retrieves a registration by its id, scoped to the owning user
func (r *RegistrationRepository) GetByID(id, userID int) (*models.Registration, error) {
	reg, err := scanRegistration(r.db.QueryRow(
		"SELECT "+registrationColumns+" FROM registrations WHERE id = $1 AND user_id = $2",
		id, userID,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to get registration: %w", err)
	}
	return reg, nil
}

// GetByUser retrieves all registrations for a user, newest first
func (r *RegistrationRepository) GetByUser(userID int) ([]*models.Registration, error) {
	rows, err := r.db.Query(
		"SELECT "+registrationColumns+" FROM registrations WHERE user_id = $1 ORDER BY registered_at DESC",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations by user: %w", err)
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// GetByEvent retrieves all registrations for an event, oldest first
func (r *RegistrationRepository) GetByEvent(eventID int) ([]*models.Registration, error) {
	rows, err := r.db.Query(
		"SELECT "+registrationColumns+" FROM registrations WHERE event_id = $1 ORDER BY registered_at ASC",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get registrations by event: %w", err)
	}
	defer rows.Close()
	return collectRegistrations(rows)
}

// Cancel marks a registration cancelled and records the refund. The sold
// count on the ticket type is not adjusted.
func (r *RegistrationRepository) Cancel(id, userID int, refund decimal.Decimal) (*models.Registration, error) {
	query := `
		UPDATE registrations
		SET status = $1, payment_status = $2, refund_amount = $3, cancelled_at = $4
		WHERE id = $5 AND user_id = $6 AND status = $7
		RETURNING ` + registrationColumns

	reg, err := scanRegistration(r.db.QueryRow(
		query,
		models.RegistrationCancelled,
		models.PaymentRefunded,
		refund,
		time.Now(),
		id,
		userID,
		models.RegistrationConfirmed,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrRegistrationNotFound
		}
		return nil, fmt.Errorf("failed to cancel registration: %w", err)
	}
	return reg, nil
}

// UpdateCheckIn sets the check-in status of a registration
func (r *RegistrationRepository) UpdateCheckIn(id int, status models.CheckInStatus) error {
	result, err := r.db.Exec("UPDATE registrations SET check_in_status = $1 WHERE id = $2", status, id)
	if err != nil {
		return fmt.Errorf("failed to update check-in status: %w", err)
	}
	return checkAffected(result, models.ErrRegistrationNotFound)
}

// CountByEvent counts confirmed registrations for an event; feeds the
// capacity check at registration time.
func (r *RegistrationRepository) CountByEvent(eventID int) (int, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM registrations WHERE event_id = $1 AND status = $2",
		eventID, models.RegistrationConfirmed,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count registrations: %w", err)
	}
	return count, nil
}

func collectRegistrations(rows *sql.Rows) ([]*models.Registration, error) {
	var regs []*models.Registration
	for rows.Next() {
		reg, err := scanRegistration(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}
