package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"eventease/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RegistrationRepository is the data access surface the registration
// service needs
type RegistrationRepository interface {
	Create(reg *models.Registration) (*models.Registration, error)
	GetByID(id, userID int) (*models.Registration, error)
	GetByUser(userID int) ([]*models.Registration, error)
	GetByEvent(eventID int) ([]*models.Registration, error)
	Cancel(id, userID int, refund decimal.Decimal) (*models.Registration, error)
	UpdateCheckIn(id int, status models.CheckInStatus) error
	CountByEvent(eventID int) (int, error)
}

// RegistrationService handles attendee registration and cancellation
type RegistrationService struct {
	regRepo    RegistrationRepository
	eventRepo  EventRepository
	ticketRepo TicketRepository
	userRepo   UserReader
	mailer     Mailer
}

// NewRegistrationService creates a new registration service
func NewRegistrationService(
	regRepo RegistrationRepository,
	eventRepo EventRepository,
	ticketRepo TicketRepository,
	userRepo UserReader,
	mailer Mailer,
) *RegistrationService {
	return &RegistrationService{
		regRepo:    regRepo,
		eventRepo:  eventRepo,
		ticketRepo: ticketRepo,
		userRepo:   userRepo,
		mailer:     mailer,
	}
}

// CancellationResult is returned when a registration is cancelled
type CancellationResult struct {
	Registration *models.Registration `json:"registration"`
	RefundAmount decimal.Decimal      `json:"refund_amount"`
}

// Register creates a registration for the authenticated user. There is no
// payment gateway; payment is recorded as completed at the ticket price.
func (s *RegistrationService) Register(ctx context.Context, userID, eventID int, ticketTypeID *int) (*models.Registration, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, models.ErrNotAuthenticated
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.Visibility == models.VisibilityPrivate && event.OrganizerID != userID {
		return nil, models.ErrEventNotFound
	}
	if event.Status != models.StatusPublished && event.Status != models.StatusOngoing {
		return nil, models.NewValidationError("event", "event is not open for registration")
	}

	confirmed, err := s.regRepo.CountByEvent(eventID)
	if err != nil {
		return nil, err
	}
	if confirmed >= event.Capacity {
		return nil, models.NewValidationError("event", "event is at capacity")
	}

	amount := decimal.Zero
	if ticketTypeID != nil {
		ticket, err := s.ticketRepo.GetByID(*ticketTypeID)
		if err != nil {
			return nil, err
		}
		if ticket.EventID != eventID {
			return nil, models.NewValidationError("ticket_type_id", "ticket type does not belong to this event")
		}
		if !ticket.OnSale(time.Now()) {
			return nil, models.NewValidationError("ticket_type_id", "ticket type is not on sale")
		}
		if err := s.ticketRepo.IncrementSold(*ticketTypeID); err != nil {
			return nil, err
		}
		amount = ticket.Price
	}

	reg := &models.Registration{
		UserID:           userID,
		EventID:          eventID,
		TicketTypeID:     ticketTypeID,
		ConfirmationCode: uuid.NewString(),
		Status:           models.RegistrationConfirmed,
		CheckIn:          models.CheckInPending,
		PaymentStatus:    models.PaymentCompleted,
		PaymentAmount:    amount,
	}

	created, err := s.regRepo.Create(reg)
	if err != nil {
		// Release the reserved ticket so a failed insert does not consume
		// inventory.
		if ticketTypeID != nil {
			if derr := s.ticketRepo.DecrementSold(*ticketTypeID); derr != nil {
				log.Printf("failed to release ticket type %d after failed registration: %v", *ticketTypeID, derr)
			}
		}
		return nil, fmt.Errorf("failed to create registration: %w", err)
	}

	// Confirmation mail is best effort; the registration stands either way.
	if err := s.mailer.SendRegistrationConfirmation(user.Email, event.Title, created.ConfirmationCode); err != nil {
		log.Printf("failed to send confirmation email for registration %d: %v", created.ID, err)
	}

	return created, nil
}

// MyRegistrations lists the authenticated user's registrations
func (s *RegistrationService) MyRegistrations(ctx context.Context, userID int) ([]*models.Registration, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, models.ErrNotAuthenticated
	}
	return s.regRepo.GetByUser(userID)
}

// CancelRegistration cancels the caller's registration and computes the
// refund as 90% of the recorded payment. The ticket type's sold count is
// left as is.
func (s *RegistrationService) CancelRegistration(ctx context.Context, userID, registrationID int) (*CancellationResult, error) {
	if _, err := s.userRepo.GetByID(userID); err != nil {
		return nil, models.ErrNotAuthenticated
	}

	existing, err := s.regRepo.GetByID(registrationID, userID)
	if err != nil {
		return nil, err
	}
	if existing.IsCancelled() {
		return nil, models.NewValidationError("registration", "registration is already cancelled")
	}

	refund := models.RefundForAmount(existing.PaymentAmount)
	cancelled, err := s.regRepo.Cancel(registrationID, userID, refund)
	if err != nil {
		return nil, err
	}

	return &CancellationResult{Registration: cancelled, RefundAmount: refund}, nil
}

// AttendeesForEvent lists the registrations of an event the caller owns
func (s *RegistrationService) AttendeesForEvent(ctx context.Context, organizerID, eventID int) ([]*models.Registration, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != organizerID {
		return nil, models.ErrForbidden
	}
	return s.regRepo.GetByEvent(eventID)
}

// CheckIn updates an attendee's check-in status on an event the caller
// owns
func (s *RegistrationService) CheckIn(ctx context.Context, organizerID, eventID, registrationID int, status models.CheckInStatus) error {
	if !models.ValidCheckInStatus(status) {
		return models.NewValidationError("check_in_status", "invalid check-in status")
	}

	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return models.ErrForbidden
	}

	return s.regRepo.UpdateCheckIn(registrationID, status)
}
