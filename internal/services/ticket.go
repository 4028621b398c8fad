package services

import (
	"context"
	"fmt"

	"eventease/internal/models"
)

// TicketRepository is the data access surface the ticket service needs
type TicketRepository interface {
	Create(tt *models.TicketType) (*models.TicketType, error)
	GetByID(id int) (*models.TicketType, error)
	GetByEvent(eventID int) ([]*models.TicketType, error)
	Update(tt *models.TicketType) (*models.TicketType, error)
	Delete(id int) error
	IncrementSold(id int) error
	DecrementSold(id int) error
}

// TicketService handles ticket type management for organizers
type TicketService struct {
	ticketRepo TicketRepository
	eventRepo  EventRepository
}

// NewTicketService creates a new ticket service
func NewTicketService(ticketRepo TicketRepository, eventRepo EventRepository) *TicketService {
	return &TicketService{ticketRepo: ticketRepo, eventRepo: eventRepo}
}

// CreateTicketType adds a ticket type to an event the caller owns
func (s *TicketService) CreateTicketType(ctx context.Context, organizerID int, tt *models.TicketType) (*models.TicketType, error) {
	if err := s.requireOwnership(organizerID, tt.EventID); err != nil {
		return nil, err
	}
	if tt.Currency == "" {
		tt.Currency = "USD"
	}
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	return s.ticketRepo.Create(tt)
}

// TicketTypesForEvent lists the ticket types of an event. Drafts and
// private events only expose their tickets to the owner.
func (s *TicketService) TicketTypesForEvent(ctx context.Context, callerID, eventID int) ([]*models.TicketType, error) {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return nil, err
	}
	if event.OrganizerID != callerID {
		if event.Status == models.StatusDraft || event.Visibility == models.VisibilityPrivate {
			return nil, models.ErrEventNotFound
		}
	}
	return s.ticketRepo.GetByEvent(eventID)
}

// UpdateTicketType replaces the mutable fields of a ticket type the
// caller owns. Quantity may not drop below the sold count.
func (s *TicketService) UpdateTicketType(ctx context.Context, organizerID int, tt *models.TicketType) (*models.TicketType, error) {
	existing, err := s.ticketRepo.GetByID(tt.ID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(organizerID, existing.EventID); err != nil {
		return nil, err
	}

	tt.EventID = existing.EventID
	tt.Sold = existing.Sold
	if err := tt.Validate(); err != nil {
		return nil, err
	}
	if tt.Quantity < existing.Sold {
		return nil, models.NewValidationError("quantity", fmt.Sprintf("quantity cannot be below the %d tickets already sold", existing.Sold))
	}
	return s.ticketRepo.Update(tt)
}

// DeleteTicketType removes a ticket type the caller owns, unless tickets
// have already been sold against it.
func (s *TicketService) DeleteTicketType(ctx context.Context, organizerID, ticketTypeID int) error {
	existing, err := s.ticketRepo.GetByID(ticketTypeID)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(organizerID, existing.EventID); err != nil {
		return err
	}
	if existing.Sold > 0 {
		return models.NewValidationError("ticket_type", "cannot delete a ticket type with sold tickets")
	}
	return s.ticketRepo.Delete(ticketTypeID)
}

func (s *TicketService) requireOwnership(organizerID, eventID int) error {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return models.ErrForbidden
	}
	return nil
}
