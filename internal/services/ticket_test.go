package services

import (
	"context"
	"testing"
	"time"

	"eventease/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTicketService(events *fakeEventRepo, tickets *fakeTicketRepo) *TicketService {
	return NewTicketService(tickets, events)
}

func TestCreateTicketTypeDefaultsCurrency(t *testing.T) {
	events := newFakeEventRepo(&models.Event{ID: 10, OrganizerID: 1, Status: models.StatusDraft})
	svc := newTestTicketService(events, newFakeTicketRepo())

	created, err := svc.CreateTicketType(context.Background(), 1, &models.TicketType{
		EventID:   10,
		Name:      "Early Bird",
		Price:     decimal.NewFromInt(15),
		Quantity:  50,
		SaleStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		Active:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, 0, created.Sold)
}

func TestCreateTicketTypeForeignEvent(t *testing.T) {
	events := newFakeEventRepo(&models.Event{ID: 10, OrganizerID: 1, Status: models.StatusDraft})
	svc := newTestTicketService(events, newFakeTicketRepo())

	_, err := svc.CreateTicketType(context.Background(), 2, &models.TicketType{
		EventID: 10, Name: "GA", Quantity: 10,
		SaleStart: time.Now(),
	})
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestTicketTypesForEventFollowsVisibility(t *testing.T) {
	events := newFakeEventRepo(
		&models.Event{ID: 10, OrganizerID: 1, Status: models.StatusPublished, Visibility: models.VisibilityPublic},
		&models.Event{ID: 11, OrganizerID: 1, Status: models.StatusPublished, Visibility: models.VisibilityPrivate},
		&models.Event{ID: 12, OrganizerID: 1, Status: models.StatusDraft, Visibility: models.VisibilityPublic},
	)
	tickets := newFakeTicketRepo(
		&models.TicketType{ID: 1, EventID: 10, Name: "GA"},
		&models.TicketType{ID: 2, EventID: 11, Name: "GA"},
		&models.TicketType{ID: 3, EventID: 12, Name: "GA"},
	)
	svc := newTestTicketService(events, tickets)

	// Anyone sees a published public event's tickets.
	got, err := svc.TicketTypesForEvent(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	// Private events and drafts only expose tickets to their owner.
	_, err = svc.TicketTypesForEvent(context.Background(), 2, 11)
	assert.ErrorIs(t, err, models.ErrEventNotFound)
	_, err = svc.TicketTypesForEvent(context.Background(), 2, 12)
	assert.ErrorIs(t, err, models.ErrEventNotFound)

	got, err = svc.TicketTypesForEvent(context.Background(), 1, 11)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUpdateTicketTypeQuantityFloor(t *testing.T) {
	events := newFakeEventRepo(&models.Event{ID: 10, OrganizerID: 1, Status: models.StatusPublished})
	tickets := newFakeTicketRepo(&models.TicketType{
		ID: 1, EventID: 10, Name: "GA", Currency: "USD",
		Quantity: 100, Sold: 40, Active: true,
		SaleStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	svc := newTestTicketService(events, tickets)

	_, err := svc.UpdateTicketType(context.Background(), 1, &models.TicketType{
		ID: 1, Name: "GA", Currency: "USD", Quantity: 30,
		SaleStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)

	updated, err := svc.UpdateTicketType(context.Background(), 1, &models.TicketType{
		ID: 1, Name: "GA", Currency: "USD", Quantity: 40,
		SaleStart: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, 40, updated.Sold, "sold count is preserved across updates")
	assert.Equal(t, 10, updated.EventID, "event binding cannot be changed")
}

func TestDeleteTicketTypeWithSales(t *testing.T) {
	events := newFakeEventRepo(&models.Event{ID: 10, OrganizerID: 1, Status: models.StatusPublished})
	tickets := newFakeTicketRepo(&models.TicketType{ID: 1, EventID: 10, Name: "GA", Sold: 2})
	svc := newTestTicketService(events, tickets)

	err := svc.DeleteTicketType(context.Background(), 1, 1)
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)

	tickets.tickets[1].Sold = 0
	require.NoError(t, svc.DeleteTicketType(context.Background(), 1, 1))
}
