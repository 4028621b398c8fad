package services

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"eventease/internal/models"
	"eventease/internal/repositories"

	"github.com/shopspring/decimal"
)

// In-memory fakes for the repository interfaces. They implement just
// enough behavior for the service paths under test.

type fakeUserRepo struct {
	users  map[int]*models.User
	nextID int
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[int]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
		if u.ID > r.nextID {
			r.nextID = u.ID
		}
	}
	return r
}

func (r *fakeUserRepo) Create(email, passwordHash, name string, role models.UserRole) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return nil, models.ErrDuplicateEntry
		}
	}
	r.nextID++
	user := &models.User{
		ID:           r.nextID,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
		Plan:         models.PlanFree,
	}
	r.users[user.ID] = user
	return user, nil
}

func (r *fakeUserRepo) GetByID(id int) (*models.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}
	return user, nil
}

func (r *fakeUserRepo) GetByEmail(email string) (*models.User, error) {
	for _, u := range r.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return nil, models.ErrUserNotFound
}

func (r *fakeUserRepo) UpdatePassword(id int, passwordHash string) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	return nil
}

type fakeEventRepo struct {
	events  map[int]*models.Event
	nextID  int
	creates int
}

func newFakeEventRepo(events ...*models.Event) *fakeEventRepo {
	r := &fakeEventRepo{events: make(map[int]*models.Event)}
	for _, e := range events {
		r.events[e.ID] = e
		if e.ID > r.nextID {
			r.nextID = e.ID
		}
	}
	return r
}

func (r *fakeEventRepo) Create(event *models.Event) (*models.Event, error) {
	r.creates++
	r.nextID++
	stored := *event
	stored.ID = r.nextID
	stored.Status = models.StatusDraft
	if stored.Visibility == "" {
		stored.Visibility = models.VisibilityPublic
	}
	r.events[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeEventRepo) GetByID(id int) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok {
		return nil, models.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) GetByOrganizer(organizerID int) ([]*models.Event, error) {
	var result []*models.Event
	for _, e := range r.events {
		if e.OrganizerID == organizerID {
			copied := *e
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeEventRepo) Update(id, organizerID int, patch *repositories.EventPatch) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok || event.OrganizerID != organizerID {
		return nil, models.ErrEventNotFound
	}
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
	if patch.ImageURL != nil {
		event.ImageURL = *patch.ImageURL
	}
	if patch.ImageKey != nil {
		event.ImageKey = *patch.ImageKey
	}
	if patch.Visibility != nil {
		event.Visibility = *patch.Visibility
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) UpdateStatus(id, organizerID int, from, to models.EventStatus) (*models.Event, error) {
	event, ok := r.events[id]
	if !ok || event.OrganizerID != organizerID || event.Status != from {
		return nil, models.ErrEventNotFound
	}
	event.Status = to
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) Delete(id, organizerID int) error {
	event, ok := r.events[id]
	if !ok || event.OrganizerID != organizerID {
		return models.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

func (r *fakeEventRepo) CountActiveByOrganizer(organizerID int) (int, error) {
	count := 0
	for _, e := range r.events {
		if e.OrganizerID != organizerID {
			continue
		}
		if e.Status == models.StatusPublished || e.Status == models.StatusOngoing {
			count++
		}
	}
	return count, nil
}

func (r *fakeEventRepo) SearchPublished(filters repositories.EventSearchFilters) ([]*models.Event, int, error) {
	var result []*models.Event
	for _, e := range r.events {
		if e.Status != models.StatusPublished || e.Visibility != models.VisibilityPublic {
			continue
		}
		if filters.Category != "" && e.Category != filters.Category {
			continue
		}
		if filters.Query != "" && !strings.Contains(strings.ToLower(e.Title), strings.ToLower(filters.Query)) {
			continue
		}
		copied := *e
		result = append(result, &copied)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, len(result), nil
}

type fakeTicketRepo struct {
	tickets map[int]*models.TicketType
	nextID  int
}

func newFakeTicketRepo(tickets ...*models.TicketType) *fakeTicketRepo {
	r := &fakeTicketRepo{tickets: make(map[int]*models.TicketType)}
	for _, tt := range tickets {
		r.tickets[tt.ID] = tt
		if tt.ID > r.nextID {
			r.nextID = tt.ID
		}
	}
	return r
}

func (r *fakeTicketRepo) Create(tt *models.TicketType) (*models.TicketType, error) {
	r.nextID++
	stored := *tt
	stored.ID = r.nextID
	stored.Sold = 0
	r.tickets[stored.ID] = &stored
	return &stored, nil
}

func (r *fakeTicketRepo) GetByID(id int) (*models.TicketType, error) {
	tt, ok := r.tickets[id]
	if !ok {
		return nil, models.ErrTicketTypeNotFound
	}
	copied := *tt
	return &copied, nil
}

func (r *fakeTicketRepo) GetByEvent(eventID int) ([]*models.TicketType, error) {
	var result []*models.TicketType
	for _, tt := range r.tickets {
		if tt.EventID == eventID {
			copied := *tt
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeTicketRepo) Update(tt *models.TicketType) (*models.TicketType, error) {
	if _, ok := r.tickets[tt.ID]; !ok {
		return nil, models.ErrTicketTypeNotFound
	}
	stored := *tt
	r.tickets[tt.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeTicketRepo) Delete(id int) error {
	if _, ok := r.tickets[id]; !ok {
		return models.ErrTicketTypeNotFound
	}
	delete(r.tickets, id)
	return nil
}

func (r *fakeTicketRepo) IncrementSold(id int) error {
	tt, ok := r.tickets[id]
	if !ok {
		return models.ErrTicketTypeNotFound
	}
	if tt.Sold >= tt.Quantity {
		return models.ErrSoldOut
	}
	tt.Sold++
	return nil
}

func (r *fakeTicketRepo) DecrementSold(id int) error {
	tt, ok := r.tickets[id]
	if !ok {
		return models.ErrTicketTypeNotFound
	}
	if tt.Sold > 0 {
		tt.Sold--
	}
	return nil
}

func (r *fakeTicketRepo) CountActiveByEvent(eventID int) (int, error) {
	count := 0
	for _, tt := range r.tickets {
		if tt.EventID == eventID && tt.Active {
			count++
		}
	}
	return count, nil
}

type fakeRegistrationRepo struct {
	regs   map[int]*models.Registration
	nextID int
}

func newFakeRegistrationRepo(regs ...*models.Registration) *fakeRegistrationRepo {
	r := &fakeRegistrationRepo{regs: make(map[int]*models.Registration)}
	for _, reg := range regs {
		r.regs[reg.ID] = reg
		if reg.ID > r.nextID {
			r.nextID = reg.ID
		}
	}
	return r
}

func (r *fakeRegistrationRepo) Create(reg *models.Registration) (*models.Registration, error) {
	r.nextID++
	stored := *reg
	stored.ID = r.nextID
	stored.RegisteredAt = time.Now()
	r.regs[stored.ID] = &stored
	copied := stored
	return &copied, nil
}

func (r *fakeRegistrationRepo) GetByID(id, userID int) (*models.Registration, error) {
	reg, ok := r.regs[id]
	if !ok || reg.UserID != userID {
		return nil, models.ErrRegistrationNotFound
	}
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) GetByUser(userID int) ([]*models.Registration, error) {
	var result []*models.Registration
	for _, reg := range r.regs {
		if reg.UserID == userID {
			copied := *reg
			result = append(result, &copied)
		}
	}
	return result, nil
}

func (r *fakeRegistrationRepo) GetByEvent(eventID int) ([]*models.Registration, error) {
	var result []*models.Registration
	for _, reg := range r.regs {
		if reg.EventID == eventID {
			copied := *reg
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeRegistrationRepo) Cancel(id, userID int, refund decimal.Decimal) (*models.Registration, error) {
	reg, ok := r.regs[id]
	if !ok || reg.UserID != userID || reg.Status != models.RegistrationConfirmed {
		return nil, models.ErrRegistrationNotFound
	}
	now := time.Now()
	reg.Status = models.RegistrationCancelled
	reg.PaymentStatus = models.PaymentRefunded
	reg.RefundAmount = refund
	reg.CancelledAt = &now
	copied := *reg
	return &copied, nil
}

func (r *fakeRegistrationRepo) UpdateCheckIn(id int, status models.CheckInStatus) error {
	reg, ok := r.regs[id]
	if !ok {
		return models.ErrRegistrationNotFound
	}
	reg.CheckIn = status
	return nil
}

func (r *fakeRegistrationRepo) CountByEvent(eventID int) (int, error) {
	count := 0
	for _, reg := range r.regs {
		if reg.EventID == eventID && reg.Status == models.RegistrationConfirmed {
			count++
		}
	}
	return count, nil
}

type auditEntry struct {
	ActorID  int
	Action   string
	Entity   string
	EntityID int
}

type fakeAudit struct {
	entries []auditEntry
}

func (a *fakeAudit) Record(actorID int, action, entity string, entityID int, details string) error {
	a.entries = append(a.entries, auditEntry{ActorID: actorID, Action: action, Entity: entity, EntityID: entityID})
	return nil
}

func (a *fakeAudit) has(action string) bool {
	for _, e := range a.entries {
		if e.Action == action {
			return true
		}
	}
	return false
}

type fakeStorage struct {
	uploads int
	deletes int
	failing bool
}

func (s *fakeStorage) Upload(_ context.Context, key string, _ io.Reader, _ string, _ int64) (string, error) {
	if s.failing {
		return "", fmt.Errorf("storage unavailable")
	}
	s.uploads++
	return "https://cdn.example.com/" + key, nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.deletes++
	return nil
}

func (s *fakeStorage) GetURL(key string) string {
	return "https://cdn.example.com/" + key
}

type fakeMailer struct {
	sent        []string
	resetTokens []string
}

func (m *fakeMailer) SendRegistrationConfirmation(to, eventTitle, confirmationCode string) error {
	m.sent = append(m.sent, to)
	return nil
}

func (m *fakeMailer) SendPasswordReset(to, token string) error {
	m.resetTokens = append(m.resetTokens, token)
	return nil
}
