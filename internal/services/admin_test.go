package services

import (
	"context"
	"testing"
	"time"

	"eventease/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAuditReader struct {
	entries []*models.AuditLogEntry
}

func (r *fakeAuditReader) List(limit, offset int) ([]*models.AuditLogEntry, error) {
	if offset >= len(r.entries) {
		return nil, nil
	}
	end := offset + limit
	if end > len(r.entries) {
		end = len(r.entries)
	}
	return r.entries[offset:end], nil
}

func (r *fakeAuditReader) ListSince(since time.Time) ([]*models.AuditLogEntry, error) {
	var result []*models.AuditLogEntry
	for _, e := range r.entries {
		if !e.CreatedAt.Before(since) {
			result = append(result, e)
		}
	}
	return result, nil
}

type adminUserRepo struct {
	*fakeUserRepo
}

func (r *adminUserRepo) List(limit, offset int) ([]*models.User, int, error) {
	var all []*models.User
	for _, u := range r.users {
		all = append(all, u)
	}
	return all, len(all), nil
}

func (r *adminUserRepo) UpdateRole(id int, role models.UserRole) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.Role = role
	return nil
}

func (r *adminUserRepo) UpdatePlan(id int, plan models.PlanTier) error {
	user, ok := r.users[id]
	if !ok {
		return models.ErrUserNotFound
	}
	user.Plan = plan
	return nil
}

func newTestAdminService(users *adminUserRepo, reader *fakeAuditReader) (*AdminService, *fakeAudit) {
	audit := &fakeAudit{}
	return NewAdminService(users, reader, audit), audit
}

func TestChangeRole(t *testing.T) {
	users := &adminUserRepo{newFakeUserRepo(
		&models.User{ID: 1, Role: models.RoleAdmin, Plan: models.PlanPro},
		&models.User{ID: 2, Role: models.RoleAttendee, Plan: models.PlanFree},
	)}
	svc, audit := newTestAdminService(users, &fakeAuditReader{})

	require.NoError(t, svc.ChangeRole(context.Background(), 1, 2, models.RoleOrganizer))
	assert.Equal(t, models.RoleOrganizer, users.users[2].Role)
	assert.True(t, audit.has(models.AuditUserRoleChanged))

	err := svc.ChangeRole(context.Background(), 1, 2, "superuser")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)
}

func TestChangeRoleSelfDemotion(t *testing.T) {
	users := &adminUserRepo{newFakeUserRepo(&models.User{ID: 1, Role: models.RoleAdmin, Plan: models.PlanPro})}
	svc, _ := newTestAdminService(users, &fakeAuditReader{})

	err := svc.ChangeRole(context.Background(), 1, 1, models.RoleAttendee)
	assert.True(t, models.IsValidationError(err), "admins cannot demote themselves: %v", err)
	assert.Equal(t, models.RoleAdmin, users.users[1].Role)
}

func TestChangePlan(t *testing.T) {
	users := &adminUserRepo{newFakeUserRepo(
		&models.User{ID: 1, Role: models.RoleAdmin, Plan: models.PlanPro},
		&models.User{ID: 2, Role: models.RoleOrganizer, Plan: models.PlanFree},
	)}
	svc, audit := newTestAdminService(users, &fakeAuditReader{})

	require.NoError(t, svc.ChangePlan(context.Background(), 1, 2, models.PlanPaid))
	assert.Equal(t, models.PlanPaid, users.users[2].Plan)
	assert.True(t, audit.has(models.AuditUserPlanChanged))

	err := svc.ChangePlan(context.Background(), 1, 2, "ENTERPRISE")
	assert.True(t, models.IsValidationError(err), "want validation error, got %v", err)
}

func TestListUsersClampsLimit(t *testing.T) {
	users := &adminUserRepo{newFakeUserRepo(&models.User{ID: 1, Role: models.RoleAdmin})}
	svc, _ := newTestAdminService(users, &fakeAuditReader{})

	page, err := svc.ListUsers(context.Background(), 10000, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)

	page, err = svc.ListUsers(context.Background(), -1, 0)
	require.NoError(t, err)
	assert.Equal(t, 50, page.Limit)
}

func TestAuditEntriesSince(t *testing.T) {
	old := &models.AuditLogEntry{ID: 1, Action: models.AuditLoginFailed, CreatedAt: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	recent := &models.AuditLogEntry{ID: 2, Action: models.AuditLoginSucceeded, CreatedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	svc, _ := newTestAdminService(
		&adminUserRepo{newFakeUserRepo()},
		&fakeAuditReader{entries: []*models.AuditLogEntry{old, recent}},
	)

	entries, err := svc.AuditEntriesSince(context.Background(), time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 2, entries[0].ID)
}
