package services

import (
	"context"
	"log"
	"time"

	"eventease/internal/models"
)

// AdminUserRepository is the user access surface the admin service needs
type AdminUserRepository interface {
	GetByID(id int) (*models.User, error)
	List(limit, offset int) ([]*models.User, int, error)
	UpdateRole(id int, role models.UserRole) error
	UpdatePlan(id int, plan models.PlanTier) error
}

// AuditLogReader queries the audit log
type AuditLogReader interface {
	List(limit, offset int) ([]*models.AuditLogEntry, error)
	ListSince(since time.Time) ([]*models.AuditLogEntry, error)
}

// AdminService handles user oversight and the security log
type AdminService struct {
	userRepo AdminUserRepository
	auditLog AuditLogReader
	audit    AuditRecorder
}

// NewAdminService creates a new admin service
func NewAdminService(userRepo AdminUserRepository, auditLog AuditLogReader, audit AuditRecorder) *AdminService {
	return &AdminService{userRepo: userRepo, auditLog: auditLog, audit: audit}
}

// UserPage is a paginated user listing
type UserPage struct {
	Users  []*models.User `json:"users"`
	Total  int            `json:"total"`
	Limit  int            `json:"limit"`
	Offset int            `json:"offset"`
}

// ListUsers returns a page of user accounts
func (s *AdminService) ListUsers(ctx context.Context, limit, offset int) (*UserPage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	users, total, err := s.userRepo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	return &UserPage{Users: users, Total: total, Limit: limit, Offset: offset}, nil
}

// ChangeRole updates a user's role. Admins cannot demote themselves,
// which keeps at least one admin reachable.
func (s *AdminService) ChangeRole(ctx context.Context, adminID, userID int, role models.UserRole) error {
	switch role {
	case models.RoleAttendee, models.RoleOrganizer, models.RoleAdmin:
	default:
		return models.NewValidationError("role", "invalid role")
	}
	if adminID == userID && role != models.RoleAdmin {
		return models.NewValidationError("role", "cannot change your own admin role")
	}

	if err := s.userRepo.UpdateRole(userID, role); err != nil {
		return err
	}
	s.recordAudit(adminID, models.AuditUserRoleChanged, userID, string(role))
	return nil
}

// ChangePlan updates a user's plan tier
func (s *AdminService) ChangePlan(ctx context.Context, adminID, userID int, plan models.PlanTier) error {
	if !models.ValidPlan(plan) {
		return models.NewValidationError("plan", "invalid plan tier")
	}
	if err := s.userRepo.UpdatePlan(userID, plan); err != nil {
		return err
	}
	s.recordAudit(adminID, models.AuditUserPlanChanged, userID, string(plan))
	return nil
}

// AuditEntries returns a page of the security log, newest first
func (s *AdminService) AuditEntries(ctx context.Context, limit, offset int) ([]*models.AuditLogEntry, error) {
	return s.auditLog.List(limit, offset)
}

// AuditEntriesSince returns log entries recorded at or after since, for
// the CSV export.
func (s *AdminService) AuditEntriesSince(ctx context.Context, since time.Time) ([]*models.AuditLogEntry, error) {
	return s.auditLog.ListSince(since)
}

func (s *AdminService) recordAudit(actorID int, action string, entityID int, details string) {
	if err := s.audit.Record(actorID, action, "user", entityID, details); err != nil {
		log.Printf("failed to record audit entry %s: %v", action, err)
	}
}
