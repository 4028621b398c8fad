package models

import "time"

// AuditLogEntry records a security-relevant action for admin review
type AuditLogEntry struct {
	ID        int       `json:"id" db:"id"`
	ActorID   int       `json:"actor_id" db:"actor_id"`
	Action    string    `json:"action" db:"action"`
	Entity    string    `json:"entity" db:"entity"`
	EntityID  int       `json:"entity_id" db:"entity_id"`
	Details   string    `json:"details" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Audit actions recorded by the services
const (
	AuditEventCreated    = "event.created"
	AuditEventUpdated    = "event.updated"
	AuditEventPublished  = "event.published"
	AuditEventDeleted    = "event.deleted"
	AuditUserRoleChanged = "user.role_changed"
	AuditUserPlanChanged = "user.plan_changed"
	AuditLoginFailed     = "auth.login_failed"
	AuditLoginSucceeded  = "auth.login_succeeded"
	AuditLogout          = "auth.logout"

	AuditPasswordResetRequested = "auth.password_reset_requested"
	AuditPasswordReset          = "auth.password_reset"
)
