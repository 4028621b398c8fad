package models

import (
	"net/mail"
	"strings"
	"time"
)

// UserRole represents the role of a user in the system
type UserRole string

const (
	RoleAttendee  UserRole = "attendee"
	RoleOrganizer UserRole = "organizer"
	RoleAdmin     UserRole = "admin"
)

// PlanTier represents an organizer's subscription level
type PlanTier string

const (
	PlanFree PlanTier = "FREE"
	PlanPaid PlanTier = "PAID"
	PlanPro  PlanTier = "PRO"
)

// User represents a user account
type User struct {
	ID           int       `json:"id" db:"id"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Name         string    `json:"name" db:"name"`
	Role         UserRole  `json:"role" db:"role"`
	Plan         PlanTier  `json:"plan" db:"plan"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserCreateRequest represents the data needed to create a user
type UserCreateRequest struct {
	Email    string   `json:"email"`
	Password string   `json:"password"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// Validate validates user creation data
func (req *UserCreateRequest) Validate() error {
	if strings.TrimSpace(req.Email) == "" {
		return NewValidationError("email", "email is required")
	}
	if _, err := mail.ParseAddress(req.Email); err != nil {
		return NewValidationError("email", "invalid email address")
	}
	if len(req.Password) < 8 {
		return NewValidationError("password", "password must be at least 8 characters")
	}
	if strings.TrimSpace(req.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	switch req.Role {
	case RoleAttendee, RoleOrganizer:
	case "":
		return NewValidationError("role", "role is required")
	default:
		// Admin accounts are provisioned out of band, never via signup.
		return NewValidationError("role", "invalid role")
	}
	return nil
}

// IsOrganizer returns true if the user can create and manage events
func (u *User) IsOrganizer() bool {
	return u.Role == RoleOrganizer || u.Role == RoleAdmin
}

// IsAdmin returns true if the user has administrative privileges
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// ValidPlan reports whether p is a known plan tier.
func ValidPlan(p PlanTier) bool {
	switch p {
	case PlanFree, PlanPaid, PlanPro:
		return true
	}
	return false
}
