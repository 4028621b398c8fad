package models

import (
	"errors"
	"fmt"
)

// Common errors used throughout the application
var (
	ErrNotAuthenticated     = errors.New("not authenticated")
	ErrForbidden            = errors.New("forbidden")
	ErrEventNotFound        = errors.New("event not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrTicketTypeNotFound   = errors.New("ticket type not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrCampaignNotFound     = errors.New("campaign not found")
	ErrDuplicateEntry       = errors.New("duplicate entry")
	ErrSoldOut              = errors.New("ticket type is sold out")
)

// ValidationError describes a rejected field in a request payload.
// Services return it for every expected bad-input case so handlers can
// distinguish caller mistakes from backend failures.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for a field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// UpgradeRequiredError signals that an operation is blocked by the
// organizer's plan tier rather than by invalid input. Handlers surface it
// separately so the client can show an upgrade prompt instead of a field
// error.
type UpgradeRequiredError struct {
	Plan   PlanTier
	Reason string
}

func (e *UpgradeRequiredError) Error() string {
	return fmt.Sprintf("upgrade required: %s", e.Reason)
}

// IsUpgradeRequired reports whether err is (or wraps) an UpgradeRequiredError.
func IsUpgradeRequired(err error) bool {
	var ue *UpgradeRequiredError
	return errors.As(err, &ue)
}
