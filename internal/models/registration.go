package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// RegistrationStatus represents the state of a registration
type RegistrationStatus string

const (
	RegistrationConfirmed RegistrationStatus = "confirmed"
	RegistrationCancelled RegistrationStatus = "cancelled"
)

// CheckInStatus represents an attendee's check-in state
type CheckInStatus string

const (
	CheckInPending CheckInStatus = "pending"
	CheckedIn      CheckInStatus = "checked_in"
	CheckInNoShow  CheckInStatus = "no_show"
)

// PaymentStatus represents the payment state of a registration
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentRefunded  PaymentStatus = "refunded"
)

// refundRate is the fixed cancellation refund policy: attendees get 90%
// of the paid amount back.
var refundRate = decimal.NewFromFloat(0.9)

// Registration links a user to an event, optionally through a ticket type
type Registration struct {
	ID               int                `json:"id" db:"id"`
	UserID           int                `json:"user_id" db:"user_id"`
	EventID          int                `json:"event_id" db:"event_id"`
	TicketTypeID     *int               `json:"ticket_type_id,omitempty" db:"ticket_type_id"`
	ConfirmationCode string             `json:"confirmation_code" db:"confirmation_code"`
	Status           RegistrationStatus `json:"status" db:"status"`
	CheckIn          CheckInStatus      `json:"check_in_status" db:"check_in_status"`
	PaymentStatus    PaymentStatus      `json:"payment_status" db:"payment_status"`
	PaymentAmount    decimal.Decimal    `json:"payment_amount" db:"payment_amount"`
	RefundAmount     decimal.Decimal    `json:"refund_amount" db:"refund_amount"`
	RegisteredAt     time.Time          `json:"registered_at" db:"registered_at"`
	CancelledAt      *time.Time         `json:"cancelled_at,omitempty" db:"cancelled_at"`
}

// RefundForAmount computes the refund owed when a registration is
// cancelled, rounded to two decimal places.
func RefundForAmount(paid decimal.Decimal) decimal.Decimal {
	return paid.Mul(refundRate).Round(2)
}

// IsCancelled returns true if the registration has been cancelled
func (r *Registration) IsCancelled() bool {
	return r.Status == RegistrationCancelled
}

// ValidCheckInStatus reports whether s is a known check-in status.
func ValidCheckInStatus(s CheckInStatus) bool {
	switch s {
	case CheckInPending, CheckedIn, CheckInNoShow:
		return true
	}
	return false
}
