package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TicketType represents a priced admission category belonging to one event
type TicketType struct {
	ID        int             `json:"id" db:"id"`
	EventID   int             `json:"event_id" db:"event_id"`
	Name      string          `json:"name" db:"name"`
	Price     decimal.Decimal `json:"price" db:"price"`
	Currency  string          `json:"currency" db:"currency"`
	Quantity  int             `json:"quantity" db:"quantity"`
	Sold      int             `json:"sold" db:"sold"`
	SaleStart time.Time       `json:"sale_start" db:"sale_start"`
	SaleEnd   *time.Time      `json:"sale_end,omitempty" db:"sale_end"`
	Active    bool            `json:"active" db:"active"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
}

// Validate validates the ticket type data
func (tt *TicketType) Validate() error {
	if strings.TrimSpace(tt.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if len(tt.Name) > 100 {
		return NewValidationError("name", "name must be less than 100 characters")
	}
	if tt.Price.IsNegative() {
		return NewValidationError("price", "price cannot be negative")
	}
	if len(tt.Currency) != 3 {
		return NewValidationError("currency", "currency must be a 3-letter code")
	}
	if tt.Quantity < 1 {
		return NewValidationError("quantity", "quantity must be at least 1")
	}
	if tt.SaleStart.IsZero() {
		return NewValidationError("sale_start", "sale start is required")
	}
	if tt.SaleEnd != nil && !tt.SaleEnd.After(tt.SaleStart) {
		return NewValidationError("sale_end", "sale end must be after sale start")
	}
	return nil
}

// IsFree returns true if the ticket type costs nothing
func (tt *TicketType) IsFree() bool {
	return tt.Price.IsZero()
}

// Remaining returns the number of unsold tickets
func (tt *TicketType) Remaining() int {
	return tt.Quantity - tt.Sold
}

// OnSale reports whether the ticket type is currently purchasable.
func (tt *TicketType) OnSale(now time.Time) bool {
	if !tt.Active || tt.Remaining() <= 0 {
		return false
	}
	if now.Before(tt.SaleStart) {
		return false
	}
	if tt.SaleEnd != nil && now.After(*tt.SaleEnd) {
		return false
	}
	return true
}
