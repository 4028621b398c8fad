package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func validTicketType() *TicketType {
	return &TicketType{
		EventID:   1,
		Name:      "General Admission",
		Price:     decimal.NewFromInt(25),
		Currency:  "USD",
		Quantity:  100,
		SaleStart: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Active:    true,
	}
}

func TestTicketTypeValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*TicketType)
		wantField string
	}{
		{"valid", func(tt *TicketType) {}, ""},
		{"free ticket is valid", func(tt *TicketType) { tt.Price = decimal.Zero }, ""},
		{"missing name", func(tt *TicketType) { tt.Name = "" }, "name"},
		{"negative price", func(tt *TicketType) { tt.Price = decimal.NewFromInt(-1) }, "price"},
		{"bad currency", func(tt *TicketType) { tt.Currency = "US" }, "currency"},
		{"zero quantity", func(tt *TicketType) { tt.Quantity = 0 }, "quantity"},
		{"missing sale start", func(tt *TicketType) { tt.SaleStart = time.Time{} }, "sale_start"},
		{"sale end before start", func(tt *TicketType) {
			end := tt.SaleStart.Add(-time.Hour)
			tt.SaleEnd = &end
		}, "sale_end"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := validTicketType()
			tc.mutate(tt)

			err := tt.Validate()
			if tc.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}
			ve, ok := err.(*ValidationError)
			if !ok {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if ve.Field != tc.wantField {
				t.Errorf("field = %q, want %q", ve.Field, tc.wantField)
			}
		})
	}
}

func TestTicketTypeOnSale(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name   string
		mutate func(*TicketType)
		want   bool
	}{
		{"on sale", func(tt *TicketType) {}, true},
		{"inactive", func(tt *TicketType) { tt.Active = false }, false},
		{"sold out", func(tt *TicketType) { tt.Sold = tt.Quantity }, false},
		{"before sale start", func(tt *TicketType) { tt.SaleStart = now.Add(time.Hour) }, false},
		{"after sale end", func(tt *TicketType) {
			end := now.Add(-time.Minute)
			tt.SaleEnd = &end
		}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tt := validTicketType()
			tc.mutate(tt)
			if got := tt.OnSale(now); got != tc.want {
				t.Errorf("OnSale() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestTicketTypeRemaining(t *testing.T) {
	tt := validTicketType()
	tt.Quantity = 100
	tt.Sold = 37
	if got := tt.Remaining(); got != 63 {
		t.Errorf("Remaining() = %d, want 63", got)
	}
}
