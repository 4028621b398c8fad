package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"eventease/internal/models"
)

// AttendeesCSV renders an event's registrations as a CSV attachment body.
func AttendeesCSV(regs []*models.Registration) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"registration_id", "user_id", "ticket_type_id", "confirmation_code", "status", "check_in_status", "payment_status", "payment_amount", "registered_at"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, reg := range regs {
		ticketType := ""
		if reg.TicketTypeID != nil {
			ticketType = strconv.Itoa(*reg.TicketTypeID)
		}
		record := []string{
			strconv.Itoa(reg.ID),
			strconv.Itoa(reg.UserID),
			ticketType,
			reg.ConfirmationCode,
			string(reg.Status),
			string(reg.CheckIn),
			string(reg.PaymentStatus),
			reg.PaymentAmount.StringFixed(2),
			reg.RegisteredAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

// AuditLogCSV renders audit entries as a CSV attachment body for the
// admin security-log export.
func AuditLogCSV(entries []*models.AuditLogEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"id", "actor_id", "action", "entity", "entity_id", "details", "created_at"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}

	for _, entry := range entries {
		record := []string{
			strconv.Itoa(entry.ID),
			strconv.Itoa(entry.ActorID),
			entry.Action,
			entry.Entity,
			strconv.Itoa(entry.EntityID),
			entry.Details,
			entry.CreatedAt.UTC().Format("2006-01-02 15:04:05"),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
