package models

import (
	"strings"
	"time"
)

// CampaignStatus represents the state of a marketing campaign
type CampaignStatus string

const (
	CampaignDraft     CampaignStatus = "draft"
	CampaignScheduled CampaignStatus = "scheduled"
	CampaignSent      CampaignStatus = "sent"
	CampaignCancelled CampaignStatus = "cancelled"
)

// MarketingCampaign represents an email campaign attached to an event.
// Engagement metrics are placeholders; there is no real delivery pipeline.
type MarketingCampaign struct {
	ID        int            `json:"id" db:"id"`
	EventID   int            `json:"event_id" db:"event_id"`
	Name      string         `json:"name" db:"name"`
	Type      string         `json:"type" db:"type"`
	Status    CampaignStatus `json:"status" db:"status"`
	OpenRate  float64        `json:"open_rate" db:"open_rate"`
	ClickRate float64        `json:"click_rate" db:"click_rate"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	SentAt    *time.Time     `json:"sent_at,omitempty" db:"sent_at"`
}

// Validate validates the campaign data
func (c *MarketingCampaign) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return NewValidationError("name", "name is required")
	}
	if len(c.Name) > 150 {
		return NewValidationError("name", "name must be less than 150 characters")
	}
	switch c.Type {
	case "email", "social", "announcement":
	default:
		return NewValidationError("type", "invalid campaign type")
	}
	return nil
}

// CanSend reports whether the campaign may transition to sent.
func (c *MarketingCampaign) CanSend() bool {
	return c.Status == CampaignDraft || c.Status == CampaignScheduled
}
