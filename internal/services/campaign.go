package services

import (
	"context"

	"eventease/internal/models"
)

// CampaignRepository is the data access surface the campaign service needs
type CampaignRepository interface {
	Create(c *models.MarketingCampaign) (*models.MarketingCampaign, error)
	GetByID(id int) (*models.MarketingCampaign, error)
	GetByEvent(eventID int) ([]*models.MarketingCampaign, error)
	MarkSent(id int, openRate, clickRate float64) (*models.MarketingCampaign, error)
	Delete(id int) error
}

// Placeholder engagement metrics stamped on send. There is no delivery
// pipeline behind campaigns; these stand in for a real analytics feed.
const (
	placeholderOpenRate  = 42.5
	placeholderClickRate = 12.3
)

// CampaignService manages marketing campaigns attached to events
type CampaignService struct {
	campaignRepo CampaignRepository
	eventRepo    EventRepository
}

// NewCampaignService creates a new campaign service
func NewCampaignService(campaignRepo CampaignRepository, eventRepo EventRepository) *CampaignService {
	return &CampaignService{campaignRepo: campaignRepo, eventRepo: eventRepo}
}

// CreateCampaign adds a draft campaign to an event the caller owns
func (s *CampaignService) CreateCampaign(ctx context.Context, organizerID int, c *models.MarketingCampaign) (*models.MarketingCampaign, error) {
	if err := s.requireOwnership(organizerID, c.EventID); err != nil {
		return nil, err
	}
	if c.Type == "" {
		c.Type = "email"
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	c.Status = models.CampaignDraft
	return s.campaignRepo.Create(c)
}

// CampaignsForEvent lists the campaigns of an event the caller owns
func (s *CampaignService) CampaignsForEvent(ctx context.Context, organizerID, eventID int) ([]*models.MarketingCampaign, error) {
	if err := s.requireOwnership(organizerID, eventID); err != nil {
		return nil, err
	}
	return s.campaignRepo.GetByEvent(eventID)
}

// SendCampaign marks a draft or scheduled campaign as sent and stamps the
// placeholder engagement metrics.
func (s *CampaignService) SendCampaign(ctx context.Context, organizerID, campaignID int) (*models.MarketingCampaign, error) {
	existing, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return nil, err
	}
	if err := s.requireOwnership(organizerID, existing.EventID); err != nil {
		return nil, err
	}
	if !existing.CanSend() {
		return nil, models.NewValidationError("status", "only draft or scheduled campaigns can be sent")
	}
	return s.campaignRepo.MarkSent(campaignID, placeholderOpenRate, placeholderClickRate)
}

// DeleteCampaign removes a campaign from an event the caller owns
func (s *CampaignService) DeleteCampaign(ctx context.Context, organizerID, campaignID int) error {
	existing, err := s.campaignRepo.GetByID(campaignID)
	if err != nil {
		return err
	}
	if err := s.requireOwnership(organizerID, existing.EventID); err != nil {
		return err
	}
	return s.campaignRepo.Delete(campaignID)
}

func (s *CampaignService) requireOwnership(organizerID, eventID int) error {
	event, err := s.eventRepo.GetByID(eventID)
	if err != nil {
		return err
	}
	if event.OrganizerID != organizerID {
		return models.ErrForbidden
	}
	return nil
}
