package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"eventease/internal/models"
)

// CampaignRepository handles marketing campaign data operations
type CampaignRepository struct {
	db *sql.DB
}

// NewCampaignRepository creates a new campaign repository
func NewCampaignRepository(db *sql.DB) *CampaignRepository {
	return &CampaignRepository{db: db}
}

const campaignColumns = "id, event_id, name, type, status, open_rate, click_rate, created_at, sent_at"

func scanCampaign(row interface{ Scan(...any) error }) (*models.MarketingCampaign, error) {
	c := &models.MarketingCampaign{}
	var sentAt sql.NullTime
	err := row.Scan(
		&c.ID,
		&c.EventID,
		&c.Name,
		&c.Type,
		&c.Status,
		&c.OpenRate,
		&c.ClickRate,
		&c.CreatedAt,
		&sentAt,
	)
	if err != nil {
		return nil, err
	}
	if sentAt.Valid {
		t := sentAt.Time
		c.SentAt = &t
	}
	return c, nil
}

// Create inserts a new campaign in draft status
func (r *CampaignRepository) Create(c *models.MarketingCampaign) (*models.MarketingCampaign, error) {
	query := `
		INSERT INTO marketing_campaigns (event_id, name, type, status, open_rate, click_rate, created_at)
		VALUES ($1, $2, $3, $4, 0, 0, $5)
		RETURNING ` + campaignColumns

	status := c.Status
	if status == "" {
		status = models.CampaignDraft
	}

	created, err := scanCampaign(r.db.QueryRow(query, c.EventID, c.Name, c.Type, status, time.Now()))
	if err != nil {
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}
	return created, nil
}

// GetByID retrieves a campaign by ID
func (r *CampaignRepository) GetByID(id int) (*models.MarketingCampaign, error) {
	c, err := scanCampaign(r.db.QueryRow("SELECT "+campaignColumns+" FROM marketing_campaigns WHERE id = $1", id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to get campaign: %w", err)
	}
	return c, nil
}

// GetByEvent retrieves all campaigns for an event, newest first
func (r *CampaignRepository) GetByEvent(eventID int) ([]*models.MarketingCampaign, error) {
	rows, err := r.db.Query(
		"SELECT "+campaignColumns+" FROM marketing_campaigns WHERE event_id = $1 ORDER BY created_at DESC",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get campaigns by event: %w", err)
	}
	defer rows.Close()

	var campaigns []*models.MarketingCampaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan campaign: %w", err)
		}
		campaigns = append(campaigns, c)
	}
	return campaigns, rows.Err()
}

// MarkSent flips a campaign to sent and stamps the placeholder engagement
// metrics.
func (r *CampaignRepository) MarkSent(id int, openRate, clickRate float64) (*models.MarketingCampaign, error) {
	query := `
		UPDATE marketing_campaigns
		SET status = $1, open_rate = $2, click_rate = $3, sent_at = $4
		WHERE id = $5 AND status IN ($6, $7)
		RETURNING ` + campaignColumns

	c, err := scanCampaign(r.db.QueryRow(
		query,
		models.CampaignSent,
		openRate,
		clickRate,
		time.Now(),
		id,
		models.CampaignDraft,
		models.CampaignScheduled,
	))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.ErrCampaignNotFound
		}
		return nil, fmt.Errorf("failed to mark campaign sent: %w", err)
	}
	return c, nil
}

// Delete removes a campaign
func (r *CampaignRepository) Delete(id int) error {
	result, err := r.db.Exec("DELETE FROM marketing_campaigns WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete campaign: %w", err)
	}
	return checkAffected(result, models.ErrCampaignNotFound)
}
