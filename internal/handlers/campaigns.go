package handlers

import (
	"net/http"
	"strconv"

	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

// CampaignHandler serves the organizer's marketing campaign endpoints
type CampaignHandler struct {
	campaignService *services.CampaignService
}

// NewCampaignHandler creates a new campaign handler
func NewCampaignHandler(campaignService *services.CampaignService) *CampaignHandler {
	return &CampaignHandler{campaignService: campaignService}
}

// Create handles POST /api/organizer/events/:id/campaigns
func (h *CampaignHandler) Create(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req struct {
		Name string `json:"name"`
		Type string `json:"type"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	campaign := &models.MarketingCampaign{
		EventID: eventID,
		Name:    req.Name,
		Type:    req.Type,
	}
	created, err := h.campaignService.CreateCampaign(c.Request.Context(), middleware.UserID(c), campaign)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// List handles GET /api/organizer/events/:id/campaigns
func (h *CampaignHandler) List(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	campaigns, err := h.campaignService.CampaignsForEvent(c.Request.Context(), middleware.UserID(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, campaigns)
}

// Send handles POST /api/organizer/campaigns/:campaignID/send
func (h *CampaignHandler) Send(c *gin.Context) {
	campaignID, err := strconv.Atoi(c.Param("campaignID"))
	if err != nil {
		respondError(c, models.NewValidationError("campaignID", "invalid campaign id"))
		return
	}

	sent, err := h.campaignService.SendCampaign(c.Request.Context(), middleware.UserID(c), campaignID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, sent)
}

// Delete handles DELETE /api/organizer/campaigns/:campaignID
func (h *CampaignHandler) Delete(c *gin.Context) {
	campaignID, err := strconv.Atoi(c.Param("campaignID"))
	if err != nil {
		respondError(c, models.NewValidationError("campaignID", "invalid campaign id"))
		return
	}

	if err := h.campaignService.DeleteCampaign(c.Request.Context(), middleware.UserID(c), campaignID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
