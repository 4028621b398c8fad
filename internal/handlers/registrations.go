package handlers

import (
	"net/http"
	"strconv"

	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

// RegistrationHandler serves attendee registration endpoints
type RegistrationHandler struct {
	registrationService *services.RegistrationService
}

// NewRegistrationHandler creates a new registration handler
func NewRegistrationHandler(registrationService *services.RegistrationService) *RegistrationHandler {
	return &RegistrationHandler{registrationService: registrationService}
}

// Register handles POST /api/registrations
func (h *RegistrationHandler) Register(c *gin.Context) {
	var req struct {
		EventID      int  `json:"event_id"`
		TicketTypeID *int `json:"ticket_type_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	reg, err := h.registrationService.Register(c.Request.Context(), middleware.UserID(c), req.EventID, req.TicketTypeID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, reg)
}

// List handles GET /api/registrations
func (h *RegistrationHandler) List(c *gin.Context) {
	regs, err := h.registrationService.MyRegistrations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, regs)
}

// Cancel handles POST /api/registrations/:id/cancel
func (h *RegistrationHandler) Cancel(c *gin.Context) {
	regID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "invalid registration id"))
		return
	}

	result, err := h.registrationService.CancelRegistration(c.Request.Context(), middleware.UserID(c), regID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}
