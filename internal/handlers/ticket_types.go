package handlers

import (
	"net/http"
	"strconv"
	"time"

	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// TicketTypeHandler serves the organizer's ticket type endpoints
type TicketTypeHandler struct {
	ticketService *services.TicketService
}

// NewTicketTypeHandler creates a new ticket type handler
func NewTicketTypeHandler(ticketService *services.TicketService) *TicketTypeHandler {
	return &TicketTypeHandler{ticketService: ticketService}
}

type ticketTypeRequest struct {
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`
	SaleStart time.Time       `json:"sale_start"`
	SaleEnd   *time.Time      `json:"sale_end"`
	Active    *bool           `json:"active"`
}

// Create handles POST /api/organizer/events/:id/ticket-types
func (h *TicketTypeHandler) Create(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	var req ticketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	tt := &models.TicketType{
		EventID:   eventID,
		Name:      req.Name,
		Price:     req.Price,
		Currency:  req.Currency,
		Quantity:  req.Quantity,
		SaleStart: req.SaleStart,
		SaleEnd:   req.SaleEnd,
		Active:    true,
	}
	if req.Active != nil {
		tt.Active = *req.Active
	}

	created, err := h.ticketService.CreateTicketType(c.Request.Context(), middleware.UserID(c), tt)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, created)
}

// Update handles PUT /api/organizer/ticket-types/:ttID
func (h *TicketTypeHandler) Update(c *gin.Context) {
	ttID, err := strconv.Atoi(c.Param("ttID"))
	if err != nil {
		respondError(c, models.NewValidationError("ttID", "invalid ticket type id"))
		return
	}

	var req ticketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	tt := &models.TicketType{
		ID:        ttID,
		Name:      req.Name,
		Price:     req.Price,
		Currency:  req.Currency,
		Quantity:  req.Quantity,
		SaleStart: req.SaleStart,
		SaleEnd:   req.SaleEnd,
		Active:    true,
	}
	if req.Active != nil {
		tt.Active = *req.Active
	}

	updated, err := h.ticketService.UpdateTicketType(c.Request.Context(), middleware.UserID(c), tt)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, updated)
}

// Delete handles DELETE /api/organizer/ticket-types/:ttID
func (h *TicketTypeHandler) Delete(c *gin.Context) {
	ttID, err := strconv.Atoi(c.Param("ttID"))
	if err != nil {
		respondError(c, models.NewValidationError("ttID", "invalid ticket type id"))
		return
	}

	if err := h.ticketService.DeleteTicketType(c.Request.Context(), middleware.UserID(c), ttID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}
