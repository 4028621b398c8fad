package handlers

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"eventease/internal/cache"
	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/repositories"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

// EventHandler serves the public discovery and event detail endpoints
type EventHandler struct {
	eventService  *services.EventService
	ticketService *services.TicketService
	cache         *cache.DiscoveryCache
}

// NewEventHandler creates a new public event handler. The cache may be
// nil when Redis is not configured.
func NewEventHandler(eventService *services.EventService, ticketService *services.TicketService, discoveryCache *cache.DiscoveryCache) *EventHandler {
	return &EventHandler{
		eventService:  eventService,
		ticketService: ticketService,
		cache:         discoveryCache,
	}
}

// Discover handles GET /api/events
func (h *EventHandler) Discover(c *gin.Context) {
	query := c.Query("q")
	category := c.Query("category")
	includePast := c.Query("include_past") == "true"
	limit := intQuery(c, "limit", 20)
	offset := intQuery(c, "offset", 0)

	key := cache.Key(query, category, includePast, limit, offset)
	if h.cache != nil {
		var page services.EventPage
		if hit, err := h.cache.Get(c.Request.Context(), key, &page); err == nil && hit {
			respondOK(c, http.StatusOK, &page)
			return
		}
	}

	now := time.Now()
	filters := repositories.EventSearchFilters{
		Query:    query,
		Category: category,
		After:    &now,
		Limit:    limit,
		Offset:   offset,
	}
	if includePast {
		filters.After = nil
	}

	page, err := h.eventService.Discover(c.Request.Context(), filters)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, page); err != nil {
			log.Printf("failed to cache discovery page: %v", err)
		}
	}
	respondOK(c, http.StatusOK, page)
}

// Get handles GET /api/events/:id
func (h *EventHandler) Get(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "invalid event id"))
		return
	}

	event, err := h.eventService.GetEvent(c.Request.Context(), middleware.UserID(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, event)
}

// TicketTypes handles GET /api/events/:id/ticket-types
func (h *EventHandler) TicketTypes(c *gin.Context) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "invalid event id"))
		return
	}

	ticketTypes, err := h.ticketService.TicketTypesForEvent(c.Request.Context(), middleware.UserID(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, ticketTypes)
}

func intQuery(c *gin.Context, name string, fallback int) int {
	if raw := c.Query(name); raw != "" {
		if value, err := strconv.Atoi(raw); err == nil && value >= 0 {
			return value
		}
	}
	return fallback
}
