package handlers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

// OrganizerEventHandler serves the organizer's event management endpoints
type OrganizerEventHandler struct {
	eventService        *services.EventService
	registrationService *services.RegistrationService
}

// NewOrganizerEventHandler creates a new organizer event handler
func NewOrganizerEventHandler(eventService *services.EventService, registrationService *services.RegistrationService) *OrganizerEventHandler {
	return &OrganizerEventHandler{
		eventService:        eventService,
		registrationService: registrationService,
	}
}

// List handles GET /api/organizer/events
func (h *OrganizerEventHandler) List(c *gin.Context) {
	events, err := h.eventService.MyEvents(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, events)
}

// Create handles POST /api/organizer/events. The request is either JSON
// or, when an image is attached, multipart form data.
func (h *OrganizerEventHandler) Create(c *gin.Context) {
	form, err := h.bindCreateForm(c)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.eventService.CreateEvent(c.Request.Context(), middleware.UserID(c), form)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, event)
}

// Update handles PATCH /api/organizer/events/:id
func (h *OrganizerEventHandler) Update(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	form, err := h.bindPatchForm(c)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.eventService.UpdateEvent(c.Request.Context(), middleware.UserID(c), eventID, form)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, event)
}

// Publish handles POST /api/organizer/events/:id/publish
func (h *OrganizerEventHandler) Publish(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	event, err := h.eventService.PublishEvent(c.Request.Context(), middleware.UserID(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, event)
}

// Delete handles DELETE /api/organizer/events/:id
func (h *OrganizerEventHandler) Delete(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.eventService.DeleteEvent(c.Request.Context(), middleware.UserID(c), eventID); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"deleted": true})
}

// Attendees handles GET /api/organizer/events/:id/attendees
func (h *OrganizerEventHandler) Attendees(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	regs, err := h.registrationService.AttendeesForEvent(c.Request.Context(), middleware.UserID(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, regs)
}

// ExportAttendees handles GET /api/organizer/events/:id/attendees/export,
// streaming the attendee list as a CSV attachment.
func (h *OrganizerEventHandler) ExportAttendees(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}

	regs, err := h.registrationService.AttendeesForEvent(c.Request.Context(), middleware.UserID(c), eventID)
	if err != nil {
		respondError(c, err)
		return
	}

	body, err := services.AttendeesCSV(regs)
	if err != nil {
		respondError(c, err)
		return
	}

	filename := fmt.Sprintf("attendees-event-%d.csv", eventID)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv", body)
}

// CheckIn handles POST /api/organizer/events/:id/attendees/:regID/check-in
func (h *OrganizerEventHandler) CheckIn(c *gin.Context) {
	eventID, err := eventIDParam(c)
	if err != nil {
		respondError(c, err)
		return
	}
	regID, err := strconv.Atoi(c.Param("regID"))
	if err != nil {
		respondError(c, models.NewValidationError("regID", "invalid registration id"))
		return
	}

	var req struct {
		Status models.CheckInStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	if err := h.registrationService.CheckIn(c.Request.Context(), middleware.UserID(c), eventID, regID, req.Status); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": true})
}

func (h *OrganizerEventHandler) bindCreateForm(c *gin.Context) (*services.EventForm, error) {
	if !isMultipart(c) {
		form := &services.EventForm{}
		if err := c.ShouldBindJSON(form); err != nil {
			return nil, models.NewValidationError("", "invalid request body")
		}
		return form, nil
	}

	capacity, err := capacityField(c.PostForm("capacity"))
	if err != nil {
		return nil, err
	}
	form := &services.EventForm{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		Category:    c.PostForm("category"),
		EventDate:   c.PostForm("event_date"),
		StartTime:   c.PostForm("start_time"),
		EndTime:     c.PostForm("end_time"),
		Venue:       c.PostForm("venue"),
		VirtualLink: c.PostForm("virtual_link"),
		Capacity:    capacity,
		Visibility:  models.EventVisibility(c.PostForm("visibility")),
	}

	upload, err := imageField(c)
	if err != nil {
		return nil, err
	}
	form.Image = upload
	return form, nil
}

func (h *OrganizerEventHandler) bindPatchForm(c *gin.Context) (*services.EventPatchForm, error) {
	if !isMultipart(c) {
		form := &services.EventPatchForm{}
		if err := c.ShouldBindJSON(form); err != nil {
			return nil, models.NewValidationError("", "invalid request body")
		}
		return form, nil
	}

	form := &services.EventPatchForm{}
	set := func(name string, dst **string) {
		if value, ok := c.GetPostForm(name); ok {
			*dst = &value
		}
	}
	set("title", &form.Title)
	set("description", &form.Description)
	set("category", &form.Category)
	set("event_date", &form.EventDate)
	set("start_time", &form.StartTime)
	set("end_time", &form.EndTime)
	set("venue", &form.Venue)
	set("virtual_link", &form.VirtualLink)

	if raw, ok := c.GetPostForm("capacity"); ok {
		capacity, err := capacityField(raw)
		if err != nil {
			return nil, err
		}
		form.Capacity = &capacity
	}
	if raw, ok := c.GetPostForm("visibility"); ok {
		visibility := models.EventVisibility(raw)
		form.Visibility = &visibility
	}

	upload, err := imageField(c)
	if err != nil {
		return nil, err
	}
	form.Image = upload
	return form, nil
}

// imageField extracts the optional image upload from a multipart request.
// The file is opened here; validation of type and size happens in the
// service before any storage call.
func imageField(c *gin.Context) (*services.ImageUpload, error) {
	header, err := c.FormFile("image")
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, models.NewValidationError("image", "invalid image upload")
	}

	file, err := header.Open()
	if err != nil {
		return nil, models.NewValidationError("image", "failed to read image upload")
	}
	return &services.ImageUpload{
		Reader:      file,
		ContentType: contentTypeOf(header),
		Size:        header.Size,
	}, nil
}

func contentTypeOf(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}

func isMultipart(c *gin.Context) bool {
	return strings.HasPrefix(c.ContentType(), "multipart/form-data")
}

func capacityField(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	capacity, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.NewValidationError("capacity", "capacity must be a number")
	}
	return capacity, nil
}

func eventIDParam(c *gin.Context) (int, error) {
	eventID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, models.NewValidationError("id", "invalid event id")
	}
	return eventID, nil
}
