package handlers

import (
	"errors"
	"log"
	"net/http"

	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

// Response is the uniform result envelope every endpoint returns. Exactly
// one of Data and Error is set.
type Response struct {
	Success         bool   `json:"success"`
	Data            any    `json:"data,omitempty"`
	Error           string `json:"error,omitempty"`
	UpgradeRequired bool   `json:"upgrade_required,omitempty"`
}

// respondOK writes a success envelope
func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, Response{Success: true, Data: data})
}

// respondError translates a service error into the envelope. Expected
// failure modes map to specific status codes; anything else is a 500 with
// a generic message.
func respondError(c *gin.Context, err error) {
	var ve *models.ValidationError
	var ue *models.UpgradeRequiredError

	switch {
	case errors.As(err, &ue):
		c.JSON(http.StatusPaymentRequired, Response{Error: ue.Error(), UpgradeRequired: true})
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, Response{Error: ve.Error()})
	case errors.Is(err, models.ErrNotAuthenticated), errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, Response{Error: err.Error()})
	case errors.Is(err, models.ErrForbidden):
		c.JSON(http.StatusForbidden, Response{Error: err.Error()})
	case errors.Is(err, models.ErrEventNotFound),
		errors.Is(err, models.ErrUserNotFound),
		errors.Is(err, models.ErrTicketTypeNotFound),
		errors.Is(err, models.ErrRegistrationNotFound),
		errors.Is(err, models.ErrCampaignNotFound):
		c.JSON(http.StatusNotFound, Response{Error: err.Error()})
	case errors.Is(err, models.ErrSoldOut):
		c.JSON(http.StatusConflict, Response{Error: err.Error()})
	default:
		log.Printf("internal error on %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, Response{Error: "something went wrong"})
	}
}
