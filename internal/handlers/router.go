package handlers

import (
	"net/http"
	"strings"

	"eventease/internal/config"
	"eventease/internal/middleware"
	"eventease/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers bundles everything the router mounts
type Handlers struct {
	Auth         *AuthHandler
	Events       *EventHandler
	Organizer    *OrganizerEventHandler
	TicketTypes  *TicketTypeHandler
	Registration *RegistrationHandler
	Campaigns    *CampaignHandler
	Admin        *AdminHandler
}

// NewRouter builds the gin engine with all middleware and routes mounted
func NewRouter(cfg *config.Config, h *Handlers, authMW *middleware.AuthMiddleware, limiter *middleware.RateLimiter) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     strings.Split(cfg.Server.AllowedOrigins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))
	router.Use(limiter.Limit())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")

	// Public surface
	api.POST("/auth/signup", h.Auth.Signup)
	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/password-reset/request", h.Auth.RequestPasswordReset)
	api.POST("/auth/password-reset/confirm", h.Auth.ResetPassword)
	public := api.Group("", authMW.OptionalAuth())
	public.GET("/events", h.Events.Discover)
	public.GET("/events/:id", h.Events.Get)
	public.GET("/events/:id/ticket-types", h.Events.TicketTypes)

	// Authenticated surface
	authed := api.Group("", authMW.RequireAuth())
	authed.POST("/auth/logout", h.Auth.Logout)
	authed.GET("/me", h.Auth.Me)
	authed.POST("/me/password", h.Auth.ChangePassword)
	authed.POST("/registrations", h.Registration.Register)
	authed.GET("/registrations", h.Registration.List)
	authed.POST("/registrations/:id/cancel", h.Registration.Cancel)

	// Organizer surface
	organizer := api.Group("/organizer", authMW.RequireAuth(), authMW.RequireRole(models.RoleOrganizer))
	organizer.GET("/events", h.Organizer.List)
	organizer.POST("/events", h.Organizer.Create)
	organizer.PATCH("/events/:id", h.Organizer.Update)
	organizer.DELETE("/events/:id", h.Organizer.Delete)
	organizer.POST("/events/:id/publish", h.Organizer.Publish)
	organizer.GET("/events/:id/attendees", h.Organizer.Attendees)
	organizer.GET("/events/:id/attendees/export", h.Organizer.ExportAttendees)
	organizer.POST("/events/:id/attendees/:regID/check-in", h.Organizer.CheckIn)
	organizer.POST("/events/:id/ticket-types", h.TicketTypes.Create)
	organizer.PUT("/ticket-types/:ttID", h.TicketTypes.Update)
	organizer.DELETE("/ticket-types/:ttID", h.TicketTypes.Delete)
	organizer.POST("/events/:id/campaigns", h.Campaigns.Create)
	organizer.GET("/events/:id/campaigns", h.Campaigns.List)
	organizer.POST("/campaigns/:campaignID/send", h.Campaigns.Send)
	organizer.DELETE("/campaigns/:campaignID", h.Campaigns.Delete)

	// Admin surface
	admin := api.Group("/admin", authMW.RequireAuth(), authMW.RequireRole(models.RoleAdmin))
	admin.GET("/users", h.Admin.ListUsers)
	admin.PUT("/users/:id/role", h.Admin.ChangeRole)
	admin.PUT("/users/:id/plan", h.Admin.ChangePlan)
	admin.GET("/audit-log", h.Admin.AuditLog)
	admin.GET("/audit-log/export", h.Admin.ExportAuditLog)

	return router
}
