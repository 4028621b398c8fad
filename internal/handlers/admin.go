package handlers

import (
	"net/http"
	"strconv"
	"time"

	"eventease/internal/middleware"
	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves user oversight and security log endpoints
type AdminHandler struct {
	adminService *services.AdminService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(adminService *services.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

// ListUsers handles GET /api/admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, err := h.adminService.ListUsers(c.Request.Context(), intQuery(c, "limit", 50), intQuery(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, page)
}

// ChangeRole handles PUT /api/admin/users/:id/role
func (h *AdminHandler) ChangeRole(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "invalid user id"))
		return
	}

	var req struct {
		Role models.UserRole `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	if err := h.adminService.ChangeRole(c.Request.Context(), middleware.UserID(c), userID, req.Role); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": true})
}

// ChangePlan handles PUT /api/admin/users/:id/plan
func (h *AdminHandler) ChangePlan(c *gin.Context) {
	userID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		respondError(c, models.NewValidationError("id", "invalid user id"))
		return
	}

	var req struct {
		Plan models.PlanTier `json:"plan"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, models.NewValidationError("", "invalid request body"))
		return
	}

	if err := h.adminService.ChangePlan(c.Request.Context(), middleware.UserID(c), userID, req.Plan); err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"updated": true})
}

// AuditLog handles GET /api/admin/audit-log
func (h *AdminHandler) AuditLog(c *gin.Context) {
	entries, err := h.adminService.AuditEntries(c.Request.Context(), intQuery(c, "limit", 100), intQuery(c, "offset", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, entries)
}

// ExportAuditLog handles GET /api/admin/audit-log/export, streaming the
// security log as a CSV attachment. An optional "since" query narrows
// the window; the default is the last 30 days.
func (h *AdminHandler) ExportAuditLog(c *gin.Context) {
	since := time.Now().AddDate(0, 0, -30)
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			respondError(c, models.NewValidationError("since", "invalid date, expected YYYY-MM-DD"))
			return
		}
		since = parsed
	}

	entries, err := h.adminService.AuditEntriesSince(c.Request.Context(), since)
	if err != nil {
		respondError(c, err)
		return
	}

	body, err := services.AuditLogCSV(entries)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="security-log.csv"`)
	c.Data(http.StatusOK, "text/csv", body)
}
