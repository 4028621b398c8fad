package middleware

import (
	"net/http"
	"strings"

	"eventease/internal/models"
	"eventease/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	// ContextUserID is the gin context key holding the authenticated
	// user's id.
	ContextUserID = "user_id"
	// ContextUserRole is the gin context key holding the authenticated
	// user's role.
	ContextUserRole = "user_role"
)

// AuthMiddleware authenticates requests with JWT bearer tokens
type AuthMiddleware struct {
	authService *services.AuthService
}

// NewAuthMiddleware creates a new authentication middleware
func NewAuthMiddleware(authService *services.AuthService) *AuthMiddleware {
	return &AuthMiddleware{authService: authService}
}

// RequireAuth rejects requests without a valid bearer token
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   models.ErrNotAuthenticated.Error(),
			})
			return
		}

		claims, err := m.authService.VerifyToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   models.ErrNotAuthenticated.Error(),
			})
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth loads the user from a bearer token when one is present
// but lets anonymous requests through. Public endpoints use it so owners
// can see their own unpublished resources.
func (m *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
			if claims, err := m.authService.VerifyToken(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextUserRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRole rejects authenticated requests whose role is not in the
// allowed set. Admin passes every role check.
func (m *AuthMiddleware) RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ContextUserRole)
		if !exists {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"success": false,
				"error":   models.ErrNotAuthenticated.Error(),
			})
			return
		}

		current, _ := role.(models.UserRole)
		if current == models.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if current == allowed {
				c.Next()
				return
			}
		}

		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"success": false,
			"error":   models.ErrForbidden.Error(),
		})
	}
}

// UserID returns the authenticated user's id from the gin context.
func UserID(c *gin.Context) int {
	id, _ := c.Get(ContextUserID)
	userID, _ := id.(int)
	return userID
}
