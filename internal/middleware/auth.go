package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kaosekai/companion-api/internal/constants"
	apierrors "github.com/kaosekai/companion-api/internal/errors"
	"github.com/kaosekai/companion-api/internal/models"
	"github.com/kaosekai/companion-api/internal/services"
)

// RequireAuth authenticates the bearer token and stashes the identity and
// token hash in the request context.
func RequireAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		bearerToken := strings.TrimSpace(header[len("Bearer "):])
		if bearerToken == "" {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		user, tokenHash, err := authService.Authenticate(bearerToken)
		if err != nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, user.ID)
		c.Set(constants.ContextKeyUser, *user)
		c.Set(constants.ContextKeyTokenHash, tokenHash)
		c.Next()
	}
}

// RequireRole allows the request through only when the authenticated user
// holds one of the given roles.
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, exists := GetUser(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		for _, role := range roles {
			if user.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "")
		c.Abort()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	id, ok := value.(uint64)
	if !ok {
		return 0, false
	}
	return id, true
}

// GetUser retrieves the authenticated user from context
func GetUser(c *gin.Context) (models.User, bool) {
	value, exists := c.Get(constants.ContextKeyUser)
	if !exists {
		return models.User{}, false
	}

	user, ok := value.(models.User)
	if !ok {
		return models.User{}, false
	}
	return user, true
}

// GetTokenHash retrieves the hash of the token used on this request
func GetTokenHash(c *gin.Context) (string, bool) {
	value, exists := c.Get(constants.ContextKeyTokenHash)
	if !exists {
		return "", false
	}

	hash, ok := value.(string)
	if !ok {
		return "", false
	}
	return hash, true
}
