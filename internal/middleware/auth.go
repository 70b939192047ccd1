package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"sehat-sathi-server/internal/models"
	"sehat-sathi-server/internal/session"
	"sehat-sathi-server/internal/utils"
)

const sessionKey = "session"

// AuthMiddleware resolves the bearer token to a live session.
func AuthMiddleware(sessions *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "not authenticated")
			c.Abort()
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			utils.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		s, err := sessions.Resolve(c.Request.Context(), parts[1])
		if err != nil {
			if errors.Is(err, session.ErrNoSession) {
				utils.Unauthorized(c, "not authenticated")
			} else {
				utils.Unauthorized(c, "Invalid token: "+err.Error())
			}
			c.Abort()
			return
		}

		// Set session information in context for downstream handlers
		c.Set(sessionKey, s)
		c.Set("userID", s.UserID)
		c.Set("userType", s.User.UserType)

		c.Next()
	}
}

// RoleAuthMiddleware restricts a route to the given user types.
// It should be used *after* AuthMiddleware.
func RoleAuthMiddleware(allowed ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType, ok := GetUserTypeFromContext(c)
		if !ok {
			utils.InternalServerError(c, "User type not found in context. AuthMiddleware might be missing.")
			c.Abort()
			return
		}

		for _, t := range allowed {
			if userType == t {
				c.Next()
				return
			}
		}

		utils.Forbidden(c, "You do not have permission to access this resource.")
		c.Abort()
	}
}

// SessionFrom returns the session injected by AuthMiddleware.
func SessionFrom(c *gin.Context) (*session.Session, bool) {
	v, exists := c.Get(sessionKey)
	if !exists {
		return nil, false
	}
	s, ok := v.(*session.Session)
	return s, ok
}

// Helper function to get user ID from context
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		return "", false
	}
	idStr, ok := userID.(string)
	return idStr, ok
}

// Helper function to get user type from context
func GetUserTypeFromContext(c *gin.Context) (models.UserType, bool) {
	v, exists := c.Get("userType")
	if !exists {
		return "", false
	}
	t, ok := v.(models.UserType)
	return t, ok
}
