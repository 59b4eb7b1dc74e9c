package middleware

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/idea-tracker/internal/constants"
	apierrors "github.com/yukikurage/idea-tracker/internal/errors"
)

// RequireAuth checks if the user is authenticated via session and sends
// anonymous visitors to the login page
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.RedirectWithError(c, "/login", "Please log in to continue")
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// RedirectIfAuthenticated skips the login and register pages for users who
// already hold a session
func RedirectIfAuthenticated(location string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessions.Default(c).Get(constants.ContextKeyUserID) != nil {
			c.Redirect(http.StatusFound, location)
			c.Abort()
			return
		}
		c.Next()
	}
}

// LoadUser copies the session user ID into the context without requiring it
func LoadUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := sessions.Default(c).Get(constants.ContextKeyUserID); userID != nil {
			c.Set(constants.ContextKeyUserID, userID)
		}
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	case int64:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
