package middleware

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/idea-tracker/internal/constants"
	apierrors "github.com/yukikurage/idea-tracker/internal/errors"
)

// RequireIdeaID parses the :id route parameter. Malformed IDs are treated the
// same as missing ideas.
func RequireIdeaID() gin.HandlerFunc {
	return func(c *gin.Context) {
		ideaID, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil || ideaID == 0 {
			apierrors.RedirectWithError(c, "/ideas", "Idea not found")
			return
		}

		c.Set(constants.ContextKeyIdeaID, ideaID)
		c.Next()
	}
}

// GetIdeaID retrieves the idea ID parsed by RequireIdeaID
func GetIdeaID(c *gin.Context) (uint64, bool) {
	value, exists := c.Get(constants.ContextKeyIdeaID)
	if !exists {
		return 0, false
	}
	ideaID, ok := value.(uint64)
	return ideaID, ok
}
