package handlers

import (
	"log"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/yukikurage/idea-tracker/internal/dto"
	apierrors "github.com/yukikurage/idea-tracker/internal/errors"
	"github.com/yukikurage/idea-tracker/internal/middleware"
	"github.com/yukikurage/idea-tracker/internal/services"
)

// Flashes are the one-shot messages shown at the top of a page
type Flashes struct {
	Errors    []string
	Successes []string
}

// Renderer renders HTML pages with the data the shared layout needs.
type Renderer struct {
	authService *services.AuthService
	canSuggest  bool
}

// NewRenderer creates a new Renderer.
func NewRenderer(authService *services.AuthService, canSuggest bool) *Renderer {
	return &Renderer{
		authService: authService,
		canSuggest:  canSuggest,
	}
}

// HTML renders the named template. Pending flash messages are consumed.
func (r *Renderer) HTML(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}

	session := sessions.Default(c)
	data["Flashes"] = Flashes{
		Errors:    flashStrings(session.Flashes(apierrors.FlashError)),
		Successes: flashStrings(session.Flashes(apierrors.FlashSuccess)),
	}
	if err := session.Save(); err != nil {
		log.Printf("failed to save session: %v", err)
	}

	data["CSRFField"] = csrf.TemplateField(c.Request)
	data["CanSuggest"] = r.canSuggest

	if userID, ok := middleware.GetUserID(c); ok {
		if user, err := r.authService.GetUser(c.Request.Context(), userID); err == nil {
			userDTO := dto.ToUserDTO(*user)
			data["User"] = &userDTO
		}
	}

	c.HTML(status, name, data)
}

func flashStrings(values []interface{}) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
