package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/idea-tracker/internal/constants"
	apierrors "github.com/yukikurage/idea-tracker/internal/errors"
	"github.com/yukikurage/idea-tracker/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService *services.AuthService
	render      *Renderer
	autoLogin   bool
}

// NewAuthHandler creates a new AuthHandler. With autoLogin a successful
// registration also starts a session.
func NewAuthHandler(authService *services.AuthService, render *Renderer, autoLogin bool) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		render:      render,
		autoLogin:   autoLogin,
	}
}

// registerForm is echoed back into the register page; the password never is.
type registerForm struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// Home renders the landing page, or the authenticated home.
func (h *AuthHandler) Home(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "home.html", gin.H{"Title": "Home"})
}

// ShowLogin renders the login form.
func (h *AuthHandler) ShowLogin(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "login.html", gin.H{"Title": "Log in"})
}

// Login authenticates a user and initializes the session.
func (h *AuthHandler) Login(c *gin.Context) {
	username := c.PostForm("username")

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Username: username,
		Password: c.PostForm("password"),
	})
	if err != nil {
		status, messages := authErrorMessages(err)
		h.render.HTML(c, status, "login.html", gin.H{
			"Title":    "Log in",
			"Username": username,
			"Errors":   messages,
		})
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	apierrors.RedirectWithSuccess(c, "/ideas", "Welcome back, "+user.DisplayName())
}

// ShowRegister renders the registration form.
func (h *AuthHandler) ShowRegister(c *gin.Context) {
	h.render.HTML(c, http.StatusOK, "register.html", gin.H{"Title": "Register"})
}

// Register creates a new user.
func (h *AuthHandler) Register(c *gin.Context) {
	form := registerForm{
		Username:  c.PostForm("username"),
		Email:     c.PostForm("email"),
		FirstName: c.PostForm("first_name"),
		LastName:  c.PostForm("last_name"),
	}

	user, err := h.authService.Register(c.Request.Context(), services.RegisterInput{
		Username:  form.Username,
		Password:  c.PostForm("password"),
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		status, messages := authErrorMessages(err)
		h.render.HTML(c, status, "register.html", gin.H{
			"Title":  "Register",
			"Form":   form,
			"Errors": messages,
		})
		return
	}

	if !h.autoLogin {
		apierrors.RedirectWithSuccess(c, "/login", "Account created, please log in")
		return
	}

	if err := h.startSession(c, user.ID); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	apierrors.RedirectWithSuccess(c, "/ideas", "Welcome, "+user.DisplayName())
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		log.Printf("failed to clear session: %v", err)
	}

	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) startSession(c *gin.Context, userID uint64) error {
	session := sessions.Default(c)
	session.Clear()
	session.Set(constants.ContextKeyUserID, userID)
	return session.Save()
}

func authErrorMessages(err error) (int, []string) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, verr.Messages
	case errors.Is(err, services.ErrDuplicateUsername):
		return http.StatusConflict, []string{"That username is already taken"}
	case errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized, []string{"Invalid username or password"}
	case errors.Is(err, services.ErrFailedToHashPassword):
		return http.StatusInternalServerError, []string{"Could not create your account, please try again"}
	default:
		log.Printf("auth request failed: %v", err)
		return http.StatusInternalServerError, []string{"Something went wrong, please try again"}
	}
}
