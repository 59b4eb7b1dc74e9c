package errors

import (
	"log"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// Flash keys
const (
	FlashError   = "flash_error"
	FlashSuccess = "flash_success"
)

// ErrorTemplate is the template rendered for terminal failures
const ErrorTemplate = "error.html"

// Page is the data rendered by the error template
type Page struct {
	Status  int
	Title   string
	Message string
}

// AddFlash queues a one-shot message for the next rendered page
func AddFlash(c *gin.Context, key, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, key)
	if err := session.Save(); err != nil {
		log.Printf("failed to save flash message: %v", err)
	}
}

// RedirectWithError flashes message and redirects to location
func RedirectWithError(c *gin.Context, location, message string) {
	if message != "" {
		AddFlash(c, FlashError, message)
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

// RedirectWithSuccess flashes a confirmation and redirects to location
func RedirectWithSuccess(c *gin.Context, location, message string) {
	if message != "" {
		AddFlash(c, FlashSuccess, message)
	}
	c.Redirect(http.StatusFound, location)
	c.Abort()
}

// RenderPage renders the error template
func RenderPage(c *gin.Context, statusCode int, title, message string) {
	c.HTML(statusCode, ErrorTemplate, gin.H{
		"Title": title,
		"Error": Page{Status: statusCode, Title: title, Message: message},
	})
	c.Abort()
}

// Helper functions for common error pages

// NotFound renders a 404 page
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Page not found"
	}
	RenderPage(c, http.StatusNotFound, "Not found", message)
}

// TooManyRequests renders a 429 page
func TooManyRequests(c *gin.Context, message string) {
	if message == "" {
		message = "Too many attempts, please wait a moment"
	}
	RenderPage(c, http.StatusTooManyRequests, "Slow down", message)
}

// InternalError renders a 500 page
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Something went wrong"
	}
	RenderPage(c, http.StatusInternalServerError, "Something went wrong", message)
}
