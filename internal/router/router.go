// Package router wires the HTTP surface: sessions, middleware and routes.
package router

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/yukikurage/idea-tracker/internal/config"
	"github.com/yukikurage/idea-tracker/internal/constants"
	apierrors "github.com/yukikurage/idea-tracker/internal/errors"
	"github.com/yukikurage/idea-tracker/internal/handlers"
	"github.com/yukikurage/idea-tracker/internal/middleware"
	"github.com/yukikurage/idea-tracker/internal/services"
	"github.com/yukikurage/idea-tracker/internal/web"
	"gorm.io/gorm"
)

// Services are the application services the routes dispatch to.
type Services struct {
	Auth  *services.AuthService
	Ideas *services.IdeaService
}

// NewSessionStore builds the session store selected by cfg.SessionStore.
func NewSessionStore(cfg *config.Config) (sessions.Store, error) {
	var store sessions.Store

	switch cfg.SessionStore {
	case "redis", "":
		redisAddr := cfg.RedisHost + ":" + cfg.RedisPort
		rs, err := redisStore.NewStore(
			10,        // Redis pool size
			"tcp",     // network type
			redisAddr, // Redis address from config
			"",        // username (empty for default user)
			"",        // password (empty = no password)
			[]byte(cfg.SessionSecret),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis store: %w", err)
		}
		store = rs
	case "cookie":
		store = cookie.NewStore([]byte(cfg.SessionSecret))
	default:
		return nil, fmt.Errorf("unsupported session store %q", cfg.SessionStore)
	}

	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   constants.SessionMaxAge,
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return store, nil
}

// New builds the gin engine with every route registered. Background work such
// as the rate limiter sweep stops when ctx is done.
func New(ctx context.Context, cfg *config.Config, db *gorm.DB, store sessions.Store, svc Services) (*gin.Engine, error) {
	r := gin.New()
	// With no trusted proxies ClientIP is the socket peer, so forwarded headers
	// cannot move a client into a fresh rate limit bucket.
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid TRUSTED_PROXIES: %w", err)
	}
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(!cfg.IsProduction()))
	r.Use(middleware.PrometheusMiddleware())
	r.SetHTMLTemplate(web.MustTemplates())

	r.GET("/health", healthCheck(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.NoRoute(func(c *gin.Context) {
		apierrors.NotFound(c, "")
	})

	render := handlers.NewRenderer(svc.Auth, svc.Ideas.CanSuggest())
	authHandler := handlers.NewAuthHandler(svc.Auth, render, cfg.AutoLoginOnRegister)
	ideaHandler := handlers.NewIdeaHandler(svc.Ideas, render)
	limiter := middleware.NewRateLimiter(ctx, cfg.LoginRateLimit)

	app := r.Group("/")
	app.Use(sessions.Sessions(constants.SessionCookieName, store))
	app.Use(middleware.LoadUser())
	{
		app.GET("/", authHandler.Home)
		app.GET("/logout", authHandler.Logout)

		// Public forms; signed-in users go straight to their ideas
		guest := app.Group("/", middleware.RedirectIfAuthenticated("/ideas"))
		guest.GET("/login", authHandler.ShowLogin)
		guest.POST("/login", middleware.RateLimitByIP(limiter), authHandler.Login)
		for _, path := range []string{"/register", "/create-account"} {
			guest.GET(path, authHandler.ShowRegister)
			guest.POST(path, middleware.RateLimitByIP(limiter), authHandler.Register)
		}

		protected := app.Group("/", middleware.RequireAuth())
		for _, path := range []string{"/ideas", "/view-ideas"} {
			protected.GET(path, ideaHandler.ListIdeas)
		}
		protected.GET("/addIdea", ideaHandler.ShowAddIdea)
		protected.POST("/addIdea", ideaHandler.AddIdea)
		protected.GET("/suggestIdeas", ideaHandler.ShowSuggestIdeas)
		protected.POST("/suggestIdeas", ideaHandler.SuggestIdeas)

		idea := protected.Group("/", middleware.RequireIdeaID())
		idea.GET("/editIdea/:id", ideaHandler.ShowEditIdea)
		idea.POST("/editIdea/:id", ideaHandler.UpdateIdea)
		idea.POST("/deleteIdea/:id", ideaHandler.DeleteIdea)
		idea.POST("/addCollaborator/:id", ideaHandler.AddCollaborator)
		idea.POST("/removeCollaborator/:id", ideaHandler.RemoveCollaborator)
		idea.POST("/leaveCollaboration/:id", ideaHandler.LeaveCollaboration)
	}

	return r, nil
}

// Handler wraps the engine with CSRF protection when a CSRF key is configured.
func Handler(cfg *config.Config, engine *gin.Engine) (http.Handler, error) {
	if cfg.CSRFKey == "" {
		return engine, nil
	}
	if len(cfg.CSRFKey) != 32 {
		return nil, fmt.Errorf("CSRF_KEY must be 32 bytes, got %d", len(cfg.CSRFKey))
	}

	protect := csrf.Protect(
		[]byte(cfg.CSRFKey),
		csrf.Secure(cfg.IsProduction()),
		csrf.Path("/"),
		csrf.ErrorHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "Invalid or missing form token, please reload the page", http.StatusForbidden)
		})),
	)(engine)

	if cfg.IsProduction() {
		return protect, nil
	}

	// Development servers speak plain HTTP, which csrf would otherwise treat
	// as a failed TLS origin check.
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		protect.ServeHTTP(w, csrf.PlaintextHTTPRequest(r))
	}), nil
}

func healthCheck(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":  "unavailable",
				"message": "database unreachable",
			})
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Idea Tracker is running",
		})
	}
}
