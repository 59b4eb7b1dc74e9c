package router

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/idea-tracker/internal/config"
	"github.com/yukikurage/idea-tracker/internal/database"
	"github.com/yukikurage/idea-tracker/internal/repository"
	"github.com/yukikurage/idea-tracker/internal/services"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig() *config.Config {
	return &config.Config{
		SessionStore:        "cookie",
		SessionSecret:       "test-secret",
		GinMode:             gin.TestMode,
		AutoLoginOnRegister: true,
		LoginRateLimit:      100,
	}
}

func setupRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() {
		sqlDB.Close()
	})
	require.NoError(t, database.Migrate(db))

	userRepo := repository.NewUserRepository(db)
	ideaRepo := repository.NewIdeaRepository(db)

	store, err := NewSessionStore(cfg)
	require.NoError(t, err)

	engine, err := New(t.Context(), cfg, db, store, Services{
		Auth:  services.NewAuthService(userRepo),
		Ideas: services.NewIdeaService(ideaRepo, userRepo, nil),
	})
	require.NoError(t, err)

	handler, err := Handler(cfg, engine)
	require.NoError(t, err)
	return handler
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func withCookies(req *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, ck := range w.Result().Cookies() {
		req.AddCookie(ck)
	}
	return req
}

func TestRouter_Health(t *testing.T) {
	h := setupRouter(t, testConfig())

	w := serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRouter_Metrics(t *testing.T) {
	h := setupRouter(t, testConfig())
	serve(h, httptest.NewRequest(http.MethodGet, "/health", nil))

	w := serve(h, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "idea_tracker_http_requests_total")
}

func TestRouter_RegisterAliasAndListing(t *testing.T) {
	h := setupRouter(t, testConfig())

	w := serve(h, postForm("/create-account", url.Values{"username": {"alice"}, "password": {"pw1"}}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/ideas", w.Header().Get("Location"))

	list := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/view-ideas", nil), w))
	assert.Equal(t, http.StatusOK, list.Code)
	assert.Contains(t, list.Body.String(), "Your ideas")

	login := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/login", nil), w))
	assert.Equal(t, http.StatusFound, login.Code)
	assert.Equal(t, "/ideas", login.Header().Get("Location"))
}

func TestRouter_ProtectedRedirectsToLogin(t *testing.T) {
	h := setupRouter(t, testConfig())

	for _, path := range []string{"/ideas", "/view-ideas", "/addIdea", "/editIdea/1", "/suggestIdeas"} {
		w := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusFound, w.Code, path)
		assert.Equal(t, "/login", w.Header().Get("Location"), path)
	}
}

func TestRouter_LoginRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = 2
	h := setupRouter(t, cfg)

	codes := make([]int, 3)
	for i := range codes {
		req := postForm("/login", url.Values{"username": {"nobody"}, "password": {"x"}})
		req.RemoteAddr = "192.0.2.1:4000"
		codes[i] = serve(h, req).Code
	}
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func loginCodes(h http.Handler, forwardedFor []string) []int {
	codes := make([]int, len(forwardedFor))
	for i, xff := range forwardedFor {
		req := postForm("/login", url.Values{"username": {"nobody"}, "password": {"x"}})
		req.RemoteAddr = "192.0.2.1:4000"
		req.Header.Set("X-Forwarded-For", xff)
		req.Header.Set("X-Real-IP", xff)
		codes[i] = serve(h, req).Code
	}
	return codes
}

func TestRouter_LoginRateLimitIgnoresForwardedHeaders(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = 2
	h := setupRouter(t, cfg)

	codes := loginCodes(h, []string{"10.0.0.0", "10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4"})
	assert.Equal(t, []int{
		http.StatusUnauthorized,
		http.StatusUnauthorized,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
		http.StatusTooManyRequests,
	}, codes)
}

func TestRouter_LoginRateLimitBehindTrustedProxy(t *testing.T) {
	cfg := testConfig()
	cfg.LoginRateLimit = 2
	cfg.TrustedProxies = []string{"192.0.2.1"}
	h := setupRouter(t, cfg)

	// Each forwarded client gets its own bucket.
	codes := loginCodes(h, []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"})
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusUnauthorized, http.StatusUnauthorized}, codes)

	codes = loginCodes(h, []string{"10.0.0.1", "10.0.0.1"})
	assert.Equal(t, []int{http.StatusUnauthorized, http.StatusTooManyRequests}, codes)
}

func TestNew_RejectsInvalidTrustedProxies(t *testing.T) {
	cfg := testConfig()
	cfg.TrustedProxies = []string{"not-an-address"}

	_, err := New(t.Context(), cfg, nil, nil, Services{})
	assert.Error(t, err)
}

func TestRouter_UnknownPathRendersNotFound(t *testing.T) {
	h := setupRouter(t, testConfig())

	w := serve(h, httptest.NewRequest(http.MethodGet, "/no-such-page", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestRouter_CSRF(t *testing.T) {
	cfg := testConfig()
	cfg.CSRFKey = "0123456789abcdef0123456789abcdef"
	h := setupRouter(t, cfg)

	w := serve(h, postForm("/login", url.Values{"username": {"alice"}, "password": {"pw"}}))
	assert.Equal(t, http.StatusForbidden, w.Code)

	form := serve(h, httptest.NewRequest(http.MethodGet, "/login", nil))
	require.Equal(t, http.StatusOK, form.Code)
	assert.Contains(t, form.Body.String(), `name="gorilla.csrf.Token"`)
}

func TestHandler_RejectsShortCSRFKey(t *testing.T) {
	cfg := testConfig()
	cfg.CSRFKey = "short"

	_, err := Handler(cfg, gin.New())
	assert.Error(t, err)
}

func TestNewSessionStore(t *testing.T) {
	cfg := testConfig()
	cfg.SessionStore = "memcached"

	_, err := NewSessionStore(cfg)
	assert.Error(t, err)
}

func TestRouter_RedisSessions(t *testing.T) {
	s := miniredis.RunT(t)

	cfg := testConfig()
	cfg.SessionStore = "redis"
	cfg.RedisHost = s.Host()
	cfg.RedisPort = s.Port()
	h := setupRouter(t, cfg)

	w := serve(h, postForm("/register", url.Values{"username": {"redisuser"}, "password": {"pw"}}))
	require.Equal(t, http.StatusFound, w.Code)
	assert.NotEmpty(t, s.Keys())

	list := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/ideas", nil), w))
	assert.Equal(t, http.StatusOK, list.Code)

	logout := serve(h, withCookies(httptest.NewRequest(http.MethodGet, "/logout", nil), w))
	assert.Equal(t, http.StatusFound, logout.Code)
	assert.Empty(t, s.Keys())
}
