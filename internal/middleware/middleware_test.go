package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("plain http", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		csp := w.Header().Get("Content-Security-Policy")
		assert.Contains(t, csp, "script-src 'self' code.jquery.com cdn.jsdelivr.net")
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "SAMEORIGIN", w.Header().Get("X-Frame-Options"))
		assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
	})

	t.Run("behind tls proxy", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("Strict-Transport-Security"))
	})
}

func TestRateLimiter(t *testing.T) {
	rl := NewRateLimiter(3)
	defer rl.Stop()

	router := gin.New()
	router.Use(rl.Handler())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	request := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = ip + ":1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, request("10.0.0.1"))
	}
	assert.Equal(t, http.StatusTooManyRequests, request("10.0.0.1"))
	assert.Equal(t, http.StatusOK, request("10.0.0.2"), "budgets are per client")
}

func TestRateLimiter_EvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(1)
	defer rl.Stop()

	now := time.Now()
	rl.now = func() time.Time { return now }
	require.True(t, rl.Allow("10.0.0.1"))
	require.False(t, rl.Allow("10.0.0.1"))

	now = now.Add(10 * time.Minute)
	rl.evictIdle()

	rl.mu.Lock()
	assert.Empty(t, rl.clients)
	rl.mu.Unlock()
}

func TestCSRFKey(t *testing.T) {
	hexKey := strings.Repeat("ab", 32)
	assert.Len(t, CSRFKey(hexKey), 32)
	assert.Equal(t, byte(0xab), CSRFKey(hexKey)[0])

	raw := CSRFKey("short")
	assert.Len(t, raw, 32)
	assert.Equal(t, "short", string(raw[:5]))
}

func TestCSRF(t *testing.T) {
	router := gin.New()
	router.Use(CSRF(CSRFKey("test-secret-key-32-bytes-long!!"), false))
	router.GET("/form", func(c *gin.Context) {
		c.String(http.StatusOK, CSRFToken(c))
	})
	handled := false
	router.POST("/form", func(c *gin.Context) {
		handled = true
		c.Status(http.StatusOK)
	})

	t.Run("get exposes a token", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/form", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, w.Body.String())
	})

	t.Run("post without token is rejected before the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader("name=x"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.False(t, handled)
	})

	t.Run("post with token passes", func(t *testing.T) {
		get := httptest.NewRecorder()
		router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/form", nil))
		token := get.Body.String()

		form := url.Values{CSRFFieldName: {token}}
		req := httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, c := range get.Result().Cookies() {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, handled)
	})
}

func TestSessionFlash(t *testing.T) {
	sm, err := NewSessionManager(nil, time.Hour, false)
	require.NoError(t, err)

	router := gin.New()
	router.Use(sm.LoadAndSave())
	router.POST("/delete", func(c *gin.Context) {
		sm.Flash(c.Request, "Genre deleted")
		c.Redirect(http.StatusFound, "/list")
	})
	router.GET("/list", func(c *gin.Context) {
		c.String(http.StatusOK, sm.PopFlash(c.Request))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/delete", nil))
	require.Equal(t, http.StatusFound, w.Code)
	cookies := w.Result().Cookies()
	require.NotEmpty(t, cookies)

	read := func() string {
		req := httptest.NewRequest(http.MethodGet, "/list", nil)
		for _, c := range cookies {
			req.AddCookie(c)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Body.String()
	}

	assert.Equal(t, "Genre deleted", read())
	assert.Empty(t, read(), "flash is shown once")
}

func TestNilSessionManager(t *testing.T) {
	var sm *SessionManager
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sm.Flash(req, "ignored")
	assert.Empty(t, sm.PopFlash(req))
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)

	router := gin.New()
	router.Use(RequestLogger(zap.New(core)))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/ok", nil))
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/boom", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, "/ok", entries[0].ContextMap()["path"])
	assert.Equal(t, zap.ErrorLevel, entries[1].Level)
	assert.EqualValues(t, 500, entries[1].ContextMap()["status"])
}

func TestMetrics(t *testing.T) {
	m := NewMetrics()

	router := gin.New()
	router.Use(m.Handler())
	router.GET("/catalog/book/:id", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(m.Exporter()))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/catalog/book/1", nil))
	m.Mutation("genre", "delete", "conflict")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(w.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `locallibrary_http_requests_total{method="GET",route="/catalog/book/:id",status="200"} 1`)
	assert.Contains(t, string(body), `locallibrary_catalog_mutations_total{kind="genre",operation="delete",outcome="conflict"} 1`)

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.Mutation("genre", "create", "created") })
}
