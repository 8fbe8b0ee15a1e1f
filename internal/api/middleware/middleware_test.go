package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/osa911/portfolio-contact/internal/api/constants"
	"github.com/osa911/portfolio-contact/internal/logging"
	"github.com/osa911/portfolio-contact/internal/ratelimit"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"propagates request id", map[string]string{"X-Request-ID": "abc-123"}, "abc-123"},
		{"falls back to correlation id", map[string]string{"X-Correlation-ID": "corr-9"}, "corr-9"},
		{"request id wins", map[string]string{"X-Request-ID": "abc", "X-Correlation-ID": "corr"}, "abc"},
		{"generates when missing", nil, ""},
		{"replaces oversized ids", map[string]string{"X-Request-ID": strings.Repeat("x", 500)}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			router := gin.New()
			router.Use(RequestID())
			router.GET("/", func(c *gin.Context) {
				seen = c.GetString(constants.ContextKeyRequestID)
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, seen, w.Header().Get("X-Request-ID"))
			if tt.want != "" {
				assert.Equal(t, tt.want, seen)
				return
			}
			_, err := uuid.Parse(seen)
			assert.NoError(t, err)
		})
	}
}

func TestRequestLogger_OneLinePerRequest(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.LevelInfo)

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger), Recovery())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Client-IP", "198.51.100.4")
	router.ServeHTTP(httptest.NewRecorder(), req)

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "/health", entry["route"])
	assert.Equal(t, "198.51.100.4", entry["clientIp"])
	assert.Equal(t, float64(200), entry["status"])
	assert.Equal(t, "info", entry["level"])
}

func TestRequestLogger_UnmatchedRouteUsesPath(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.New(&buf, logging.LevelInfo)

	router := gin.New()
	router.Use(RequestLogger(logger))

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "/nope", entry["route"])
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "unknown", entry["clientIp"])
}

func TestRecovery(t *testing.T) {
	router := gin.New()
	router.Use(Recovery())
	router.GET("/", func(c *gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"ok":false,"code":"SERVER_ERROR"}`, w.Body.String())
}

func TestRecovery_DebugLevelStaysOneLine(t *testing.T) {
	tests := []struct {
		level     string
		wantStack bool
	}{
		{logging.LevelInfo, false},
		{logging.LevelDebug, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := logging.New(&buf, tt.level)

			router := gin.New()
			router.Use(RequestLogger(logger), Recovery())
			router.GET("/", func(c *gin.Context) { panic("kaboom") })

			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

			lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
			require.Len(t, lines, 1)

			var entry map[string]interface{}
			require.NoError(t, json.Unmarshal(lines[0], &entry))
			assert.Equal(t, "panic: kaboom", entry["error"])
			assert.Equal(t, "SERVER_ERROR", entry["errorCode"])
			if tt.wantStack {
				assert.Contains(t, entry["stack"], "runtime/debug.Stack")
			} else {
				assert.NotContains(t, entry, "stack")
			}
		})
	}
}

func TestCORS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		method     string
		wantStatus int
		wantOrigin string
	}{
		{"wildcard", []string{"*"}, "https://anywhere.example", http.MethodPost, http.StatusOK, "https://anywhere.example"},
		{"listed origin", []string{"https://me.example"}, "https://me.example", http.MethodPost, http.StatusOK, "https://me.example"},
		{"unlisted origin", []string{"https://me.example"}, "https://evil.example", http.MethodPost, http.StatusForbidden, ""},
		{"no origin header", []string{"https://me.example"}, "", http.MethodPost, http.StatusOK, ""},
		{"preflight", []string{"*"}, "https://me.example", http.MethodOptions, http.StatusNoContent, "https://me.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORS(tt.allowed))
			router.Handle(tt.method, "/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	router := gin.New()
	router.Use(SecurityHeaders())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestSetRateLimitHeaders(t *testing.T) {
	reset := time.Now().Add(30 * time.Second)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetRateLimitHeaders(c, ratelimit.Decision{Allowed: false, Limit: 5, Remaining: 0, ResetTime: reset})

	assert.Equal(t, "5", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
}

func TestSetRateLimitHeaders_AllowedHasNoRetryAfter(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	SetRateLimitHeaders(c, ratelimit.Decision{Allowed: true, Limit: 5, Remaining: 4, ResetTime: time.Now().Add(time.Minute)})

	assert.Empty(t, w.Header().Get("Retry-After"))
	assert.Equal(t, "4", w.Header().Get("X-RateLimit-Remaining"))
}
