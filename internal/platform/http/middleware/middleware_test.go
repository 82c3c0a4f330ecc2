package middleware

import (
	"context"
	"errors"
	"html/template"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestMain はテスト実行前にGinをテストモードに設定します。
func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

var errorPage = template.Must(template.New(ErrorTemplate).Parse(`{{.Message}}|{{.Detail}}`))

func newErrorRouter(development bool) *gin.Engine {
	h := NewErrorHandler(development)
	r := gin.New()
	r.SetHTMLTemplate(errorPage)
	r.Use(h.Recovery(), RequestID(), h.Middleware())
	r.GET("/fail", func(c *gin.Context) {
		_ = c.Error(errors.New("database is locked"))
	})
	r.GET("/fail-after-write", func(c *gin.Context) {
		_ = c.Error(errors.New("late failure"))
		c.String(http.StatusOK, "partial")
	})
	r.GET("/public", func(c *gin.Context) {
		_ = c.Error(errors.New("blocked")).SetType(gin.ErrorTypePublic)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "blocked"})
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func TestRequestID(t *testing.T) {
	t.Parallel()

	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	t.Run("generates an id", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(HeaderRequestID)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses a valid inbound id", func(t *testing.T) {
		t.Parallel()
		in := uuid.NewString()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, in)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, in, w.Header().Get(HeaderRequestID))
	})

	t.Run("replaces a malformed inbound id", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(HeaderRequestID, "<script>")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.NotEqual(t, "<script>", w.Header().Get(HeaderRequestID))
	})
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		development bool
		path        string
		accept      string
		wantStatus  int
		wantBody    string
	}{
		{name: "html hides detail in production", path: "/fail", wantStatus: http.StatusInternalServerError, wantBody: "Something went wrong!|"},
		{name: "html shows detail in development", development: true, path: "/fail", wantStatus: http.StatusInternalServerError, wantBody: "Something went wrong!|database is locked"},
		{name: "json client", path: "/fail", accept: "application/json", wantStatus: http.StatusInternalServerError, wantBody: `{"error":"Internal server error"}`},
		{name: "written response is left alone", path: "/fail-after-write", wantStatus: http.StatusOK, wantBody: "partial"},
		{name: "public error is only logged", path: "/public", wantStatus: http.StatusUnauthorized, wantBody: `{"error":"blocked"}`},
		{name: "panic html", path: "/panic", wantStatus: http.StatusInternalServerError, wantBody: "Something went wrong!|"},
		{name: "panic json", path: "/panic", accept: "application/json", wantStatus: http.StatusInternalServerError, wantBody: `{"error":"Internal server error"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept", tt.accept)
			}
			w := httptest.NewRecorder()
			newErrorRouter(tt.development).ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantBody, w.Body.String())
		})
	}
}

type stubLimiter struct {
	allow bool
	wait  time.Duration
}

func (s stubLimiter) Allow(context.Context, string) bool { return s.allow }

type stubRetryLimiter struct{ stubLimiter }

func (s stubRetryLimiter) RetryAfter(string) time.Duration { return s.wait }

func TestSignInRateLimit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		limiter interface {
			Allow(context.Context, string) bool
		}
		wantStatus     int
		wantRetryAfter string
	}{
		{name: "allowed", limiter: stubLimiter{allow: true}, wantStatus: http.StatusOK},
		{name: "throttled uses window", limiter: stubLimiter{}, wantStatus: http.StatusTooManyRequests, wantRetryAfter: "60"},
		{name: "throttled uses remaining time", limiter: stubRetryLimiter{stubLimiter{wait: 1500 * time.Millisecond}}, wantStatus: http.StatusTooManyRequests, wantRetryAfter: "2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := gin.New()
			r.POST("/auth/sign-in", SignInRateLimit(tt.limiter, time.Minute), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/sign-in", nil))

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantRetryAfter, w.Header().Get("Retry-After"))
			if tt.wantStatus == http.StatusTooManyRequests {
				assert.JSONEq(t, `{"error":"Too many sign-in attempts"}`, w.Body.String())
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	var buf syncBuffer
	logger := slogJSON(&buf)

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logger))
	r.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"path":"/missing"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id":"`+w.Header().Get(HeaderRequestID)+`"`)
}
