package middleware

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fluxfinance/internal/platform/gate"
)

const (
	// ErrorTemplate はHTMLクライアント向けのエラーページテンプレート名です。
	ErrorTemplate = "error.tmpl"

	// MessageSomethingWentWrong はエラーページに表示する汎用メッセージです。
	MessageSomethingWentWrong = "Something went wrong!"

	// MessageInternalServerError はJSONクライアント向けの500レスポンス本文です。
	MessageInternalServerError = "Internal server error"
)

// ErrorHandler is the last line of defence: it logs whatever handlers attached
// with c.Error and renders a generic 500 when nobody wrote a response.
type ErrorHandler struct {
	development bool
}

// NewErrorHandler creates an ErrorHandler. In development the error detail is shown on the page.
func NewErrorHandler(development bool) *ErrorHandler {
	return &ErrorHandler{development: development}
}

// Middleware logs c.Errors after the chain has run.
// Public errors (expected outcomes such as a blocked request) are logged at debug level only.
func (h *ErrorHandler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		for _, e := range c.Errors.ByType(gin.ErrorTypePublic) {
			slog.Debug("request rejected", "error", e.Err, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
		}

		private := c.Errors.ByType(gin.ErrorTypePrivate)
		if len(private) == 0 {
			return
		}
		for _, e := range private {
			slog.Error("request failed", "error", e.Err, "method", c.Request.Method, "path", c.Request.URL.Path,
				"remote_addr", c.ClientIP(), "request_id", GetRequestID(c))
		}
		if !c.Writer.Written() {
			h.render(c, private.Last().Err)
		}
	}
}

// Recovery converts a panic into a logged error and the same 500 response.
func (h *ErrorHandler) Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err := fmt.Errorf("panic: %v", recovered)
		_ = c.Error(err)
		slog.Error("panic recovered", "error", err, "path", c.Request.URL.Path, "request_id", GetRequestID(c))
		h.render(c, err)
	})
}

func (h *ErrorHandler) render(c *gin.Context, err error) {
	if gate.WantsJSON(c.Request) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": MessageInternalServerError})
		return
	}
	detail := ""
	if h.development {
		detail = err.Error()
	}
	c.HTML(http.StatusInternalServerError, ErrorTemplate, gin.H{
		"Title":         "Error",
		"Message":       MessageSomethingWentWrong,
		"Detail":        detail,
		"Authenticated": gate.IsAuthenticated(c),
	})
	c.Abort()
}
