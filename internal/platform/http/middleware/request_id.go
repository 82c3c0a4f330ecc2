// Package middleware はルーター全体で共有するGinミドルウェアを提供します。
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextRequestID はリクエストIDを格納するgin.Contextのキーです。
	ContextRequestID = "request_id"

	// HeaderRequestID はリクエストIDを受け渡しするHTTPヘッダーです。
	HeaderRequestID = "X-Request-ID"
)

// RequestID assigns every request an ID, reusing the inbound X-Request-ID
// when it is a well-formed UUID, and echoes it in the response header.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}
		c.Set(ContextRequestID, id)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the ID assigned by RequestID, or "" if the middleware did not run.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ContextRequestID)
}
