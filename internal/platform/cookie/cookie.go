// Package cookie はセッションマーカーCookieの発行と削除を一箇所にまとめます。
package cookie

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionName はサーバー側セッションIDを運ぶCookie名です。
const SessionName = "session"

// Manager はCookie属性（Secure/Domain）を統一して設定します。
type Manager struct {
	Domain string
	Secure bool
}

// NewManager はManagerを生成します。本番環境ではsecureをtrueにします。
func NewManager(domain string, secure bool) *Manager {
	return &Manager{Domain: domain, Secure: secure}
}

// SetSession はセッションIDをHttpOnlyのセッションCookie（Max-Age無し）として設定します。
func (m *Manager) SetSession(c *gin.Context, sessionID string) {
	m.Set(c, SessionName, sessionID, 0)
}

// ClearSession はマーカーCookieを失効させます。Cookieが無くても常に発行します。
func (m *Manager) ClearSession(c *gin.Context) {
	m.Clear(c, SessionName)
}

// SessionID はリクエストのマーカーCookie値を返します。無い場合は空文字です。
func (m *Manager) SessionID(c *gin.Context) string {
	v, err := c.Cookie(SessionName)
	if err != nil {
		return ""
	}
	return v
}

// Set は任意のCookieを共通属性で設定します。maxAgeが0の場合はセッションCookieになります。
func (m *Manager) Set(c *gin.Context, name, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, "/", m.Domain, m.Secure, true)
}

// Clear は指定したCookieを削除します（Max-Age<0）。
func (m *Manager) Clear(c *gin.Context, name string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, "", -1, "/", m.Domain, m.Secure, true)
}
