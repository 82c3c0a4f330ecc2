// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"fluxfinance/internal/feature/auth/domain"
	"fluxfinance/internal/feature/auth/domain/entity"
	"fluxfinance/internal/feature/auth/transport/http/dto"
	"fluxfinance/internal/platform/gate"
)

const (
	msgInvalidCredentials = "Email or password is incorrect"
	msgAuthError          = "An error occurred during authentication"
	msgInvalidRequest     = "invalid request"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// SignIn は資格情報を検証し、成功時に新しいセッションを返します。
	SignIn(ctx context.Context, email, password string, client entity.ClientInfo) (*entity.Session, error)
	// SignOut はセッションを失効させます。存在しないセッションでも成功します。
	SignOut(ctx context.Context, sessionID string) error
}

// PendingDestinations はサインイン前に記録された遷移先を読み出します。
type PendingDestinations interface {
	Peek(c *gin.Context) string
	Take(c *gin.Context) string
}

// SessionCookies はマーカーCookieの読み書きを行います。
type SessionCookies interface {
	SessionID(c *gin.Context) string
	SetSession(c *gin.Context, sessionID string)
	ClearSession(c *gin.Context)
}

// AuthHandler はサインイン・サインアウトのHTTPリクエストを処理します。
type AuthHandler struct {
	auth    AuthUsecase
	pending PendingDestinations
	cookies SessionCookies
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
func NewAuthHandler(auth AuthUsecase, pending PendingDestinations, cookies SessionCookies) *AuthHandler {
	return &AuthHandler{auth: auth, pending: pending, cookies: cookies}
}

// SignInPage はサインインページを表示します。
// 保留中の遷移先があればフォームに表示用として渡します（消費はしません）。
func (h *AuthHandler) SignInPage(c *gin.Context) {
	originalURL := h.pending.Peek(c)
	if originalURL == "" {
		originalURL = "/"
	}
	c.HTML(http.StatusOK, "sign-in.tmpl", gin.H{
		"Title":         "Sign In",
		"OriginalURL":   originalURL,
		"Authenticated": gate.IsAuthenticated(c),
	})
}

// SignIn はサインインAPIエンドポイントを処理します。
// - JSONまたはフォームをSignInReqにバインド（失敗時は400）
// - 資格情報不一致は401、ストア障害は500
// - 成功時は以前のセッションを失効させてからマーカーCookieを設定し、保留中の遷移先を消費して200を返却
func (h *AuthHandler) SignIn(c *gin.Context) {
	var req dto.SignInReq
	if err := c.ShouldBind(&req); err != nil {
		slog.Warn("sign-in validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, dto.ErrorRes{Error: msgInvalidRequest})
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password, entity.ClientInfo{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			// ユーザー列挙攻撃を防止するため、原因は区別せず同じメッセージを返す
			slog.Warn("sign-in failed", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusUnauthorized, dto.ErrorRes{Error: msgInvalidCredentials})
			return
		}
		slog.Error("sign-in error", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, dto.ErrorRes{Error: msgAuthError})
		return
	}

	if prev := h.cookies.SessionID(c); prev != "" && prev != session.ID {
		if err := h.auth.SignOut(c.Request.Context(), prev); err != nil {
			slog.Error("sign-in could not revoke previous session", "error", err, "remote_addr", c.ClientIP())
		}
	}
	h.cookies.SetSession(c, session.ID)
	redirectURL := h.pending.Take(c)

	slog.Info("user sign-in successful", "email", req.Email, "remote_addr", c.ClientIP(), "redirect", redirectURL)
	c.JSON(http.StatusOK, dto.SignInRes{Success: true, RedirectURL: redirectURL})
}

// SignOut はマーカーCookieを削除し、トップページへリダイレクトします。
// 何度呼んでも同じ結果になり、ストア障害時もCookieは必ず削除します。
func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.auth.SignOut(c.Request.Context(), h.cookies.SessionID(c)); err != nil {
		slog.Error("sign-out could not revoke session", "error", err, "remote_addr", c.ClientIP())
	}
	h.cookies.ClearSession(c)
	c.Redirect(http.StatusFound, "/")
}
