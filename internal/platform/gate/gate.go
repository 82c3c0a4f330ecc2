// Package gate はすべてのリクエストの前段で動くサインインゲートを提供します。
//
// マーカー（セッションCookie）が有効なセッションを指していればそのまま通し、
// 保護されたパスへの未認証アクセスは、JSONクライアントには401、
// ブラウザにはサインインページへの302で応答します。
package gate

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"fluxfinance/internal/feature/auth/domain"
)

const (
	// SignInPath はブラウザをリダイレクトするサインインページのパスです。
	SignInPath = "/auth/sign-in"

	// ContextAuthenticated はゲートの判定結果（bool）を格納するgin.Contextのキーです。
	ContextAuthenticated = "authenticated"

	// MessageAuthenticationRequired はJSONクライアントへの401レスポンス本文です。
	MessageAuthenticationRequired = "Authentication required"
)

// SessionValidator はマーカー値がライブなセッションを指しているかを判定します。
// インターフェースはコンシューマー（gate）が定義します。
type SessionValidator interface {
	Authenticate(ctx context.Context, sessionID string) (bool, error)
}

// DestinationRecorder はリダイレクト前に元のURLを記録します。
type DestinationRecorder interface {
	Record(c *gin.Context, dest string) error
}

// MarkerReader はリクエストからマーカー値を取り出し、無効なマーカーを破棄します。
type MarkerReader interface {
	SessionID(c *gin.Context) string
	ClearSession(c *gin.Context)
}

// SessionGate returns a Gin middleware that must be installed before every route.
//
//	marker valid            -> pass through
//	marker stale            -> clear the cookie, continue as anonymous
//	path not protected      -> pass through
//	protected, wants JSON   -> 401 {"error":"Authentication required"}
//	protected, wants HTML   -> record destination, 302 to SignInPath
//
// A session-store failure is attached with c.Error and the request is aborted;
// the error handler middleware renders the response.
func SessionGate(classifier *Classifier, markers MarkerReader, sessions SessionValidator, pending DestinationRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		authenticated := false
		if sessionID := markers.SessionID(c); sessionID != "" {
			ok, err := sessions.Authenticate(c.Request.Context(), sessionID)
			if err != nil {
				_ = c.Error(err)
				c.Abort()
				return
			}
			if !ok {
				// 失効・取り消し済みのマーカーはブラウザ側からも消す
				markers.ClearSession(c)
			}
			authenticated = ok
		}
		c.Set(ContextAuthenticated, authenticated)

		if authenticated || !classifier.IsProtected(c.Request.URL.Path) {
			c.Next()
			return
		}

		// 公開エラーとして記録し、エラーハンドラーにはログ出力だけを任せる
		_ = c.Error(domain.ErrAuthenticationRequired).SetType(gin.ErrorTypePublic)
		if WantsJSON(c.Request) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": MessageAuthenticationRequired})
			return
		}

		dest := c.Request.URL.RequestURI()
		if err := pending.Record(c, dest); err != nil {
			// 記録できなくてもサインイン後は"/"に戻るだけなのでリダイレクトは続行する
			slog.Warn("failed to record pending destination", "error", err, "path", dest, "remote_addr", c.ClientIP())
		}
		c.Redirect(http.StatusFound, SignInPath)
		c.Abort()
	}
}

// WantsJSON reports whether the client prefers a JSON response: either an
// X-Requested-With: XMLHttpRequest header or an Accept header naming application/json.
func WantsJSON(r *http.Request) bool {
	if strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") {
		return true
	}
	return strings.Contains(strings.ToLower(r.Header.Get("Accept")), "application/json")
}

// IsAuthenticated returns the verdict the gate stored for this request.
func IsAuthenticated(c *gin.Context) bool {
	return c.GetBool(ContextAuthenticated)
}
