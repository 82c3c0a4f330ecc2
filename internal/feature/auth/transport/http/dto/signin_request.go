// Package dto はauthフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

// SignInReq は POST /auth/sign-in のリクエストボディを表します。
// JSONとフォーム送信の両方を受け付けます。
// メール形式は検証しません（形式不正も「資格情報が違う」と同じ応答にするため）。
type SignInReq struct {
	Email    string `json:"email" form:"email" binding:"required"`
	Password string `json:"password" form:"password" binding:"required"`
}
