// Package usecase はauthフィーチャーのビジネスロジックを実装します。
package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"fluxfinance/internal/feature/auth/domain"
	"fluxfinance/internal/feature/auth/domain/entity"

	"golang.org/x/crypto/bcrypt"
)

const (
	// minPasswordLength はパスワードの最低文字数を定義します。
	minPasswordLength = 8

	// DefaultSessionTTL はセッションの既定の有効期間です。
	DefaultSessionTTL = 12 * time.Hour

	// sessionIDBytes はセッションIDの乱数バイト数です（hexで64文字）。
	sessionIDBytes = 32
)

// UserRepository はユーザーエンティティの永続化層を抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters）ではなくコンシューマー（usecase）が定義します。
type UserRepository interface {
	// Create は新しいユーザーをストレージに永続化します。
	// 同じメールアドレスのユーザーが既に存在する場合、domain.ErrEmailAlreadyExistsを返します。
	Create(ctx context.Context, user *entity.User) error

	// FindByEmail は指定されたメールアドレスに完全一致するユーザーを取得します。
	// ユーザーが存在しない場合、domain.ErrUserNotFoundを返します。
	FindByEmail(ctx context.Context, email string) (*entity.User, error)
}

// authUsecase は認証ビジネスロジックを実装します。
type authUsecase struct {
	users      UserRepository
	sessions   SessionRepository
	sessionTTL time.Duration
	newID      func() (string, error)
}

// NewAuthUsecase はauthUsecaseの新しいインスタンスを生成します。
// sessionTTLが0以下の場合はDefaultSessionTTLを使用します。
func NewAuthUsecase(users UserRepository, sessions SessionRepository, sessionTTL time.Duration) *authUsecase {
	if sessionTTL <= 0 {
		sessionTTL = DefaultSessionTTL
	}
	return &authUsecase{
		users:      users,
		sessions:   sessions,
		sessionTTL: sessionTTL,
		newID:      newSessionID,
	}
}

// validatePassword はパスワードがセキュリティ要件を満たしているかチェックします。
func validatePassword(password string) error {
	if len(password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	}
	return nil
}

// Register はハッシュ化されたパスワードで新規ユーザーを登録します。
// サインインフローからは呼ばれず、seedコマンドでのプロビジョニングにのみ使用します。
func (u *authUsecase) Register(ctx context.Context, email, name, password string) error {
	if err := validatePassword(password); err != nil {
		return err
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return err
	}
	return u.users.Create(ctx, &entity.User{Email: email, Name: name, PasswordHash: hashed})
}

// SignIn は資格情報を検証し、成功時にサーバー側セッションを発行します。
//
// 未登録のメールアドレス、パスワード不一致、壊れた保存済みハッシュはすべて
// domain.ErrInvalidCredentialsになります。ストアへの到達失敗は
// domain.ErrStoreUnavailableでラップして返します。
func (u *authUsecase) SignIn(ctx context.Context, email, password string, client entity.ClientInfo) (*entity.Session, error) {
	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, domain.ErrUserNotFound) {
			return nil, fmt.Errorf("%w: find user: %w", domain.ErrStoreUnavailable, err)
		}
		// タイミング攻撃防止のため、ユーザーが存在しない場合もbcrypt比較を実行する
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return nil, domain.ErrInvalidCredentials
	}

	if err := VerifyPassword(user.PasswordHash, password); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	id, err := u.newID()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	now := time.Now()
	session := &entity.Session{
		ID:        id,
		UserID:    user.ID,
		UserAgent: client.UserAgent,
		IPAddress: client.IPAddress,
		CreatedAt: now,
		ExpiresAt: now.Add(u.sessionTTL),
	}
	if err := u.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("%w: create session: %w", domain.ErrStoreUnavailable, err)
	}
	return session, nil
}

// SignOut はセッションを失効させます。
// 存在しない・空のセッションIDは成功扱いとし、何度呼んでも同じ結果になります。
func (u *authUsecase) SignOut(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := u.sessions.Revoke(ctx, sessionID); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return fmt.Errorf("%w: revoke session: %w", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Authenticate はマーカーCookieの値が有効なセッションを指しているかを判定します。
// Session Gateから全リクエストで呼ばれます。
func (u *authUsecase) Authenticate(ctx context.Context, sessionID string) (bool, error) {
	if sessionID == "" {
		return false, nil
	}
	session, err := u.sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("%w: find session: %w", domain.ErrStoreUnavailable, err)
	}
	return session.IsValid(), nil
}

// PurgeExpired は期限切れセッションを削除し、削除件数を返します。
func (u *authUsecase) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := u.sessions.DeleteExpired(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: delete expired sessions: %w", domain.ErrStoreUnavailable, err)
	}
	return n, nil
}

// newSessionID は推測不可能な64文字のhexセッションIDを生成します。
func newSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
