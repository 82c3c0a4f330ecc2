package usecase

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/bcrypt"
)

// errMalformedHash は保存済みハッシュが既知のどの形式にも一致しない場合に返されます。
// 呼び出し側ではErrInvalidCredentialsに集約され、利用者には公開されません。
var errMalformedHash = errors.New("malformed password hash")

// errPasswordMismatch はパスワードがハッシュと一致しない場合に返されます。
var errPasswordMismatch = errors.New("password mismatch")

// dummyHash はユーザーが存在しない場合にもbcrypt比較を実行するためのダミーハッシュです。
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// argon2idの上限。これを超えるパラメータのハッシュは壊れているものとして扱う。
const (
	maxArgon2Memory      = 1 << 20 // KiB (1 GiB)
	maxArgon2Iterations  = 16
	maxArgon2Parallelism = 16
	maxArgon2Bytes       = 1024 // salt and key length
)

// HashPassword は新規ユーザー用のbcryptハッシュを生成します。
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// VerifyPassword は平文パスワードを保存済みハッシュと照合します。
//
// 対応形式:
//   - bcrypt ($2a$, $2b$, $2y$)
//   - argon2id PHC文字列 ($argon2id$v=19$m=...,t=...,p=...$salt$hash)
//   - 旧形式 "sha256(password+salt)のhex:salt"
func VerifyPassword(stored, password string) error {
	switch {
	case strings.HasPrefix(stored, "$2a$"), strings.HasPrefix(stored, "$2b$"), strings.HasPrefix(stored, "$2y$"):
		if err := bcrypt.CompareHashAndPassword([]byte(stored), []byte(password)); err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return errPasswordMismatch
			}
			return fmt.Errorf("%w: %v", errMalformedHash, err)
		}
		return nil
	case strings.HasPrefix(stored, "$argon2id$"):
		return verifyArgon2id(stored, password)
	default:
		return verifySaltedSHA256(stored, password)
	}
}

// SaltedSHA256 は旧形式のハッシュ文字列 "hex:salt" を生成します。
func SaltedSHA256(password, salt string) string {
	sum := sha256.Sum256([]byte(password + salt))
	return hex.EncodeToString(sum[:]) + ":" + salt
}

func verifySaltedSHA256(stored, password string) error {
	storedHash, salt, ok := strings.Cut(stored, ":")
	if !ok || storedHash == "" || salt == "" || strings.Contains(salt, ":") {
		return errMalformedHash
	}
	want, err := hex.DecodeString(storedHash)
	if err != nil || len(want) != sha256.Size {
		return errMalformedHash
	}
	got := sha256.Sum256([]byte(password + salt))
	if subtle.ConstantTimeCompare(got[:], want) != 1 {
		return errPasswordMismatch
	}
	return nil
}

func verifyArgon2id(stored, password string) error {
	// "", "argon2id", "v=19", "m=65536,t=2,p=1", salt, hash
	parts := strings.Split(stored, "$")
	if len(parts) != 6 {
		return errMalformedHash
	}
	var version int
	if _, err := fmt.Sscanf(parts[2], "v=%d", &version); err != nil || version != argon2.Version {
		return errMalformedHash
	}
	var memory, iterations uint32
	var parallelism uint8
	if _, err := fmt.Sscanf(parts[3], "m=%d,t=%d,p=%d", &memory, &iterations, &parallelism); err != nil {
		return errMalformedHash
	}
	if iterations == 0 || parallelism == 0 ||
		memory > maxArgon2Memory || iterations > maxArgon2Iterations || parallelism > maxArgon2Parallelism {
		return errMalformedHash
	}
	salt, err := decodeB64(parts[4])
	if err != nil || len(salt) > maxArgon2Bytes {
		return errMalformedHash
	}
	want, err := decodeB64(parts[5])
	if err != nil || len(want) == 0 || len(want) > maxArgon2Bytes {
		return errMalformedHash
	}

	got := argon2.IDKey([]byte(password), salt, iterations, memory, parallelism, uint32(len(want)))
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return errPasswordMismatch
	}
	return nil
}

// decodeB64 はPHC文字列で使われるパディングなしbase64を優先してデコードします。
func decodeB64(s string) ([]byte, error) {
	if b, err := base64.RawStdEncoding.DecodeString(s); err == nil {
		return b, nil
	}
	return base64.StdEncoding.DecodeString(s)
}
