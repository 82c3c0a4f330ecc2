package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"fluxfinance/internal/feature/auth/domain"
	"fluxfinance/internal/feature/auth/domain/entity"
)

// seedSession creates a test session in the database for testing.
func seedSession(t *testing.T, db *gorm.DB, id string, expiresAt time.Time, revokedAt *time.Time) *entity.Session {
	t.Helper()

	session := &SessionModel{
		ID:        id,
		UserID:    1,
		UserAgent: "test-agent",
		IPAddress: "127.0.0.1",
		CreatedAt: time.Now(),
		ExpiresAt: expiresAt,
		RevokedAt: revokedAt,
	}
	require.NoError(t, db.Create(session).Error, "failed to seed session")
	return session.ToEntity()
}

func TestSessionGorm_CreateAndFind(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	session := &entity.Session{
		ID:        "5f0c1d3e9a7b4c2d8e6f1a0b3c5d7e9f5f0c1d3e9a7b4c2d8e6f1a0b3c5d7e9f",
		UserID:    1,
		UserAgent: "Mozilla/5.0",
		IPAddress: "192.168.1.1",
		CreatedAt: time.Now(),
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}
	require.NoError(t, repo.Create(context.Background(), session))

	found, err := repo.FindByID(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)
	assert.Equal(t, session.UserID, found.UserID)
	assert.Equal(t, "Mozilla/5.0", found.UserAgent)
	assert.Nil(t, found.RevokedAt)
	assert.True(t, found.IsValid())
}

func TestSessionGorm_FindByID_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewSessionRepository(setupTestDB(t))

	_, err := repo.FindByID(context.Background(), "forged")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionGorm_Revoke(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		seed    bool
		revoked bool
		wantErr error
	}{
		{name: "active session", seed: true},
		{name: "unknown session", seed: false, wantErr: domain.ErrSessionNotFound},
		{name: "already revoked", seed: true, revoked: true, wantErr: domain.ErrSessionNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			db := setupTestDB(t)
			repo := NewSessionRepository(db)
			if tt.seed {
				var revokedAt *time.Time
				if tt.revoked {
					now := time.Now()
					revokedAt = &now
				}
				seedSession(t, db, "s1", time.Now().Add(time.Hour), revokedAt)
			}

			err := repo.Revoke(context.Background(), "s1")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)

			found, err := repo.FindByID(context.Background(), "s1")
			require.NoError(t, err)
			assert.True(t, found.IsRevoked())
			assert.False(t, found.IsValid())
		})
	}
}

func TestSessionGorm_DeleteExpired(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewSessionRepository(db)

	seedSession(t, db, "expired-1", time.Now().Add(-time.Hour), nil)
	seedSession(t, db, "expired-2", time.Now().Add(-time.Minute), nil)
	seedSession(t, db, "active", time.Now().Add(time.Hour), nil)

	n, err := repo.DeleteExpired(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	_, err = repo.FindByID(context.Background(), "active")
	assert.NoError(t, err)
	_, err = repo.FindByID(context.Background(), "expired-1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
