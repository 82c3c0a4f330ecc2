package main

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"fluxfinance/internal/feature/auth/domain"
)

type mockRegistrar struct {
	calls int
	err   error
}

func (m *mockRegistrar) Register(context.Context, string, string, string) error {
	m.calls++
	return m.err
}

func TestRun(t *testing.T) {
	t.Parallel()

	seed := seedConfig{AdminEmail: "admin@fluxfinance.com", AdminName: "Admin", AdminPassword: "password123"}
	boom := errors.New("disk full")

	tests := []struct {
		name    string
		err     error
		wantErr error
	}{
		{name: "created"},
		{name: "already exists is a no-op", err: domain.ErrEmailAlreadyExists},
		{name: "store failure", err: boom, wantErr: boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := &mockRegistrar{err: tt.err}
			err := run(context.Background(), m, seed)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.wantErr == nil {
				assert.NoError(t, err)
			}
			assert.Equal(t, 1, m.calls)
		})
	}
}
