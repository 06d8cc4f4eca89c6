package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestAuthenticator(t *testing.T) (*AdminAuthenticator, *InMemoryRevocationList) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse battery"), bcrypt.MinCost)
	require.NoError(t, err)
	revoked := NewInMemoryRevocationList()
	return NewAdminAuthenticator("admin", string(hash), newTestJWTService(), revoked), revoked
}

func TestAdminAuthenticator_Login(t *testing.T) {
	a, _ := newTestAuthenticator(t)

	tests := []struct {
		name     string
		username string
		password string
		wantErr  bool
	}{
		{"valid", "admin", "correct horse battery", false},
		{"wrong password", "admin", "wrong", true},
		{"wrong user", "root", "correct horse battery", true},
		{"empty", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := a.Login(tt.username, tt.password)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidCredentials)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, token.AccessToken)
		})
	}
}

func TestAdminAuthenticator_Disabled(t *testing.T) {
	a := NewAdminAuthenticator("admin", "", newTestJWTService(), nil)
	assert.False(t, a.Enabled())
	_, err := a.Login("admin", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminAuthenticator_Logout(t *testing.T) {
	ctx := context.Background()
	a, revoked := newTestAuthenticator(t)

	token, err := a.Login("admin", "correct horse battery")
	require.NoError(t, err)

	claims, err := a.Authenticate(ctx, token.AccessToken)
	require.NoError(t, err)

	require.NoError(t, a.Logout(ctx, claims))
	isRevoked, err := revoked.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, isRevoked)

	_, err = a.Authenticate(ctx, token.AccessToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestHashPassword(t *testing.T) {
	_, err := HashPassword("short")
	assert.Error(t, err)

	hash, err := HashPassword("a long enough password")
	require.NoError(t, err)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("a long enough password")))
}

func TestInMemoryRevocationList(t *testing.T) {
	ctx := context.Background()
	l := NewInMemoryRevocationList()

	require.NoError(t, l.Revoke(ctx, "short", time.Millisecond))
	require.NoError(t, l.Revoke(ctx, "long", time.Hour))
	require.NoError(t, l.Revoke(ctx, "expired", 0))

	time.Sleep(5 * time.Millisecond)

	for jti, want := range map[string]bool{"short": false, "long": true, "expired": false, "unknown": false} {
		got, err := l.IsRevoked(ctx, jti)
		require.NoError(t, err)
		assert.Equal(t, want, got, jti)
	}
}
