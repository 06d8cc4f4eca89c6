package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for any failed login
var ErrInvalidCredentials = errors.New("invalid username or password")

// PasswordCost is the bcrypt cost for admin password hashes
const PasswordCost = 12

// HashPassword returns the bcrypt hash stored in auth.admin_password_hash
func HashPassword(password string) (string, error) {
	if len(password) < 12 {
		return "", errors.New("admin password must be at least 12 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// AdminAuthenticator checks the configured administrator credential and
// issues tokens
type AdminAuthenticator struct {
	username     string
	passwordHash []byte
	tokens       *JWTService
	revoked      TokenRevocationList
}

// NewAdminAuthenticator creates an authenticator. Login is disabled when
// passwordHash is empty.
func NewAdminAuthenticator(username, passwordHash string, tokens *JWTService, revoked TokenRevocationList) *AdminAuthenticator {
	return &AdminAuthenticator{
		username:     username,
		passwordHash: []byte(passwordHash),
		tokens:       tokens,
		revoked:      revoked,
	}
}

// Enabled reports whether an admin password is configured
func (a *AdminAuthenticator) Enabled() bool {
	return len(a.passwordHash) > 0
}

// Login verifies the credential and issues a token
func (a *AdminAuthenticator) Login(username, password string) (*Token, error) {
	if !a.Enabled() {
		return nil, ErrInvalidCredentials
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.username)) == 1
	passErr := bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password))
	if !userOK || passErr != nil {
		return nil, ErrInvalidCredentials
	}
	return a.tokens.Issue(a.username)
}

// Authenticate validates a bearer token and checks it was not revoked
func (a *AdminAuthenticator) Authenticate(ctx context.Context, token string) (*Claims, error) {
	claims, err := a.tokens.Validate(token)
	if err != nil {
		return nil, err
	}
	if a.revoked != nil {
		revoked, err := a.revoked.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Logout revokes the token for the rest of its lifetime
func (a *AdminAuthenticator) Logout(ctx context.Context, claims *Claims) error {
	if a.revoked == nil {
		return nil
	}
	return a.revoked.Revoke(ctx, claims.ID, claims.RemainingTTL())
}
