package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/partsshop/storefront/internal/infrastructure/auth"
	"github.com/partsshop/storefront/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

const (
	// AuthHeaderKey is the header carrying the bearer token
	AuthHeaderKey = "Authorization"
	// BearerPrefix prefixes the token in AuthHeaderKey
	BearerPrefix = "Bearer "
	// JWTClaimsKey is where AdminAuth stores *auth.Claims
	JWTClaimsKey = "jwt_claims"
)

// TokenAuthenticator validates bearer tokens. *auth.AdminAuthenticator
// satisfies it.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*auth.Claims, error)
}

// AdminAuth requires a valid admin bearer token
func AdminAuth(authenticator TokenAuthenticator, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		header := c.GetHeader(AuthHeaderKey)
		token, ok := strings.CutPrefix(header, BearerPrefix)
		if header == "" || !ok || strings.TrimSpace(token) == "" {
			abortAuth(c, logger, auth.ErrInvalidToken, "Missing or malformed authorization header")
			return
		}

		claims, err := authenticator.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			abortAuth(c, logger, err, "Token validation failed")
			return
		}

		c.Set(JWTClaimsKey, claims)
		c.Next()
	}
}

// GetClaims returns the claims stored by AdminAuth
func GetClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(JWTClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

func abortAuth(c *gin.Context, logger *zap.Logger, err error, message string) {
	logger.Warn("Admin authentication failed",
		zap.Error(err),
		zap.String("reason", message),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", GetRequestID(c)),
	)

	status, code, msg := http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required"
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		code, msg = dto.ErrCodeTokenExpired, "Token has expired"
	case errors.Is(err, auth.ErrTokenRevoked):
		code, msg = dto.ErrCodeTokenInvalid, "Token has been revoked"
	case errors.Is(err, auth.ErrForbidden):
		status, code, msg = http.StatusForbidden, dto.ErrCodeForbidden, "Administrator access required"
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidClaims), errors.Is(err, auth.ErrTokenNotYetValid):
		code, msg = dto.ErrCodeTokenInvalid, "Invalid token"
	}
	c.AbortWithStatusJSON(status, dto.NewErrorResponse(code, msg, GetRequestID(c)))
}
