package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/partsshop/storefront/internal/interfaces/http/dto"
)

// SwaggerProtection hides the documentation endpoint unless enabled and,
// when guard is non-nil, runs guard first
func SwaggerProtection(enabled bool, guard gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !enabled {
			c.AbortWithStatusJSON(http.StatusNotFound, dto.NewErrorResponse(
				dto.ErrCodeNotFound, "API documentation is not available", GetRequestID(c)))
			return
		}
		if guard != nil {
			guard(c)
			if c.IsAborted() {
				return
			}
		}
		c.Next()
	}
}
