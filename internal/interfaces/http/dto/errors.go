package dto

import (
	"net/http"

	"github.com/partsshop/storefront/internal/domain/shared"
)

// Error codes returned in the envelope. Domain codes pass through unchanged.
const (
	ErrCodeInvalidInput        = shared.CodeInvalidInput
	ErrCodeValidation          = shared.CodeValidation
	ErrCodeShippingUnavailable = shared.CodeShippingUnavailable
	ErrCodeNotFound            = shared.CodeNotFound
	ErrCodeAlreadyExists       = shared.CodeAlreadyExists
	ErrCodeInvalidState        = shared.CodeInvalidState
	ErrCodeAlreadyPlaced       = shared.CodeAlreadyPlaced
	ErrCodeConcurrencyConflict = shared.CodeConcurrencyConflict
	ErrCodeUnauthorized        = shared.CodeUnauthorized

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeTokenExpired    = "TOKEN_EXPIRED"
	ErrCodeTokenInvalid    = "TOKEN_INVALID"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRateLimited     = "RATE_LIMITED"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInvalidInput:        http.StatusBadRequest,
	ErrCodeValidation:          http.StatusBadRequest,
	ErrCodeBadRequest:          http.StatusBadRequest,
	ErrCodeUnauthorized:        http.StatusUnauthorized,
	ErrCodeTokenExpired:        http.StatusUnauthorized,
	ErrCodeTokenInvalid:        http.StatusUnauthorized,
	ErrCodeForbidden:           http.StatusForbidden,
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeAlreadyPlaced:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,
	ErrCodeRequestTooLarge:     http.StatusRequestEntityTooLarge,
	ErrCodeInvalidState:        http.StatusUnprocessableEntity,
	ErrCodeRateLimited:         http.StatusTooManyRequests,
	ErrCodeShippingUnavailable: http.StatusInternalServerError,
	ErrCodeInternal:            http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code.
// Unknown codes map to 500.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
