package shipping

import (
	"fmt"

	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvalidInputError reports a malformed quote request: a postcode that is
// not four digits, a negative or non-finite weight, an unknown method, or a
// cart item with a negative price or quantity. It is a caller mistake and is
// never retried.
type InvalidInputError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func newInvalidInput(field, reason string) *InvalidInputError {
	return &InvalidInputError{Field: field, Reason: reason}
}

// Error implements the error interface
func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Code returns the stable error code
func (e *InvalidInputError) Code() string {
	return shared.CodeInvalidInput
}

// Is lets errors.Is match shared.ErrInvalidInput
func (e *InvalidInputError) Is(target error) bool {
	return target == shared.ErrInvalidInput
}

// ConfigurationError reports a gap in the reference tables: no zone matched
// the postcode, the zone has no bands for the method, or the weight falls
// between bands. It points at data entry, not at the customer.
type ConfigurationError struct {
	ZoneID   string          `json:"zone_id"`
	Method   Method          `json:"method"`
	Weight   decimal.Decimal `json:"weight"`
	Postcode string          `json:"postcode"`
	Reason   string          `json:"reason"`
}

// Error implements the error interface
func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("shipping configuration error (zone=%q method=%q weight=%s postcode=%s): %s",
		e.ZoneID, e.Method, e.Weight.String(), e.Postcode, e.Reason)
}

// Code returns the stable error code
func (e *ConfigurationError) Code() string {
	return shared.CodeShippingUnavailable
}
