package checkout

import (
	"fmt"
	"strings"

	"github.com/partsshop/storefront/internal/domain/shared"
)

// FieldError is a single field-level validation message
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a stage transition. It is always recoverable:
// the customer corrects the listed fields and retries.
type ValidationError struct {
	Stage  Stage        `json:"stage"`
	Fields []FieldError `json:"fields"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return fmt.Sprintf("checkout %s stage is incomplete: %s", e.Stage, strings.Join(parts, "; "))
}

// Code returns the stable error code
func (e *ValidationError) Code() string {
	return shared.CodeValidation
}

// HasField reports whether the named field failed validation
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

type fieldCollector struct {
	fields []FieldError
}

func (c *fieldCollector) add(field, message string) {
	c.fields = append(c.fields, FieldError{Field: field, Message: message})
}

func (c *fieldCollector) err(stage Stage) error {
	if len(c.fields) == 0 {
		return nil
	}
	return &ValidationError{Stage: stage, Fields: c.fields}
}
