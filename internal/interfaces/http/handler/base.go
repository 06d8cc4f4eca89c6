// Package handler implements the storefront HTTP handlers.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/partsshop/storefront/internal/domain/checkout"
	"github.com/partsshop/storefront/internal/domain/shared"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/logger"
	"github.com/partsshop/storefront/internal/interfaces/http/dto"
	"github.com/partsshop/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// shippingUnavailableMessage is all a customer sees of a configuration gap
const shippingUnavailableMessage = "Cannot calculate shipping for this destination right now"

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 no content response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends an error response with an explicit status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponse(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// BindError answers a failed ShouldBind call: field details for validator
// errors, a plain 400 for malformed JSON
func (h *BaseHandler) BindError(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); details != nil {
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Request validation failed", middleware.GetRequestID(c), details))
		return
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Request body exceeds maximum allowed size")
		return
	}
	h.BadRequest(c, "Malformed request body")
}

// HandleError converts application errors to the response envelope
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	requestID := middleware.GetRequestID(c)

	var validationErr *checkout.ValidationError
	if errors.As(err, &validationErr) {
		details := make([]dto.ErrorDetail, len(validationErr.Fields))
		for i, f := range validationErr.Fields {
			details[i] = dto.ErrorDetail{Field: f.Field, Message: f.Message}
		}
		c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
			"Please correct the highlighted fields", requestID, details))
		return
	}

	var inputErr *shipping.InvalidInputError
	if errors.As(err, &inputErr) {
		resp := dto.NewErrorResponse(dto.ErrCodeInvalidInput, inputErr.Error(), requestID)
		resp.Error.Details = []dto.ErrorDetail{{Field: inputErr.Field, Message: inputErr.Reason}}
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	var configErr *shipping.ConfigurationError
	if errors.As(err, &configErr) {
		// Logged in full by the shipping service; the customer gets no table details
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.ErrCodeShippingUnavailable, shippingUnavailableMessage, requestID))
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		c.JSON(dto.GetHTTPStatus(domainErr.Code), dto.NewErrorResponse(domainErr.Code, domainErr.Message, requestID))
		return
	}

	logger.WithTraceContext(c.Request.Context(), logger.GetGinLogger(c)).Error("Unhandled request error", zap.Error(err))
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

// parseUUIDParam reads a UUID path parameter, answering 400 when malformed
func (h *BaseHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.BadRequest(c, "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}
