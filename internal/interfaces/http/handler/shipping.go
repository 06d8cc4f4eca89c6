package handler

import (
	"github.com/gin-gonic/gin"
	shippingapp "github.com/partsshop/storefront/internal/application/shipping"
)

// ShippingHandler serves the public shipping calculator
type ShippingHandler struct {
	BaseHandler
	shippingService *shippingapp.Service
}

// NewShippingHandler creates a new ShippingHandler
func NewShippingHandler(shippingService *shippingapp.Service) *ShippingHandler {
	return &ShippingHandler{
		shippingService: shippingService,
	}
}

// Calculate godoc
// @ID           calculateShipping
//
//	@Summary		Calculate shipping
//	@Description	Quote the shipping cost for a postcode and total weight in kilograms
//	@Tags			shipping
//	@Accept			json
//	@Produce		json
//	@Param			request	body		shippingapp.CalculateRequest	true	"Destination and parcel"
//	@Success		200		{object}	APIResponse[shippingapp.QuoteResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/shipping/calculate [post]
func (h *ShippingHandler) Calculate(c *gin.Context) {
	var req shippingapp.CalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	quote, err := h.shippingService.Calculate(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// Methods godoc
// @ID           listShippingMethods
//
//	@Summary		List shipping methods
//	@Description	Shipping methods offered at checkout
//	@Tags			shipping
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]shippingapp.MethodResponse]
//	@Router			/shipping/methods [get]
func (h *ShippingHandler) Methods(c *gin.Context) {
	h.Success(c, h.shippingService.ListMethods(c.Request.Context()))
}
