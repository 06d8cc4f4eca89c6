package handler

import (
	"github.com/gin-gonic/gin"
	checkoutapp "github.com/partsshop/storefront/internal/application/checkout"
)

// CheckoutHandler drives the checkout stages
type CheckoutHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *checkoutapp.Service) *CheckoutHandler {
	return &CheckoutHandler{
		checkoutService: checkoutService,
	}
}

// Start godoc
// @ID           startCheckout
//
//	@Summary		Start checkout
//	@Description	Snapshot the cart into a new checkout session at the INFORMATION stage
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			request	body		checkoutapp.StartCheckoutRequest	true	"Cart snapshot"
//	@Success		201		{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/checkout [post]
func (h *CheckoutHandler) Start(c *gin.Context) {
	var req checkoutapp.StartCheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.Start(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// Get godoc
// @ID           getCheckout
//
//	@Summary		Get checkout session
//	@Description	Current stage, details and running total of a checkout session
//	@Tags			checkout
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"	format(uuid)
//	@Success		200	{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Router			/checkout/{id} [get]
func (h *CheckoutHandler) Get(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.checkoutService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// UpdateContact godoc
// @ID           updateCheckoutContact
//
//	@Summary		Update contact details
//	@Description	Record the customer's email, phone and newsletter choice
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Session ID"	format(uuid)
//	@Param			request	body		checkoutapp.UpdateContactRequest	true	"Contact details"
//	@Success		200		{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/checkout/{id}/contact [put]
func (h *CheckoutHandler) UpdateContact(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req checkoutapp.UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.UpdateContact(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// UpdateAddress godoc
// @ID           updateCheckoutAddress
//
//	@Summary		Update delivery address
//	@Description	Record the delivery address. Changing the postcode re-prices any selected shipping method.
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Session ID"	format(uuid)
//	@Param			request	body		checkoutapp.UpdateAddressRequest	true	"Delivery address"
//	@Success		200		{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/checkout/{id}/address [put]
func (h *CheckoutHandler) UpdateAddress(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req checkoutapp.UpdateAddressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.UpdateAddress(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// SelectShipping godoc
// @ID           selectCheckoutShipping
//
//	@Summary		Select shipping method
//	@Description	Choose standard or express and price it for the delivery postcode
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Session ID"	format(uuid)
//	@Param			request	body		checkoutapp.SelectShippingRequest	true	"Shipping method"
//	@Success		200		{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/checkout/{id}/shipping-method [put]
func (h *CheckoutHandler) SelectShipping(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req checkoutapp.SelectShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.SelectShipping(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// UpdatePayment godoc
// @ID           updateCheckoutPayment
//
//	@Summary		Update payment details
//	@Description	Record the payment method. Card details are validated but never returned.
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string							true	"Session ID"	format(uuid)
//	@Param			request	body		checkoutapp.UpdatePaymentRequest	true	"Payment details"
//	@Success		200		{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/checkout/{id}/payment [put]
func (h *CheckoutHandler) UpdatePayment(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req checkoutapp.UpdatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.UpdatePayment(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Continue godoc
// @ID           continueCheckout
//
//	@Summary		Continue to the next stage
//	@Description	Validate the current stage and advance. Field errors are returned as validation details.
//	@Tags			checkout
//	@Produce		json
//	@Param			id	path		string	true	"Session ID"	format(uuid)
//	@Success		200	{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/checkout/{id}/continue [post]
func (h *CheckoutHandler) Continue(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	session, err := h.checkoutService.Continue(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Back godoc
// @ID           backCheckout
//
//	@Summary		Return to an earlier stage
//	@Description	Navigate back to a stage that was already completed
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string					true	"Session ID"	format(uuid)
//	@Param			request	body		checkoutapp.BackRequest	true	"Target stage"
//	@Success		200		{object}	APIResponse[checkoutapp.SessionResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/checkout/{id}/back [post]
func (h *CheckoutHandler) Back(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req checkoutapp.BackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.checkoutService.Back(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// Place godoc
// @ID           placeOrder
//
//	@Summary		Place the order
//	@Description	Accept the terms and turn a REVIEW session into an order. A session places at most one order.
//	@Tags			checkout
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Session ID"	format(uuid)
//	@Param			request	body		checkoutapp.PlaceOrderRequest	true	"Terms acceptance"
//	@Success		201		{object}	APIResponse[checkoutapp.OrderResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		500		{object}	ErrorResponse
//	@Router			/checkout/{id}/place [post]
func (h *CheckoutHandler) Place(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req checkoutapp.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.checkoutService.Place(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// Abandon godoc
// @ID           abandonCheckout
//
//	@Summary		Abandon checkout
//	@Description	Discard a session that has not been placed
//	@Tags			checkout
//	@Param			id	path	string	true	"Session ID"	format(uuid)
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/checkout/{id} [delete]
func (h *CheckoutHandler) Abandon(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.checkoutService.Abandon(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
