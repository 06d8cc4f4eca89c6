package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	checkoutapp "github.com/partsshop/storefront/internal/application/checkout"
	"github.com/partsshop/storefront/internal/domain/checkout"
)

// OrderHandler serves placed orders
type OrderHandler struct {
	BaseHandler
	checkoutService *checkoutapp.Service
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(checkoutService *checkoutapp.Service) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
	}
}

// Get godoc
// @ID           getOrder
//
//	@Summary		Get order
//	@Description	Look up a placed order by ID or by order number (PS-YYYYMMDD-NNNN)
//	@Tags			orders
//	@Produce		json
//	@Param			ref	path		string	true	"Order ID or order number"
//	@Success		200	{object}	APIResponse[checkoutapp.OrderResponse]
//	@Failure		404	{object}	ErrorResponse
//	@Router			/orders/{ref} [get]
func (h *OrderHandler) Get(c *gin.Context) {
	ref := c.Param("ref")

	var (
		order *checkoutapp.OrderResponse
		err   error
	)
	if id, parseErr := uuid.Parse(ref); parseErr == nil {
		order, err = h.checkoutService.GetOrder(c.Request.Context(), id)
	} else {
		order, err = h.checkoutService.GetOrderByNumber(c.Request.Context(), ref)
	}
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// List godoc
// @ID           listCustomerOrders
//
//	@Summary		List a customer's orders
//	@Description	Order history for one customer, newest first
//	@Tags			orders
//	@Produce		json
//	@Param			customerId	query		string	true	"Customer ID"	format(uuid)
//	@Param			page		query		int		false	"Page number"	default(1)
//	@Param			page_size	query		int		false	"Page size"		default(20)	maximum(100)
//	@Success		200			{object}	APIResponse[[]checkoutapp.OrderResponse]
//	@Failure		400			{object}	ErrorResponse
//	@Router			/orders [get]
func (h *OrderHandler) List(c *gin.Context) {
	customerID, err := uuid.Parse(c.Query("customerId"))
	if err != nil {
		h.BadRequest(c, "Invalid customerId format")
		return
	}

	var filter checkoutapp.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BindError(c, err)
		return
	}

	orders, total, err := h.checkoutService.ListCustomerOrders(c.Request.Context(), customerID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	page := checkout.OrderFilter{Page: filter.Page, PageSize: filter.PageSize}.Normalize()
	h.SuccessWithMeta(c, orders, total, page.Page, page.PageSize)
}
