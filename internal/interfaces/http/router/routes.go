package router

import (
	"github.com/gin-gonic/gin"
	"github.com/partsshop/storefront/internal/interfaces/http/handler"
)

// Handlers are the API handlers mounted by StorefrontGroups
type Handlers struct {
	Shipping *handler.ShippingHandler
	Checkout *handler.CheckoutHandler
	Orders   *handler.OrderHandler
	Admin    *handler.AdminHandler
}

// Guards are the per-route middleware. A nil guard is skipped.
type Guards struct {
	AdminAuth      gin.HandlerFunc
	CalculateLimit gin.HandlerFunc
	LoginLimit     gin.HandlerFunc
}

// StorefrontGroups returns the route groups of the storefront API
func StorefrontGroups(h Handlers, g Guards) []RouteRegistrar {
	shippingRoutes := NewDomainGroup("shipping", "/shipping")
	shippingRoutes.POST("/calculate", g.CalculateLimit, h.Shipping.Calculate)
	shippingRoutes.GET("/methods", h.Shipping.Methods)

	checkoutRoutes := NewDomainGroup("checkout", "/checkout")
	checkoutRoutes.POST("", h.Checkout.Start).
		GET("/:id", h.Checkout.Get).
		DELETE("/:id", h.Checkout.Abandon).
		PUT("/:id/contact", h.Checkout.UpdateContact).
		PUT("/:id/address", h.Checkout.UpdateAddress).
		PUT("/:id/shipping-method", h.Checkout.SelectShipping).
		PUT("/:id/payment", h.Checkout.UpdatePayment).
		POST("/:id/continue", h.Checkout.Continue).
		POST("/:id/back", h.Checkout.Back).
		POST("/:id/place", h.Checkout.Place)

	orderRoutes := NewDomainGroup("orders", "/orders")
	orderRoutes.GET("", h.Orders.List)
	orderRoutes.GET("/:ref", h.Orders.Get)

	adminRoutes := NewDomainGroup("admin", "/admin")
	adminRoutes.POST("/auth/token", g.LoginLimit, h.Admin.Login)

	protected := adminRoutes.Group("admin-protected", "")
	protected.Use(g.AdminAuth)
	protected.POST("/auth/logout", h.Admin.Logout)
	protected.GET("/shipping/zones", h.Admin.ListZones)
	protected.GET("/shipping/rates", h.Admin.ListRates)
	protected.POST("/shipping/tables/validate", h.Admin.ValidateTables)
	protected.GET("/reports/shipping", h.Admin.ShippingReport)

	return []RouteRegistrar{shippingRoutes, checkoutRoutes, orderRoutes, adminRoutes}
}
