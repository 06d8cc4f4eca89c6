package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	reportapp "github.com/partsshop/storefront/internal/application/report"
	shippingapp "github.com/partsshop/storefront/internal/application/shipping"
	"github.com/partsshop/storefront/internal/domain/shipping"
	"github.com/partsshop/storefront/internal/infrastructure/auth"
	"github.com/partsshop/storefront/internal/infrastructure/logger"
	"github.com/partsshop/storefront/internal/interfaces/http/dto"
	"github.com/partsshop/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// AdminHandler serves the read-only shipping administration API
type AdminHandler struct {
	BaseHandler
	shippingService *shippingapp.Service
	reportService   *reportapp.ShippingReportService
	authenticator   *auth.AdminAuthenticator
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(
	shippingService *shippingapp.Service,
	reportService *reportapp.ShippingReportService,
	authenticator *auth.AdminAuthenticator,
) *AdminHandler {
	return &AdminHandler{
		shippingService: shippingService,
		reportService:   reportService,
		authenticator:   authenticator,
	}
}

// LoginRequest is the administrator credential
//
//	@Description	Administrator credential
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"admin"`
	Password string `json:"password" binding:"required,max=200" example:"correct-horse-battery"`
}

// ListZones godoc
// @ID           listShippingZones
//
//	@Summary		List shipping zones
//	@Description	Zones in resolution order with their postcode ranges
//	@Tags			admin
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]shippingapp.ZoneResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/shipping/zones [get]
func (h *AdminHandler) ListZones(c *gin.Context) {
	h.Success(c, h.shippingService.ListZones(c.Request.Context()))
}

// ListRates godoc
// @ID           listShippingRates
//
//	@Summary		List weight bands
//	@Description	Weight bands filtered by zone and method
//	@Tags			admin
//	@Produce		json
//	@Param			zoneId	query		string	false	"Zone ID"
//	@Param			method	query		string	false	"Shipping method"	Enums(standard, express)
//	@Success		200		{object}	APIResponse[[]shippingapp.RateResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/shipping/rates [get]
func (h *AdminHandler) ListRates(c *gin.Context) {
	rates, err := h.shippingService.ListRates(c.Request.Context(), c.Query("zoneId"), c.Query("method"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, rates)
}

// ValidateTables godoc
// @ID           validateShippingTables
//
//	@Summary		Validate shipping tables
//	@Description	Dry-run a candidate tables document (JSON or YAML) against the coverage rules without installing it
//	@Tags			admin
//	@Accept			json
//	@Accept			x-yaml
//	@Produce		json
//	@Param			request	body		shipping.TablesDocument	true	"Candidate tables"
//	@Success		200		{object}	APIResponse[shippingapp.ValidateTablesResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/shipping/tables/validate [post]
func (h *AdminHandler) ValidateTables(c *gin.Context) {
	var doc shipping.TablesDocument
	var err error
	switch c.ContentType() {
	case binding.MIMEYAML, binding.MIMEYAML2:
		err = c.ShouldBindYAML(&doc)
	default:
		err = c.ShouldBindJSON(&doc)
	}
	if err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.shippingService.ValidateTables(c.Request.Context(), doc)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ShippingReport godoc
// @ID           shippingReport
//
//	@Summary		Shipping report
//	@Description	Shipping charged per zone and method over placed orders. Defaults to the last 30 days.
//	@Tags			admin
//	@Produce		json
//	@Param			from	query		string	false	"Start date"	format(date)
//	@Param			to		query		string	false	"End date"		format(date)
//	@Success		200		{object}	APIResponse[reportapp.ShippingReportResponse]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/reports/shipping [get]
func (h *AdminHandler) ShippingReport(c *gin.Context) {
	var filter reportapp.ShippingReportFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, "Dates must use the YYYY-MM-DD format")
		return
	}

	report, err := h.reportService.Summary(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, report)
}

// Login godoc
// @ID           adminLogin
//
//	@Summary		Issue admin token
//	@Description	Exchange the administrator credential for a bearer token
//	@Tags			admin
//	@Accept			json
//	@Produce		json
//	@Param			request	body		LoginRequest	true	"Credential"
//	@Success		200		{object}	APIResponse[auth.Token]
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		429		{object}	ErrorResponse
//	@Router			/admin/auth/token [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	token, err := h.authenticator.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			logger.GetGinLogger(c).Warn("Admin login rejected", zap.String("client_ip", c.ClientIP()))
			h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	logger.GetGinLogger(c).Info("Admin token issued", zap.String("client_ip", c.ClientIP()))
	h.Success(c, token)
}

// Logout godoc
// @ID           adminLogout
//
//	@Summary		Revoke admin token
//	@Description	Revoke the bearer token used for this request
//	@Tags			admin
//	@Success		204
//	@Failure		401	{object}	ErrorResponse
//	@Security		BearerAuth
//	@Router			/admin/auth/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	if err := h.authenticator.Logout(c.Request.Context(), claims); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
