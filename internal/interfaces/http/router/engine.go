package router

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/partsshop/storefront/internal/infrastructure/config"
	"github.com/partsshop/storefront/internal/infrastructure/logger"
	"github.com/partsshop/storefront/internal/interfaces/http/middleware"
	"go.uber.org/zap"
)

// NewEngine builds a gin engine with the global middleware chain:
// request ID, request logging, panic recovery, tracing, security headers,
// CORS and the body size limit, in that order.
func NewEngine(cfg *config.Config, log *zap.Logger) (*gin.Engine, error) {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()
	if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
		return nil, fmt.Errorf("invalid trusted proxies: %w", err)
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	if cfg.Telemetry.Enabled {
		engine.Use(middleware.Tracing(cfg.Telemetry.ServiceName)...)
	}
	engine.Use(middleware.Secure())

	cors := middleware.DefaultCORSConfig()
	cors.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	cors.AllowMethods = cfg.HTTP.CORSAllowMethods
	cors.AllowHeaders = cfg.HTTP.CORSAllowHeaders
	engine.Use(middleware.CORSWithConfig(cors))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	return engine, nil
}
