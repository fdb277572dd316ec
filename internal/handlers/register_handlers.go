package handlers

import (
	"time"

	portssvc "github.com/SscSPs/balance_ledger/internal/core/ports/services"
	"github.com/SscSPs/balance_ledger/internal/middleware"
	"github.com/SscSPs/balance_ledger/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces.
// rateLimiter may be nil to disable rate limiting.
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	r.Use(cors.New(corsConfig(cfg)))

	r.GET("/health", getHealth)

	setupAPIV1Routes(r, cfg, services, rateLimiter)
}

func corsConfig(cfg *config.Config) cors.Config {
	corsCfg := cors.DefaultConfig()
	if len(cfg.CORSAllowedOrigins) == 0 || (len(cfg.CORSAllowedOrigins) == 1 && cfg.CORSAllowedOrigins[0] == "*") {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORSAllowedOrigins
	}
	corsCfg.AddAllowHeaders("Authorization", middleware.RequestIDHeader)
	corsCfg.AddExposeHeaders(middleware.RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining")
	corsCfg.MaxAge = 12 * time.Hour
	return corsCfg
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	rateLimiter *limiter.Limiter,
) {
	v1 := r.Group("/api/v1")
	if cfg.AuthEnabled() {
		v1.Use(middleware.AuthMiddleware(cfg.JWTSecret, cfg.JWTIssuer))
	}

	var mutationMiddleware []gin.HandlerFunc
	if rateLimiter != nil {
		mutationMiddleware = append(mutationMiddleware, middleware.RateLimit(rateLimiter))
	}

	RegisterAccountRoutes(v1, services, mutationMiddleware...)
}
