package handlers

import (
	"fmt"
	"time"

	portssvc "github.com/SscSPs/pos_ledger/internal/core/ports/services"
	"github.com/SscSPs/pos_ledger/internal/middleware"
	"github.com/SscSPs/pos_ledger/internal/platform/config"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) error {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", getHome)

	rate, err := limiter.NewRateFromFormatted(cfg.RateLimit)
	if err != nil {
		return fmt.Errorf("invalid RATE_LIMIT %q: %w", cfg.RateLimit, err)
	}
	ipLimiter := limiter.New(memory.NewStore(), rate)

	v1 := r.Group("/api/v1", middleware.RateLimit(ipLimiter), middleware.AuthMiddleware(cfg.JWTSecret))
	RegisterTenantRoutes(v1, services)
	return nil
}

// RegisterTenantRoutes mounts every tenant-scoped route under /tenants/:tenant_id.
// The group must already carry AuthMiddleware.
func RegisterTenantRoutes(v1 *gin.RouterGroup, services *portssvc.ServiceContainer) {
	tenant := v1.Group("/tenants/:tenant_id", middleware.TenantAccess())

	RegisterPostingRoutes(tenant, services.Journal)
	RegisterJournalRoutes(tenant, services.Journal)
	RegisterAccountRoutes(tenant, services.Account, services.Ledger)
	RegisterReportingRoutes(tenant, services.Ledger, services.Reporting)
}
