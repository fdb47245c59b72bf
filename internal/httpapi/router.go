package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"modkeys-storefront/pkg/config"
	"modkeys-storefront/pkg/health"
	"modkeys-storefront/pkg/middleware"
	"modkeys-storefront/services/adminauth"
	"modkeys-storefront/services/catalog"
	"modkeys-storefront/services/claim"
	"modkeys-storefront/services/inventory"
	"modkeys-storefront/services/payment"
	"modkeys-storefront/services/recommend"
)

var Module = fx.Module("httpapi",
	fx.Provide(
		NewRouter,
		func(e *gin.Engine) http.Handler { return e },
	),
)

type RouterParams struct {
	fx.In

	Config    *config.Config
	Health    health.HealthService
	Catalog   *catalog.Catalog
	Inventory *inventory.Service
	Claims    *claim.Service
	Payments  *payment.Service
	Advisor   recommend.Recommender
	Auth      *adminauth.Service
}

func NewRouter(p RouterParams) *gin.Engine {
	if p.Config.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery(), accessLog(), middleware.Error())
	r.MaxMultipartMemory = maxScreenshotBytes

	r.GET("/healthz", p.Health.Liveness)
	r.GET("/readyz", p.Health.Readiness)

	h := &Handler{
		catalog:   p.Catalog,
		inventory: p.Inventory,
		claims:    p.Claims,
		payments:  p.Payments,
		advisor:   p.Advisor,
		auth:      p.Auth,
	}

	api := r.Group("/api/v1")
	{
		api.GET("/catalog/mods", h.ListMods)
		api.GET("/catalog/plans", h.ListPlans)
		api.GET("/keys/availability", h.Availability)
		api.GET("/keys/lookup", h.Lookup)
		api.POST("/claims", h.Claim)
		api.POST("/recommendations/plan", h.RecommendPlan)
		api.POST("/recommendations/mod", h.RecommendMod)
	}

	admin := r.Group("/admin/v1", adminauth.Middleware(p.Auth, p.Config.Admin.BootstrapToken))
	{
		admin.GET("/keys", h.AdminListKeys)
		admin.POST("/keys", h.AdminCreateKeys)
		admin.DELETE("/keys/:id", h.AdminDeleteKey)
		admin.GET("/stats", h.AdminStats)
		admin.GET("/payments", h.AdminListPayments)
		admin.POST("/apikeys", h.AdminIssueAPIKey)
		admin.DELETE("/apikeys/:id", h.AdminRevokeAPIKey)
	}

	return r
}

func accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		zap.L().Info("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}
