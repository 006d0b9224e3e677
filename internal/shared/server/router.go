package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront-backend/internal/bundles"
	"storefront-backend/internal/fallback"
	"storefront-backend/internal/products"
	"storefront-backend/internal/recommend"
	"storefront-backend/internal/services/health"
	"storefront-backend/internal/shared/config"
	"storefront-backend/internal/shared/metrics"
	"storefront-backend/internal/shared/server/middleware"
	"storefront-backend/internal/shared/server/respond"
)

const recommendRateGroup = "RECOMMEND"

// RouterDeps carries the handlers mounted by NewRouter. Nil handlers are skipped.
type RouterDeps struct {
	Config           config.Config
	Health           *health.Service
	RecommendHandler *recommend.Handler
	BundleHandler    *bundles.Handler
	ProductHandler   *products.Handler
	FallbackHandler  *fallback.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			GroupFor: rateGroup,
			Rules:    rateRules(deps.Config),
		}),
	)

	r.GET("/metrics", metrics.Handler())

	if deps.RecommendHandler != nil {
		deps.RecommendHandler.RegisterRoutes(r.Group("/api"))
	}

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		if deps.Health == nil {
			respond.JSON(c, http.StatusOK, gin.H{"ok": true})
			return
		}
		status := deps.Health.Status(c.Request.Context())
		code := http.StatusOK
		if ok, _ := status["ok"].(bool); !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
	if deps.ProductHandler != nil {
		deps.ProductHandler.RegisterRoutes(api)
	}
	if deps.BundleHandler != nil {
		deps.BundleHandler.RegisterRoutes(api)
	}

	if config.IsDevLike(deps.Config.Env) {
		dev := api.Group("/dev", middleware.RequireDevToken(deps.Config.DevAuthSecret))
		if deps.RecommendHandler != nil {
			deps.RecommendHandler.RegisterDevRoutes(dev)
		}
		if deps.FallbackHandler != nil {
			deps.FallbackHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// rateRules disables limiting when rate or burst is not positive.
func rateRules(cfg config.Config) map[string]middleware.RateLimitRule {
	if cfg.RecsRatePerSec <= 0 || cfg.RecsRateBurst <= 0 {
		return nil
	}
	return map[string]middleware.RateLimitRule{
		recommendRateGroup: {Rate: cfg.RecsRatePerSec, Burst: cfg.RecsRateBurst},
	}
}

// rateGroup limits the routes that reach the generative API.
func rateGroup(c *gin.Context) string {
	if c.Request.Method != http.MethodPost {
		return ""
	}
	switch c.FullPath() {
	case "/api/recommendations", "/api/recommendations/widget":
		return recommendRateGroup
	}
	return ""
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
