package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"matchscore-backend/internal/account"
	googleauth "matchscore-backend/internal/auth"
	"matchscore-backend/internal/documents"
	"matchscore-backend/internal/scans"
	"matchscore-backend/internal/shared/config"
	"matchscore-backend/internal/shared/metrics"
	"matchscore-backend/internal/shared/server/middleware"
	"matchscore-backend/internal/shared/server/respond"
	"matchscore-backend/internal/usage"
	"matchscore-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up. Nil handlers are
// skipped so partial wirings (tests, worker-only deploys) stay usable.
type RouterDeps struct {
	Config          config.Config
	DocumentHandler *documents.Handler
	ScanHandler     *scans.Handler
	UsageHandler    *usage.Handler
	UserHandler     *users.Handler
	AccountHandler  *account.Handler
	GoogleAuth      *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	cfg := deps.Config
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(cfg.CORSAllowOrigin),
		middleware.Auth(cfg.Env),
		middleware.RateLimit(rateLimits()),
	)

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.JSON(c, http.StatusOK, gin.H{"ok": true})
	})
	api.GET("/metrics", metrics.Handler())

	if deps.GoogleAuth != nil {
		deps.GoogleAuth.RegisterRoutes(api)
	}
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	} else {
		registerMeRoutes(api)
	}
	if deps.DocumentHandler != nil {
		deps.DocumentHandler.RegisterRoutes(api)
	}
	if deps.ScanHandler != nil {
		deps.ScanHandler.RegisterRoutes(api)
	}
	if deps.AccountHandler != nil {
		deps.AccountHandler.RegisterRoutes(api)
	}
	if deps.UsageHandler != nil {
		deps.UsageHandler.RegisterRoutes(api)
		if cfg.Env == "dev" {
			dev := api.Group("/dev")
			deps.UsageHandler.RegisterDevRoutes(dev)
		}
	}

	return r
}

// rateLimits gives status polling more headroom than mutating routes.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			if c.Request.Method == http.MethodGet && c.FullPath() == "/api/v1/scans/:id" {
				return "POLLING"
			}
			return ""
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 10, Burst: 50},
			"POLLING": {Rate: 25, Burst: 100},
		},
	}
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
