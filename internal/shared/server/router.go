package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"cvision-backend/internal/attachments"
	googleauth "cvision-backend/internal/auth"
	"cvision-backend/internal/cvs"
	"cvision-backend/internal/shared/config"
	"cvision-backend/internal/shared/metrics"
	"cvision-backend/internal/shared/server/middleware"
	"cvision-backend/internal/shared/server/respond"
	"cvision-backend/internal/users"
)

// RouterDeps carries the handlers the router wires up.
type RouterDeps struct {
	Config            config.Config
	CVHandler         *cvs.Handler
	AttachmentHandler *attachments.Handler
	PresignHandler    *attachments.PresignHandler
	UserHandler       *users.Handler
	GoogleAuth        *googleauth.GoogleService
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.Auth(deps.Config.Env),
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
	registerMeRoutes(api)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(api)
	}
	if deps.CVHandler != nil {
		deps.CVHandler.RegisterRoutes(api)
	}
	if deps.AttachmentHandler != nil {
		deps.AttachmentHandler.RegisterRoutes(api)
	}
	if deps.PresignHandler != nil {
		deps.PresignHandler.RegisterRoutes(api)
	}

	return r
}

// rateLimits throttles PDF rendering harder than plain CRUD; a render walks
// the whole aggregate and builds pages in memory.
func rateLimits() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		Rules: map[string]middleware.RateLimitRule{
			"EXPORT":  {Rate: 1, Burst: 5},
			"DEFAULT": {Rate: 10, Burst: 30},
		},
		GroupFor: func(c *gin.Context) string {
			if strings.HasSuffix(c.Request.URL.Path, "/export") {
				return "EXPORT"
			}
			return ""
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
