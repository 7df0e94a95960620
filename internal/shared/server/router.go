package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"quickai-backend/internal/shared/config"
	"quickai-backend/internal/shared/metrics"
	"quickai-backend/internal/shared/server/middleware"
)

// RouteRegistrar attaches a feature's routes to a router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// RouterDeps carries everything the router needs. Handlers are built by
// bootstrap and injected here; the router owns no business wiring.
type RouterDeps struct {
	Config            config.Config
	GenerationHandler RouteRegistrar
	CreationsHandler  RouteRegistrar

	// LocalFilesDir enables static serving of locally stored objects
	// under /files when non-empty.
	LocalFilesDir string
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Config.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
	)

	r.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "Server is live!"})
	})
	r.GET("/metrics", metrics.Handler())

	if deps.LocalFilesDir != "" {
		r.Static("/files", deps.LocalFilesDir)
	}

	ai := r.Group("/api/ai")
	ai.Use(middleware.Auth())
	deps.GenerationHandler.RegisterRoutes(ai)

	user := r.Group("/api/user")
	user.Use(middleware.Auth())
	deps.CreationsHandler.RegisterRoutes(user)

	return r
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
