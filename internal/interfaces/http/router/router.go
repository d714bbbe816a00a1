package router

import (
	"github.com/catalogsync/backend/internal/interfaces/http/handler"
	"github.com/catalogsync/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Sync     *handler.SyncHandler
	Provider *handler.ProviderHandler
	Health   *handler.HealthHandler
}

// New builds the gin engine with all routes mounted
func New(logger *zap.Logger, h Handlers, env string) *gin.Engine {
	if env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestLogger(logger))

	r.GET("/healthz", h.Health.Healthz)

	v1 := r.Group("/api/v1")
	{
		v1.POST("/sync", h.Sync.RunSync)
		v1.POST("/sync/all", h.Sync.RunSyncAll)
		v1.GET("/sync/jobs", h.Sync.ListJobs)
		v1.GET("/sync/jobs/:id", h.Sync.GetJob)

		v1.GET("/providers", h.Provider.List)
		v1.PATCH("/providers/:key", h.Provider.Update)
		v1.POST("/providers/:key/test", h.Provider.Test)
	}

	return r
}
