package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobtrackio/jobtrack-api/internal/container"
	handlers "github.com/jobtrackio/jobtrack-api/internal/interface/http"
	"github.com/jobtrackio/jobtrack-api/internal/interface/middleware"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
)

// JobModule wires the job tracker endpoints. Everything is behind RequireAuth
// and scoped to the authenticated user.
type JobModule struct {
	Handler *handlers.JobHandler
	JWT     *helpers.JWTManager
}

func NewJobModule(h *handlers.JobHandler, jwt *helpers.JWTManager) *JobModule {
	return &JobModule{Handler: h, JWT: jwt}
}

func (m *JobModule) Register(rg *gin.RouterGroup) {
	protected := rg.Group("/")
	protected.Use(middleware.RequireAuth(m.JWT))
	protected.Use(
		middleware.RateLimit(container.GetRedis(), 300, time.Minute, middleware.KeyByIP(), middleware.AllowPrivateIP()),
		middleware.RateLimit(container.GetRedis(), 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		protected.GET("/jobs", m.Handler.List)
		protected.POST("/jobs", m.Handler.Create)
		protected.GET("/jobs/export", m.Handler.Export)
		protected.GET("/jobs/search", m.Handler.Search)
		protected.GET("/jobs/:id", m.Handler.Get)
		protected.PUT("/jobs/:id", m.Handler.Update)
		protected.DELETE("/jobs/:id", m.Handler.Delete)
		protected.POST("/jobs/:id/attachment", m.Handler.UploadAttachment)
		protected.GET("/stats", m.Handler.Stats)
	}
}
