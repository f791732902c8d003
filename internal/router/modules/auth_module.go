package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jobtrackio/jobtrack-api/internal/container"
	handlers "github.com/jobtrackio/jobtrack-api/internal/interface/http"
	"github.com/jobtrackio/jobtrack-api/internal/interface/middleware"
	"github.com/jobtrackio/jobtrack-api/pkg/helpers"
)

// AuthModule wires the session endpoints under /api/auth.
// Public: register, login, refresh-token. Logout takes an optional token so
// it always returns 200. The rest require a bearer access token.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)    // 10 req/min per IP
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)  // 60 req/min per IP
	registerLimiter := middleware.RateLimit(container.GetRedis(), 5, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh-token", refreshLimiter, m.Handler.Refresh)
	auth.POST("/logout", middleware.OptionalAuth(m.JWT), m.Handler.Logout)

	protected := auth.Group("/")
	protected.Use(middleware.RequireAuth(m.JWT))
	{
		protected.GET("/me", m.Handler.Me)
		protected.PUT("/profile", m.Handler.UpdateProfile)
		protected.PUT("/password", m.Handler.ChangePassword)
	}
}
