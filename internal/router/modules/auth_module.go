package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankicc/backend/internal/container"
	handlers "github.com/ankicc/backend/internal/interface/http"
	"github.com/ankicc/backend/internal/interface/middleware"
	"github.com/ankicc/backend/pkg/helpers"
)

type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	// Public endpoints with IP-based rate limits
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIPAndPath())
	loginLimiter := middleware.RateLimit(container.GetRedis(), 30, time.Minute, middleware.KeyByIPAndPath())

	rg.POST("/register_user", registerLimiter, m.Handler.RegisterUser)
	rg.POST("/login", loginLimiter, m.Handler.Login)

	// Token introspection requires a valid session token
	auth := rg.Group("/")
	auth.Use(middleware.Auth(m.JWT))
	{
		auth.GET("/check_token", m.Handler.CheckToken)
	}
}
