package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ankicc/backend/internal/container"
	handlers "github.com/ankicc/backend/internal/interface/http"
	"github.com/ankicc/backend/internal/interface/middleware"
)

// DebugModule exposes endpoints that only make sense outside production.
// It is registered only when DEBUG_ENDPOINTS_ENABLED is set.
type DebugModule struct {
	Handler *handlers.HealthHandler
}

func NewDebugModule(h *handlers.HealthHandler) *DebugModule {
	return &DebugModule{Handler: h}
}

func (m *DebugModule) Register(rg *gin.RouterGroup) {
	rl := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP())
	rg.POST("/add_test_user", rl, m.Handler.AddTestUser)
}
