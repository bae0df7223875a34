package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/ankicc/backend/internal/interface/http"
)

type HealthModule struct {
	Handler *handlers.HealthHandler
}

func NewHealthModule(h *handlers.HealthHandler) *HealthModule {
	return &HealthModule{Handler: h}
}

func (m *HealthModule) Register(rg *gin.RouterGroup) {
	rg.GET("/check_backend", m.Handler.CheckBackend)
	rg.GET("/check_db", m.Handler.CheckDB)
}
