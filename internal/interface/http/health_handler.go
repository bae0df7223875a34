package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	authapp "github.com/ankicc/backend/internal/application"
	"github.com/ankicc/backend/pkg/response"
)

// HealthHandler serves the raw connectivity checks the frontend polls during
// setup, plus the debug-gated test-user endpoint.
type HealthHandler struct {
	Pool *pgxpool.Pool
	Svc  *authapp.Service
}

func NewHealthHandler(pool *pgxpool.Pool, svc *authapp.Service) *HealthHandler {
	return &HealthHandler{Pool: pool, Svc: svc}
}

// CheckBackend handles GET /api/check_backend.
func (h *HealthHandler) CheckBackend(c *gin.Context) {
	c.String(http.StatusOK, "Backend reachable")
}

// CheckDB handles GET /api/check_db and pings the user directory.
func (h *HealthHandler) CheckDB(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.Pool.Ping(ctx); err != nil {
		response.Error[any](c, http.StatusInternalServerError, "database unreachable", nil)
		return
	}
	c.String(http.StatusOK, "Database reachable")
}

// AddTestUser handles POST /api/add_test_user. Registers a fixed throwaway
// account through the normal registration path so the whole
// validate-hash-insert chain gets exercised. Re-running it is fine: the
// second call reports the existing account.
func (h *HealthHandler) AddTestUser(c *gin.Context) {
	err := h.Svc.Register(c.Request.Context(), authapp.RegisterInput{
		Username: "test_user",
		Email:    "test_user@example.com",
		Password: "test_password",
	})
	switch {
	case err == nil:
		c.String(http.StatusOK, "Test user added")
	case errors.Is(err, authapp.ErrConflict):
		c.String(http.StatusOK, "Test user already present")
	default:
		response.Error[any](c, http.StatusInternalServerError, "test user not created", nil)
	}
}
