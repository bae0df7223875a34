package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	authapp "github.com/ankicc/backend/internal/application"
	"github.com/ankicc/backend/internal/interface/middleware"
	"github.com/ankicc/backend/pkg/response"
	"github.com/ankicc/backend/pkg/validation"
)

// AuthHandler exposes registration, login and token checking. Success bodies
// are plain strings (the frontend expects the raw token from /login); errors
// use the JSON envelope with a generic message.
type AuthHandler struct {
	Svc    *authapp.Service
	Logger *logrus.Logger
}

func NewAuthHandler(svc *authapp.Service, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Svc: svc, Logger: logger}
}

type registerRequest struct {
	Username string `json:"username" binding:"required,uname"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,pwd"`
}

type loginRequest struct {
	UsernameOrEmail string `json:"username_or_email" binding:"required"`
	Password        string `json:"password" binding:"required"`
}

// RegisterUser handles POST /api/register_user.
func (h *AuthHandler) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	err := h.Svc.Register(c.Request.Context(), authapp.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	c.String(http.StatusOK, "Registered")
}

// Login handles POST /api/login. On success the body is the signed session
// token itself.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	token, err := h.Svc.Login(c.Request.Context(), req.UsernameOrEmail, req.Password)
	if err != nil {
		h.writeAuthError(c, err)
		return
	}
	c.String(http.StatusOK, token)
}

// CheckToken handles GET /api/check_token. The Auth middleware has already
// verified the bearer token; reaching here means it is valid.
func (h *AuthHandler) CheckToken(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"user_id":  c.GetString(middleware.CtxUserIDKey),
		"username": c.GetString(middleware.CtxUsernameKey),
	}, "token valid")
}

// writeAuthError maps service errors onto the HTTP surface. Bodies stay
// generic: no field echoes, no storage detail.
func (h *AuthHandler) writeAuthError(c *gin.Context, err error) {
	var verr *validation.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Error[any](c, http.StatusBadRequest, "invalid payload", map[string]string{verr.Field: verr.Rule})
	case errors.Is(err, authapp.ErrConflict):
		response.Error[any](c, http.StatusConflict, "username or email already registered", nil)
	case errors.Is(err, authapp.ErrInvalidCredentials):
		response.Error[any](c, http.StatusUnauthorized, "invalid credentials", nil)
	default:
		if h.Logger != nil {
			h.Logger.WithError(err).Error("auth request failed")
		}
		response.Error[any](c, http.StatusInternalServerError, "internal error", nil)
	}
}
