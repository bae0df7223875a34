package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ankicc/backend/pkg/helpers"
	"github.com/ankicc/backend/pkg/response"
)

const (
	CtxUserIDKey   = "userID"
	CtxUsernameKey = "username"
)

// Auth validates the bearer session token and injects the user's id and
// username into the Gin context. Tokens are stateless; validity is entirely
// the signature plus the embedded expiry.
func Auth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.AbortError(c, http.StatusUnauthorized, "missing token")
			return
		}
		claims, err := jwt.ParseToken(token)
		if err != nil {
			response.AbortError(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUsernameKey, claims.Subject)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
