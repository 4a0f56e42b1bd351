package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/yumpooma/utils"
)

const (
	// AdminTokenCookie carries the admin token for browser clients.
	AdminTokenCookie = "admin_token"

	ContextAdminID  = "admin_id"
	ContextUsername = "username"
)

// bearerToken looks in the Authorization header, then the token query
// parameter used by websocket clients, then the admin cookie.
func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if token := c.Query("token"); token != "" {
		return token
	}
	if cookie, err := c.Cookie(AdminTokenCookie); err == nil {
		return cookie
	}
	return ""
}

func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Authorization token missing"))
			c.Abort()
			return
		}

		claims, err := tokens.ParseToken(tokenString)
		if err != nil {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(ContextAdminID, claims.AdminID)
		c.Set(ContextUsername, claims.Username)
		c.Next()
	}
}
