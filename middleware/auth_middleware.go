package middleware

import (
	"net/http"
	"strings"

	"jejak-monev-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// ContextUserID adalah key gin.Context berisi uuid.UUID user pemanggil.
	ContextUserID = "userID"
	// ContextRoles adalah key gin.Context berisi []string role pemanggil.
	ContextRoles = "roles"
)

// AuthMiddleware memvalidasi JWT dari header Authorization (Bearer token)
// dan menyimpan identitas pemanggil (userID, roles) ke dalam context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" || !strings.HasPrefix(auth, "Bearer ") {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Token autentikasi wajib disertakan"))
			c.Abort()
			return
		}

		tokenString := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Token autentikasi wajib disertakan"))
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized,
				utils.BuildResponseFailed("Token tidak valid atau sudah kedaluwarsa"))
			c.Abort()
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRoles, claims.Roles)

		c.Next()
	}
}

// CallerID mengambil uuid user pemanggil yang di-set AuthMiddleware.
func CallerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// CallerRoles mengambil daftar role pemanggil yang di-set AuthMiddleware.
func CallerRoles(c *gin.Context) []string {
	v, ok := c.Get(ContextRoles)
	if !ok {
		return nil
	}
	roles, _ := v.([]string)
	return roles
}
