package middleware

import (
	"net/http"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoles menolak request dengan 403 sebelum ada akses data apa pun
// jika himpunan role pemanggil tidak beririsan dengan required. Otorisasi
// adalah prasyarat operasi, bukan filter setelahnya.
func RequireRoles(required ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		callerRoles := model.RoleSetFromStrings(CallerRoles(c))
		if !callerRoles.HasAny(required...) {
			c.JSON(http.StatusForbidden,
				utils.BuildResponseFailed("Anda tidak memiliki akses ke fitur ini"))
			c.Abort()
			return
		}
		c.Next()
	}
}
