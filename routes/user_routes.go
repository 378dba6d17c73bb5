package routes

import (
	"net/http"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/service"
	"jejak-monev-backend/middleware"
	"jejak-monev-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UserHandler adalah pengelola request manajemen akun.
type UserHandler struct {
	adminService service.UserAdminService
}

// NewUserHandler membuat instance handler baru.
func NewUserHandler(adminService service.UserAdminService) *UserHandler {
	return &UserHandler{adminService: adminService}
}

// SetupUserRoutes mendaftarkan endpoint akun. Profil sendiri cukup login;
// manajemen user lain khusus SuperAdmin.
func (h *UserHandler) SetupUserRoutes(r *gin.Engine) {
	users := r.Group("/api/v1/users")
	users.Use(middleware.AuthMiddleware())
	{
		users.GET("/me", h.Me)
		users.PATCH("/me/information", h.UpdateOwnInformation)

		super := users.Group("")
		super.Use(middleware.RequireRoles(model.RoleSuperAdmin))
		{
			super.GET("", h.ListUsers)
			super.GET("/role/:role", h.ListUsersByRole)
			super.GET("/:id", h.GetUser)
			super.PATCH("/:id/roles", h.ChangeRoles)
			super.DELETE("/:id", h.DeleteUser)
		}
	}
}

// Me mengembalikan profil pemanggil sendiri.
func (h *UserHandler) Me(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	user, appErr := h.adminService.GetUser(userID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil profil", user))
}

// UpdateOwnInformation mengubah data akademik milik pemanggil sendiri.
// Patch parsial: hanya field yang dikirim yang berubah.
func (h *UserHandler) UpdateOwnInformation(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	var input struct {
		Name           *string `json:"name" binding:"omitempty,max=150"`
		NIM            *string `json:"nim" binding:"omitempty,max=20"`
		WhatsAppNumber *string `json:"nomor_whatsapp" binding:"omitempty,max=20"`
		StudyProgram   *string `json:"program_studi" binding:"omitempty,max=100"`
		Faculty        *string `json:"fakultas" binding:"omitempty,max=100"`
		Semester       *string `json:"semester" binding:"omitempty,numeric"`
		University     *string `json:"universitas" binding:"omitempty,max=150"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid"))
		return
	}

	updates := map[string]interface{}{}
	if input.Name != nil {
		updates["name"] = *input.Name
	}
	if input.NIM != nil {
		updates["nim"] = *input.NIM
	}
	if input.WhatsAppNumber != nil {
		updates["nomor_whatsapp"] = *input.WhatsAppNumber
	}
	if input.StudyProgram != nil {
		updates["program_studi"] = *input.StudyProgram
	}
	if input.Faculty != nil {
		updates["fakultas"] = *input.Faculty
	}
	if input.Semester != nil {
		updates["semester"] = *input.Semester
	}
	if input.University != nil {
		updates["universitas"] = *input.University
	}

	if appErr := h.adminService.UpdateOwnInformation(userID, updates); appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Informasi pengguna berhasil diperbarui", nil))
}

// ListUsers mengembalikan seluruh user beserta informasinya.
func (h *UserHandler) ListUsers(ctx *gin.Context) {
	users, appErr := h.adminService.ListUsers()
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil semua user", users))
}

// ListUsersByRole menyaring user berdasarkan satu role.
func (h *UserHandler) ListUsersByRole(ctx *gin.Context) {
	users, appErr := h.adminService.ListUsersByRole(model.Role(ctx.Param("role")))
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil user", users))
}

// GetUser mengembalikan detail satu user.
func (h *UserHandler) GetUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID user harus berupa UUID"))
		return
	}

	user, appErr := h.adminService.GetUser(id)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil detail user", user))
}

// ChangeRoles mengganti seluruh himpunan role seorang user.
func (h *UserHandler) ChangeRoles(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID user harus berupa UUID"))
		return
	}

	var input struct {
		Roles []string `json:"roles" binding:"required,min=1,dive,rolename"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid"))
		return
	}

	if appErr := h.adminService.ChangeRoles(id, input.Roles); appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Role user berhasil diperbarui", nil))
}

// DeleteUser menghapus user beserta seluruh data turunannya.
func (h *UserHandler) DeleteUser(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID user harus berupa UUID"))
		return
	}

	if appErr := h.adminService.DeleteUser(id); appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("User berhasil dihapus", nil))
}
