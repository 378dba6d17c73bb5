package routes

import (
	"net/http"

	"jejak-monev-backend/app/service"
	"jejak-monev-backend/utils"

	"github.com/gin-gonic/gin"
)

// AuthHandler adalah pengelola request untuk fitur autentikasi.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler membuat instance handler baru; dipanggil di main.go.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SetupAuthRoutes mendaftarkan endpoint autentikasi (publik).
func (h *AuthHandler) SetupAuthRoutes(r *gin.Engine) {
	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", h.Register)
		authGroup.POST("/login", h.Login)
	}
}

// Register menangani pendaftaran akun baru. Role selalu Mahasiswa;
// UserInformation dibuat bersamaan dalam satu transaksi.
func (h *AuthHandler) Register(ctx *gin.Context) {
	var input struct {
		Email          string `json:"email" binding:"required,email"`
		Password       string `json:"password" binding:"required,min=6"`
		Name           string `json:"name" binding:"required,max=150"`
		NIM            string `json:"nim" binding:"required,max=20"`
		WhatsAppNumber string `json:"nomor_whatsapp" binding:"omitempty,max=20"`
		StudyProgram   string `json:"program_studi" binding:"omitempty,max=100"`
		Faculty        string `json:"fakultas" binding:"omitempty,max=100"`
		Semester       string `json:"semester" binding:"required,numeric"`
		University     string `json:"universitas" binding:"omitempty,max=150"`
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input tidak valid"))
		return
	}

	user, appErr := h.authService.Register(service.RegisterInput{
		Email:          input.Email,
		Password:       input.Password,
		FullName:       input.Name,
		NIM:            input.NIM,
		WhatsAppNumber: input.WhatsAppNumber,
		StudyProgram:   input.StudyProgram,
		Faculty:        input.Faculty,
		Semester:       input.Semester,
		University:     input.University,
	})
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Registrasi berhasil", user))
}

// Login memeriksa kredensial dan mengembalikan access token + data user.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}

	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input login tidak valid"))
		return
	}

	user, appErr := h.authService.Login(input.Email, input.Password)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}

	token, err := utils.GenerateToken(user.ID, user.Roles)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utils.BuildResponseFailed("Gagal membuat token"))
		return
	}

	data := map[string]interface{}{
		"token": token,
		"user":  user,
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Login berhasil", data))
}
