package routes

import (
	"net/http"
	"strconv"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/app/service"
	"jejak-monev-backend/middleware"
	"jejak-monev-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MentorHandler adalah pengelola request sisi mentor/admin.
type MentorHandler struct {
	mentorService service.MentorService
}

// NewMentorHandler membuat instance handler baru.
func NewMentorHandler(mentorService service.MentorService) *MentorHandler {
	return &MentorHandler{mentorService: mentorService}
}

// SetupMentorRoutes mendaftarkan endpoint mentor. Semua endpoint di grup ini
// bisa diakses SuperAdmin, Admin, dan Mentor.
func (h *MentorHandler) SetupMentorRoutes(r *gin.Engine) {
	mentor := r.Group("/api/v1/mentor")
	mentor.Use(
		middleware.AuthMiddleware(),
		middleware.RequireRoles(model.RoleSuperAdmin, model.RoleAdmin, model.RoleMentor),
	)
	{
		mentor.POST("/:mentorId/mentees", h.AssignMentees)
		mentor.GET("/:mentorId/mentees", h.MenteeList)
		mentor.PATCH("/records/:record_id", h.Approve)
		mentor.GET("/records/:record_id", h.GetRecord)
		mentor.GET("/records/:record_id/history", h.ReviewHistory)
		mentor.GET("/period/:period_id/records", h.PeriodRecords)
		mentor.PATCH("/period/:period_id/feedback", h.SetFeedback)
	}
}

// AssignMentees menugaskan sejumlah mentee ke mentor untuk satu semester.
// Pasangan yang sudah punya periode di-skip; operasi aman diulang.
func (h *MentorHandler) AssignMentees(ctx *gin.Context) {
	mentorID, err := uuid.Parse(ctx.Param("mentorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID mentor harus berupa UUID"))
		return
	}

	var input struct {
		MenteeIDs []uuid.UUID `json:"mentee_ids" binding:"required,min=1"`
		Semester  int         `json:"semester" binding:"required,min=1"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input penugasan tidak valid"))
		return
	}

	if appErr := h.mentorService.AssignMentees(mentorID, input.MenteeIDs, input.Semester); appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Mentee berhasil ditugaskan", nil))
}

// MenteeList mengembalikan daftar mentee seorang mentor, terpaginasi.
// Query opsional: semester, status, page, limit.
func (h *MentorHandler) MenteeList(ctx *gin.Context) {
	mentorID, err := uuid.Parse(ctx.Param("mentorId"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID mentor harus berupa UUID"))
		return
	}

	var filter repository.PeriodFilter
	if v := ctx.Query("semester"); v != "" {
		semester, convErr := strconv.Atoi(v)
		if convErr != nil || semester < 1 {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Semester harus bilangan positif"))
			return
		}
		filter.Semester = &semester
	}
	if v := ctx.Query("status"); v != "" {
		status := model.PeriodStatus(v)
		if status != model.PeriodIncomplete && status != model.PeriodComplete {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Status harus Incomplete atau Complete"))
			return
		}
		filter.Status = &status
	}

	page, limit := utils.ParsePageLimit(ctx)
	items, meta, appErr := h.mentorService.MenteeList(mentorID, filter, page, limit)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponsePage("Berhasil mengambil daftar mentee", items, meta))
}

// Approve menetapkan keputusan review (Verified/Fail) pada satu record.
func (h *MentorHandler) Approve(ctx *gin.Context) {
	reviewerID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	recordID, err := uuid.Parse(ctx.Param("record_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID record harus berupa UUID"))
		return
	}

	var input struct {
		Status string  `json:"status" binding:"required,oneof=Verified Fail"`
		Notes  *string `json:"notes" binding:"omitempty,max=2000"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input review tidak valid"))
		return
	}

	rec, appErr := h.mentorService.Approve(ctx.Request.Context(), reviewerID, recordID,
		model.RecordStatus(input.Status), input.Notes)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Review record berhasil disimpan", rec))
}

// GetRecord mengembalikan detail satu record monev.
func (h *MentorHandler) GetRecord(ctx *gin.Context) {
	recordID, err := uuid.Parse(ctx.Param("record_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID record harus berupa UUID"))
		return
	}

	rec, appErr := h.mentorService.GetRecord(recordID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil detail record", rec))
}

// ReviewHistory mengembalikan jejak keputusan review sebuah record.
func (h *MentorHandler) ReviewHistory(ctx *gin.Context) {
	recordID, err := uuid.Parse(ctx.Param("record_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID record harus berupa UUID"))
		return
	}

	events, appErr := h.mentorService.ReviewHistory(ctx.Request.Context(), recordID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil riwayat review", events))
}

// PeriodRecords mengembalikan satu periode beserta seluruh record-nya.
func (h *MentorHandler) PeriodRecords(ctx *gin.Context) {
	periodID, err := uuid.Parse(ctx.Param("period_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID periode harus berupa UUID"))
		return
	}

	period, appErr := h.mentorService.PeriodRecords(periodID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil record periode", period))
}

// SetFeedback menyimpan catatan umum mentor untuk satu periode.
func (h *MentorHandler) SetFeedback(ctx *gin.Context) {
	periodID, err := uuid.Parse(ctx.Param("period_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID periode harus berupa UUID"))
		return
	}

	var input struct {
		Feedback string `json:"feedback" binding:"required,max=2000"`
	}
	if err := ctx.ShouldBindJSON(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input feedback tidak valid"))
		return
	}

	if appErr := h.mentorService.SetFeedback(periodID, input.Feedback); appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Feedback periode berhasil disimpan", nil))
}
