package routes

import (
	"context"
	"encoding/json"
	"log"
	"mime/multipart"
	"net/http"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/service"
	"jejak-monev-backend/middleware"
	"jejak-monev-backend/storage"
	"jejak-monev-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MenteeHandler adalah pengelola request record monev milik mahasiswa.
// Handler inilah yang memegang urutan storage vs database: file ditulis
// dulu baru row dibuat, dan file lama dihapus hanya setelah update commit.
type MenteeHandler struct {
	menteeService service.MenteeService
	fileStorage   storage.FileStorage
}

// NewMenteeHandler membuat instance handler baru.
func NewMenteeHandler(menteeService service.MenteeService, fileStorage storage.FileStorage) *MenteeHandler {
	return &MenteeHandler{menteeService: menteeService, fileStorage: fileStorage}
}

// SetupMenteeRoutes mendaftarkan endpoint mahasiswa, khusus role Mahasiswa.
func (h *MenteeHandler) SetupMenteeRoutes(r *gin.Engine) {
	mentee := r.Group("/api/v1/mentee")
	mentee.Use(middleware.AuthMiddleware(), middleware.RequireRoles(model.RoleMahasiswa))
	{
		mentee.POST("/records", h.AddRecord)
		mentee.POST("/records/bulk", h.AddBulkRecords)
		mentee.GET("/records/current", h.CurrentRecords)
		mentee.PATCH("/records/:record_id", h.UpdateRecord)
		mentee.DELETE("/records/:record_id", h.DeleteRecord)
		mentee.GET("/records/past", h.PastRecords)
	}
}

// uploadEvidence menulis satu file bukti ke storage dan mengembalikan URL-nya.
func (h *MenteeHandler) uploadEvidence(parent context.Context, fh *multipart.FileHeader, key string) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	ctx, cancel := context.WithTimeout(parent, storage.OpTimeout())
	defer cancel()
	return h.fileStorage.Put(ctx, src, fh.Size, fh.Header.Get("Content-Type"), key)
}

// removeEvidence menghapus file bukti secara best-effort. Kegagalan hanya
// dicatat: file yatim lebih murah daripada operasi user yang gagal.
func (h *MenteeHandler) removeEvidence(parent context.Context, url string) {
	if url == "" {
		return
	}
	ctx, cancel := context.WithTimeout(parent, storage.OpTimeout())
	defer cancel()
	if err := h.fileStorage.Remove(ctx, url); err != nil {
		log.Printf("[STORAGE] gagal menghapus file %s: %v", url, err)
	}
}

// AddRecord membuat satu record monev pada periode berjalan.
// Urutan: cek periode -> validasi file -> tulis file -> buat row.
func (h *MenteeHandler) AddRecord(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	var input struct {
		Category    string   `form:"category" binding:"required,monevcategory"`
		Title       string   `form:"title" binding:"required,max=255"`
		Description string   `form:"description" binding:"omitempty,max=1000"`
		GradeValue  *float64 `form:"grade_value" binding:"omitempty,gte=0,lte=4"`
	}
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input record tidak valid"))
		return
	}

	fh, _ := ctx.FormFile("file")
	if appErr := storage.ValidateUpload(fh); appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}

	period, appErr := h.menteeService.CurrentPeriod(userID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}

	key := storage.ObjectKey(userID, period.Semester, input.Category, fh.Filename)
	fileURL, err := h.uploadEvidence(ctx.Request.Context(), fh, key)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, utils.BuildResponseFailed("Gagal menyimpan file bukti"))
		return
	}

	rec, appErr := h.menteeService.AddRecord(userID, service.CreateRecordInput{
		Category:    model.Category(input.Category),
		Title:       input.Title,
		Description: input.Description,
		FileURL:     fileURL,
		GradeValue:  input.GradeValue,
	})
	if appErr != nil {
		h.removeEvidence(ctx.Request.Context(), fileURL)
		utils.WriteError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Record monev berhasil dibuat", rec))
}

// bulkRecordItem adalah satu item pada field form "records" (string JSON).
// Tag validasi memakai "binding" karena engine yang dipakai adalah milik gin.
type bulkRecordItem struct {
	Category    string   `json:"category" binding:"required,monevcategory"`
	Title       string   `json:"title" binding:"required,max=255"`
	Description string   `json:"description" binding:"omitempty,max=1000"`
	GradeValue  *float64 `json:"grade_value" binding:"omitempty,gte=0,lte=4"`
}

// AddBulkRecords membuat hingga 50 record sekaligus. Metadata datang sebagai
// JSON di field "records", file di field "files" dengan urutan yang sama.
// Seluruh file harus tertulis dulu; jika penyimpanan row gagal, semua file
// yang sudah tertulis dihapus kembali.
func (h *MenteeHandler) AddBulkRecords(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	raw := ctx.PostForm("records")
	if raw == "" {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Field records wajib diisi"))
		return
	}
	var items []bulkRecordItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Field records harus berupa array JSON yang valid"))
		return
	}
	if len(items) == 0 || len(items) > service.MaxBulkRecords {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Jumlah record harus antara 1 sampai 50"))
		return
	}
	for _, item := range items {
		if err := validate().Struct(item); err != nil {
			ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Ada item record yang tidak valid"))
			return
		}
	}

	form, err := ctx.MultipartForm()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Form multipart tidak valid"))
		return
	}
	files := form.File["files"]
	if len(files) != len(items) {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Jumlah file harus sama dengan jumlah record"))
		return
	}
	for _, fh := range files {
		if appErr := storage.ValidateUpload(fh); appErr != nil {
			utils.WriteError(ctx, appErr)
			return
		}
	}

	// prasyarat periode berjalan dicek sekali untuk seluruh batch
	period, appErr := h.menteeService.CurrentPeriod(userID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}

	uploaded := make([]string, 0, len(files))
	rollback := func() {
		for _, url := range uploaded {
			h.removeEvidence(ctx.Request.Context(), url)
		}
	}

	inputs := make([]service.CreateRecordInput, 0, len(items))
	for i, item := range items {
		key := storage.ObjectKey(userID, period.Semester, item.Category, files[i].Filename)
		fileURL, err := h.uploadEvidence(ctx.Request.Context(), files[i], key)
		if err != nil {
			rollback()
			ctx.JSON(http.StatusInternalServerError, utils.BuildResponseFailed("Gagal menyimpan file bukti"))
			return
		}
		uploaded = append(uploaded, fileURL)
		inputs = append(inputs, service.CreateRecordInput{
			Category:    model.Category(item.Category),
			Title:       item.Title,
			Description: item.Description,
			FileURL:     fileURL,
			GradeValue:  item.GradeValue,
		})
	}

	recs, appErr := h.menteeService.AddBulkRecords(userID, inputs)
	if appErr != nil {
		rollback()
		utils.WriteError(ctx, appErr)
		return
	}

	ctx.JSON(http.StatusCreated, utils.BuildResponseSuccess("Bulk record monev berhasil dibuat", recs))
}

// CurrentRecords mengembalikan periode berjalan beserta seluruh record-nya.
func (h *MenteeHandler) CurrentRecords(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	result, appErr := h.menteeService.CurrentRecords(userID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil record periode saat ini", result))
}

// UpdateRecord mengubah record pada periode berjalan. File pengganti
// (opsional) ditulis dulu; file lama baru dihapus setelah update sukses,
// supaya kegagalan di tengah tidak meninggalkan record tanpa file.
func (h *MenteeHandler) UpdateRecord(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
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
		Title       *string  `form:"title" binding:"omitempty,max=255"`
		Description *string  `form:"description" binding:"omitempty,max=1000"`
		GradeValue  *float64 `form:"grade_value" binding:"omitempty,gte=0,lte=4"`
	}
	if err := ctx.ShouldBind(&input); err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("Input record tidak valid"))
		return
	}

	patch := service.UpdateRecordInput{
		Title:       input.Title,
		Description: input.Description,
		GradeValue:  input.GradeValue,
	}

	newFileURL := ""
	if fh, ferr := ctx.FormFile("file"); ferr == nil && fh != nil {
		if appErr := storage.ValidateUpload(fh); appErr != nil {
			utils.WriteError(ctx, appErr)
			return
		}

		rec, period, appErr := h.menteeService.GetOwnRecord(userID, recordID)
		if appErr != nil {
			utils.WriteError(ctx, appErr)
			return
		}

		key := storage.ObjectKey(userID, period.Semester, string(rec.Category), fh.Filename)
		newFileURL, err = h.uploadEvidence(ctx.Request.Context(), fh, key)
		if err != nil {
			ctx.JSON(http.StatusInternalServerError, utils.BuildResponseFailed("Gagal menyimpan file bukti"))
			return
		}
		patch.FileURL = &newFileURL
	}

	updated, oldFileURL, appErr := h.menteeService.UpdateRecord(userID, recordID, patch)
	if appErr != nil {
		h.removeEvidence(ctx.Request.Context(), newFileURL)
		utils.WriteError(ctx, appErr)
		return
	}

	h.removeEvidence(ctx.Request.Context(), oldFileURL)
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Record monev berhasil diperbarui", updated))
}

// DeleteRecord menghapus record pada periode berjalan beserta filenya.
func (h *MenteeHandler) DeleteRecord(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	recordID, err := uuid.Parse(ctx.Param("record_id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, utils.BuildResponseFailed("ID record harus berupa UUID"))
		return
	}

	fileURL, appErr := h.menteeService.DeleteRecord(userID, recordID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}

	h.removeEvidence(ctx.Request.Context(), fileURL)
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Record monev berhasil dihapus", nil))
}

// PastRecords mengembalikan seluruh periode lampau beserta record-nya.
func (h *MenteeHandler) PastRecords(ctx *gin.Context) {
	userID, ok := middleware.CallerID(ctx)
	if !ok {
		ctx.JSON(http.StatusUnauthorized, utils.BuildResponseFailed("Pengguna tidak terautentikasi"))
		return
	}

	periods, appErr := h.menteeService.PastRecords(userID)
	if appErr != nil {
		utils.WriteError(ctx, appErr)
		return
	}
	ctx.JSON(http.StatusOK, utils.BuildResponseSuccess("Berhasil mengambil record periode lampau", periods))
}
