package service

import (
	"errors"
	"strconv"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MaxBulkRecords adalah batas jumlah record per bulk upload.
// Batas kebijakan, bukan batas arsitektur.
const MaxBulkRecords = 50

// CreateRecordInput adalah payload pembuatan satu record monev.
// FileURL diisi handler setelah upload ke Storage Gateway sukses;
// urutannya selalu "file tertulis dulu, baru row database".
type CreateRecordInput struct {
	Category    model.Category
	Title       string
	Description string
	FileURL     string
	GradeValue  *float64
}

// UpdateRecordInput adalah patch parsial: hanya field non-nil yang diubah.
type UpdateRecordInput struct {
	Title       *string
	Description *string
	FileURL     *string
	GradeValue  *float64
}

// CurrentPeriodRecords adalah hasil baca periode berjalan beserta record-nya.
type CurrentPeriodRecords struct {
	PeriodID uuid.UUID           `json:"period_id"`
	Semester int                 `json:"semester"`
	Status   model.PeriodStatus  `json:"status"`
	Records  []model.MonevRecord `json:"records"`
}

// MenteeService memuat operasi mahasiswa terhadap record monev miliknya.
// Semua operasi tulis dibatasi ke periode berjalan dan record yang belum
// berstatus Verified.
type MenteeService interface {
	// CurrentPeriod me-resolve periode berjalan mahasiswa: semester di
	// UserInformation di-parse lalu dicari periode (user, semester) itu.
	// User tanpa UserInformation -> NotFound; belum ada periode ->
	// KindNoCurrentPeriod (keadaan normal, bukan bug).
	CurrentPeriod(userID uuid.UUID) (*model.MonevPeriod, *utils.AppError)

	CurrentRecords(userID uuid.UUID) (*CurrentPeriodRecords, *utils.AppError)

	AddRecord(userID uuid.UUID, input CreateRecordInput) (*model.MonevRecord, *utils.AppError)

	// AddBulkRecords membuat 1..MaxBulkRecords record sekaligus. Prasyarat
	// periode berjalan dicek sekali untuk seluruh batch; penyimpanan
	// all-or-nothing.
	AddBulkRecords(userID uuid.UUID, inputs []CreateRecordInput) ([]model.MonevRecord, *utils.AppError)

	// GetOwnRecord mengambil satu record milik mahasiswa beserta periode
	// berjalannya. Handler butuh kategori + semester record lama untuk
	// membentuk key storage sebelum upload file pengganti.
	GetOwnRecord(userID, recordID uuid.UUID) (*model.MonevRecord, *model.MonevPeriod, *utils.AppError)

	// UpdateRecord mengubah field yang diberikan. Jika file diganti,
	// URL file lama dikembalikan supaya handler menghapusnya SETELAH
	// update sukses (bukan sebelum).
	UpdateRecord(userID, recordID uuid.UUID, patch UpdateRecordInput) (updated *model.MonevRecord, oldFileURL string, appErr *utils.AppError)

	// DeleteRecord menghapus row dan mengembalikan URL file untuk
	// penghapusan best-effort oleh handler.
	DeleteRecord(userID, recordID uuid.UUID) (fileURL string, appErr *utils.AppError)

	// PastRecords mengembalikan semua periode dengan semester < semester
	// berjalan, urut semester DESC, masing-masing dengan record-nya.
	PastRecords(userID uuid.UUID) ([]model.MonevPeriod, *utils.AppError)
}

type menteeService struct {
	userRepo   repository.UserRepository
	periodRepo repository.PeriodRepository
	recordRepo repository.RecordRepository
}

// NewMenteeService membuat instance baru menteeService.
func NewMenteeService(
	userRepo repository.UserRepository,
	periodRepo repository.PeriodRepository,
	recordRepo repository.RecordRepository,
) MenteeService {
	return &menteeService{
		userRepo:   userRepo,
		periodRepo: periodRepo,
		recordRepo: recordRepo,
	}
}

// currentSemester membaca UserInformation.Semester dan mem-parse-nya.
// Parse gagal diperlakukan sama dengan "tidak ada periode yang cocok".
func (s *menteeService) currentSemester(userID uuid.UUID) (int, *utils.AppError) {
	info, err := s.userRepo.FindInformation(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, utils.NotFound("Informasi pengguna tidak ditemukan")
		}
		return 0, utils.Internal("Gagal membaca informasi pengguna", err)
	}
	semester, convErr := strconv.Atoi(info.Semester)
	if convErr != nil || semester < 1 {
		return 0, utils.NoCurrentPeriod()
	}
	return semester, nil
}

func (s *menteeService) CurrentPeriod(userID uuid.UUID) (*model.MonevPeriod, *utils.AppError) {
	semester, appErr := s.currentSemester(userID)
	if appErr != nil {
		return nil, appErr
	}
	period, err := s.periodRepo.FindByUserAndSemester(userID, semester)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NoCurrentPeriod()
		}
		return nil, utils.Internal("Gagal mencari periode monev", err)
	}
	return period, nil
}

func (s *menteeService) CurrentRecords(userID uuid.UUID) (*CurrentPeriodRecords, *utils.AppError) {
	period, appErr := s.CurrentPeriod(userID)
	if appErr != nil {
		return nil, appErr
	}
	withRecords, err := s.periodRepo.FindByIDWithRecords(period.ID)
	if err != nil {
		return nil, utils.Internal("Gagal mengambil record periode saat ini", err)
	}
	records := withRecords.Records
	if records == nil {
		records = []model.MonevRecord{}
	}
	return &CurrentPeriodRecords{
		PeriodID: withRecords.ID,
		Semester: withRecords.Semester,
		Status:   withRecords.Status,
		Records:  records,
	}, nil
}

func (s *menteeService) AddRecord(userID uuid.UUID, input CreateRecordInput) (*model.MonevRecord, *utils.AppError) {
	period, appErr := s.CurrentPeriod(userID)
	if appErr != nil {
		return nil, appErr
	}

	rec := model.MonevRecord{
		PeriodID:    period.ID,
		Category:    input.Category,
		Title:       input.Title,
		Description: input.Description,
		FileURL:     input.FileURL,
		GradeValue:  input.GradeValue,
		Status:      model.RecordPending,
	}
	if err := s.recordRepo.Create(&rec); err != nil {
		return nil, utils.Internal("Gagal menyimpan record monev", err)
	}
	return &rec, nil
}

func (s *menteeService) AddBulkRecords(userID uuid.UUID, inputs []CreateRecordInput) ([]model.MonevRecord, *utils.AppError) {
	if len(inputs) == 0 {
		return nil, utils.Validation("Minimal 1 record harus disertakan")
	}
	if len(inputs) > MaxBulkRecords {
		return nil, utils.Validation("Maksimal 50 record per bulk upload")
	}

	// prasyarat periode berjalan dicek sekali untuk seluruh batch
	period, appErr := s.CurrentPeriod(userID)
	if appErr != nil {
		return nil, appErr
	}

	recs := make([]model.MonevRecord, 0, len(inputs))
	for _, input := range inputs {
		recs = append(recs, model.MonevRecord{
			PeriodID:    period.ID,
			Category:    input.Category,
			Title:       input.Title,
			Description: input.Description,
			FileURL:     input.FileURL,
			GradeValue:  input.GradeValue,
			Status:      model.RecordPending,
		})
	}
	if err := s.recordRepo.CreateBatch(recs); err != nil {
		return nil, utils.Internal("Gagal menyimpan bulk record monev", err)
	}
	return recs, nil
}

func (s *menteeService) GetOwnRecord(userID, recordID uuid.UUID) (*model.MonevRecord, *model.MonevPeriod, *utils.AppError) {
	period, appErr := s.CurrentPeriod(userID)
	if appErr != nil {
		return nil, nil, appErr
	}

	rec, err := s.recordRepo.FindByIDInPeriod(recordID, period.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, utils.NotFound("Record tidak ditemukan pada periode saat ini")
		}
		return nil, nil, utils.Internal("Gagal mencari record monev", err)
	}
	return rec, period, nil
}

func (s *menteeService) UpdateRecord(userID, recordID uuid.UUID, patch UpdateRecordInput) (*model.MonevRecord, string, *utils.AppError) {
	period, appErr := s.CurrentPeriod(userID)
	if appErr != nil {
		return nil, "", appErr
	}

	rec, err := s.recordRepo.FindByIDInPeriod(recordID, period.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.NotFound("Record tidak ditemukan atau tidak dapat diubah (bukan periode saat ini)")
		}
		return nil, "", utils.Internal("Gagal mencari record monev", err)
	}
	if rec.Status == model.RecordVerified {
		return nil, "", utils.Immutable("Record yang sudah diverifikasi tidak dapat diubah")
	}

	updates := map[string]interface{}{}
	oldFileURL := ""
	if patch.Title != nil {
		updates["title"] = *patch.Title
	}
	if patch.Description != nil {
		updates["description"] = *patch.Description
	}
	if patch.FileURL != nil {
		updates["file_url"] = *patch.FileURL
		oldFileURL = rec.FileURL
	}
	if patch.GradeValue != nil {
		updates["grade_value"] = *patch.GradeValue
	}
	if len(updates) == 0 {
		return rec, "", nil
	}

	if err := s.recordRepo.Update(rec.ID, updates); err != nil {
		return nil, "", utils.Internal("Gagal memperbarui record monev", err)
	}

	updated, err := s.recordRepo.FindByID(rec.ID)
	if err != nil {
		return nil, "", utils.Internal("Gagal membaca record monev", err)
	}
	return updated, oldFileURL, nil
}

func (s *menteeService) DeleteRecord(userID, recordID uuid.UUID) (string, *utils.AppError) {
	period, appErr := s.CurrentPeriod(userID)
	if appErr != nil {
		return "", appErr
	}

	rec, err := s.recordRepo.FindByIDInPeriod(recordID, period.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", utils.NotFound("Record tidak ditemukan atau tidak dapat dihapus (bukan periode saat ini)")
		}
		return "", utils.Internal("Gagal mencari record monev", err)
	}
	if rec.Status == model.RecordVerified {
		return "", utils.Immutable("Record yang sudah diverifikasi tidak dapat dihapus")
	}

	if err := s.recordRepo.Delete(rec.ID); err != nil {
		return "", utils.Internal("Gagal menghapus record monev", err)
	}
	return rec.FileURL, nil
}

func (s *menteeService) PastRecords(userID uuid.UUID) ([]model.MonevPeriod, *utils.AppError) {
	semester, appErr := s.currentSemester(userID)
	if appErr != nil {
		if appErr.Kind == utils.KindNoCurrentPeriod {
			// semester tidak ter-parse: tidak ada periode yang "lampau"
			return []model.MonevPeriod{}, nil
		}
		return nil, appErr
	}

	periods, err := s.periodRepo.ListByUserWithRecords(userID)
	if err != nil {
		return nil, utils.Internal("Gagal mengambil record periode lampau", err)
	}

	past := []model.MonevPeriod{}
	for _, p := range periods {
		if p.Semester < semester {
			past = append(past, p)
		}
	}
	return past, nil
}
