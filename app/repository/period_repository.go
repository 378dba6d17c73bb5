package repository

import (
	"jejak-monev-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PeriodFilter menyaring daftar periode milik seorang mentor.
type PeriodFilter struct {
	Semester *int
	Status   *model.PeriodStatus
}

// PeriodRepository mendefinisikan operasi database untuk MonevPeriod.
// Tidak ada operasi delete: periode tidak pernah dihapus di alur normal
// (satu-satunya jalan adalah cascade delete user oleh SuperAdmin).
type PeriodRepository interface {
	// AssignMany menyisipkan periode dengan kebijakan skip-on-conflict
	// pada unique index (user_id, semester). Penugasan ganda bukan error.
	AssignMany(periods []model.MonevPeriod) error

	FindByID(id uuid.UUID) (*model.MonevPeriod, error)
	FindByUserAndSemester(userID uuid.UUID, semester int) (*model.MonevPeriod, error)

	// FindByIDWithRecords memuat periode + seluruh record-nya,
	// record terurut created_at DESC.
	FindByIDWithRecords(id uuid.UUID) (*model.MonevPeriod, error)

	// ListByMentor mengembalikan halaman periode milik mentor (created_at
	// DESC) beserta total untuk metadata pagination.
	ListByMentor(mentorID uuid.UUID, filter PeriodFilter, page, limit int) ([]model.MonevPeriod, int64, error)

	// ListByUserWithRecords mengembalikan seluruh periode seorang mentee,
	// semester DESC, masing-masing dengan record terurut created_at DESC.
	ListByUserWithRecords(userID uuid.UUID) ([]model.MonevPeriod, error)

	UpdateFeedback(id uuid.UUID, feedback string) error
}

type periodRepository struct {
	db *gorm.DB
}

// NewPeriodRepository membuat instance baru periodRepository.
func NewPeriodRepository(db *gorm.DB) PeriodRepository {
	return &periodRepository{db}
}

func (r *periodRepository) AssignMany(periods []model.MonevPeriod) error {
	if len(periods) == 0 {
		return nil
	}
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "semester"}},
		DoNothing: true,
	}).Create(&periods).Error
}

func (r *periodRepository) FindByID(id uuid.UUID) (*model.MonevPeriod, error) {
	var period model.MonevPeriod
	if err := r.db.Where("id = ?", id).First(&period).Error; err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepository) FindByUserAndSemester(userID uuid.UUID, semester int) (*model.MonevPeriod, error) {
	var period model.MonevPeriod
	err := r.db.
		Where("user_id = ? AND semester = ?", userID, semester).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepository) FindByIDWithRecords(id uuid.UUID) (*model.MonevPeriod, error) {
	var period model.MonevPeriod
	err := r.db.
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (r *periodRepository) ListByMentor(mentorID uuid.UUID, filter PeriodFilter, page, limit int) ([]model.MonevPeriod, int64, error) {
	query := r.db.Model(&model.MonevPeriod{}).Where("mentor = ?", mentorID)
	if filter.Semester != nil {
		query = query.Where("semester = ?", *filter.Semester)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var periods []model.MonevPeriod
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&periods).Error
	if err != nil {
		return nil, 0, err
	}
	return periods, total, nil
}

func (r *periodRepository) ListByUserWithRecords(userID uuid.UUID) ([]model.MonevPeriod, error) {
	var periods []model.MonevPeriod
	err := r.db.
		Preload("Records", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Where("user_id = ?", userID).
		Order("semester DESC").
		Find(&periods).Error
	return periods, err
}

func (r *periodRepository) UpdateFeedback(id uuid.UUID, feedback string) error {
	res := r.db.Model(&model.MonevPeriod{}).
		Where("id = ?", id).
		Update("general_feedback", feedback)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
