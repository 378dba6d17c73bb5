package repository

import (
	"context"

	"jejak-monev-backend/app/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApprovalStore adalah potongan store yang terlihat di dalam transaksi
// approve: update record + pembacaan ulang record se-periode + promosi
// status periode harus teramati sebagai satu unit atomik oleh pembaca lain.
// PeriodByID mengambil FOR UPDATE pada baris periode; approve bersamaan di
// satu periode tereksekusi bergantian. Tanpa kunci itu, dua approve di dua
// kategori terakhir bisa sama-sama membaca ulang sebelum yang lain commit,
// sama-sama melihat "belum lengkap", dan tidak ada yang mempromosikan.
// Pemanggil wajib memanggil PeriodByID SEBELUM RecordsByPeriod.
type ApprovalStore interface {
	RecordByID(id uuid.UUID) (*model.MonevRecord, error)
	SaveRecord(rec *model.MonevRecord) error
	RecordsByPeriod(periodID uuid.UUID) ([]model.MonevRecord, error)
	PeriodByID(id uuid.UUID) (*model.MonevPeriod, error)
	SetPeriodStatus(id uuid.UUID, status model.PeriodStatus) error
}

// RecordRepository mendefinisikan operasi database untuk MonevRecord.
type RecordRepository interface {
	Create(rec *model.MonevRecord) error

	// CreateBatch menyimpan seluruh batch dalam satu transaksi:
	// semua tersimpan atau tidak ada sama sekali.
	CreateBatch(recs []model.MonevRecord) error

	FindByID(id uuid.UUID) (*model.MonevRecord, error)

	// FindByIDInPeriod mencari record yang dimiliki periode tertentu;
	// dipakai untuk memastikan mahasiswa hanya menyentuh record
	// di periode berjalannya sendiri.
	FindByIDInPeriod(id, periodID uuid.UUID) (*model.MonevRecord, error)

	FindByPeriod(periodID uuid.UUID) ([]model.MonevRecord, error)

	Update(id uuid.UUID, updates map[string]interface{}) error
	Delete(id uuid.UUID) error

	// ApproveTx menjalankan fn dalam satu transaksi database. Seluruh
	// logika keputusan review (termasuk rekomputasi kelengkapan periode)
	// berjalan di dalam fn terhadap ApprovalStore yang terikat transaksi.
	ApproveTx(ctx context.Context, fn func(store ApprovalStore) error) error
}

type recordRepository struct {
	db *gorm.DB
}

// NewRecordRepository membuat instance baru recordRepository.
func NewRecordRepository(db *gorm.DB) RecordRepository {
	return &recordRepository{db}
}

func (r *recordRepository) Create(rec *model.MonevRecord) error {
	return r.db.Create(rec).Error
}

func (r *recordRepository) CreateBatch(recs []model.MonevRecord) error {
	if len(recs) == 0 {
		return nil
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&recs).Error
	})
}

func (r *recordRepository) FindByID(id uuid.UUID) (*model.MonevRecord, error) {
	var rec model.MonevRecord
	if err := r.db.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepository) FindByIDInPeriod(id, periodID uuid.UUID) (*model.MonevRecord, error) {
	var rec model.MonevRecord
	err := r.db.
		Where("id = ? AND period_id = ?", id, periodID).
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func (r *recordRepository) FindByPeriod(periodID uuid.UUID) ([]model.MonevRecord, error) {
	var recs []model.MonevRecord
	err := r.db.
		Where("period_id = ?", periodID).
		Order("created_at DESC").
		Find(&recs).Error
	return recs, err
}

func (r *recordRepository) Update(id uuid.UUID, updates map[string]interface{}) error {
	return r.db.Model(&model.MonevRecord{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *recordRepository) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.MonevRecord{}, "id = ?", id).Error
}

func (r *recordRepository) ApproveTx(ctx context.Context, fn func(store ApprovalStore) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&approvalStore{db: tx})
	})
}

// approvalStore adalah ApprovalStore yang terikat pada satu transaksi GORM.
type approvalStore struct {
	db *gorm.DB
}

func (s *approvalStore) RecordByID(id uuid.UUID) (*model.MonevRecord, error) {
	var rec model.MonevRecord
	if err := s.db.Where("id = ?", id).First(&rec).Error; err != nil {
		return nil, err
	}
	return &rec, nil
}

func (s *approvalStore) SaveRecord(rec *model.MonevRecord) error {
	return s.db.Save(rec).Error
}

func (s *approvalStore) RecordsByPeriod(periodID uuid.UUID) ([]model.MonevRecord, error) {
	var recs []model.MonevRecord
	err := s.db.Where("period_id = ?", periodID).Find(&recs).Error
	return recs, err
}

func (s *approvalStore) PeriodByID(id uuid.UUID) (*model.MonevPeriod, error) {
	var period model.MonevPeriod
	// FOR UPDATE: transaksi approve lain pada periode yang sama menunggu
	// di sini sampai transaksi ini commit, lalu membaca ulang record
	// dengan hasil yang sudah ter-commit
	err := s.db.
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&period).Error
	if err != nil {
		return nil, err
	}
	return &period, nil
}

func (s *approvalStore) SetPeriodStatus(id uuid.UUID, status model.PeriodStatus) error {
	return s.db.Model(&model.MonevPeriod{}).
		Where("id = ?", id).
		Update("status", status).Error
}
