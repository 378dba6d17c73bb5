package service

import (
	"context"
	"errors"
	"log"
	"time"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MenteeListItem adalah satu baris daftar mentee milik seorang mentor.
type MenteeListItem struct {
	UserID   uuid.UUID          `json:"user_id"`
	PeriodID uuid.UUID          `json:"period_id"`
	Semester int                `json:"semester"`
	Status   model.PeriodStatus `json:"status"`
}

// MentorService memuat operasi mentor/admin: penugasan mentee, daftar
// mentee, dan alur verifikasi record beserta rekomputasi kelengkapan periode.
type MentorService interface {
	// AssignMentees membuat MonevPeriod{mentor, mentee, semester} untuk
	// setiap mentee. Pasangan (mentee, semester) yang sudah punya periode
	// di-skip diam-diam: penugasan bersifat idempoten.
	AssignMentees(mentorID uuid.UUID, menteeIDs []uuid.UUID, semester int) *utils.AppError

	MenteeList(mentorID uuid.UUID, filter repository.PeriodFilter, page, limit int) ([]MenteeListItem, utils.Meta, *utils.AppError)

	// Approve menetapkan keputusan review (Verified/Fail) lalu menghitung
	// ulang kelengkapan periode dalam SATU transaksi: update record,
	// baca ulang record se-periode, promosi Incomplete -> Complete jika
	// cakupan kategori terpenuhi. Promosi monoton; Complete tidak pernah
	// kembali ke Incomplete.
	Approve(ctx context.Context, reviewerID, recordID uuid.UUID, status model.RecordStatus, notes *string) (*model.MonevRecord, *utils.AppError)

	// PeriodRecords mengembalikan periode + seluruh record-nya.
	PeriodRecords(periodID uuid.UUID) (*model.MonevPeriod, *utils.AppError)

	GetRecord(recordID uuid.UUID) (*model.MonevRecord, *utils.AppError)

	// ReviewHistory membaca jejak keputusan review sebuah record dari Mongo.
	ReviewHistory(ctx context.Context, recordID uuid.UUID) ([]model.ReviewEvent, *utils.AppError)

	// SetFeedback menyimpan catatan umum mentor pada sebuah periode.
	SetFeedback(periodID uuid.UUID, feedback string) *utils.AppError
}

type mentorService struct {
	periodRepo repository.PeriodRepository
	recordRepo repository.RecordRepository
	reviewRepo repository.ReviewRepository
}

// NewMentorService membuat instance baru mentorService.
func NewMentorService(
	periodRepo repository.PeriodRepository,
	recordRepo repository.RecordRepository,
	reviewRepo repository.ReviewRepository,
) MentorService {
	return &mentorService{
		periodRepo: periodRepo,
		recordRepo: recordRepo,
		reviewRepo: reviewRepo,
	}
}

func (s *mentorService) AssignMentees(mentorID uuid.UUID, menteeIDs []uuid.UUID, semester int) *utils.AppError {
	if len(menteeIDs) == 0 {
		return utils.Validation("Minimal satu mentee harus dipilih")
	}
	if semester < 1 {
		return utils.Validation("Semester harus bilangan positif")
	}

	periods := make([]model.MonevPeriod, 0, len(menteeIDs))
	for _, menteeID := range menteeIDs {
		periods = append(periods, model.MonevPeriod{
			MentorID: mentorID,
			UserID:   menteeID,
			Semester: semester,
			Status:   model.PeriodIncomplete,
		})
	}
	if err := s.periodRepo.AssignMany(periods); err != nil {
		return utils.Internal("Gagal menugaskan mentee", err)
	}
	return nil
}

func (s *mentorService) MenteeList(mentorID uuid.UUID, filter repository.PeriodFilter, page, limit int) ([]MenteeListItem, utils.Meta, *utils.AppError) {
	periods, total, err := s.periodRepo.ListByMentor(mentorID, filter, page, limit)
	if err != nil {
		return nil, utils.Meta{}, utils.Internal("Gagal mengambil daftar mentee", err)
	}

	items := make([]MenteeListItem, 0, len(periods))
	for _, p := range periods {
		items = append(items, MenteeListItem{
			UserID:   p.UserID,
			PeriodID: p.ID,
			Semester: p.Semester,
			Status:   p.Status,
		})
	}
	return items, utils.NewMeta(total, page, limit), nil
}

func (s *mentorService) Approve(ctx context.Context, reviewerID, recordID uuid.UUID, status model.RecordStatus, notes *string) (*model.MonevRecord, *utils.AppError) {
	if status != model.RecordVerified && status != model.RecordFail {
		return nil, utils.Validation("Status review harus Verified atau Fail")
	}

	// keputusan yang sudah berjalan diselesaikan sampai commit; putusnya
	// koneksi klien tidak membatalkan transaksi di tengah jalan
	txCtx := context.WithoutCancel(ctx)

	var updated *model.MonevRecord
	err := s.recordRepo.ApproveTx(txCtx, func(store repository.ApprovalStore) error {
		rec, err := store.RecordByID(recordID)
		if err != nil {
			return err
		}
		// Verified bersifat terminal: tidak ada review ulang dari sini.
		// Keputusan pada record Fail masih diperbolehkan.
		if rec.Status == model.RecordVerified {
			return utils.Immutable("Record sudah diverifikasi dan tidak dapat direview ulang")
		}

		// kunci baris periode dulu; approve lain di periode ini menunggu
		// sampai transaksi ini commit, jadi pembacaan ulang di bawah
		// selalu melihat keputusan yang sudah ter-commit
		period, err := store.PeriodByID(rec.PeriodID)
		if err != nil {
			return err
		}

		rec.Status = status
		if notes != nil {
			rec.ReviewerNotes = notes
		}
		if status == model.RecordVerified {
			now := time.Now()
			rec.VerifiedAt = &now
			rec.VerifiedBy = &reviewerID
		}
		if err := store.SaveRecord(rec); err != nil {
			return err
		}

		siblings, err := store.RecordsByPeriod(rec.PeriodID)
		if err != nil {
			return err
		}
		if period.Status == model.PeriodIncomplete && model.CompleteByCoverage(siblings) {
			if err := store.SetPeriodStatus(period.ID, model.PeriodComplete); err != nil {
				return err
			}
		}

		updated = rec
		return nil
	})
	if err != nil {
		var appErr *utils.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Record monev tidak ditemukan")
		}
		return nil, utils.Internal("Gagal memproses review", err)
	}

	// jejak review ditulis best-effort setelah commit; Postgres tetap
	// sumber kebenaran status
	event := &model.ReviewEvent{
		RecordID:   updated.ID,
		PeriodID:   updated.PeriodID,
		ReviewerID: reviewerID,
		Status:     status,
		CreatedAt:  time.Now(),
	}
	if notes != nil {
		event.Notes = *notes
	}
	insertCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.reviewRepo.Insert(insertCtx, event); err != nil {
		log.Printf("[REVIEW] gagal menulis jejak review record %s: %v", updated.ID, err)
	}

	return updated, nil
}

func (s *mentorService) PeriodRecords(periodID uuid.UUID) (*model.MonevPeriod, *utils.AppError) {
	period, err := s.periodRepo.FindByIDWithRecords(periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Periode monev tidak ditemukan")
		}
		return nil, utils.Internal("Gagal mengambil record periode", err)
	}
	if period.Records == nil {
		period.Records = []model.MonevRecord{}
	}
	return period, nil
}

func (s *mentorService) GetRecord(recordID uuid.UUID) (*model.MonevRecord, *utils.AppError) {
	rec, err := s.recordRepo.FindByID(recordID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("Record monev tidak ditemukan")
		}
		return nil, utils.Internal("Gagal mengambil record monev", err)
	}
	return rec, nil
}

func (s *mentorService) ReviewHistory(ctx context.Context, recordID uuid.UUID) ([]model.ReviewEvent, *utils.AppError) {
	if _, appErr := s.GetRecord(recordID); appErr != nil {
		return nil, appErr
	}
	events, err := s.reviewRepo.FindByRecordID(ctx, recordID)
	if err != nil {
		return nil, utils.Internal("Gagal mengambil riwayat review", err)
	}
	return events, nil
}

func (s *mentorService) SetFeedback(periodID uuid.UUID, feedback string) *utils.AppError {
	if err := s.periodRepo.UpdateFeedback(periodID, feedback); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("Periode monev tidak ditemukan")
		}
		return utils.Internal("Gagal menyimpan feedback", err)
	}
	return nil
}
