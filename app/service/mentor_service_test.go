package service

import (
	"context"
	"testing"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMentorFixture() (*memDB, *fakeReviewRepo, MentorService) {
	db, _, reviewRepo, svc := newMentorFixtureWithRepo()
	return db, reviewRepo, svc
}

func newMentorFixtureWithRepo() (*memDB, *fakeRecordRepo, *fakeReviewRepo, MentorService) {
	db := newMemDB()
	recordRepo := &fakeRecordRepo{db: db}
	reviewRepo := &fakeReviewRepo{}
	svc := NewMentorService(&fakePeriodRepo{db: db}, recordRepo, reviewRepo)
	return db, recordRepo, reviewRepo, svc
}

// seedPeriodAllButOne mengisi periode dengan record Verified untuk semua
// kategori kecuali satu, yang dibuat Pending.
func seedPeriodAllButOne(db *memDB, periodID uuid.UUID, pending model.Category) *model.MonevRecord {
	var pendingRec *model.MonevRecord
	for _, c := range model.AllCategories {
		if c == pending {
			pendingRec = db.addRecord(periodID, c, model.RecordPending)
			continue
		}
		db.addRecord(periodID, c, model.RecordVerified)
	}
	return pendingRec
}

func TestAssignMentees(t *testing.T) {
	t.Run("penugasan membuat periode Incomplete", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		mentorID := uuid.New()
		mentees := []uuid.UUID{uuid.New(), uuid.New()}

		appErr := svc.AssignMentees(mentorID, mentees, 3)
		require.Nil(t, appErr)
		assert.Len(t, db.periods, 2)
		for _, p := range db.periods {
			assert.Equal(t, mentorID, p.MentorID)
			assert.Equal(t, 3, p.Semester)
			assert.Equal(t, model.PeriodIncomplete, p.Status)
		}
	})

	t.Run("penugasan ulang idempoten", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		mentorID := uuid.New()
		menteeID := uuid.New()

		require.Nil(t, svc.AssignMentees(mentorID, []uuid.UUID{menteeID}, 3))
		require.Nil(t, svc.AssignMentees(mentorID, []uuid.UUID{menteeID}, 3))
		assert.Len(t, db.periods, 1)

		// semester berbeda adalah periode baru
		require.Nil(t, svc.AssignMentees(mentorID, []uuid.UUID{menteeID}, 4))
		assert.Len(t, db.periods, 2)
	})

	t.Run("daftar mentee kosong ditolak", func(t *testing.T) {
		_, _, svc := newMentorFixture()
		appErr := svc.AssignMentees(uuid.New(), nil, 3)
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindValidation, appErr.Kind)
	})

	t.Run("semester nol ditolak", func(t *testing.T) {
		_, _, svc := newMentorFixture()
		appErr := svc.AssignMentees(uuid.New(), []uuid.UUID{uuid.New()}, 0)
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindValidation, appErr.Kind)
	})
}

func TestMenteeList(t *testing.T) {
	db, _, svc := newMentorFixture()
	mentorID := uuid.New()
	for i := 1; i <= 5; i++ {
		db.addPeriod(uuid.New(), mentorID, i, model.PeriodIncomplete)
	}
	db.addPeriod(uuid.New(), uuid.New(), 1, model.PeriodIncomplete)

	items, meta, appErr := svc.MenteeList(mentorID, repository.PeriodFilter{}, 1, 2)
	require.Nil(t, appErr)
	assert.Len(t, items, 2)
	assert.Equal(t, int64(5), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)

	semester := 2
	filtered, meta, appErr := svc.MenteeList(mentorID, repository.PeriodFilter{Semester: &semester}, 1, 20)
	require.Nil(t, appErr)
	require.Len(t, filtered, 1)
	assert.Equal(t, 2, filtered[0].Semester)
	assert.Equal(t, int64(1), meta.Total)
}

func TestApprove(t *testing.T) {
	ctx := context.Background()

	t.Run("status selain Verified atau Fail ditolak", func(t *testing.T) {
		_, _, svc := newMentorFixture()
		_, appErr := svc.Approve(ctx, uuid.New(), uuid.New(), model.RecordPending, nil)
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindValidation, appErr.Kind)
	})

	t.Run("record tidak ada", func(t *testing.T) {
		_, _, svc := newMentorFixture()
		_, appErr := svc.Approve(ctx, uuid.New(), uuid.New(), model.RecordVerified, nil)
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindNotFound, appErr.Kind)
	})

	t.Run("verifikasi mengisi jejak reviewer", func(t *testing.T) {
		db, reviewRepo, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)
		reviewerID := uuid.New()
		notes := "bukti lengkap"

		updated, appErr := svc.Approve(ctx, reviewerID, rec.ID, model.RecordVerified, &notes)
		require.Nil(t, appErr)
		assert.Equal(t, model.RecordVerified, updated.Status)
		require.NotNil(t, updated.VerifiedBy)
		assert.Equal(t, reviewerID, *updated.VerifiedBy)
		assert.NotNil(t, updated.VerifiedAt)
		require.NotNil(t, updated.ReviewerNotes)
		assert.Equal(t, notes, *updated.ReviewerNotes)

		// jejak review tercatat setelah commit
		require.Len(t, reviewRepo.events, 1)
		assert.Equal(t, rec.ID, reviewRepo.events[0].RecordID)
		assert.Equal(t, model.RecordVerified, reviewRepo.events[0].Status)
	})

	t.Run("keputusan Fail tidak mengisi VerifiedBy", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)
		notes := "file tidak terbaca"

		updated, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordFail, &notes)
		require.Nil(t, appErr)
		assert.Equal(t, model.RecordFail, updated.Status)
		assert.Nil(t, updated.VerifiedBy)
		assert.Nil(t, updated.VerifiedAt)
	})

	t.Run("record Fail boleh direview ulang", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordFail)

		updated, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.RecordVerified, updated.Status)
	})

	t.Run("record Verified bersifat terminal", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordVerified)

		_, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordFail, nil)
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindImmutable, appErr.Kind)
		assert.Equal(t, model.RecordVerified, db.records[rec.ID].Status)
	})

	t.Run("verifikasi kategori terakhir mempromosikan periode", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		pendingRec := seedPeriodAllButOne(db, period.ID, model.CategoryKecendekiawanan)

		_, appErr := svc.Approve(ctx, uuid.New(), pendingRec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.PeriodComplete, db.periods[period.ID].Status)
	})

	t.Run("cakupan belum penuh tidak mempromosikan periode", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)
		db.addRecord(period.ID, model.CategoryPrestasi, model.RecordVerified)

		_, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.PeriodIncomplete, db.periods[period.ID].Status)
	})

	t.Run("keputusan Fail pada kategori terakhir tidak mempromosikan", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		pendingRec := seedPeriodAllButOne(db, period.ID, model.CategoryKecendekiawanan)

		_, appErr := svc.Approve(ctx, uuid.New(), pendingRec.ID, model.RecordFail, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.PeriodIncomplete, db.periods[period.ID].Status)
	})

	t.Run("periode Complete tidak pernah turun", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodComplete)
		for _, c := range model.AllCategories {
			db.addRecord(period.ID, c, model.RecordVerified)
		}
		extra := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)

		_, appErr := svc.Approve(ctx, uuid.New(), extra.ID, model.RecordFail, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.PeriodComplete, db.periods[period.ID].Status)
	})

	t.Run("baris periode dikunci sebelum pembacaan ulang record", func(t *testing.T) {
		// dua approve bersamaan di dua kategori terakhir harus tereksekusi
		// bergantian: kunci periode diambil sebelum membaca ulang siblings,
		// sehingga yang datang belakangan melihat keputusan yang sudah commit
		db, recordRepo, _, svc := newMentorFixtureWithRepo()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)

		_, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)

		lockIdx, readIdx := -1, -1
		for i, call := range recordRepo.txCalls {
			switch call {
			case "PeriodByID":
				lockIdx = i
			case "RecordsByPeriod":
				readIdx = i
			}
		}
		require.GreaterOrEqual(t, lockIdx, 0)
		require.GreaterOrEqual(t, readIdx, 0)
		assert.Less(t, lockIdx, readIdx)
	})

	t.Run("dua approve berurutan pada dua kategori terakhir mempromosikan", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		var lastTwo []*model.MonevRecord
		for i, c := range model.AllCategories {
			if i >= len(model.AllCategories)-2 {
				lastTwo = append(lastTwo, db.addRecord(period.ID, c, model.RecordPending))
				continue
			}
			db.addRecord(period.ID, c, model.RecordVerified)
		}

		_, appErr := svc.Approve(ctx, uuid.New(), lastTwo[0].ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.PeriodIncomplete, db.periods[period.ID].Status)

		_, appErr = svc.Approve(ctx, uuid.New(), lastTwo[1].ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.PeriodComplete, db.periods[period.ID].Status)
	})

	t.Run("koneksi klien putus tidak membatalkan transaksi", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)

		// context request sudah batal (klien disconnect); keputusan yang
		// sedang berjalan tetap diselesaikan sampai commit
		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		updated, appErr := svc.Approve(cancelled, uuid.New(), rec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.RecordVerified, updated.Status)
		assert.Equal(t, model.RecordVerified, db.records[rec.ID].Status)
	})

	t.Run("gagal menulis jejak review tidak menggagalkan approve", func(t *testing.T) {
		db, reviewRepo, svc := newMentorFixture()
		reviewRepo.failInsert = true
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)

		updated, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)
		assert.Equal(t, model.RecordVerified, updated.Status)
	})
}

func TestReviewHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("riwayat record yang ada", func(t *testing.T) {
		db, _, svc := newMentorFixture()
		period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
		rec := db.addRecord(period.ID, model.CategorySeminar, model.RecordFail)

		_, appErr := svc.Approve(ctx, uuid.New(), rec.ID, model.RecordVerified, nil)
		require.Nil(t, appErr)

		events, appErr := svc.ReviewHistory(ctx, rec.ID)
		require.Nil(t, appErr)
		require.Len(t, events, 1)
		assert.Equal(t, rec.ID, events[0].RecordID)
	})

	t.Run("record tidak ada", func(t *testing.T) {
		_, _, svc := newMentorFixture()
		_, appErr := svc.ReviewHistory(ctx, uuid.New())
		require.NotNil(t, appErr)
		assert.Equal(t, utils.KindNotFound, appErr.Kind)
	})
}

func TestSetFeedback(t *testing.T) {
	db, _, svc := newMentorFixture()
	period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)

	require.Nil(t, svc.SetFeedback(period.ID, "Perbanyak publikasi"))
	require.NotNil(t, db.periods[period.ID].GeneralFeedback)
	assert.Equal(t, "Perbanyak publikasi", *db.periods[period.ID].GeneralFeedback)

	appErr := svc.SetFeedback(uuid.New(), "x")
	require.NotNil(t, appErr)
	assert.Equal(t, utils.KindNotFound, appErr.Kind)
}

func TestPeriodRecords(t *testing.T) {
	db, _, svc := newMentorFixture()
	period := db.addPeriod(uuid.New(), uuid.New(), 3, model.PeriodIncomplete)
	db.addRecord(period.ID, model.CategorySeminar, model.RecordPending)

	got, appErr := svc.PeriodRecords(period.ID)
	require.Nil(t, appErr)
	assert.Len(t, got.Records, 1)

	_, appErr = svc.PeriodRecords(uuid.New())
	require.NotNil(t, appErr)
	assert.Equal(t, utils.KindNotFound, appErr.Kind)
}
