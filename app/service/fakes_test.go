package service

import (
	"context"
	"errors"
	"sort"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// memDB adalah penyimpanan in-memory bersama untuk seluruh fake repository.
// Cukup untuk menguji logika service tanpa Postgres sungguhan.
type memDB struct {
	users   map[uuid.UUID]*model.User
	infos   map[uuid.UUID]*model.UserInformation // key: userID
	periods map[uuid.UUID]*model.MonevPeriod
	records map[uuid.UUID]*model.MonevRecord
}

func newMemDB() *memDB {
	return &memDB{
		users:   map[uuid.UUID]*model.User{},
		infos:   map[uuid.UUID]*model.UserInformation{},
		periods: map[uuid.UUID]*model.MonevPeriod{},
		records: map[uuid.UUID]*model.MonevRecord{},
	}
}

func (db *memDB) addInfo(userID uuid.UUID, semester string) {
	db.infos[userID] = &model.UserInformation{
		ID:       uuid.New(),
		UserID:   userID,
		FullName: "Tester",
		NIM:      "230001",
		Semester: semester,
	}
}

func (db *memDB) addPeriod(userID, mentorID uuid.UUID, semester int, status model.PeriodStatus) *model.MonevPeriod {
	p := &model.MonevPeriod{
		ID:       uuid.New(),
		MentorID: mentorID,
		UserID:   userID,
		Semester: semester,
		Status:   status,
	}
	db.periods[p.ID] = p
	return p
}

func (db *memDB) addRecord(periodID uuid.UUID, category model.Category, status model.RecordStatus) *model.MonevRecord {
	r := &model.MonevRecord{
		ID:       uuid.New(),
		PeriodID: periodID,
		Category: category,
		Title:    "record uji",
		FileURL:  "http://localhost:8080/uploads/x.pdf",
		Status:   status,
	}
	db.records[r.ID] = r
	return r
}

func (db *memDB) recordsOf(periodID uuid.UUID) []model.MonevRecord {
	out := []model.MonevRecord{}
	for _, r := range db.records {
		if r.PeriodID == periodID {
			out = append(out, *r)
		}
	}
	return out
}

// ---------------------------------------------------------------------------
// fakeUserRepo

type fakeUserRepo struct {
	db *memDB
}

func (f *fakeUserRepo) CreateWithInformation(user *model.User, info *model.UserInformation) error {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	info.UserID = user.ID
	f.db.users[user.ID] = user
	f.db.infos[user.ID] = info
	return nil
}

func (f *fakeUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range f.db.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) FindByID(id uuid.UUID) (*model.User, error) {
	u, ok := f.db.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	if info, ok := f.db.infos[id]; ok {
		u.Information = info
	}
	return u, nil
}

func (f *fakeUserRepo) FindInformation(userID uuid.UUID) (*model.UserInformation, error) {
	info, ok := f.db.infos[userID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return info, nil
}

func (f *fakeUserRepo) UpdateInformation(userID uuid.UUID, updates map[string]interface{}) error {
	info, ok := f.db.infos[userID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["name"]; ok {
		info.FullName = v.(string)
	}
	if v, ok := updates["semester"]; ok {
		info.Semester = v.(string)
	}
	return nil
}

func (f *fakeUserRepo) FindAll() ([]model.User, error) {
	out := []model.User{}
	for id, u := range f.db.users {
		copied := *u
		if info, ok := f.db.infos[id]; ok {
			copied.Information = info
		}
		out = append(out, copied)
	}
	return out, nil
}

func (f *fakeUserRepo) FindByRole(role model.Role) ([]model.User, error) {
	out := []model.User{}
	for _, u := range f.db.users {
		if u.RoleSet().Has(role) {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) UpdateRoles(id uuid.UUID, roles []string) error {
	u, ok := f.db.users[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	u.Roles = roles
	return nil
}

func (f *fakeUserRepo) DeleteCascade(id uuid.UUID) error {
	if _, ok := f.db.users[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for pid, p := range f.db.periods {
		if p.UserID == id {
			for rid, r := range f.db.records {
				if r.PeriodID == pid {
					delete(f.db.records, rid)
				}
			}
			delete(f.db.periods, pid)
		}
	}
	delete(f.db.infos, id)
	delete(f.db.users, id)
	return nil
}

// ---------------------------------------------------------------------------
// fakePeriodRepo

type fakePeriodRepo struct {
	db *memDB
}

func (f *fakePeriodRepo) AssignMany(periods []model.MonevPeriod) error {
	for _, p := range periods {
		if f.findByUserSemester(p.UserID, p.Semester) != nil {
			continue // skip-on-conflict seperti ON CONFLICT DO NOTHING
		}
		created := p
		created.ID = uuid.New()
		f.db.periods[created.ID] = &created
	}
	return nil
}

func (f *fakePeriodRepo) findByUserSemester(userID uuid.UUID, semester int) *model.MonevPeriod {
	for _, p := range f.db.periods {
		if p.UserID == userID && p.Semester == semester {
			return p
		}
	}
	return nil
}

func (f *fakePeriodRepo) FindByID(id uuid.UUID) (*model.MonevPeriod, error) {
	p, ok := f.db.periods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return p, nil
}

func (f *fakePeriodRepo) FindByUserAndSemester(userID uuid.UUID, semester int) (*model.MonevPeriod, error) {
	if p := f.findByUserSemester(userID, semester); p != nil {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePeriodRepo) FindByIDWithRecords(id uuid.UUID) (*model.MonevPeriod, error) {
	p, ok := f.db.periods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	copied.Records = f.db.recordsOf(id)
	return &copied, nil
}

func (f *fakePeriodRepo) ListByMentor(mentorID uuid.UUID, filter repository.PeriodFilter, page, limit int) ([]model.MonevPeriod, int64, error) {
	matched := []model.MonevPeriod{}
	for _, p := range f.db.periods {
		if p.MentorID != mentorID {
			continue
		}
		if filter.Semester != nil && p.Semester != *filter.Semester {
			continue
		}
		if filter.Status != nil && p.Status != *filter.Status {
			continue
		}
		matched = append(matched, *p)
	}
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].Semester > matched[j].Semester
	})

	total := int64(len(matched))
	start := (page - 1) * limit
	if start >= len(matched) {
		return []model.MonevPeriod{}, total, nil
	}
	end := start + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[start:end], total, nil
}

func (f *fakePeriodRepo) ListByUserWithRecords(userID uuid.UUID) ([]model.MonevPeriod, error) {
	out := []model.MonevPeriod{}
	for _, p := range f.db.periods {
		if p.UserID != userID {
			continue
		}
		copied := *p
		copied.Records = f.db.recordsOf(p.ID)
		out = append(out, copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Semester > out[j].Semester })
	return out, nil
}

func (f *fakePeriodRepo) UpdateFeedback(id uuid.UUID, feedback string) error {
	p, ok := f.db.periods[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.GeneralFeedback = &feedback
	return nil
}

// ---------------------------------------------------------------------------
// fakeRecordRepo

type fakeRecordRepo struct {
	db *memDB

	failCreateBatch bool

	// urutan pemanggilan store di dalam transaksi approve terakhir
	txCalls []string
}

func (f *fakeRecordRepo) Create(rec *model.MonevRecord) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	stored := *rec
	f.db.records[rec.ID] = &stored
	return nil
}

func (f *fakeRecordRepo) CreateBatch(recs []model.MonevRecord) error {
	if f.failCreateBatch {
		// transaksi gagal: tidak ada satu pun yang tersimpan
		return errors.New("insert batch gagal")
	}
	for i := range recs {
		if recs[i].ID == uuid.Nil {
			recs[i].ID = uuid.New()
		}
		stored := recs[i]
		f.db.records[stored.ID] = &stored
	}
	return nil
}

func (f *fakeRecordRepo) FindByID(id uuid.UUID) (*model.MonevRecord, error) {
	r, ok := f.db.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRecordRepo) FindByIDInPeriod(id, periodID uuid.UUID) (*model.MonevRecord, error) {
	r, ok := f.db.records[id]
	if !ok || r.PeriodID != periodID {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (f *fakeRecordRepo) FindByPeriod(periodID uuid.UUID) ([]model.MonevRecord, error) {
	return f.db.recordsOf(periodID), nil
}

func (f *fakeRecordRepo) Update(id uuid.UUID, updates map[string]interface{}) error {
	r, ok := f.db.records[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if v, ok := updates["title"]; ok {
		r.Title = v.(string)
	}
	if v, ok := updates["description"]; ok {
		r.Description = v.(string)
	}
	if v, ok := updates["file_url"]; ok {
		r.FileURL = v.(string)
	}
	if v, ok := updates["grade_value"]; ok {
		grade := v.(float64)
		r.GradeValue = &grade
	}
	return nil
}

func (f *fakeRecordRepo) Delete(id uuid.UUID) error {
	delete(f.db.records, id)
	return nil
}

func (f *fakeRecordRepo) ApproveTx(ctx context.Context, fn func(store repository.ApprovalStore) error) error {
	// seperti gorm.WithContext: context yang sudah batal menggagalkan transaksi
	if err := ctx.Err(); err != nil {
		return err
	}
	f.txCalls = nil
	return fn(&fakeApprovalStore{db: f.db, repo: f})
}

// fakeApprovalStore membaca dan menulis langsung ke memDB sambil mencatat
// urutan pemanggilan. Rollback tidak disimulasikan; test memverifikasi jalur
// sukses dan jalur tolak-dini.
type fakeApprovalStore struct {
	db   *memDB
	repo *fakeRecordRepo
}

func (s *fakeApprovalStore) RecordByID(id uuid.UUID) (*model.MonevRecord, error) {
	s.repo.txCalls = append(s.repo.txCalls, "RecordByID")
	r, ok := s.db.records[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *r
	return &copied, nil
}

func (s *fakeApprovalStore) SaveRecord(rec *model.MonevRecord) error {
	s.repo.txCalls = append(s.repo.txCalls, "SaveRecord")
	stored := *rec
	s.db.records[rec.ID] = &stored
	return nil
}

func (s *fakeApprovalStore) RecordsByPeriod(periodID uuid.UUID) ([]model.MonevRecord, error) {
	s.repo.txCalls = append(s.repo.txCalls, "RecordsByPeriod")
	return s.db.recordsOf(periodID), nil
}

func (s *fakeApprovalStore) PeriodByID(id uuid.UUID) (*model.MonevPeriod, error) {
	s.repo.txCalls = append(s.repo.txCalls, "PeriodByID")
	p, ok := s.db.periods[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *p
	return &copied, nil
}

func (s *fakeApprovalStore) SetPeriodStatus(id uuid.UUID, status model.PeriodStatus) error {
	s.repo.txCalls = append(s.repo.txCalls, "SetPeriodStatus")
	p, ok := s.db.periods[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	p.Status = status
	return nil
}

// ---------------------------------------------------------------------------
// fakeReviewRepo

type fakeReviewRepo struct {
	events     []model.ReviewEvent
	failInsert bool
}

func (f *fakeReviewRepo) Insert(ctx context.Context, event *model.ReviewEvent) error {
	if f.failInsert {
		return errors.New("mongo tidak tersedia")
	}
	f.events = append(f.events, *event)
	return nil
}

func (f *fakeReviewRepo) FindByRecordID(ctx context.Context, recordID uuid.UUID) ([]model.ReviewEvent, error) {
	out := []model.ReviewEvent{}
	for _, e := range f.events {
		if e.RecordID == recordID {
			out = append(out, e)
		}
	}
	return out, nil
}
