package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Role adalah peran pengguna sistem monev.
type Role string

const (
	RoleSuperAdmin Role = "SuperAdmin"
	RoleAdmin      Role = "Admin"
	RoleMentor     Role = "Mentor"
	RoleMahasiswa  Role = "Mahasiswa"
)

// ValidRole mengecek apakah sebuah string merupakan role yang dikenal.
func ValidRole(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleMentor, RoleMahasiswa:
		return true
	}
	return false
}

// RoleSet merepresentasikan himpunan role dengan membership test O(1).
// Otorisasi endpoint = irisan himpunan, bukan perbandingan string satu per satu.
type RoleSet map[Role]struct{}

// NewRoleSet membuat RoleSet dari daftar role.
func NewRoleSet(roles ...Role) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[r] = struct{}{}
	}
	return set
}

// RoleSetFromStrings membuat RoleSet dari representasi string
// (klaim JWT atau kolom text[] di Postgres).
func RoleSetFromStrings(roles []string) RoleSet {
	set := make(RoleSet, len(roles))
	for _, r := range roles {
		set[Role(r)] = struct{}{}
	}
	return set
}

// Has mengecek keanggotaan satu role.
func (s RoleSet) Has(r Role) bool {
	_, ok := s[r]
	return ok
}

// HasAny bernilai true jika irisan dengan roles tidak kosong.
func (s RoleSet) HasAny(roles ...Role) bool {
	for _, r := range roles {
		if _, ok := s[r]; ok {
			return true
		}
	}
	return false
}

// PeriodStatus adalah status periode monev.
type PeriodStatus string

const (
	PeriodIncomplete PeriodStatus = "Incomplete"
	PeriodComplete   PeriodStatus = "Complete"
)

// RecordStatus adalah status verifikasi satu record monev.
type RecordStatus string

const (
	RecordPending  RecordStatus = "Pending"
	RecordVerified RecordStatus = "Verified"
	RecordFail     RecordStatus = "Fail"
)

// Category adalah klasifikasi record monev. Tujuh nilai ini tetap:
// kelengkapan periode dihitung dari cakupan kategori, bukan jumlah record.
type Category string

const (
	CategoryPrestasi        Category = "Prestasi"
	CategorySeminar         Category = "Seminar"
	CategoryKepemimpinan    Category = "Kepemimpinan"
	CategoryPelatihan       Category = "Pelatihan"
	CategoryAkademik        Category = "Akademik"
	CategoryPublikasi       Category = "Publikasi"
	CategoryKecendekiawanan Category = "Kecendekiawanan"
)

// AllCategories adalah semesta kategori untuk aturan kelengkapan periode.
var AllCategories = []Category{
	CategoryPrestasi,
	CategorySeminar,
	CategoryKepemimpinan,
	CategoryPelatihan,
	CategoryAkademik,
	CategoryPublikasi,
	CategoryKecendekiawanan,
}

// ValidCategory mengecek apakah sebuah string merupakan kategori yang dikenal.
func ValidCategory(c Category) bool {
	for _, v := range AllCategories {
		if c == v {
			return true
		}
	}
	return false
}

// CompleteByCoverage menghitung aturan kelengkapan periode:
// true jika dan hanya jika setiap kategori punya minimal satu record Verified.
// Record Pending/Fail di kategori lain tidak mempengaruhi hasil.
func CompleteByCoverage(records []MonevRecord) bool {
	verified := make(map[Category]struct{}, len(AllCategories))
	for _, rec := range records {
		if rec.Status == RecordVerified {
			verified[rec.Category] = struct{}{}
		}
	}
	for _, c := range AllCategories {
		if _, ok := verified[c]; !ok {
			return false
		}
	}
	return true
}

// User adalah identitas pemilik akun. Roles disimpan sebagai text[] di
// Postgres; setiap user minimal punya satu role (default Mahasiswa saat
// registrasi, hanya SuperAdmin yang boleh mengubahnya).
type User struct {
	ID           uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"user_id"`
	Email        string           `gorm:"unique;not null" json:"email"`
	PasswordHash string           `gorm:"not null" json:"-"`
	Roles        pq.StringArray   `gorm:"type:text[];not null" json:"roles"`
	Information  *UserInformation `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"information,omitempty"`
	CreatedAt    time.Time        `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time        `gorm:"autoUpdateTime" json:"updated_at"`
}

// RoleSet mengubah kolom roles menjadi RoleSet untuk pengecekan otorisasi.
func (u *User) RoleSet() RoleSet {
	return RoleSetFromStrings(u.Roles)
}

// UserInformation menyimpan data akademik pemilik akun. Semester disimpan
// sebagai string angka ("1".."14") mengikuti data asal; periode "saat ini"
// ditentukan dari hasil parse kolom ini. User tanpa UserInformation dianggap
// inkonsisten: read path yang membutuhkannya gagal, bukan mengembalikan
// data parsial.
type UserInformation struct {
	ID             uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"-"`
	UserID         uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"-"`
	FullName       string    `gorm:"not null;column:name" json:"name"`
	NIM            string    `gorm:"type:varchar(20);not null;column:nim" json:"nim"`
	WhatsAppNumber string    `gorm:"type:varchar(20);column:nomor_whatsapp" json:"nomor_whatsapp"`
	StudyProgram   string    `gorm:"type:varchar(100);column:program_studi" json:"program_studi"`
	Faculty        string    `gorm:"type:varchar(100);column:fakultas" json:"fakultas"`
	Semester       string    `gorm:"type:varchar(4);not null" json:"semester"`
	University     string    `gorm:"type:varchar(150);column:universitas" json:"universitas"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"-"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime" json:"-"`
}

// MonevPeriod adalah jendela evaluasi satu mahasiswa untuk satu semester
// di bawah satu mentor. Unik per (user_id, semester); penugasan ganda
// di-skip lewat ON CONFLICT DO NOTHING, bukan error. Status hanya bergerak
// satu arah: Incomplete -> Complete.
type MonevPeriod struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"period_id"`
	MentorID        uuid.UUID     `gorm:"type:uuid;not null;column:mentor" json:"mentor"`
	UserID          uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_period_user_semester" json:"user_id"`
	Semester        int           `gorm:"not null;uniqueIndex:idx_period_user_semester" json:"semester"`
	Status          PeriodStatus  `gorm:"type:varchar(12);not null;default:'Incomplete'" json:"status"`
	GeneralFeedback *string       `json:"general_feedback,omitempty"`
	Records         []MonevRecord `gorm:"foreignKey:PeriodID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"records,omitempty"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}

// MonevRecord adalah satu bukti kegiatan yang disubmit mahasiswa dalam
// sebuah periode. Setelah berstatus Verified record terkunci: mahasiswa
// tidak bisa mengubah atau menghapusnya lagi.
type MonevRecord struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"record_id"`
	PeriodID      uuid.UUID    `gorm:"type:uuid;not null;index" json:"period_id"`
	Category      Category     `gorm:"type:varchar(20);not null" json:"category"`
	Title         string       `gorm:"type:varchar(255);not null" json:"title"`
	Description   string       `gorm:"type:varchar(1000)" json:"description"`
	FileURL       string       `gorm:"not null;column:file_url" json:"file_url"`
	GradeValue    *float64     `gorm:"column:grade_value" json:"grade_value,omitempty"`
	Status        RecordStatus `gorm:"type:varchar(10);not null;default:'Pending'" json:"status"`
	ReviewerNotes *string      `gorm:"type:varchar(2000)" json:"reviewer_notes,omitempty"`
	VerifiedBy    *uuid.UUID   `gorm:"type:uuid" json:"verified_by,omitempty"`
	VerifiedAt    *time.Time   `json:"verified_at,omitempty"`
	CreatedAt     time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}
