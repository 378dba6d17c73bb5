package database

import (
	"log"
	"os"

	"jejak-monev-backend/app/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RunSeeders menjalankan seluruh seeder yang dibutuhkan.
// Panggil ini sekali di main.go setelah InitDB berhasil.
func RunSeeders(db *gorm.DB) {
	SeedSuperAdmin(db)
	SeedSampleUsers(db)
}

// SeedSuperAdmin membuat akun SuperAdmin pertama jika belum ada.
// Kredensial diambil dari env SUPERADMIN_EMAIL / SUPERADMIN_PASSWORD
// dengan fallback nilai development.
func SeedSuperAdmin(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Where("? = ANY(roles)", string(model.RoleSuperAdmin)).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] SuperAdmin sudah ada, skip.")
		return
	}

	email := envOrDefault("SUPERADMIN_EMAIL", "superadmin@kampus.ac.id")
	password := envOrDefault("SUPERADMIN_PASSWORD", "superadmin123")

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[SEEDER] Gagal hash password superadmin: %v", err)
	}

	admin := model.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		Roles:        pq.StringArray{string(model.RoleSuperAdmin)},
		Information: &model.UserInformation{
			ID:       uuid.New(),
			FullName: "Super Admin",
			NIM:      "-",
			Semester: "0",
		},
	}
	if err := db.Create(&admin).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed superadmin: %v", err)
	}

	log.Printf("[SEEDER] Berhasil seed SuperAdmin (%s)", email)
}

// SeedSampleUsers membuat 1 mentor dan 1 mahasiswa contoh supaya alur
// penugasan dan upload record bisa langsung dicoba di development.
func SeedSampleUsers(db *gorm.DB) {
	var count int64
	db.Model(&model.User{}).Where("? = ANY(roles)", string(model.RoleMentor)).Count(&count)
	if count > 0 {
		log.Println("[SEEDER] User contoh sudah ada, skip.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("123123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("[SEEDER] Gagal hash password user contoh: %v", err)
	}

	users := []model.User{
		{
			ID:           uuid.New(),
			Email:        "mentor@kampus.ac.id",
			PasswordHash: string(hash),
			Roles:        pq.StringArray{string(model.RoleMentor)},
			Information: &model.UserInformation{
				ID:       uuid.New(),
				FullName: "Mentor Satu",
				NIM:      "-",
				Semester: "0",
				Faculty:  "Teknik Informatika",
			},
		},
		{
			ID:           uuid.New(),
			Email:        "mahasiswa@kampus.ac.id",
			PasswordHash: string(hash),
			Roles:        pq.StringArray{string(model.RoleMahasiswa)},
			Information: &model.UserInformation{
				ID:           uuid.New(),
				FullName:     "Mahasiswa Satu",
				NIM:          "230001",
				StudyProgram: "Teknik Informatika",
				Faculty:      "Teknik Informatika",
				Semester:     "3",
				University:   "Universitas Contoh",
			},
		},
	}

	if err := db.Create(&users).Error; err != nil {
		log.Fatalf("[SEEDER] Gagal seed user contoh: %v", err)
	}

	log.Println("[SEEDER] Berhasil seed mentor & mahasiswa contoh, password: 123123")
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
