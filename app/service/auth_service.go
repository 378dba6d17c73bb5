package service

import (
	"errors"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// RegisterInput adalah payload registrasi akun baru. Role tidak bisa dipilih
// sendiri: akun baru selalu Mahasiswa, perubahan role hanya lewat SuperAdmin.
type RegisterInput struct {
	Email          string
	Password       string
	FullName       string
	NIM            string
	WhatsAppNumber string
	StudyProgram   string
	Faculty        string
	Semester       string
	University     string
}

// AuthService mendefinisikan operasi autentikasi.
type AuthService interface {
	Register(input RegisterInput) (*model.User, *utils.AppError)
	Login(email, password string) (*model.User, *utils.AppError)
}

type authService struct {
	userRepo repository.UserRepository
}

// NewAuthService menghubungkan Service dengan Repository.
func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

func (s *authService) Register(input RegisterInput) (*model.User, *utils.AppError) {
	if _, err := s.userRepo.FindByEmail(input.Email); err == nil {
		return nil, utils.Validation("Email sudah terdaftar")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.Internal("Gagal memeriksa email", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, utils.Internal("Gagal mengamankan password", err)
	}

	user := model.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Roles:        []string{string(model.RoleMahasiswa)},
	}
	info := model.UserInformation{
		FullName:       input.FullName,
		NIM:            input.NIM,
		WhatsAppNumber: input.WhatsAppNumber,
		StudyProgram:   input.StudyProgram,
		Faculty:        input.Faculty,
		Semester:       input.Semester,
		University:     input.University,
	}

	if err := s.userRepo.CreateWithInformation(&user, &info); err != nil {
		return nil, utils.Internal("Gagal menyimpan user", err)
	}
	user.Information = &info
	return &user, nil
}

func (s *authService) Login(email, password string) (*model.User, *utils.AppError) {
	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// pesan sengaja tidak membedakan email salah dari password salah
			return nil, utils.Unauthenticated("Email atau password salah")
		}
		return nil, utils.Internal("Gagal memeriksa kredensial", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, utils.Unauthenticated("Email atau password salah")
	}

	return user, nil
}
