package service

import (
	"errors"

	"jejak-monev-backend/app/model"
	"jejak-monev-backend/app/repository"
	"jejak-monev-backend/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserAdminService memuat operasi manajemen akun. Gerbang role SuperAdmin
// ada di middleware (Access Policy sebagai prasyarat); service tidak
// mengecek ulang.
type UserAdminService interface {
	GetUser(id uuid.UUID) (*model.User, *utils.AppError)
	ListUsers() ([]model.User, *utils.AppError)
	ListUsersByRole(role model.Role) ([]model.User, *utils.AppError)

	// ChangeRoles mengganti seluruh himpunan role seorang user.
	ChangeRoles(id uuid.UUID, roles []string) *utils.AppError

	// DeleteUser menghapus user beserta UserInformation dan seluruh
	// periode/record miliknya sebagai mentee, dalam satu transaksi.
	DeleteUser(id uuid.UUID) *utils.AppError

	// UpdateOwnInformation mengubah data akademik milik pemanggil sendiri.
	UpdateOwnInformation(userID uuid.UUID, updates map[string]interface{}) *utils.AppError
}

type userAdminService struct {
	userRepo repository.UserRepository
}

// NewUserAdminService membuat instance baru userAdminService.
func NewUserAdminService(userRepo repository.UserRepository) UserAdminService {
	return &userAdminService{userRepo: userRepo}
}

func (s *userAdminService) GetUser(id uuid.UUID) (*model.User, *utils.AppError) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NotFound("User tidak ditemukan")
		}
		return nil, utils.Internal("Gagal mengambil user", err)
	}
	// user tanpa informasi akademik adalah data inkonsisten; gagal keras,
	// bukan mengembalikan data parsial
	if user.Information == nil {
		return nil, utils.Internal("Informasi pengguna tidak ditemukan", nil)
	}
	return user, nil
}

func (s *userAdminService) ListUsers() ([]model.User, *utils.AppError) {
	users, err := s.userRepo.FindAll()
	if err != nil {
		return nil, utils.Internal("Gagal mengambil daftar user", err)
	}
	for i := range users {
		if users[i].Information == nil {
			return nil, utils.Internal("Informasi pengguna tidak ditemukan", nil)
		}
	}
	return users, nil
}

func (s *userAdminService) ListUsersByRole(role model.Role) ([]model.User, *utils.AppError) {
	if !model.ValidRole(role) {
		return nil, utils.Validation("Role tidak dikenal")
	}
	users, err := s.userRepo.FindByRole(role)
	if err != nil {
		return nil, utils.Internal("Gagal mengambil daftar user", err)
	}
	return users, nil
}

func (s *userAdminService) ChangeRoles(id uuid.UUID, roles []string) *utils.AppError {
	if len(roles) == 0 {
		return utils.Validation("User harus punya minimal satu role")
	}
	for _, r := range roles {
		if !model.ValidRole(model.Role(r)) {
			return utils.Validation("Role tidak dikenal: " + r)
		}
	}

	if err := s.userRepo.UpdateRoles(id, roles); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("User tidak ditemukan")
		}
		return utils.Internal("Gagal mengubah role user", err)
	}
	return nil
}

func (s *userAdminService) DeleteUser(id uuid.UUID) *utils.AppError {
	if err := s.userRepo.DeleteCascade(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.NotFound("User tidak ditemukan")
		}
		return utils.Internal("Gagal menghapus user", err)
	}
	return nil
}

func (s *userAdminService) UpdateOwnInformation(userID uuid.UUID, updates map[string]interface{}) *utils.AppError {
	if len(updates) == 0 {
		return utils.Validation("Tidak ada field yang diubah")
	}
	if err := s.userRepo.UpdateInformation(userID, updates); err != nil {
		return utils.Internal("Gagal memperbarui informasi pengguna", err)
	}
	return nil
}
