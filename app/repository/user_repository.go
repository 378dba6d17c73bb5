package repository

import (
	"jejak-monev-backend/app/model"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// UserRepository mendefinisikan kontrak operasi database untuk entity User
// beserta UserInformation miliknya.
type UserRepository interface {
	// CreateWithInformation menyimpan user + informasi akademiknya dalam
	// satu transaksi. User tanpa UserInformation dianggap inkonsisten,
	// jadi keduanya dibuat sekaligus atau tidak sama sekali.
	CreateWithInformation(user *model.User, info *model.UserInformation) error

	FindByEmail(email string) (*model.User, error)
	FindByID(id uuid.UUID) (*model.User, error)

	// FindInformation mengambil UserInformation milik user tertentu.
	// Mengembalikan gorm.ErrRecordNotFound jika belum ada.
	FindInformation(userID uuid.UUID) (*model.UserInformation, error)
	UpdateInformation(userID uuid.UUID, updates map[string]interface{}) error

	FindAll() ([]model.User, error)
	FindByRole(role model.Role) ([]model.User, error)
	UpdateRoles(id uuid.UUID, roles []string) error

	// DeleteCascade menghapus user beserta seluruh data turunannya
	// (records -> periods -> information -> user) dalam satu transaksi.
	DeleteCascade(id uuid.UUID) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository membuat instance baru userRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db}
}

func (r *userRepository) CreateWithInformation(user *model.User, info *model.UserInformation) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		info.UserID = user.ID
		return tx.Create(info).Error
	})
}

func (r *userRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("Information").
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.
		Preload("Information").
		Where("id = ?", id).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindInformation(userID uuid.UUID) (*model.UserInformation, error) {
	var info model.UserInformation
	if err := r.db.Where("user_id = ?", userID).First(&info).Error; err != nil {
		return nil, err
	}
	return &info, nil
}

func (r *userRepository) UpdateInformation(userID uuid.UUID, updates map[string]interface{}) error {
	return r.db.Model(&model.UserInformation{}).
		Where("user_id = ?", userID).
		Updates(updates).Error
}

func (r *userRepository) FindAll() ([]model.User, error) {
	var users []model.User
	err := r.db.
		Preload("Information").
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

// FindByRole memakai operator ANY Postgres pada kolom text[].
func (r *userRepository) FindByRole(role model.Role) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Preload("Information").
		Where("? = ANY(roles)", string(role)).
		Order("created_at DESC").
		Find(&users).Error
	return users, err
}

func (r *userRepository) UpdateRoles(id uuid.UUID, roles []string) error {
	res := r.db.Model(&model.User{}).
		Where("id = ?", id).
		Update("roles", pq.StringArray(roles))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *userRepository) DeleteCascade(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var periodIDs []uuid.UUID
		if err := tx.Model(&model.MonevPeriod{}).
			Where("user_id = ?", id).
			Pluck("id", &periodIDs).Error; err != nil {
			return err
		}
		if len(periodIDs) > 0 {
			if err := tx.Where("period_id IN ?", periodIDs).
				Delete(&model.MonevRecord{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("user_id = ?", id).
			Delete(&model.MonevPeriod{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).
			Delete(&model.UserInformation{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
