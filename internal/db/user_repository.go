package db

import (
	"time"

	"github.com/nouakchotech/agrimarket/internal/models"
	"gorm.io/gorm"
)

type UserRepository struct {
	database *gorm.DB
}

func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{database: database}
}

func (repo *UserRepository) FindByID(userID uint) (models.User, error) {
	var user models.User
	if err := repo.database.First(&user, userID).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

// FindActiveByPhone is the login/refresh lookup: suspended and inactive
// accounts are invisible to it.
func (repo *UserRepository) FindActiveByPhone(phone string) (models.User, error) {
	var user models.User
	if err := repo.database.
		Where("phone = ? AND status = ?", phone, models.StatusActive).
		First(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (repo *UserRepository) ExistsByPhone(phone string) (bool, error) {
	var matched int64
	if err := repo.database.Model(&models.User{}).
		Where("phone = ?", phone).
		Count(&matched).Error; err != nil {
		return false, err
	}
	return matched > 0, nil
}

func (repo *UserRepository) Create(user *models.User) error {
	return repo.database.Create(user).Error
}

func (repo *UserRepository) UpdateLastLogin(userID uint, at time.Time) error {
	return repo.database.Model(&models.User{}).
		Where("id = ?", userID).
		Update("last_login_at", at).Error
}
