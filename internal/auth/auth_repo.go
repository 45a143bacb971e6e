package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
)

type AuthRepository interface {
	CreateUser(u *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	EmailExists(email string) (bool, error)
	CoachCodeExists(code string) (bool, error)
	UpdateProfile(id string, fields map[string]interface{}) error
}

type authRepository struct {
	db *gorm.DB
}

func NewAuthRepository(db *gorm.DB) AuthRepository {
	return &authRepository{db: db}
}

func (r *authRepository) CreateUser(u *models.User) error {
	return r.db.Create(u).Error
}

func (r *authRepository) GetUserByEmail(email string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("email = ?", email).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) GetUserByID(id string) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *authRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	return count > 0, err
}

func (r *authRepository) CoachCodeExists(code string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("coach_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *authRepository) UpdateProfile(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := r.db.Model(&models.User{}).Where("id = ?", id).Updates(fields).Error; err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}
