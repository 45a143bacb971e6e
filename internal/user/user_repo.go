package user

import (
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
)

type UserRepository interface {
	TopPlayersByXP(limit int) ([]models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) TopPlayersByXP(limit int) ([]models.User, error) {
	var users []models.User
	err := r.db.Select("id", "name", "level", "xp").
		Where("role = ?", models.RolePlayer).
		Order("xp DESC").Order("name ASC").
		Limit(limit).
		Find(&users).Error
	return users, err
}
