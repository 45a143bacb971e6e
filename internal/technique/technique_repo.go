package technique

import (
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
)

type TechniqueRepository interface {
	ListProVideos(shotType string) ([]models.ProVideo, error)
	CreateProVideo(v *models.ProVideo) error
	GetProVideo(id string) (*models.ProVideo, error)

	CreateUserVideo(v *models.UserVideo) error
	GetUserVideo(id string) (*models.UserVideo, error)
	ListUserVideos(userID string) ([]models.UserVideo, error)

	CreateComparison(cmp *models.Comparison) error
	ListComparisons(userID string) ([]models.Comparison, error)
}

type techniqueRepository struct {
	db *gorm.DB
}

func NewTechniqueRepository(db *gorm.DB) TechniqueRepository {
	return &techniqueRepository{db: db}
}

func (r *techniqueRepository) ListProVideos(shotType string) ([]models.ProVideo, error) {
	q := r.db.Order("created_at DESC")
	if shotType != "" {
		q = q.Where("LOWER(shot_type) = LOWER(?)", shotType)
	}
	var videos []models.ProVideo
	err := q.Find(&videos).Error
	return videos, err
}

func (r *techniqueRepository) CreateProVideo(v *models.ProVideo) error {
	return r.db.Create(v).Error
}

func (r *techniqueRepository) GetProVideo(id string) (*models.ProVideo, error) {
	var v models.ProVideo
	if err := r.db.First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *techniqueRepository) CreateUserVideo(v *models.UserVideo) error {
	return r.db.Create(v).Error
}

func (r *techniqueRepository) GetUserVideo(id string) (*models.UserVideo, error) {
	var v models.UserVideo
	if err := r.db.First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *techniqueRepository) ListUserVideos(userID string) ([]models.UserVideo, error) {
	var videos []models.UserVideo
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&videos).Error
	return videos, err
}

func (r *techniqueRepository) CreateComparison(cmp *models.Comparison) error {
	return r.db.Create(cmp).Error
}

func (r *techniqueRepository) ListComparisons(userID string) ([]models.Comparison, error) {
	var out []models.Comparison
	err := r.db.Preload("ProVideo").Preload("UserVideo").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&out).Error
	return out, err
}
