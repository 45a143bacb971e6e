package match

import (
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
)

// MatchRepository defines methods to interact with match diary data
type MatchRepository interface {
	CreateMatch(match *models.MatchEntry) error
	GetMatchByID(id string) (*models.MatchEntry, error)
	UpdateMatch(id string, fields map[string]interface{}) error
	GetMatches(filter MatchFilter, page, pageSize int) ([]models.MatchEntry, int64, error)
	GetUser(id string) (*models.User, error)

	Notify(drafts ...notification.Draft) error
	// Transaction support
	WithTransaction(txFunc func(MatchRepository) error) error
}

// GormMatchRepository implements MatchRepository using GORM
type GormMatchRepository struct {
	db *gorm.DB
}

// NewGormMatchRepository creates a new GormMatchRepository
func NewGormMatchRepository(db *gorm.DB) *GormMatchRepository {
	return &GormMatchRepository{db: db}
}

// WithTransaction implements transaction support
func (r *GormMatchRepository) WithTransaction(txFunc func(MatchRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&GormMatchRepository{db: tx})
	})
}

// CreateMatch creates a new diary entry
func (r *GormMatchRepository) CreateMatch(match *models.MatchEntry) error {
	return r.db.Create(match).Error
}

func (r *GormMatchRepository) GetMatchByID(id string) (*models.MatchEntry, error) {
	var match models.MatchEntry
	if err := r.db.First(&match, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *GormMatchRepository) UpdateMatch(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.MatchEntry{}).Where("id = ?", id).Updates(fields).Error
}

// GetMatches lists matches newest first with the total before pagination.
func (r *GormMatchRepository) GetMatches(filter MatchFilter, page, pageSize int) ([]models.MatchEntry, int64, error) {
	if len(filter.UserIDs) == 0 {
		return []models.MatchEntry{}, 0, nil
	}

	query := r.db.Model(&models.MatchEntry{}).Where("user_id IN ?", filter.UserIDs)
	if opp := strings.TrimSpace(filter.Opponent); opp != "" {
		query = query.Where("LOWER(opponent_name) LIKE ?", "%"+strings.ToLower(opp)+"%")
	}

	// Count total before pagination
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count matches: %w", err)
	}

	var matches []models.MatchEntry
	offset := (page - 1) * pageSize
	err := query.Order("date DESC").Order("created_at DESC").
		Offset(offset).Limit(pageSize).
		Find(&matches).Error
	if err != nil {
		return nil, 0, fmt.Errorf("list matches: %w", err)
	}
	return matches, total, nil
}

func (r *GormMatchRepository) GetUser(id string) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *GormMatchRepository) Notify(drafts ...notification.Draft) error {
	_, err := notification.Enqueue(r.db, drafts...)
	return err
}
