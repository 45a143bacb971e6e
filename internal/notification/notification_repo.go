package notification

import (
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
)

type NotificationRepository interface {
	ListForUser(userID string, page, limit int) ([]models.Notification, int64, error)
	MarkRead(id, userID string) (bool, error)
	UnreadCounts(userID string) (int64, map[string]int64, error)
	UserExists(id string) (bool, error)
	WithTransaction(txFunc func(tx *gorm.DB) error) error
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) ListForUser(userID string, page, limit int) ([]models.Notification, int64, error) {
	var total int64
	query := r.db.Model(&models.Notification{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []models.Notification
	err := query.Order("created_at DESC").Offset((page - 1) * limit).Limit(limit).Find(&items).Error
	return items, total, err
}

// MarkRead flags one notification as read, scoped to its recipient.
func (r *notificationRepository) MarkRead(id, userID string) (bool, error) {
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return false, result.Error
	}
	if result.RowsAffected > 0 {
		return true, nil
	}
	// Already-read rows report zero affected rows on some drivers.
	var count int64
	err := r.db.Model(&models.Notification{}).Where("id = ? AND user_id = ?", id, userID).Count(&count).Error
	return count > 0, err
}

type unreadRow struct {
	RelatedUserID *string
	Count         int64
}

func (r *notificationRepository) UnreadCounts(userID string) (int64, map[string]int64, error) {
	var rows []unreadRow
	err := r.db.Model(&models.Notification{}).
		Select("related_user_id, COUNT(*) AS count").
		Where("user_id = ? AND is_read = ?", userID, false).
		Group("related_user_id").
		Scan(&rows).Error
	if err != nil {
		return 0, nil, err
	}

	var total int64
	byUser := make(map[string]int64)
	for _, row := range rows {
		total += row.Count
		if row.RelatedUserID != nil && *row.RelatedUserID != "" {
			byUser[*row.RelatedUserID] += row.Count
		}
	}
	return total, byUser, nil
}

func (r *notificationRepository) UserExists(id string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *notificationRepository) WithTransaction(txFunc func(tx *gorm.DB) error) error {
	return r.db.Transaction(txFunc)
}
