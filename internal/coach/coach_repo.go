package coach

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
)

// CoachRepository owns the player side of the coach link. Every transition
// is a conditional update on the expected current state, so a lost race
// shows up as zero affected rows rather than a silent overwrite.
type CoachRepository interface {
	GetUser(id string) (*models.User, error)
	FindCoachByCode(code string) (*models.User, error)
	SetCoachCode(coachID, code string) error

	RequestLink(playerID, coachID string) (bool, error)
	SetLinkStatus(coachID, playerID string, to models.LinkStatus) (bool, error)
	ClearLink(playerID, coachID string, from ...models.LinkStatus) (bool, error)
	RemoveFromCoachSquads(playerID, coachID string) (int64, error)
	PendingRequests(coachID string) ([]models.User, error)

	Notify(drafts ...notification.Draft) error
	WithTransaction(txFunc func(CoachRepository) error) error
}

type coachRepository struct {
	db *gorm.DB
}

func NewCoachRepository(db *gorm.DB) CoachRepository {
	return &coachRepository{db: db}
}

func (r *coachRepository) GetUser(id string) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *coachRepository) FindCoachByCode(code string) (*models.User, error) {
	var u models.User
	if err := r.db.Where("coach_code = ? AND role = ?", code, models.RoleCoach).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *coachRepository) SetCoachCode(coachID, code string) error {
	return r.db.Model(&models.User{}).Where("id = ?", coachID).Update("coach_code", code).Error
}

func (r *coachRepository) RequestLink(playerID, coachID string) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND coach_link_status = ?", playerID, models.LinkNone).
		Updates(map[string]interface{}{
			"coach_id":          coachID,
			"coach_link_status": models.LinkPending,
		})
	if result.Error != nil {
		return false, fmt.Errorf("request coach link: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// SetLinkStatus moves a PENDING request addressed to coachID to status to.
// Moving to NONE also drops the coach reference.
func (r *coachRepository) SetLinkStatus(coachID, playerID string, to models.LinkStatus) (bool, error) {
	fields := map[string]interface{}{"coach_link_status": to}
	if to == models.LinkNone {
		fields["coach_id"] = nil
	}
	result := r.db.Model(&models.User{}).
		Where("id = ? AND coach_id = ? AND coach_link_status = ?", playerID, coachID, models.LinkPending).
		Updates(fields)
	if result.Error != nil {
		return false, fmt.Errorf("update coach link: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *coachRepository) ClearLink(playerID, coachID string, from ...models.LinkStatus) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND coach_id = ? AND coach_link_status IN ?", playerID, coachID, from).
		Updates(map[string]interface{}{
			"coach_id":          nil,
			"coach_link_status": models.LinkNone,
		})
	if result.Error != nil {
		return false, fmt.Errorf("clear coach link: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *coachRepository) RemoveFromCoachSquads(playerID, coachID string) (int64, error) {
	result := r.db.
		Where("player_id = ? AND squad_id IN (?)", playerID,
			r.db.Model(&models.Squad{}).Select("id").Where("coach_id = ?", coachID)).
		Delete(&models.SquadMember{})
	if result.Error != nil {
		return 0, fmt.Errorf("remove from coach squads: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *coachRepository) PendingRequests(coachID string) ([]models.User, error) {
	var players []models.User
	err := r.db.Where("coach_id = ? AND coach_link_status = ?", coachID, models.LinkPending).
		Order("updated_at ASC").
		Find(&players).Error
	return players, err
}

func (r *coachRepository) Notify(drafts ...notification.Draft) error {
	_, err := notification.Enqueue(r.db, drafts...)
	return err
}

func (r *coachRepository) WithTransaction(txFunc func(CoachRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&coachRepository{db: tx})
	})
}
