package team

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// TeamRepository answers roster questions about a coach: who the coach's
// players are and whether a given player belongs to them. A coach's team is
// every player linked directly to the coach plus every member of the
// coach's squads.
type TeamRepository interface {
	DirectPlayers(coachID string) ([]models.User, error)
	PlayerIDs(coachID string) ([]string, error)
	Athletes(coachID string) ([]models.User, error)
	Contains(coachID, playerID string) (bool, error)
	CoachOf(playerID string) (string, error)
}

type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository creates a TeamRepository. Pass a transaction handle to
// read inside an open transaction.
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) DirectPlayers(coachID string) ([]models.User, error) {
	var players []models.User
	err := r.db.Where("coach_id = ? AND coach_link_status <> ?", coachID, models.LinkNone).
		Order("name ASC").
		Find(&players).Error
	if err != nil {
		return nil, fmt.Errorf("list direct players: %w", err)
	}
	return players, nil
}

func (r *teamRepository) PlayerIDs(coachID string) ([]string, error) {
	var direct []string
	if err := r.db.Model(&models.User{}).
		Where("coach_id = ? AND coach_link_status <> ?", coachID, models.LinkNone).
		Pluck("id", &direct).Error; err != nil {
		return nil, fmt.Errorf("list direct player ids: %w", err)
	}

	var squad []string
	if err := r.db.Model(&models.SquadMember{}).
		Joins("JOIN squads ON squads.id = squad_members.squad_id").
		Where("squads.coach_id = ?", coachID).
		Pluck("squad_members.player_id", &squad).Error; err != nil {
		return nil, fmt.Errorf("list squad player ids: %w", err)
	}

	seen := make(map[string]struct{}, len(direct)+len(squad))
	ids := make([]string, 0, len(direct)+len(squad))
	for _, id := range append(direct, squad...) {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

func (r *teamRepository) Athletes(coachID string) ([]models.User, error) {
	ids, err := r.PlayerIDs(coachID)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []models.User{}, nil
	}
	var players []models.User
	if err := r.db.Where("id IN ?", ids).Order("name ASC").Find(&players).Error; err != nil {
		return nil, fmt.Errorf("load athletes: %w", err)
	}
	return players, nil
}

func (r *teamRepository) Contains(coachID, playerID string) (bool, error) {
	var count int64
	if err := r.db.Model(&models.User{}).
		Where("id = ? AND coach_id = ? AND coach_link_status <> ?", playerID, coachID, models.LinkNone).
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := r.db.Model(&models.SquadMember{}).
		Joins("JOIN squads ON squads.id = squad_members.squad_id").
		Where("squad_members.player_id = ? AND squads.coach_id = ?", playerID, coachID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CoachOf resolves the coach who should hear about a player's activity: the
// actively linked coach, else the coach of the player's earliest squad.
// It returns "" when the player has neither.
func (r *teamRepository) CoachOf(playerID string) (string, error) {
	var player models.User
	err := r.db.Select("id", "coach_id", "coach_link_status").First(&player, "id = ?", playerID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	if player.CoachID != nil && player.CoachLinkStatus == models.LinkActive {
		return *player.CoachID, nil
	}

	var coachIDs []string
	err = r.db.Model(&models.SquadMember{}).
		Joins("JOIN squads ON squads.id = squad_members.squad_id").
		Where("squad_members.player_id = ?", playerID).
		Order("squad_members.created_at ASC").
		Limit(1).
		Pluck("squads.coach_id", &coachIDs).Error
	if err != nil {
		return "", err
	}
	if len(coachIDs) == 0 {
		return "", nil
	}
	return coachIDs[0], nil
}
