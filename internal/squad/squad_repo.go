package squad

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
)

// SquadRepository defines the interface for squad data operations
type SquadRepository interface {
	// Squad operations
	ListByCoach(coachID string) ([]SquadResponse, error)
	CreateSquad(s *models.Squad) error
	GetSquadByID(id string) (*models.Squad, error)
	DeleteSquad(id string) error

	// Membership operations
	GetMembers(squadID string) ([]models.User, error)
	IsMember(squadID, playerID string) (bool, error)
	AddMember(squadID, playerID string) (bool, error)
	RemoveMember(squadID, playerID string) (bool, error)
	GetPlayers(ids []string) ([]models.User, error)
	LinkIfUnlinked(playerID, coachID string) (bool, error)

	// Attendance and stats
	MarkAttendance(squadID, playerID, day string, at time.Time) (bool, error)
	AttendanceCounts(squadID string) (map[string]int64, error)
	SessionCounts(playerIDs []string) (map[string]int64, error)
	AchievedTotals(playerIDs []string) (map[string]int64, error)
	ActiveSquadPlan(squadID string) (*models.Program, error)
	CountProgramSessions(programID string) (int64, error)
	ProgramLogCounts(programID string, playerIDs []string) (map[string]int64, error)

	Notify(drafts ...notification.Draft) error
	WithTransaction(txFunc func(SquadRepository) error) error
}

type squadRepository struct {
	db *gorm.DB
}

// NewSquadRepository creates a new instance of SquadRepository
func NewSquadRepository(db *gorm.DB) SquadRepository {
	return &squadRepository{db: db}
}

func (r *squadRepository) ListByCoach(coachID string) ([]SquadResponse, error) {
	var out []SquadResponse
	err := r.db.Model(&models.Squad{}).
		Select("squads.id, squads.name, squads.level, squads.created_at, " +
			"(SELECT COUNT(*) FROM squad_members WHERE squad_members.squad_id = squads.id) AS member_count").
		Where("squads.coach_id = ?", coachID).
		Order("squads.created_at ASC").
		Scan(&out).Error
	if err != nil {
		return nil, fmt.Errorf("list squads: %w", err)
	}
	if out == nil {
		out = []SquadResponse{}
	}
	return out, nil
}

func (r *squadRepository) CreateSquad(s *models.Squad) error {
	return r.db.Create(s).Error
}

func (r *squadRepository) GetSquadByID(id string) (*models.Squad, error) {
	var s models.Squad
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

// DeleteSquad removes the squad with its memberships and attendance. The rows
// are deleted explicitly so the result does not depend on the driver
// enforcing foreign keys.
func (r *squadRepository) DeleteSquad(id string) error {
	if err := r.db.Where("squad_id = ?", id).Delete(&models.SquadAttendance{}).Error; err != nil {
		return fmt.Errorf("delete attendance: %w", err)
	}
	if err := r.db.Where("squad_id = ?", id).Delete(&models.SquadMember{}).Error; err != nil {
		return fmt.Errorf("delete members: %w", err)
	}
	return r.db.Delete(&models.Squad{}, "id = ?", id).Error
}

func (r *squadRepository) GetMembers(squadID string) ([]models.User, error) {
	var users []models.User
	err := r.db.
		Joins("JOIN squad_members ON squad_members.player_id = users.id").
		Where("squad_members.squad_id = ?", squadID).
		Order("users.name ASC").
		Find(&users).Error
	return users, err
}

func (r *squadRepository) IsMember(squadID, playerID string) (bool, error) {
	var count int64
	err := r.db.Model(&models.SquadMember{}).
		Where("squad_id = ? AND player_id = ?", squadID, playerID).
		Count(&count).Error
	return count > 0, err
}

// AddMember reports false when the pair already existed.
func (r *squadRepository) AddMember(squadID, playerID string) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SquadMember{SquadID: squadID, PlayerID: playerID})
	if result.Error != nil {
		return false, fmt.Errorf("add squad member: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *squadRepository) RemoveMember(squadID, playerID string) (bool, error) {
	result := r.db.Where("squad_id = ? AND player_id = ?", squadID, playerID).Delete(&models.SquadMember{})
	if result.Error != nil {
		return false, fmt.Errorf("remove squad member: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *squadRepository) GetPlayers(ids []string) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var users []models.User
	err := r.db.Where("id IN ? AND role = ?", ids, models.RolePlayer).Find(&users).Error
	return users, err
}

// LinkIfUnlinked makes coachID the player's active coach when the player has
// no coach and no pending request.
func (r *squadRepository) LinkIfUnlinked(playerID, coachID string) (bool, error) {
	result := r.db.Model(&models.User{}).
		Where("id = ? AND coach_id IS NULL AND coach_link_status = ?", playerID, models.LinkNone).
		Updates(map[string]interface{}{
			"coach_id":          coachID,
			"coach_link_status": models.LinkActive,
		})
	if result.Error != nil {
		return false, fmt.Errorf("link player to coach: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *squadRepository) MarkAttendance(squadID, playerID, day string, at time.Time) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.SquadAttendance{SquadID: squadID, PlayerID: playerID, Day: day, Date: at})
	if result.Error != nil {
		return false, fmt.Errorf("mark attendance: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

type countRow struct {
	PlayerID string
	Total    int64
}

func toMap(rows []countRow) map[string]int64 {
	m := make(map[string]int64, len(rows))
	for _, row := range rows {
		m[row.PlayerID] = row.Total
	}
	return m
}

func (r *squadRepository) AttendanceCounts(squadID string) (map[string]int64, error) {
	var rows []countRow
	err := r.db.Model(&models.SquadAttendance{}).
		Select("player_id, COUNT(*) AS total").
		Where("squad_id = ?", squadID).
		Group("player_id").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *squadRepository) SessionCounts(playerIDs []string) (map[string]int64, error) {
	if len(playerIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&models.SessionLog{}).
		Select("player_id, COUNT(*) AS total").
		Where("player_id IN ?", playerIDs).
		Group("player_id").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *squadRepository) AchievedTotals(playerIDs []string) (map[string]int64, error) {
	if len(playerIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&models.DrillPerformance{}).
		Select("session_logs.player_id AS player_id, COALESCE(SUM(drill_performances.achieved_value), 0) AS total").
		Joins("JOIN session_logs ON session_logs.id = drill_performances.session_log_id").
		Where("session_logs.player_id IN ?", playerIDs).
		Group("session_logs.player_id").
		Scan(&rows).Error
	return toMap(rows), err
}

// ActiveSquadPlan returns the most recent active player plan tied to the
// squad, or nil when there is none.
func (r *squadRepository) ActiveSquadPlan(squadID string) (*models.Program, error) {
	var programs []models.Program
	err := r.db.Where("squad_id = ? AND program_type = ? AND status = ?", squadID, models.ProgramPlayerPlan, models.StatusActive).
		Order("created_at DESC").
		Limit(1).
		Find(&programs).Error
	if err != nil {
		return nil, err
	}
	if len(programs) == 0 {
		return nil, nil
	}
	return &programs[0], nil
}

func (r *squadRepository) CountProgramSessions(programID string) (int64, error) {
	var count int64
	err := r.db.Model(&models.ProgramSession{}).Where("program_id = ?", programID).Count(&count).Error
	return count, err
}

func (r *squadRepository) ProgramLogCounts(programID string, playerIDs []string) (map[string]int64, error) {
	if len(playerIDs) == 0 {
		return map[string]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&models.SessionLog{}).
		Select("player_id, COUNT(*) AS total").
		Where("program_id = ? AND player_id IN ?", programID, playerIDs).
		Group("player_id").
		Scan(&rows).Error
	return toMap(rows), err
}

func (r *squadRepository) Notify(drafts ...notification.Draft) error {
	_, err := notification.Enqueue(r.db, drafts...)
	return err
}

func (r *squadRepository) WithTransaction(txFunc func(SquadRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&squadRepository{db: tx})
	})
}
