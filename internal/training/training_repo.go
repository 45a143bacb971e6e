package training

import (
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/team"
)

// TrainingRepository defines the data operations behind drills, programs and
// session logs.
type TrainingRepository interface {
	// Drills
	ListDrills() ([]models.Drill, error)
	CreateDrill(d *models.Drill) error
	SeedDrills(drills []models.Drill) (int64, error)
	DrillNames(ids []string) (map[string]string, error)

	// Programs
	GetProgram(id string) (*models.Program, error)
	CreateProgram(p *models.Program) error
	ProgramsCreatedBy(userID string) ([]models.Program, error)
	ProgramsAssignedTo(playerID string) ([]models.Program, map[string]models.ProgramStatus, error)
	Sessions(programIDs []string) (map[string][]models.ProgramSession, error)
	AssigneeIDs(programIDs []string) (map[string][]string, error)
	UserNames(ids []string) (map[string]string, error)
	GetUser(id string) (*models.User, error)
	GetSquad(id string) (*models.Squad, error)
	SquadMemberIDs(squadID string) ([]string, error)
	OpenSquadPrograms(squadID string, kind models.ProgramType) ([]models.Program, error)
	CompletePrograms(ids []string) error
	CompleteOpenAssignments(programIDs []string) ([]models.ProgramAssignment, error)
	SetProgramStatus(id string, status models.ProgramStatus) error

	// Assignments
	CreateAssignment(a *models.ProgramAssignment) error
	GetAssignment(programID, playerID string) (*models.ProgramAssignment, error)
	SetAssignmentStatus(programID, playerID string, status models.ProgramStatus) error
	ArchiveAssignments(programID string) ([]models.ProgramAssignment, error)
	LatestActiveAssignment(playerID string) (*models.ProgramAssignment, error)

	// Session logs
	CreateSessionLog(log *models.SessionLog) error
	AwardXP(playerID string, xp int) error
	GetSessionLog(id string) (*models.SessionLog, error)
	UpdateSessionFeedback(id string, fields map[string]interface{}) error
	LogsForPlayers(playerIDs []string, limit int) ([]models.SessionLog, error)
	FrozenDrillNames(programIDs, drillIDs []string) (map[string]string, error)
	RecentMatches(playerIDs []string, limit int) ([]models.MatchEntry, error)

	Team() team.TeamRepository
	Notify(drafts ...notification.Draft) error
	WithTransaction(txFunc func(TrainingRepository) error) error
}

type trainingRepository struct {
	db *gorm.DB
}

func NewTrainingRepository(db *gorm.DB) TrainingRepository {
	return &trainingRepository{db: db}
}

func (r *trainingRepository) ListDrills() ([]models.Drill, error) {
	var drills []models.Drill
	err := r.db.Order("category ASC").Order("name ASC").Find(&drills).Error
	return drills, err
}

func (r *trainingRepository) CreateDrill(d *models.Drill) error {
	return r.db.Create(d).Error
}

// SeedDrills inserts the catalogue, skipping rows whose id already exists.
func (r *trainingRepository) SeedDrills(drills []models.Drill) (int64, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&drills)
	if result.Error != nil {
		return 0, fmt.Errorf("seed drills: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *trainingRepository) DrillNames(ids []string) (map[string]string, error) {
	names := make(map[string]string)
	if len(ids) == 0 {
		return names, nil
	}
	var drills []models.Drill
	if err := r.db.Select("id", "name").Where("id IN ?", ids).Find(&drills).Error; err != nil {
		return nil, err
	}
	for _, d := range drills {
		names[d.ID] = d.Name
	}
	return names, nil
}

func (r *trainingRepository) GetProgram(id string) (*models.Program, error) {
	var p models.Program
	if err := r.db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *trainingRepository) CreateProgram(p *models.Program) error {
	return r.db.Create(p).Error
}

func (r *trainingRepository) ProgramsCreatedBy(userID string) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.Where("creator_id = ?", userID).Order("created_at DESC").Find(&programs).Error
	return programs, err
}

// ProgramsAssignedTo returns the player's programs with the player's own
// assignment status for each.
func (r *trainingRepository) ProgramsAssignedTo(playerID string) ([]models.Program, map[string]models.ProgramStatus, error) {
	var assignments []models.ProgramAssignment
	if err := r.db.Where("player_id = ?", playerID).Order("assigned_at DESC").Find(&assignments).Error; err != nil {
		return nil, nil, err
	}
	if len(assignments) == 0 {
		return nil, map[string]models.ProgramStatus{}, nil
	}

	statuses := make(map[string]models.ProgramStatus, len(assignments))
	ids := make([]string, len(assignments))
	for i, a := range assignments {
		statuses[a.ProgramID] = a.Status
		ids[i] = a.ProgramID
	}

	var programs []models.Program
	if err := r.db.Where("id IN ?", ids).Order("created_at DESC").Find(&programs).Error; err != nil {
		return nil, nil, err
	}
	return programs, statuses, nil
}

func (r *trainingRepository) Sessions(programIDs []string) (map[string][]models.ProgramSession, error) {
	out := make(map[string][]models.ProgramSession)
	if len(programIDs) == 0 {
		return out, nil
	}
	var sessions []models.ProgramSession
	err := r.db.Where("program_id IN ?", programIDs).
		Order("day_order ASC").Order("position ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		out[s.ProgramID] = append(out[s.ProgramID], s)
	}
	return out, nil
}

func (r *trainingRepository) AssigneeIDs(programIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	if len(programIDs) == 0 {
		return out, nil
	}
	var assignments []models.ProgramAssignment
	if err := r.db.Select("program_id", "player_id").Where("program_id IN ?", programIDs).
		Order("assigned_at ASC").Find(&assignments).Error; err != nil {
		return nil, err
	}
	for _, a := range assignments {
		out[a.ProgramID] = append(out[a.ProgramID], a.PlayerID)
	}
	return out, nil
}

func (r *trainingRepository) UserNames(ids []string) (map[string]string, error) {
	names := make(map[string]string)
	if len(ids) == 0 {
		return names, nil
	}
	var users []models.User
	if err := r.db.Select("id", "name").Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}

func (r *trainingRepository) GetUser(id string) (*models.User, error) {
	var u models.User
	if err := r.db.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *trainingRepository) GetSquad(id string) (*models.Squad, error) {
	var s models.Squad
	if err := r.db.First(&s, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *trainingRepository) SquadMemberIDs(squadID string) ([]string, error) {
	var ids []string
	err := r.db.Model(&models.SquadMember{}).Where("squad_id = ?", squadID).
		Order("created_at ASC").Pluck("player_id", &ids).Error
	return ids, err
}

func (r *trainingRepository) OpenSquadPrograms(squadID string, kind models.ProgramType) ([]models.Program, error) {
	var programs []models.Program
	err := r.db.Where("squad_id = ? AND program_type = ? AND status <> ?", squadID, kind, models.StatusCompleted).
		Find(&programs).Error
	return programs, err
}

func (r *trainingRepository) CompletePrograms(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Model(&models.Program{}).Where("id IN ?", ids).
		Update("status", models.StatusCompleted).Error
}

// CompleteOpenAssignments completes every non-completed assignment of the
// programs and returns the rows as they were before the change.
func (r *trainingRepository) CompleteOpenAssignments(programIDs []string) ([]models.ProgramAssignment, error) {
	if len(programIDs) == 0 {
		return nil, nil
	}
	var open []models.ProgramAssignment
	if err := r.db.Where("program_id IN ? AND status <> ?", programIDs, models.StatusCompleted).
		Find(&open).Error; err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return nil, nil
	}
	err := r.db.Model(&models.ProgramAssignment{}).
		Where("program_id IN ? AND status <> ?", programIDs, models.StatusCompleted).
		Update("status", models.StatusCompleted).Error
	return open, err
}

func (r *trainingRepository) SetProgramStatus(id string, status models.ProgramStatus) error {
	return r.db.Model(&models.Program{}).Where("id = ?", id).Update("status", status).Error
}

func (r *trainingRepository) CreateAssignment(a *models.ProgramAssignment) error {
	return r.db.Create(a).Error
}

func (r *trainingRepository) GetAssignment(programID, playerID string) (*models.ProgramAssignment, error) {
	var a models.ProgramAssignment
	if err := r.db.Where("program_id = ? AND player_id = ?", programID, playerID).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *trainingRepository) SetAssignmentStatus(programID, playerID string, status models.ProgramStatus) error {
	return r.db.Model(&models.ProgramAssignment{}).
		Where("program_id = ? AND player_id = ?", programID, playerID).
		Update("status", status).Error
}

func (r *trainingRepository) ArchiveAssignments(programID string) ([]models.ProgramAssignment, error) {
	var assignments []models.ProgramAssignment
	if err := r.db.Where("program_id = ?", programID).Find(&assignments).Error; err != nil {
		return nil, err
	}
	err := r.db.Model(&models.ProgramAssignment{}).Where("program_id = ?", programID).
		Update("status", models.StatusArchived).Error
	return assignments, err
}

func (r *trainingRepository) LatestActiveAssignment(playerID string) (*models.ProgramAssignment, error) {
	var assignments []models.ProgramAssignment
	err := r.db.Where("player_id = ? AND status = ?", playerID, models.StatusActive).
		Order("assigned_at DESC").Limit(1).Find(&assignments).Error
	if err != nil || len(assignments) == 0 {
		return nil, err
	}
	return &assignments[0], nil
}

func (r *trainingRepository) CreateSessionLog(log *models.SessionLog) error {
	return r.db.Create(log).Error
}

func (r *trainingRepository) AwardXP(playerID string, xp int) error {
	return r.db.Model(&models.User{}).Where("id = ?", playerID).
		UpdateColumn("xp", gorm.Expr("xp + ?", xp)).Error
}

func (r *trainingRepository) GetSessionLog(id string) (*models.SessionLog, error) {
	var log models.SessionLog
	if err := r.db.First(&log, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &log, nil
}

func (r *trainingRepository) UpdateSessionFeedback(id string, fields map[string]interface{}) error {
	return r.db.Model(&models.SessionLog{}).Where("id = ?", id).Updates(fields).Error
}

func (r *trainingRepository) LogsForPlayers(playerIDs []string, limit int) ([]models.SessionLog, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	q := r.db.Preload("DrillPerformances", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Where("player_id IN ?", playerIDs).Order("date_completed DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var logs []models.SessionLog
	err := q.Find(&logs).Error
	return logs, err
}

// FrozenDrillNames maps "programID/drillID" to the name copied into the
// program's sessions when the program was written.
func (r *trainingRepository) FrozenDrillNames(programIDs, drillIDs []string) (map[string]string, error) {
	names := make(map[string]string)
	if len(programIDs) == 0 || len(drillIDs) == 0 {
		return names, nil
	}
	var sessions []models.ProgramSession
	err := r.db.Select("program_id", "drill_id", "drill_name").
		Where("program_id IN ? AND drill_id IN ?", programIDs, drillIDs).
		Order("day_order ASC").Order("position ASC").
		Find(&sessions).Error
	if err != nil {
		return nil, err
	}
	for _, s := range sessions {
		if s.DrillID == nil || s.DrillName == "" {
			continue
		}
		key := frozenKey(s.ProgramID, *s.DrillID)
		if _, ok := names[key]; !ok {
			names[key] = s.DrillName
		}
	}
	return names, nil
}

func frozenKey(programID, drillID string) string { return programID + "/" + drillID }

func (r *trainingRepository) RecentMatches(playerIDs []string, limit int) ([]models.MatchEntry, error) {
	if len(playerIDs) == 0 {
		return nil, nil
	}
	var matches []models.MatchEntry
	err := r.db.Where("user_id IN ?", playerIDs).Order("date DESC").Limit(limit).Find(&matches).Error
	return matches, err
}

func (r *trainingRepository) Team() team.TeamRepository {
	return team.NewTeamRepository(r.db)
}

func (r *trainingRepository) Notify(drafts ...notification.Draft) error {
	_, err := notification.Enqueue(r.db, drafts...)
	return err
}

func (r *trainingRepository) WithTransaction(txFunc func(TrainingRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return txFunc(&trainingRepository{db: tx})
	})
}

func nowUTC() time.Time { return time.Now().UTC() }
