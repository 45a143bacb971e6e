package models

import "time"

type Drill struct {
	BaseModel
	Name               string  `json:"name" gorm:"type:varchar(255);index;not null"`
	Category           string  `json:"category" gorm:"type:varchar(50)"`
	Difficulty         string  `json:"difficulty" gorm:"type:varchar(20)"`
	Description        string  `json:"description"`
	DefaultDurationMin int     `json:"default_duration_min" gorm:"default:10"`
	VideoURL           string  `json:"video_url"`
	IsPremium          bool    `json:"is_premium"`
	TargetValue        *int    `json:"target_value"`
	TargetPrompt       string  `json:"target_prompt"`
	CreatorID          *string `json:"creator_id" gorm:"type:varchar(36);index"`
}

type Program struct {
	BaseModel
	Title       string           `json:"title" gorm:"type:varchar(255);not null"`
	Description string           `json:"description"`
	CreatorID   string           `json:"creator_id" gorm:"type:varchar(36);index;not null"`
	ProgramType ProgramType      `json:"program_type" gorm:"type:varchar(32);not null;index:idx_program_squad_type"`
	SquadID     *string          `json:"squad_id" gorm:"type:varchar(36);index:idx_program_squad_type"`
	Status      ProgramStatus    `json:"status" gorm:"type:varchar(16);not null"`
	Sessions    []ProgramSession `json:"sessions,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// ProgramSession is one drill slot on one day of a program. DrillName is
// copied at authoring time so logs still read well after the drill changes.
type ProgramSession struct {
	BaseModel
	ProgramID       string  `json:"program_id" gorm:"type:varchar(36);index;not null"`
	DayOrder        int     `json:"day_order" gorm:"not null"`
	Position        int     `json:"position"`
	DrillID         *string `json:"drill_id" gorm:"type:varchar(36)"`
	DrillName       string  `json:"drill_name"`
	DurationMinutes int     `json:"duration_minutes"`
	Notes           string  `json:"notes"`
	TargetValue     *int    `json:"target_value"`
	TargetPrompt    string  `json:"target_prompt"`
	MediaURL        string  `json:"media_url"`
}

type ProgramAssignment struct {
	BaseModel
	ProgramID  string        `json:"program_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_assignment_player"`
	PlayerID   string        `json:"player_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_assignment_player;index"`
	CoachID    string        `json:"coach_id" gorm:"type:varchar(36);not null"`
	Status     ProgramStatus `json:"status" gorm:"type:varchar(16);not null;index"`
	AssignedAt time.Time     `json:"assigned_at"`
}

type SessionLog struct {
	BaseModel
	PlayerID          string             `json:"player_id" gorm:"type:varchar(36);index;not null"`
	ProgramID         *string            `json:"program_id" gorm:"type:varchar(36);index"`
	SessionDayOrder   *int               `json:"session_day_order"`
	DateCompleted     time.Time          `json:"date_completed" gorm:"index"`
	DurationMinutes   int                `json:"duration_minutes"`
	RPE               int                `json:"rpe"`
	Notes             string             `json:"notes"`
	CoachFeedback     string             `json:"coach_feedback"`
	CoachLiked        bool               `json:"coach_liked"`
	DrillPerformances []DrillPerformance `json:"drill_performances" gorm:"constraint:OnDelete:CASCADE"`
}

type DrillPerformance struct {
	BaseModel
	SessionLogID  string `json:"session_log_id" gorm:"type:varchar(36);index;not null"`
	DrillID       string `json:"drill_id" gorm:"type:varchar(36)"`
	Outcome       string `json:"outcome"`
	AchievedValue *int   `json:"achieved_value"`
}
