package training

import "time"

const (
	// XPPerMinute is the experience granted per logged training minute.
	XPPerMinute     = 10
	selfTarget      = "SELF"
	customDrillName = "Custom Drill"
	activityLimit   = 50
)

type CreateDrillRequest struct {
	Name               string `json:"name" binding:"required,max=255" example:"Spider Drill"`
	Category           string `json:"category" binding:"max=50" example:"Footwork"`
	Difficulty         string `json:"difficulty" binding:"max=20" example:"Advanced"`
	Description        string `json:"description"`
	DefaultDurationMin int    `json:"default_duration_min" binding:"gte=0"`
	VideoURL           string `json:"video_url" binding:"omitempty,url"`
	IsPremium          bool   `json:"is_premium"`
	TargetValue        *int   `json:"target_value" binding:"omitempty,gte=0"`
	TargetPrompt       string `json:"target_prompt"`
}

type SeedResponse struct {
	Message string `json:"message"`
	Seeded  int64  `json:"seeded"`
}

type DrillItemRequest struct {
	DrillID      string `json:"drill_id"`
	DrillName    string `json:"drill_name" binding:"max=255"`
	Duration     int    `json:"duration" binding:"gte=0"`
	Notes        string `json:"notes"`
	TargetValue  *int   `json:"target_value" binding:"omitempty,gte=0"`
	TargetPrompt string `json:"target_prompt"`
	MediaURL     string `json:"media_url"`
}

type SessionRequest struct {
	Day    int                `json:"day" binding:"gte=1"`
	Drills []DrillItemRequest `json:"drills" binding:"dive"`
}

type CreateProgramRequest struct {
	Title       string           `json:"title" binding:"required,max=255" example:"Clay court block"`
	Description string           `json:"description"`
	ProgramType string           `json:"program_type" example:"PLAYER_PLAN"`
	SquadID     string           `json:"squad_id"`
	Status      string           `json:"status" example:"PENDING"`
	AssignedTo  []string         `json:"assigned_to"`
	Sessions    []SessionRequest `json:"sessions" binding:"dive"`
}

type CreateProgramResponse struct {
	Status    string   `json:"status"`
	ProgramID string   `json:"program_id"`
	Assigned  []string `json:"assigned"`
	Completed []string `json:"completed_programs"`
}

type StatusRequest struct {
	Status string `json:"status" binding:"required" example:"ACTIVE"`
}

type StatusResponse struct {
	Status    string `json:"status"`
	NewStatus string `json:"new_status"`
}

type ScheduleItem struct {
	DayOrder        int     `json:"day_order"`
	Position        int     `json:"position"`
	DrillID         *string `json:"drill_id"`
	DrillName       string  `json:"drill_name"`
	DurationMinutes int     `json:"duration_minutes"`
	Notes           string  `json:"notes"`
	TargetValue     *int    `json:"target_value"`
	TargetPrompt    string  `json:"target_prompt"`
	MediaURL        string  `json:"media_url"`
}

type ProgramResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	ProgramType string         `json:"program_type"`
	SquadID     *string        `json:"squad_id"`
	CoachName   string         `json:"coach_name"`
	Status      string         `json:"status"`
	CreatedAt   time.Time      `json:"created_at"`
	AssignedTo  []string       `json:"assigned_to"`
	Schedule    []ScheduleItem `json:"schedule"`
}

type ActiveProgramResponse struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	CoachName   string         `json:"coach_name"`
	AssignedAt  time.Time      `json:"assigned_at"`
	Schedule    []ScheduleItem `json:"schedule"`
}

type DrillPerformanceRequest struct {
	DrillID       string `json:"drill_id" binding:"required"`
	Outcome       string `json:"outcome" binding:"max=255"`
	AchievedValue *int   `json:"achieved_value"`
}

type CreateSessionLogRequest struct {
	ProgramID         *string                   `json:"program_id"`
	SessionDayOrder   *int                      `json:"session_day_order" binding:"omitempty,gte=1"`
	DurationMinutes   int                       `json:"duration_minutes"`
	RPE               int                       `json:"rpe"`
	Notes             string                    `json:"notes"`
	DrillPerformances []DrillPerformanceRequest `json:"drill_performances" binding:"dive"`
}

type CreateSessionLogResponse struct {
	Status    string `json:"status"`
	LogID     string `json:"log_id"`
	XPAwarded int    `json:"xp_awarded"`
}

type FeedbackRequest struct {
	Feedback *string `json:"feedback"`
	Liked    *bool   `json:"liked"`
}

type PerformanceResponse struct {
	ID            string `json:"id"`
	DrillID       string `json:"drill_id"`
	DrillName     string `json:"drill_name"`
	Outcome       string `json:"outcome"`
	AchievedValue *int   `json:"achieved_value"`
}

type SessionLogResponse struct {
	ID                string                `json:"id"`
	PlayerID          string                `json:"player_id"`
	ProgramID         *string               `json:"program_id"`
	SessionDayOrder   *int                  `json:"session_day_order"`
	DateCompleted     time.Time             `json:"date_completed"`
	DurationMinutes   int                   `json:"duration_minutes"`
	RPE               int                   `json:"rpe"`
	Notes             string                `json:"notes"`
	CoachFeedback     string                `json:"coach_feedback"`
	CoachLiked        bool                  `json:"coach_liked"`
	DrillPerformances []PerformanceResponse `json:"drill_performances"`
}

const (
	ActivitySession = "SESSION"
	ActivityMatch   = "MATCH"
)

// ActivityItem is one entry in a coach's team feed.
type ActivityItem struct {
	Kind       string    `json:"kind"`
	ID         string    `json:"id"`
	PlayerID   string    `json:"player_id"`
	PlayerName string    `json:"player_name"`
	OccurredAt time.Time `json:"occurred_at"`
	Summary    string    `json:"summary"`

	DurationMinutes int    `json:"duration_minutes,omitempty"`
	RPE             int    `json:"rpe,omitempty"`
	CoachFeedback   string `json:"coach_feedback,omitempty"`
	OpponentName    string `json:"opponent_name,omitempty"`
	Score           string `json:"score,omitempty"`
	Result          string `json:"result,omitempty"`
}
