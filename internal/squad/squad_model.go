package squad

import "time"

const defaultSquadLevel = "Mixed"

type CreateSquadRequest struct {
	Name           string   `json:"name" binding:"required,min=1,max=100" example:"Varsity"`
	Level          string   `json:"level" binding:"max=50" example:"Advanced"`
	InitialMembers []string `json:"initial_members"`
}

type AddMemberRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
}

type AttendanceRequest struct {
	PlayerIDs []string `json:"player_ids" binding:"required,min=1"`
	Date      string   `json:"date" example:"2024-05-01"`
}

type SquadResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Level       string    `json:"level"`
	MemberCount int64     `json:"member_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type CreateSquadResponse struct {
	Status  string `json:"status"`
	SquadID string `json:"squad_id"`
	Added   int    `json:"added"`
}

type MemberStatusResponse struct {
	Status string `json:"status"`
}

type AttendanceResponse struct {
	Date          string   `json:"date"`
	Marked        int      `json:"marked"`
	AlreadyMarked int      `json:"already_marked"`
	Skipped       []string `json:"skipped"`
}

type LeaderboardEntry struct {
	PlayerID        string `json:"player_id"`
	Name            string `json:"name"`
	AttendanceCount int64  `json:"attendance_count"`
	SessionCount    int64  `json:"session_count"`
	TotalAchieved   int64  `json:"total_achieved"`
}

type MemberProgress struct {
	PlayerID   string  `json:"player_id"`
	Name       string  `json:"name"`
	Logged     int64   `json:"logged"`
	Completion float64 `json:"completion"`
}

type ProgressResponse struct {
	ProgramID       string           `json:"program_id,omitempty"`
	ProgramTitle    string           `json:"program_title,omitempty"`
	TotalSessions   int64            `json:"total_sessions"`
	SquadCompletion float64          `json:"squad_completion"`
	Members         []MemberProgress `json:"members"`
}
