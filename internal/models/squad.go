package models

import "time"

type Squad struct {
	BaseModel
	CoachID string        `json:"coach_id" gorm:"type:varchar(36);index;not null"`
	Name    string        `json:"name" gorm:"not null"`
	Level   string        `json:"level"`
	Members []SquadMember `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

// SquadMember is unique per (squad, player); inserts go through ON CONFLICT DO NOTHING.
type SquadMember struct {
	BaseModel
	SquadID  string `json:"squad_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_squad_member"`
	PlayerID string `json:"player_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_squad_member;index"`
}

// SquadAttendance holds one row per player per calendar day (Day is YYYY-MM-DD).
type SquadAttendance struct {
	BaseModel
	SquadID  string    `json:"squad_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_day"`
	PlayerID string    `json:"player_id" gorm:"type:varchar(36);not null;uniqueIndex:idx_attendance_day"`
	Day      string    `json:"day" gorm:"type:varchar(10);not null;uniqueIndex:idx_attendance_day"`
	Date     time.Time `json:"date"`
	Squad    *Squad    `json:"-" gorm:"constraint:OnDelete:CASCADE"`
}

func (SquadAttendance) TableName() string { return "squad_attendance" }
