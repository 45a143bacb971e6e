// internal/models/base.go
package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel gives every table a string UUID key and timestamps.
type BaseModel struct {
	ID        string    `json:"id" gorm:"type:varchar(36);primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// All lists every table for AutoMigrate, parents before children.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Squad{}, &SquadMember{}, &SquadAttendance{},
		&Drill{}, &Program{}, &ProgramSession{}, &ProgramAssignment{},
		&SessionLog{}, &DrillPerformance{},
		&MatchEntry{},
		&Notification{}, &OutboxEvent{},
		&ProVideo{}, &UserVideo{}, &Comparison{},
	}
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// Deref returns "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
