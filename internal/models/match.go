package models

import "time"

// MatchEntry is one match in a player's diary. UserID is the owner even
// when a coach created it.
type MatchEntry struct {
	BaseModel
	UserID        string    `json:"user_id" gorm:"type:varchar(36);index;not null"`
	CreatedByID   string    `json:"created_by_id" gorm:"type:varchar(36)"`
	Date          time.Time `json:"date" gorm:"index"`
	EventName     string    `json:"event_name"`
	OpponentName  string    `json:"opponent_name" gorm:"index"`
	Format        string    `json:"format"`
	Round         string    `json:"round"`
	Surface       string    `json:"surface"`
	Tactics       string    `json:"tactics"`
	Score         string    `json:"score"`
	Result        string    `json:"result"`
	Reflection    string    `json:"reflection"`
	CoachFeedback string    `json:"coach_feedback"`
}

// IsScheduled reports whether the match has no outcome recorded yet.
func (m *MatchEntry) IsScheduled() bool {
	return m.Score == "" && m.Result == ""
}
