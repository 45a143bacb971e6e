package models

// User is either a player or a coach. A player points at its coach through
// CoachID; a coach's players are found by querying on that column.
type User struct {
	BaseModel
	Email           string     `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash    string     `json:"-" gorm:"not null"`
	Name            string     `json:"name"`
	Role            Role       `json:"role" gorm:"type:varchar(16);not null;index"`
	Age             *int       `json:"age"`
	YearsExperience *int       `json:"years_experience"`
	Level           string     `json:"level"`
	Goals           string     `json:"goals"`
	XP              int        `json:"xp" gorm:"not null;default:0"`
	CoachID         *string    `json:"coach_id" gorm:"type:varchar(36);index"`
	CoachCode       *string    `json:"coach_code,omitempty" gorm:"type:varchar(6);uniqueIndex"`
	CoachLinkStatus LinkStatus `json:"coach_link_status" gorm:"type:varchar(16);not null;default:'NONE'"`
}

func (u *User) IsCoach() bool  { return u.Role == RoleCoach }
func (u *User) IsPlayer() bool { return u.Role == RolePlayer }
