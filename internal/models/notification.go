package models

import (
	"time"

	"gorm.io/datatypes"
)

type Notification struct {
	BaseModel
	UserID        string  `json:"user_id" gorm:"type:varchar(36);index:idx_notification_inbox;not null"`
	RelatedUserID *string `json:"related_user_id" gorm:"type:varchar(36);index"`
	Title         string  `json:"title"`
	Message       string  `json:"message"`
	Type          string  `json:"type" gorm:"type:varchar(40);index"`
	ReferenceID   *string `json:"reference_id" gorm:"type:varchar(36)"`
	IsRead        bool    `json:"is_read" gorm:"not null;default:false;index:idx_notification_inbox"`
}

// OutboxEvent is written in the same transaction as the change that caused
// it. The dispatcher turns it into a Notification with the same ID.
type OutboxEvent struct {
	BaseModel
	Topic        string         `json:"topic" gorm:"type:varchar(40);not null"`
	Payload      datatypes.JSON `json:"payload"`
	Attempts     int            `json:"attempts" gorm:"not null;default:0"`
	LastError    string         `json:"last_error"`
	DispatchedAt *time.Time     `json:"dispatched_at" gorm:"index"`
}
