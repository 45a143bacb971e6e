package models

type ProVideo struct {
	BaseModel
	PlayerName   string `json:"player_name" gorm:"index"`
	ShotType     string `json:"shot_type"`
	Handedness   string `json:"handedness"`
	Tags         string `json:"tags"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
	UploadedByID string `json:"uploaded_by_id" gorm:"type:varchar(36)"`
}

type UserVideo struct {
	BaseModel
	UserID       string `json:"user_id" gorm:"type:varchar(36);index;not null"`
	Title        string `json:"title"`
	VideoURL     string `json:"video_url"`
	ThumbnailURL string `json:"thumbnail_url"`
}

// Comparison stores the manual sync offsets for viewing two clips side by side.
type Comparison struct {
	BaseModel
	UserID        string     `json:"user_id" gorm:"type:varchar(36);index;not null"`
	ProVideoID    string     `json:"pro_video_id" gorm:"type:varchar(36);not null"`
	UserVideoID   string     `json:"user_video_id" gorm:"type:varchar(36);not null"`
	ProOffsetSec  float64    `json:"pro_offset_sec"`
	UserOffsetSec float64    `json:"user_offset_sec"`
	PlaybackRate  float64    `json:"playback_rate" gorm:"not null;default:1"`
	Notes         string     `json:"notes"`
	ProVideo      *ProVideo  `json:"pro_video,omitempty"`
	UserVideo     *UserVideo `json:"user_video,omitempty"`
}
