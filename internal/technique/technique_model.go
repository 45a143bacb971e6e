package technique

const (
	categoryPro        = "pro-videos"
	categoryUser       = "user-videos"
	categoryThumbnails = "thumbnails"
)

// allowedVideoExt lists the container formats the players in the apps can play.
var allowedVideoExt = map[string]bool{
	".mp4":  true,
	".m4v":  true,
	".mov":  true,
	".webm": true,
}

// ProVideoForm is the text part of a pro-video upload.
type ProVideoForm struct {
	PlayerName string `form:"player_name" binding:"required,max=255" example:"C. Alcaraz"`
	ShotType   string `form:"shot_type" binding:"required,max=50" example:"Forehand"`
	Handedness string `form:"handedness" binding:"omitempty,oneof=Right Left right left" example:"Right"`
	Tags       string `form:"tags" example:"clay,slow-motion"`
}

type UserVideoForm struct {
	Title string `form:"title" binding:"required,max=255" example:"Forehand from the baseline"`
}

// CreateComparisonRequest stores how two clips line up for side-by-side playback.
type CreateComparisonRequest struct {
	ProVideoID    string   `json:"pro_video_id" binding:"required"`
	UserVideoID   string   `json:"user_video_id" binding:"required"`
	ProOffsetSec  float64  `json:"pro_offset_sec" binding:"gte=0"`
	UserOffsetSec float64  `json:"user_offset_sec" binding:"gte=0"`
	PlaybackRate  *float64 `json:"playback_rate" binding:"omitempty,gt=0,lte=4"`
	Notes         string   `json:"notes"`
}
