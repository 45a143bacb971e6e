package coach

const (
	ActionAccept = "ACCEPT"
	ActionReject = "REJECT"
)

type RequestCoachRequest struct {
	Code string `json:"code" binding:"required,len=6,numeric" example:"123456"`
}

type RespondRequest struct {
	Action string `json:"action" binding:"required" example:"ACCEPT"`
}

type CoachCodeResponse struct {
	CoachCode string `json:"coach_code"`
}

type LinkResponse struct {
	Status    string `json:"status"`
	CoachID   string `json:"coach_id,omitempty"`
	CoachName string `json:"coach_name,omitempty"`
}

// PendingRequest is a player waiting on the caller's answer.
type PendingRequest struct {
	PlayerID string `json:"player_id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Level    string `json:"level"`
	Age      *int   `json:"age"`
}
