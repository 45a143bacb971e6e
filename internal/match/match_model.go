package match

import "time"

const (
	defaultPageSize = 50
	maxPageSize     = 100
	teamScopeAll    = "all"
)

// CreateMatchRequest logs a match. A coach sets PlayerID to prepare a match
// for one of their players.
type CreateMatchRequest struct {
	Date         time.Time `json:"date" binding:"required" example:"2024-06-01T10:00:00Z"`
	EventName    string    `json:"event_name" binding:"required,max=255" example:"Club Championship"`
	OpponentName string    `json:"opponent_name" binding:"required,max=255" example:"J. Smith"`
	Round        string    `json:"round" binding:"max=50" example:"QF"`
	Format       string    `json:"format" binding:"max=50" example:"Best of 3"`
	Surface      string    `json:"surface" binding:"max=50" example:"Clay"`
	Tactics      string    `json:"tactics"`
	PlayerID     string    `json:"player_id"`
}

// UpdateMatchRequest carries only the fields being changed.
type UpdateMatchRequest struct {
	Score      *string `json:"score" binding:"omitempty,max=100"`
	Result     *string `json:"result" binding:"omitempty,max=50"`
	Reflection *string `json:"reflection"`
	Tactics    *string `json:"tactics"`
	Format     *string `json:"format" binding:"omitempty,max=50"`
	Surface    *string `json:"surface" binding:"omitempty,max=50"`
	Round      *string `json:"round" binding:"omitempty,max=50"`
}

func (r UpdateMatchRequest) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	set := func(col string, v *string) {
		if v != nil {
			fields[col] = *v
		}
	}
	set("score", r.Score)
	set("result", r.Result)
	set("reflection", r.Reflection)
	set("tactics", r.Tactics)
	set("format", r.Format)
	set("surface", r.Surface)
	set("round", r.Round)
	return fields
}

// reportsOutcome reports whether the update sets a non-empty score or result.
func (r UpdateMatchRequest) reportsOutcome() bool {
	return (r.Score != nil && *r.Score != "") || (r.Result != nil && *r.Result != "")
}

type MatchFeedbackRequest struct {
	Feedback string `json:"feedback" binding:"required"`
}

// MatchFilter narrows GetMatches. An empty UserIDs matches nothing.
type MatchFilter struct {
	UserIDs  []string
	Opponent string
}
