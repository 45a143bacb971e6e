package models

import (
	"fmt"
	"strings"
)

type Role string

const (
	RolePlayer Role = "PLAYER"
	RoleCoach  Role = "COACH"
)

// ParseRole accepts "player"/"coach" in any case. Empty means player.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case "", RolePlayer:
		return RolePlayer, nil
	case RoleCoach:
		return RoleCoach, nil
	}
	return "", fmt.Errorf("unknown role %q: must be PLAYER or COACH", s)
}

type LinkStatus string

const (
	LinkNone    LinkStatus = "NONE"
	LinkPending LinkStatus = "PENDING"
	LinkActive  LinkStatus = "ACTIVE"
)

type ProgramStatus string

const (
	StatusPending   ProgramStatus = "PENDING"
	StatusActive    ProgramStatus = "ACTIVE"
	StatusArchived  ProgramStatus = "ARCHIVED"
	StatusCompleted ProgramStatus = "COMPLETED"
)

// ParseProgramStatus normalises case and rejects anything outside the four
// lifecycle states. DECLINED is what players send when turning a plan down
// and is stored as ARCHIVED.
func ParseProgramStatus(s string) (ProgramStatus, error) {
	v := ProgramStatus(strings.ToUpper(strings.TrimSpace(s)))
	switch v {
	case StatusPending, StatusActive, StatusArchived, StatusCompleted:
		return v, nil
	case "DECLINED":
		return StatusArchived, nil
	}
	return "", fmt.Errorf("invalid status %q: must be one of PENDING, ACTIVE, ARCHIVED, COMPLETED", s)
}

type ProgramType string

const (
	ProgramPlayerPlan   ProgramType = "PLAYER_PLAN"
	ProgramSquadSession ProgramType = "SQUAD_SESSION"
)

func ParseProgramType(s string) (ProgramType, error) {
	switch ProgramType(strings.ToUpper(strings.TrimSpace(s))) {
	case "", ProgramPlayerPlan:
		return ProgramPlayerPlan, nil
	case ProgramSquadSession:
		return ProgramSquadSession, nil
	}
	return "", fmt.Errorf("invalid program_type %q: must be PLAYER_PLAN or SQUAD_SESSION", s)
}

// Notification type tags.
const (
	NotifCoachRequest         = "COACH_REQUEST"
	NotifCoachRequestAccepted = "COACH_REQUEST_ACCEPTED"
	NotifCoachRequestRejected = "COACH_REQUEST_REJECTED"
	NotifCoachDisconnected    = "COACH_DISCONNECTED"
	NotifSquadInvite          = "SQUAD_INVITE"
	NotifSquadRemoved         = "SQUAD_REMOVED"
	NotifProgramAssigned      = "PROGRAM_ASSIGNED"
	NotifProgramCompleted     = "PROGRAM_COMPLETED"
	NotifProgramArchived      = "PROGRAM_ARCHIVED"
	NotifProgramLeft          = "PROGRAM_LEFT"
	NotifSessionLogged        = "SESSION_LOGGED"
	NotifSessionFeedback      = "SESSION_FEEDBACK"
	NotifMatchLog             = "MATCH_LOG"
	NotifMatchTactics         = "MATCH_TACTICS"
	NotifMatchResult          = "MATCH_RESULT"
	NotifMatchFeedback        = "MATCH_FEEDBACK"
	NotifMessage              = "MESSAGE"
)
