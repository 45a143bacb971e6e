package squad

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

const dayLayout = "2006-01-02"

// SquadController handles squad-related HTTP requests
type SquadController struct {
	repo      SquadRepository
	appConfig *config.Config
}

// NewSquadController creates a new squad controller
func NewSquadController(repo SquadRepository, appConfig *config.Config) *SquadController {
	return &SquadController{
		repo:      repo,
		appConfig: appConfig,
	}
}

// ownedSquad loads a squad the caller coaches.
func ownedSquad(repo SquadRepository, squadID, coachID string) (*models.Squad, error) {
	s, err := repo.GetSquadByID(squadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, responses.ErrNotFound("Squad")
		}
		return nil, err
	}
	if s.CoachID != coachID {
		return nil, responses.ErrForbidden("You do not coach this squad")
	}
	return s, nil
}

// visibleSquad loads a squad the caller coaches or belongs to.
func visibleSquad(repo SquadRepository, squadID string, p middleware.Principal) (*models.Squad, error) {
	s, err := repo.GetSquadByID(squadID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, responses.ErrNotFound("Squad")
		}
		return nil, err
	}
	if s.CoachID == p.UserID {
		return s, nil
	}
	member, err := repo.IsMember(squadID, p.UserID)
	if err != nil {
		return nil, err
	}
	if !member {
		return nil, responses.ErrForbidden("You are not part of this squad")
	}
	return s, nil
}

// enroll adds one player and queues the invite. An unlinked player is linked
// to the squad's coach.
func enroll(repo SquadRepository, s *models.Squad, coach middleware.Principal, playerID string) (bool, error) {
	added, err := repo.AddMember(s.ID, playerID)
	if err != nil || !added {
		return added, err
	}
	if _, err := repo.LinkIfUnlinked(playerID, s.CoachID); err != nil {
		return false, err
	}
	err = repo.Notify(notification.Draft{
		UserID:        playerID,
		RelatedUserID: coach.UserID,
		Type:          models.NotifSquadInvite,
		Title:         "Added to squad",
		Message:       fmt.Sprintf("%s added you to %s", coach.Name, s.Name),
		ReferenceID:   s.ID,
	})
	return true, err
}

// requirePlayers rejects ids that are not existing player accounts.
func requirePlayers(repo SquadRepository, ids []string) ([]string, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	players, err := repo.GetPlayers(unique)
	if err != nil {
		return nil, err
	}
	if len(players) != len(unique) {
		found := make(map[string]struct{}, len(players))
		for _, u := range players {
			found[u.ID] = struct{}{}
		}
		for _, id := range unique {
			if _, ok := found[id]; !ok {
				return nil, responses.ErrBadRequest("%s is not a player", id)
			}
		}
	}
	return unique, nil
}

// GetMySquads godoc
// @Summary      List my squads
// @Tags         Squads
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]SquadResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads [get]
func (sc *SquadController) GetMySquads(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	squads, err := sc.repo.ListByCoach(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", squads)
}

// CreateSquad godoc
// @Summary      Create a squad
// @Description  Initial members are enrolled right away and each receives an invite notification.
// @Tags         Squads
// @Accept       json
// @Produce      json
// @Param        squad  body  CreateSquadRequest  true  "Squad"
// @Success      201  {object}  responses.SuccessResponse{data=CreateSquadResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads [post]
func (sc *SquadController) CreateSquad(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req CreateSquadRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	level := strings.TrimSpace(req.Level)
	if level == "" {
		level = defaultSquadLevel
	}

	s := &models.Squad{CoachID: p.UserID, Name: strings.TrimSpace(req.Name), Level: level}
	added := 0
	err := sc.repo.WithTransaction(func(repo SquadRepository) error {
		members, err := requirePlayers(repo, req.InitialMembers)
		if err != nil {
			return err
		}
		if err := repo.CreateSquad(s); err != nil {
			return fmt.Errorf("create squad: %w", err)
		}
		for _, playerID := range members {
			ok, err := enroll(repo, s, p, playerID)
			if err != nil {
				return err
			}
			if ok {
				added++
			}
		}
		return nil
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().Str("squad_id", s.ID).Int("members", added).Msg("squad created")
	responses.SendSuccess(c, http.StatusCreated, "Squad created", CreateSquadResponse{Status: "success", SquadID: s.ID, Added: added})
}

// DeleteSquad godoc
// @Summary      Delete a squad
// @Description  Memberships and attendance go with it. Programs keep their squad reference.
// @Tags         Squads
// @Produce      json
// @Param        id  path  string  true  "Squad ID"
// @Success      200  {object}  responses.SuccessResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id} [delete]
func (sc *SquadController) DeleteSquad(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	err := sc.repo.WithTransaction(func(repo SquadRepository) error {
		if _, err := ownedSquad(repo, c.Param("id"), p.UserID); err != nil {
			return err
		}
		return repo.DeleteSquad(c.Param("id"))
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Squad deleted", MemberStatusResponse{Status: "deleted"})
}

// GetSquadMembers godoc
// @Summary      List squad members
// @Tags         Squads
// @Produce      json
// @Param        id  path  string  true  "Squad ID"
// @Success      200  {object}  responses.SuccessResponse{data=[]models.User}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id}/members [get]
func (sc *SquadController) GetSquadMembers(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	if _, err := visibleSquad(sc.repo, c.Param("id"), p); err != nil {
		responses.HandleError(c, err)
		return
	}
	members, err := sc.repo.GetMembers(c.Param("id"))
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if members == nil {
		members = []models.User{}
	}
	responses.SendSuccess(c, http.StatusOK, "", members)
}

// AddMember godoc
// @Summary      Add a player to a squad
// @Description  Idempotent: status is "already_member" when the player was in the squad.
// @Tags         Squads
// @Accept       json
// @Produce      json
// @Param        id    path  string            true  "Squad ID"
// @Param        body  body  AddMemberRequest  true  "Player"
// @Success      200  {object}  responses.SuccessResponse{data=MemberStatusResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id}/members [post]
func (sc *SquadController) AddMember(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req AddMemberRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	status := "already_member"
	err := sc.repo.WithTransaction(func(repo SquadRepository) error {
		s, err := ownedSquad(repo, c.Param("id"), p.UserID)
		if err != nil {
			return err
		}
		ids, err := requirePlayers(repo, []string{req.PlayerID})
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			return responses.ErrBadRequest("player_id is required")
		}
		added, err := enroll(repo, s, p, ids[0])
		if err != nil {
			return err
		}
		if added {
			status = "success"
		}
		return nil
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", MemberStatusResponse{Status: status})
}

// RemoveMember godoc
// @Summary      Remove a player from a squad
// @Tags         Squads
// @Produce      json
// @Param        id         path  string  true  "Squad ID"
// @Param        player_id  path  string  true  "Player ID"
// @Success      200  {object}  responses.SuccessResponse{data=MemberStatusResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id}/members/{player_id} [delete]
func (sc *SquadController) RemoveMember(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	playerID := c.Param("player_id")

	err := sc.repo.WithTransaction(func(repo SquadRepository) error {
		s, err := ownedSquad(repo, c.Param("id"), p.UserID)
		if err != nil {
			return err
		}
		removed, err := repo.RemoveMember(s.ID, playerID)
		if err != nil || !removed {
			return err
		}
		return repo.Notify(notification.Draft{
			UserID:        playerID,
			RelatedUserID: p.UserID,
			Type:          models.NotifSquadRemoved,
			Title:         "Removed from squad",
			Message:       fmt.Sprintf("You were removed from %s", s.Name),
			ReferenceID:   s.ID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", MemberStatusResponse{Status: "removed"})
}

func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		now := time.Now().UTC()
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	if t, err := time.Parse(dayLayout, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, responses.ErrBadRequest("date must be YYYY-MM-DD")
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// MarkAttendance godoc
// @Summary      Mark squad attendance
// @Description  One row per player per day; marking twice is a no-op. Non-members are skipped.
// @Tags         Squads
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "Squad ID"
// @Param        body  body  AttendanceRequest  true  "Players and optional date (default today, UTC)"
// @Success      200  {object}  responses.SuccessResponse{data=AttendanceResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id}/attendance [post]
func (sc *SquadController) MarkAttendance(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req AttendanceRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	day, err := parseDay(req.Date)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	out := AttendanceResponse{Date: day.Format(dayLayout), Skipped: []string{}}
	err = sc.repo.WithTransaction(func(repo SquadRepository) error {
		s, err := ownedSquad(repo, c.Param("id"), p.UserID)
		if err != nil {
			return err
		}
		for _, playerID := range req.PlayerIDs {
			member, err := repo.IsMember(s.ID, playerID)
			if err != nil {
				return err
			}
			if !member {
				out.Skipped = append(out.Skipped, playerID)
				continue
			}
			marked, err := repo.MarkAttendance(s.ID, playerID, out.Date, day)
			if err != nil {
				return err
			}
			if marked {
				out.Marked++
			} else {
				out.AlreadyMarked++
			}
		}
		return nil
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Attendance recorded", out)
}

// GetLeaderboard godoc
// @Summary      Squad leaderboard
// @Description  Per member attendance, logged sessions and summed drill results, ordered by sessions.
// @Tags         Squads
// @Produce      json
// @Param        id  path  string  true  "Squad ID"
// @Success      200  {object}  responses.SuccessResponse{data=[]LeaderboardEntry}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id}/leaderboard [get]
func (sc *SquadController) GetLeaderboard(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	s, err := visibleSquad(sc.repo, c.Param("id"), p)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	members, err := sc.repo.GetMembers(s.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}

	attendance, err := sc.repo.AttendanceCounts(s.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	sessions, err := sc.repo.SessionCounts(ids)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	achieved, err := sc.repo.AchievedTotals(ids)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	board := make([]LeaderboardEntry, len(members))
	for i, m := range members {
		board[i] = LeaderboardEntry{
			PlayerID:        m.ID,
			Name:            m.Name,
			AttendanceCount: attendance[m.ID],
			SessionCount:    sessions[m.ID],
			TotalAchieved:   achieved[m.ID],
		}
	}
	sort.SliceStable(board, func(i, j int) bool {
		return board[i].SessionCount > board[j].SessionCount
	})
	responses.SendSuccess(c, http.StatusOK, "", board)
}

// GetProgress godoc
// @Summary      Squad progress on its active plan
// @Description  Completion of the squad's most recent active player plan, per member and averaged.
// @Tags         Squads
// @Produce      json
// @Param        id  path  string  true  "Squad ID"
// @Success      200  {object}  responses.SuccessResponse{data=ProgressResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/{id}/progress [get]
func (sc *SquadController) GetProgress(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	s, err := visibleSquad(sc.repo, c.Param("id"), p)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	members, err := sc.repo.GetMembers(s.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	out := ProgressResponse{Members: make([]MemberProgress, 0, len(members))}
	program, err := sc.repo.ActiveSquadPlan(s.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if program == nil || len(members) == 0 {
		for _, m := range members {
			out.Members = append(out.Members, MemberProgress{PlayerID: m.ID, Name: m.Name})
		}
		if program != nil {
			out.ProgramID, out.ProgramTitle = program.ID, program.Title
		}
		responses.SendSuccess(c, http.StatusOK, "", out)
		return
	}
	out.ProgramID, out.ProgramTitle = program.ID, program.Title

	total, err := sc.repo.CountProgramSessions(program.ID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	out.TotalSessions = total

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	logged, err := sc.repo.ProgramLogCounts(program.ID, ids)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	var sum float64
	for _, m := range members {
		mp := MemberProgress{PlayerID: m.ID, Name: m.Name, Logged: logged[m.ID]}
		if total > 0 {
			mp.Completion = roundPct(math.Min(100, float64(mp.Logged)/float64(total)*100))
		}
		sum += mp.Completion
		out.Members = append(out.Members, mp)
	}
	out.SquadCompletion = roundPct(sum / float64(len(members)))
	responses.SendSuccess(c, http.StatusOK, "", out)
}

func roundPct(v float64) float64 {
	return math.Round(v*10) / 10
}
