package training

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

// targets is the ordered, de-duplicated set of players a program is for.
type targets struct {
	ids     []string
	seen    map[string]struct{}
	squadID string
}

func (t *targets) add(ids ...string) {
	for _, id := range ids {
		if _, ok := t.seen[id]; ok {
			continue
		}
		t.seen[id] = struct{}{}
		t.ids = append(t.ids, id)
	}
}

// resolveTargets expands assigned_to. "SELF", blanks and the caller's own id
// mean the caller; a squad id owned by the caller means its members; anything
// else must be a player id. Players may only target themselves.
func resolveTargets(repo TrainingRepository, p middleware.Principal, assigned []string) (*targets, error) {
	t := &targets{seen: make(map[string]struct{})}
	if len(assigned) == 0 {
		t.add(p.UserID)
		return t, nil
	}

	for _, raw := range assigned {
		id := strings.TrimSpace(raw)
		if id == "" || strings.EqualFold(id, selfTarget) || id == p.UserID {
			t.add(p.UserID)
			continue
		}
		if !p.IsCoach() {
			return nil, responses.ErrForbidden("Players can only create programs for themselves")
		}

		sq, err := repo.GetSquad(id)
		switch {
		case err == nil:
			if sq.CoachID != p.UserID {
				return nil, responses.ErrForbidden("You can only assign programs to your own squads")
			}
			members, err := repo.SquadMemberIDs(sq.ID)
			if err != nil {
				return nil, err
			}
			t.add(members...)
			if t.squadID == "" {
				t.squadID = sq.ID
			}
			continue
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return nil, err
		}

		u, err := repo.GetUser(id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, responses.ErrBadRequest("assigned_to: %q is neither a squad nor a user", id)
			}
			return nil, err
		}
		if !u.IsPlayer() {
			return nil, responses.ErrBadRequest("assigned_to: %q is not a player", id)
		}
		t.add(u.ID)
	}
	return t, nil
}

// buildSessions flattens the day/drill tree into ordered rows, copying the
// catalogue name when the request gives only a drill id.
func buildSessions(repo TrainingRepository, days []SessionRequest) ([]models.ProgramSession, error) {
	var drillIDs []string
	for _, day := range days {
		for _, d := range day.Drills {
			if d.DrillID != "" && strings.TrimSpace(d.DrillName) == "" {
				drillIDs = append(drillIDs, d.DrillID)
			}
		}
	}
	names, err := repo.DrillNames(drillIDs)
	if err != nil {
		return nil, err
	}

	var sessions []models.ProgramSession
	for _, day := range days {
		for i, d := range day.Drills {
			name := strings.TrimSpace(d.DrillName)
			if name == "" {
				name = names[d.DrillID]
			}
			if name == "" {
				return nil, responses.ErrBadRequest("day %d drill %d: drill_name or a known drill_id is required", day.Day, i+1)
			}
			sessions = append(sessions, models.ProgramSession{
				DayOrder:        day.Day,
				Position:        i,
				DrillID:         models.StringPtr(d.DrillID),
				DrillName:       name,
				DurationMinutes: d.Duration,
				Notes:           d.Notes,
				TargetValue:     d.TargetValue,
				TargetPrompt:    d.TargetPrompt,
				MediaURL:        d.MediaURL,
			})
		}
	}
	return sessions, nil
}

// CreateProgram godoc
// @Summary      Create a training program
// @Description  Creates the program and its schedule, assigns PLAYER_PLAN programs to the resolved players
// @Description  and completes earlier programs of the same type for the same squad.
// @Tags         Training
// @Accept       json
// @Produce      json
// @Param        body  body  CreateProgramRequest  true  "Program"
// @Success      201  {object}  responses.SuccessResponse{data=CreateProgramResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse "Squad not found"
// @Security     ApiKeyAuth
// @Router       /programs [post]
func (tc *TrainingController) CreateProgram(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req CreateProgramRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	requested := models.StatusPending
	if strings.TrimSpace(req.Status) != "" {
		s, err := models.ParseProgramStatus(req.Status)
		if err != nil {
			responses.BadRequest(c, err.Error())
			return
		}
		requested = s
	}
	kind, err := models.ParseProgramType(req.ProgramType)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	resp := CreateProgramResponse{Status: "success", Assigned: []string{}, Completed: []string{}}
	err = tc.repo.WithTransaction(func(repo TrainingRepository) error {
		squadID := strings.TrimSpace(req.SquadID)
		if squadID != "" {
			sq, err := repo.GetSquad(squadID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return responses.ErrNotFound("Squad")
				}
				return err
			}
			if sq.CoachID != p.UserID {
				return responses.ErrForbidden("You do not own this squad")
			}
		}

		t, err := resolveTargets(repo, p, req.AssignedTo)
		if err != nil {
			return err
		}
		if squadID == "" {
			squadID = t.squadID
		}

		var drafts []notification.Draft
		if squadID != "" {
			prior, err := repo.OpenSquadPrograms(squadID, kind)
			if err != nil {
				return err
			}
			ids := make([]string, len(prior))
			titles := make(map[string]string, len(prior))
			for i, pr := range prior {
				ids[i] = pr.ID
				titles[pr.ID] = pr.Title
			}
			if err := repo.CompletePrograms(ids); err != nil {
				return err
			}
			closed, err := repo.CompleteOpenAssignments(ids)
			if err != nil {
				return err
			}
			for _, a := range closed {
				if a.PlayerID == p.UserID {
					continue
				}
				drafts = append(drafts, notification.Draft{
					UserID:        a.PlayerID,
					RelatedUserID: p.UserID,
					Type:          models.NotifProgramCompleted,
					Title:         "Program completed",
					Message:       fmt.Sprintf("%q was completed when a new program started", titles[a.ProgramID]),
					ReferenceID:   a.ProgramID,
				})
			}
			resp.Completed = append(resp.Completed, ids...)
		}

		sessions, err := buildSessions(repo, req.Sessions)
		if err != nil {
			return err
		}
		program := models.Program{
			Title:       req.Title,
			Description: req.Description,
			CreatorID:   p.UserID,
			ProgramType: kind,
			SquadID:     models.StringPtr(squadID),
			Status:      models.StatusActive,
			Sessions:    sessions,
		}
		if err := repo.CreateProgram(&program); err != nil {
			return err
		}
		resp.ProgramID = program.ID

		if kind == models.ProgramPlayerPlan {
			now := nowUTC()
			for _, playerID := range t.ids {
				self := playerID == p.UserID
				status := models.StatusPending
				if self || requested == models.StatusActive {
					status = models.StatusActive
				}
				if err := repo.CreateAssignment(&models.ProgramAssignment{
					ProgramID:  program.ID,
					PlayerID:   playerID,
					CoachID:    p.UserID,
					Status:     status,
					AssignedAt: now,
				}); err != nil {
					return err
				}
				resp.Assigned = append(resp.Assigned, playerID)
				if self {
					continue
				}
				drafts = append(drafts, notification.Draft{
					UserID:        playerID,
					RelatedUserID: p.UserID,
					Type:          models.NotifProgramAssigned,
					Title:         "New training program",
					Message:       fmt.Sprintf("%s assigned you %q", p.Name, program.Title),
					ReferenceID:   program.ID,
				})
			}
		}
		return repo.Notify(drafts...)
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().
		Str("program_id", resp.ProgramID).
		Str("program_type", string(kind)).
		Int("assigned", len(resp.Assigned)).
		Int("completed", len(resp.Completed)).
		Msg("program created")

	responses.SendSuccess(c, http.StatusCreated, "Program created", resp)
}

func toSchedule(sessions []models.ProgramSession) []ScheduleItem {
	out := make([]ScheduleItem, len(sessions))
	for i, s := range sessions {
		out[i] = ScheduleItem{
			DayOrder:        s.DayOrder,
			Position:        s.Position,
			DrillID:         s.DrillID,
			DrillName:       s.DrillName,
			DurationMinutes: s.DurationMinutes,
			Notes:           s.Notes,
			TargetValue:     s.TargetValue,
			TargetPrompt:    s.TargetPrompt,
			MediaURL:        s.MediaURL,
		}
	}
	return out
}

// GetPrograms godoc
// @Summary      List my programs
// @Description  Coaches see the programs they wrote; players see the programs assigned to them
// @Description  with their own assignment status.
// @Tags         Training
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]ProgramResponse}
// @Security     ApiKeyAuth
// @Router       /programs [get]
func (tc *TrainingController) GetPrograms(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var (
		programs []models.Program
		statuses map[string]models.ProgramStatus
		err      error
	)
	if p.IsCoach() {
		programs, err = tc.repo.ProgramsCreatedBy(p.UserID)
	} else {
		programs, statuses, err = tc.repo.ProgramsAssignedTo(p.UserID)
	}
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	ids := make([]string, len(programs))
	creators := make([]string, 0, len(programs))
	for i, pr := range programs {
		ids[i] = pr.ID
		creators = append(creators, pr.CreatorID)
	}
	sessions, err := tc.repo.Sessions(ids)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	assignees, err := tc.repo.AssigneeIDs(ids)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	names, err := tc.repo.UserNames(creators)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	out := make([]ProgramResponse, len(programs))
	for i, pr := range programs {
		status := pr.Status
		if s, ok := statuses[pr.ID]; ok {
			status = s
		}
		assigned := assignees[pr.ID]
		if assigned == nil {
			assigned = []string{}
		}
		out[i] = ProgramResponse{
			ID:          pr.ID,
			Title:       pr.Title,
			Description: pr.Description,
			ProgramType: string(pr.ProgramType),
			SquadID:     pr.SquadID,
			CoachName:   names[pr.CreatorID],
			Status:      string(status),
			CreatedAt:   pr.CreatedAt,
			AssignedTo:  assigned,
			Schedule:    toSchedule(sessions[pr.ID]),
		}
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// UpdateProgramStatus godoc
// @Summary      Accept, decline or archive an assigned program
// @Tags         Training
// @Accept       json
// @Produce      json
// @Param        id    path  string         true  "Program ID"
// @Param        body  body  StatusRequest  true  "PENDING, ACTIVE, ARCHIVED or COMPLETED"
// @Success      200  {object}  responses.SuccessResponse{data=StatusResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse "No assignment for the caller"
// @Security     ApiKeyAuth
// @Router       /programs/{id}/status [patch]
func (tc *TrainingController) UpdateProgramStatus(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	programID := c.Param("id")

	var req StatusRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	status, err := models.ParseProgramStatus(req.Status)
	if err != nil {
		responses.BadRequest(c, err.Error())
		return
	}

	if _, err := tc.repo.GetAssignment(programID, p.UserID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "Assignment")
			return
		}
		responses.HandleError(c, err)
		return
	}
	if err := tc.repo.SetAssignmentStatus(programID, p.UserID, status); err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Status updated", StatusResponse{Status: "success", NewStatus: string(status)})
}

// DeleteProgram godoc
// @Summary      Archive a program
// @Description  The creator archives the program for everyone; an assignee archives only their own copy.
// @Tags         Training
// @Produce      json
// @Param        id  path  string  true  "Program ID"
// @Success      200  {object}  responses.SuccessResponse{data=StatusResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /programs/{id} [delete]
func (tc *TrainingController) DeleteProgram(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	programID := c.Param("id")

	var scope string
	err := tc.repo.WithTransaction(func(repo TrainingRepository) error {
		program, err := repo.GetProgram(programID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return responses.ErrNotFound("Program")
			}
			return err
		}

		if program.CreatorID == p.UserID {
			scope = "program"
			if err := repo.SetProgramStatus(program.ID, models.StatusArchived); err != nil {
				return err
			}
			assignments, err := repo.ArchiveAssignments(program.ID)
			if err != nil {
				return err
			}
			var drafts []notification.Draft
			for _, a := range assignments {
				if a.PlayerID == p.UserID {
					continue
				}
				drafts = append(drafts, notification.Draft{
					UserID:        a.PlayerID,
					RelatedUserID: p.UserID,
					Type:          models.NotifProgramArchived,
					Title:         "Program archived",
					Message:       fmt.Sprintf("%s archived %q", p.Name, program.Title),
					ReferenceID:   program.ID,
				})
			}
			return repo.Notify(drafts...)
		}

		if _, err := repo.GetAssignment(program.ID, p.UserID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return responses.ErrForbidden("You are neither the creator nor an assignee of this program")
			}
			return err
		}
		scope = "assignment"
		if err := repo.SetAssignmentStatus(program.ID, p.UserID, models.StatusArchived); err != nil {
			return err
		}
		return repo.Notify(notification.Draft{
			UserID:        program.CreatorID,
			RelatedUserID: p.UserID,
			Type:          models.NotifProgramLeft,
			Title:         "Athlete left a program",
			Message:       fmt.Sprintf("%s archived %q", p.Name, program.Title),
			ReferenceID:   program.ID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Archived "+scope, StatusResponse{Status: "success", NewStatus: string(models.StatusArchived)})
}

// GetMyActiveProgram godoc
// @Summary      My current program
// @Description  The most recently assigned ACTIVE program, or null.
// @Tags         Training
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=ActiveProgramResponse}
// @Security     ApiKeyAuth
// @Router       /my-active-program [get]
func (tc *TrainingController) GetMyActiveProgram(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	a, err := tc.repo.LatestActiveAssignment(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if a == nil {
		responses.SendSuccess(c, http.StatusOK, "No active program", nil)
		return
	}

	program, err := tc.repo.GetProgram(a.ProgramID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	sessions, err := tc.repo.Sessions([]string{program.ID})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	names, err := tc.repo.UserNames([]string{program.CreatorID})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "", ActiveProgramResponse{
		ID:          program.ID,
		Title:       program.Title,
		Description: program.Description,
		CoachName:   names[program.CreatorID],
		AssignedAt:  a.AssignedAt,
		Schedule:    toSchedule(sessions[program.ID]),
	})
}
