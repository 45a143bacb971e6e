package training

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/metrics"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

// CreateSessionLog godoc
// @Summary      Log a completed training session
// @Description  Records the session and its drill results and grants duration x 10 XP.
// @Tags         Training
// @Accept       json
// @Produce      json
// @Param        body  body  CreateSessionLogRequest  true  "Session"
// @Success      201  {object}  responses.SuccessResponse{data=CreateSessionLogResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse "Program not found"
// @Security     ApiKeyAuth
// @Router       /sessions [post]
func (tc *TrainingController) CreateSessionLog(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req CreateSessionLogRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	programID := ""
	if req.ProgramID != nil {
		programID = strings.TrimSpace(*req.ProgramID)
	}

	xp := req.DurationMinutes * XPPerMinute
	log := models.SessionLog{
		PlayerID:        p.UserID,
		ProgramID:       models.StringPtr(programID),
		SessionDayOrder: req.SessionDayOrder,
		DateCompleted:   nowUTC(),
		DurationMinutes: req.DurationMinutes,
		RPE:             req.RPE,
		Notes:           req.Notes,
	}
	for _, dp := range req.DrillPerformances {
		log.DrillPerformances = append(log.DrillPerformances, models.DrillPerformance{
			DrillID:       dp.DrillID,
			Outcome:       dp.Outcome,
			AchievedValue: dp.AchievedValue,
		})
	}

	err := tc.repo.WithTransaction(func(repo TrainingRepository) error {
		if programID != "" {
			if _, err := repo.GetProgram(programID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return responses.ErrNotFound("Program")
				}
				return err
			}
		}
		if err := repo.CreateSessionLog(&log); err != nil {
			return err
		}
		if err := repo.AwardXP(p.UserID, xp); err != nil {
			return err
		}

		coachID, err := repo.Team().CoachOf(p.UserID)
		if err != nil {
			return err
		}
		return repo.Notify(notification.Draft{
			UserID:        coachID,
			RelatedUserID: p.UserID,
			Type:          models.NotifSessionLogged,
			Title:         "Session logged",
			Message:       fmt.Sprintf("%s logged a %d minute session (RPE %d)", p.Name, req.DurationMinutes, req.RPE),
			ReferenceID:   log.ID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	if xp > 0 {
		metrics.XPAwarded.Add(float64(xp))
	}
	logging.Ctx(c.Request.Context()).Info().
		Str("log_id", log.ID).
		Int("xp", xp).
		Msg("session logged")

	responses.SendSuccess(c, http.StatusCreated, "Session logged", CreateSessionLogResponse{
		Status:    "success",
		LogID:     log.ID,
		XPAwarded: xp,
	})
}

// enrich resolves each performance's drill name: the live catalogue first,
// then the name frozen in the log's program, then customDrillName.
func (tc *TrainingController) enrich(logs []models.SessionLog) ([]SessionLogResponse, error) {
	var drillIDs, programIDs []string
	for _, l := range logs {
		if l.ProgramID != nil {
			programIDs = append(programIDs, *l.ProgramID)
		}
		for _, dp := range l.DrillPerformances {
			if dp.DrillID != "" {
				drillIDs = append(drillIDs, dp.DrillID)
			}
		}
	}
	live, err := tc.repo.DrillNames(drillIDs)
	if err != nil {
		return nil, err
	}
	frozen, err := tc.repo.FrozenDrillNames(programIDs, drillIDs)
	if err != nil {
		return nil, err
	}

	out := make([]SessionLogResponse, len(logs))
	for i, l := range logs {
		perfs := make([]PerformanceResponse, len(l.DrillPerformances))
		for j, dp := range l.DrillPerformances {
			name := live[dp.DrillID]
			if name == "" && l.ProgramID != nil {
				name = frozen[frozenKey(*l.ProgramID, dp.DrillID)]
			}
			if name == "" {
				name = customDrillName
			}
			perfs[j] = PerformanceResponse{
				ID:            dp.ID,
				DrillID:       dp.DrillID,
				DrillName:     name,
				Outcome:       dp.Outcome,
				AchievedValue: dp.AchievedValue,
			}
		}
		out[i] = SessionLogResponse{
			ID:                l.ID,
			PlayerID:          l.PlayerID,
			ProgramID:         l.ProgramID,
			SessionDayOrder:   l.SessionDayOrder,
			DateCompleted:     l.DateCompleted,
			DurationMinutes:   l.DurationMinutes,
			RPE:               l.RPE,
			Notes:             l.Notes,
			CoachFeedback:     l.CoachFeedback,
			CoachLiked:        l.CoachLiked,
			DrillPerformances: perfs,
		}
	}
	return out, nil
}

func (tc *TrainingController) sendLogs(c *gin.Context, playerID string) {
	logs, err := tc.repo.LogsForPlayers([]string{playerID}, 0)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	out, err := tc.enrich(logs)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// GetMySessionLogs godoc
// @Summary      My session logs
// @Tags         Training
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]SessionLogResponse}
// @Security     ApiKeyAuth
// @Router       /my-session-logs [get]
func (tc *TrainingController) GetMySessionLogs(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	tc.sendLogs(c, p.UserID)
}

// GetAthleteLogs godoc
// @Summary      An athlete's session logs
// @Description  Readable by the athlete and by coaches who have the athlete on their team.
// @Tags         Training
// @Produce      json
// @Param        id  path  string  true  "Athlete ID"
// @Success      200  {object}  responses.SuccessResponse{data=[]SessionLogResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /athletes/{id}/logs [get]
func (tc *TrainingController) GetAthleteLogs(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	athleteID := c.Param("id")

	if athleteID != p.UserID {
		ok := false
		if p.IsCoach() {
			var err error
			if ok, err = tc.repo.Team().Contains(p.UserID, athleteID); err != nil {
				responses.HandleError(c, err)
				return
			}
		}
		if !ok {
			responses.Forbidden(c, "This athlete is not on your team")
			return
		}
	}
	tc.sendLogs(c, athleteID)
}

// UpdateSessionFeedback godoc
// @Summary      Comment on or like a session
// @Tags         Training
// @Accept       json
// @Produce      json
// @Param        id    path  string           true  "Session log ID"
// @Param        body  body  FeedbackRequest  true  "Feedback"
// @Success      200  {object}  responses.SuccessResponse{data=SessionLogResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /sessions/{id}/feedback [put]
func (tc *TrainingController) UpdateSessionFeedback(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	logID := c.Param("id")

	var req FeedbackRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	fields := map[string]interface{}{}
	if req.Feedback != nil {
		fields["coach_feedback"] = *req.Feedback
	}
	if req.Liked != nil {
		fields["coach_liked"] = *req.Liked
	}
	if len(fields) == 0 {
		responses.BadRequest(c, "feedback or liked is required")
		return
	}

	var updated *models.SessionLog
	err := tc.repo.WithTransaction(func(repo TrainingRepository) error {
		log, err := repo.GetSessionLog(logID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return responses.ErrNotFound("Session log")
			}
			return err
		}
		ok, err := repo.Team().Contains(p.UserID, log.PlayerID)
		if err != nil {
			return err
		}
		if !ok {
			return responses.ErrForbidden("This athlete is not on your team")
		}
		if err := repo.UpdateSessionFeedback(log.ID, fields); err != nil {
			return err
		}
		if updated, err = repo.GetSessionLog(log.ID); err != nil {
			return err
		}

		msg := fmt.Sprintf("%s reviewed your session", p.Name)
		if req.Feedback == nil && req.Liked != nil && *req.Liked {
			msg = fmt.Sprintf("%s liked your session", p.Name)
		}
		return repo.Notify(notification.Draft{
			UserID:        log.PlayerID,
			RelatedUserID: p.UserID,
			Type:          models.NotifSessionFeedback,
			Title:         "Coach feedback",
			Message:       msg,
			ReferenceID:   log.ID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	out, err := tc.enrich([]models.SessionLog{*updated})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Feedback saved", out[0])
}

// GetCoachActivity godoc
// @Summary      Team activity feed
// @Description  Recent session logs and matches from every player on the coach's team, newest first.
// @Tags         Training
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]ActivityItem}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /coach/activity [get]
func (tc *TrainingController) GetCoachActivity(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	ids, err := tc.repo.Team().PlayerIDs(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	logs, err := tc.repo.LogsForPlayers(ids, activityLimit)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	matches, err := tc.repo.RecentMatches(ids, activityLimit)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	names, err := tc.repo.UserNames(ids)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	feed := make([]ActivityItem, 0, len(logs)+len(matches))
	for _, l := range logs {
		feed = append(feed, ActivityItem{
			Kind:            ActivitySession,
			ID:              l.ID,
			PlayerID:        l.PlayerID,
			PlayerName:      names[l.PlayerID],
			OccurredAt:      l.DateCompleted,
			Summary:         fmt.Sprintf("%d min session, RPE %d", l.DurationMinutes, l.RPE),
			DurationMinutes: l.DurationMinutes,
			RPE:             l.RPE,
			CoachFeedback:   l.CoachFeedback,
		})
	}
	for _, m := range matches {
		summary := "Match vs " + m.OpponentName
		if m.Result != "" {
			summary += " (" + m.Result + ")"
		}
		feed = append(feed, ActivityItem{
			Kind:          ActivityMatch,
			ID:            m.ID,
			PlayerID:      m.UserID,
			PlayerName:    names[m.UserID],
			OccurredAt:    m.Date,
			Summary:       summary,
			CoachFeedback: m.CoachFeedback,
			OpponentName:  m.OpponentName,
			Score:         m.Score,
			Result:        m.Result,
		})
	}
	sort.SliceStable(feed, func(i, j int) bool {
		return feed[i].OccurredAt.After(feed[j].OccurredAt)
	})
	if len(feed) > activityLimit {
		feed = feed[:activityLimit]
	}
	responses.SendSuccess(c, http.StatusOK, "", feed)
}
