package match

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/team"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

// MatchController handles match diary HTTP requests
type MatchController struct {
	repo      MatchRepository
	teamRepo  team.TeamRepository
	appConfig *config.Config
}

// NewMatchController creates a new match controller
func NewMatchController(repo MatchRepository, teamRepo team.TeamRepository, appConfig *config.Config) *MatchController {
	return &MatchController{
		repo:      repo,
		teamRepo:  teamRepo,
		appConfig: appConfig,
	}
}

// --- Helper Functions for Auth ---

// canView reports whether the caller may read userID's diary: their own, or
// a coach reading a player on their team.
func (mc *MatchController) canView(p middleware.Principal, userID string) (bool, error) {
	if userID == p.UserID {
		return true, nil
	}
	if !p.IsCoach() {
		return false, nil
	}
	return mc.teamRepo.Contains(p.UserID, userID)
}

// CreateMatch godoc
// @Summary      Log a match
// @Description  Players log their own matches. A coach may set player_id to prepare a match for a player on their team.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        body  body  CreateMatchRequest  true  "Match"
// @Success      201  {object}  responses.SuccessResponse{data=models.MatchEntry}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse "Player not found"
// @Security     ApiKeyAuth
// @Router       /matches [post]
func (mc *MatchController) CreateMatch(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req CreateMatchRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	ownerID := p.UserID
	if req.PlayerID != "" && req.PlayerID != p.UserID {
		if !p.IsCoach() {
			responses.Forbidden(c, "Only coaches can log matches for other players")
			return
		}
		ownerID = req.PlayerID
	}

	var (
		notifyID string
		err      error
	)
	if ownerID != p.UserID {
		ok, err := mc.teamRepo.Contains(p.UserID, ownerID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		if !ok {
			responses.Forbidden(c, "This player is not on your team")
			return
		}
		notifyID = ownerID
	} else if notifyID, err = mc.teamRepo.CoachOf(p.UserID); err != nil {
		responses.HandleError(c, err)
		return
	}

	entry := models.MatchEntry{
		UserID:       ownerID,
		CreatedByID:  p.UserID,
		Date:         req.Date.UTC(),
		EventName:    req.EventName,
		OpponentName: req.OpponentName,
		Round:        req.Round,
		Format:       req.Format,
		Surface:      req.Surface,
		Tactics:      req.Tactics,
	}
	err = mc.repo.WithTransaction(func(repo MatchRepository) error {
		if ownerID != p.UserID {
			if _, err := repo.GetUser(ownerID); err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return responses.ErrNotFound("Player")
				}
				return err
			}
		}
		if err := repo.CreateMatch(&entry); err != nil {
			return err
		}

		draft := notification.Draft{
			UserID:        notifyID,
			RelatedUserID: p.UserID,
			Type:          models.NotifMatchLog,
			ReferenceID:   entry.ID,
		}
		if ownerID != p.UserID {
			draft.Title = "New match prep: vs " + entry.OpponentName
			draft.Message = fmt.Sprintf("Coach %s added a match plan for %s", p.Name, entry.EventName)
		} else {
			draft.Title = "New match log: " + p.Name
			draft.Message = fmt.Sprintf("%s is playing %s", p.Name, entry.OpponentName)
		}
		return repo.Notify(draft)
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().
		Str("match_id", entry.ID).
		Str("owner_id", ownerID).
		Msg("match logged")

	responses.SendSuccess(c, http.StatusCreated, "Match logged", entry)
}

// GetMatches godoc
// @Summary      List matches
// @Description  The caller's own matches by default. Coaches may pass player_id for one team player or team=all for the whole team.
// @Tags         Matches
// @Produce      json
// @Param        player_id  query  string  false  "Team player ID (coach only)"
// @Param        team       query  string  false  "all: every team player (coach only)"
// @Param        opponent   query  string  false  "Opponent name contains (case-insensitive)"
// @Param        page       query  int     false  "Page number" default(1)
// @Param        page_size  query  int     false  "Items per page" default(50)
// @Success      200  {object}  responses.PaginatedResponse{data=[]models.MatchEntry}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /matches [get]
func (mc *MatchController) GetMatches(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	// Parse pagination parameters
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	filter := MatchFilter{UserIDs: []string{p.UserID}, Opponent: c.Query("opponent")}
	switch {
	case c.Query("team") == teamScopeAll:
		if !p.IsCoach() {
			responses.Forbidden(c, "Only coaches can list team matches")
			return
		}
		ids, err := mc.teamRepo.PlayerIDs(p.UserID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		filter.UserIDs = ids
	case c.Query("player_id") != "":
		playerID := c.Query("player_id")
		ok, err := mc.canView(p, playerID)
		if err != nil {
			responses.HandleError(c, err)
			return
		}
		if !ok {
			responses.Forbidden(c, "This player is not on your team")
			return
		}
		filter.UserIDs = []string{playerID}
	}

	matches, total, err := mc.repo.GetMatches(filter, page, pageSize)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Matches retrieved successfully", matches, total, page, pageSize)
}

// GetMatchByID godoc
// @Summary      Get a match
// @Tags         Matches
// @Produce      json
// @Param        id  path  string  true  "Match ID"
// @Success      200  {object}  responses.SuccessResponse{data=models.MatchEntry}
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /matches/{id} [get]
func (mc *MatchController) GetMatchByID(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	match, err := mc.repo.GetMatchByID(c.Param("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "Match")
			return
		}
		responses.HandleError(c, err)
		return
	}
	ok, err := mc.canView(p, match.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if !ok {
		responses.Forbidden(c, "Not authorized to view this match")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", match)
}

// UpdateMatch godoc
// @Summary      Update a match
// @Description  The owner or any coach may edit. A coach editing tactics notifies the owner; the owner adding
// @Description  the first score or result notifies their coach.
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "Match ID"
// @Param        body  body  UpdateMatchRequest  true  "Fields to change"
// @Success      200  {object}  responses.SuccessResponse{data=models.MatchEntry}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /matches/{id} [patch]
func (mc *MatchController) UpdateMatch(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	matchID := c.Param("id")

	var req UpdateMatchRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	fields := req.fields()
	if len(fields) == 0 {
		responses.BadRequest(c, "No fields to update")
		return
	}

	// The owner's coach is resolved up front; it is only used when the owner
	// reports a result.
	var coachID string
	if req.reportsOutcome() && p.IsPlayer() {
		var err error
		if coachID, err = mc.teamRepo.CoachOf(p.UserID); err != nil {
			responses.HandleError(c, err)
			return
		}
	}

	var updated *models.MatchEntry
	err := mc.repo.WithTransaction(func(repo MatchRepository) error {
		match, err := repo.GetMatchByID(matchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return responses.ErrNotFound("Match")
			}
			return err
		}
		isOwner := match.UserID == p.UserID
		if !isOwner && !p.IsCoach() {
			return responses.ErrForbidden("Not authorized to edit this match")
		}
		wasScheduled := match.IsScheduled()

		if err := repo.UpdateMatch(match.ID, fields); err != nil {
			return err
		}
		if updated, err = repo.GetMatchByID(match.ID); err != nil {
			return err
		}

		var drafts []notification.Draft
		if p.IsCoach() && !isOwner && req.Tactics != nil {
			drafts = append(drafts, notification.Draft{
				UserID:        match.UserID,
				RelatedUserID: p.UserID,
				Type:          models.NotifMatchTactics,
				Title:         "Tactics updated: vs " + match.OpponentName,
				Message:       fmt.Sprintf("Coach %s updated your game plan", p.Name),
				ReferenceID:   match.ID,
			})
		}
		if isOwner && wasScheduled && req.reportsOutcome() {
			drafts = append(drafts, notification.Draft{
				UserID:        coachID,
				RelatedUserID: p.UserID,
				Type:          models.NotifMatchResult,
				Title:         "Match result: " + p.Name,
				Message:       fmt.Sprintf("%s vs %s: %s %s", p.Name, updated.OpponentName, updated.Result, updated.Score),
				ReferenceID:   match.ID,
			})
		}
		return repo.Notify(drafts...)
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Match updated", updated)
}

// UpdateMatchFeedback godoc
// @Summary      Leave coach feedback on a match
// @Tags         Matches
// @Accept       json
// @Produce      json
// @Param        id    path  string                true  "Match ID"
// @Param        body  body  MatchFeedbackRequest  true  "Feedback"
// @Success      200  {object}  responses.SuccessResponse{data=models.MatchEntry}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /matches/{id}/feedback [put]
func (mc *MatchController) UpdateMatchFeedback(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	matchID := c.Param("id")

	var req MatchFeedbackRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	var updated *models.MatchEntry
	err := mc.repo.WithTransaction(func(repo MatchRepository) error {
		match, err := repo.GetMatchByID(matchID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return responses.ErrNotFound("Match")
			}
			return err
		}
		if err := repo.UpdateMatch(match.ID, map[string]interface{}{"coach_feedback": req.Feedback}); err != nil {
			return err
		}
		if updated, err = repo.GetMatchByID(match.ID); err != nil {
			return err
		}
		return repo.Notify(notification.Draft{
			UserID:        match.UserID,
			RelatedUserID: p.UserID,
			Type:          models.NotifMatchFeedback,
			Title:         "Coach feedback: vs " + match.OpponentName,
			Message:       req.Feedback,
			ReferenceID:   match.ID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Feedback saved", updated)
}
