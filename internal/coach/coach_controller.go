package coach

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/utils"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

const maxCodeAttempts = 10

type CoachController struct {
	repo      CoachRepository
	appConfig *config.Config
}

func NewCoachController(repo CoachRepository, appConfig *config.Config) *CoachController {
	return &CoachController{
		repo:      repo,
		appConfig: appConfig,
	}
}

// issueCode stores a fresh code for the coach, drawing again when the unique
// index reports a collision.
func (cc *CoachController) issueCode(coachID string) (string, error) {
	for i := 0; i < maxCodeAttempts; i++ {
		code, err := utils.GenerateCoachCode()
		if err != nil {
			return "", err
		}
		err = cc.repo.SetCoachCode(coachID, code)
		if err == nil {
			return code, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return "", fmt.Errorf("store coach code: %w", err)
		}
	}
	return "", errors.New("could not find a free coach code")
}

// GetCoachCode godoc
// @Summary      Get my coach code
// @Description  The 6-digit code players use to request this coach. Issued on first read if missing.
// @Tags         Coach
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=CoachCodeResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /coach/code [get]
func (cc *CoachController) GetCoachCode(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	u, err := cc.repo.GetUser(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	code := models.Deref(u.CoachCode)
	if code == "" {
		if code, err = cc.issueCode(u.ID); err != nil {
			responses.HandleError(c, err)
			return
		}
	}
	responses.SendSuccess(c, http.StatusOK, "", CoachCodeResponse{CoachCode: code})
}

// RegenerateCoachCode godoc
// @Summary      Regenerate my coach code
// @Description  The old code stops working immediately. Existing links are unaffected.
// @Tags         Coach
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=CoachCodeResponse}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /coach/code/regenerate [post]
func (cc *CoachController) RegenerateCoachCode(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	code, err := cc.issueCode(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Coach code regenerated", CoachCodeResponse{CoachCode: code})
}

// RequestCoach godoc
// @Summary      Request a coach by code
// @Description  Only players without a current or pending coach may request one.
// @Tags         Coach
// @Accept       json
// @Produce      json
// @Param        body  body  RequestCoachRequest  true  "Coach code"
// @Success      200  {object}  responses.SuccessResponse{data=LinkResponse}
// @Failure      400  {object}  responses.ErrorResponse "Caller is a coach"
// @Failure      404  {object}  responses.ErrorResponse "Unknown code"
// @Failure      409  {object}  responses.ErrorResponse "Already linked or pending"
// @Security     ApiKeyAuth
// @Router       /request-coach [post]
func (cc *CoachController) RequestCoach(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if !p.IsPlayer() {
		responses.BadRequest(c, "Coaches cannot request a coach")
		return
	}

	var req RequestCoachRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	var coach *models.User
	err := cc.repo.WithTransaction(func(repo CoachRepository) error {
		var err error
		coach, err = repo.FindCoachByCode(req.Code)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return responses.ErrNotFound("Coach code")
			}
			return err
		}

		ok, err := repo.RequestLink(p.UserID, coach.ID)
		if err != nil {
			return err
		}
		if !ok {
			return responses.ErrConflict("You already have a coach or a pending request")
		}

		return repo.Notify(notification.Draft{
			UserID:        coach.ID,
			RelatedUserID: p.UserID,
			Type:          models.NotifCoachRequest,
			Title:         "New athlete request",
			Message:       fmt.Sprintf("%s wants you to be their coach", p.Name),
			ReferenceID:   p.UserID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	responses.SendSuccess(c, http.StatusOK, "Request sent", LinkResponse{
		Status:    string(models.LinkPending),
		CoachID:   coach.ID,
		CoachName: coach.Name,
	})
}

// GetRequests godoc
// @Summary      List pending athlete requests
// @Tags         Coach
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]PendingRequest}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /coach/requests [get]
func (cc *CoachController) GetRequests(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	players, err := cc.repo.PendingRequests(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	out := make([]PendingRequest, len(players))
	for i, u := range players {
		out[i] = PendingRequest{PlayerID: u.ID, Name: u.Name, Email: u.Email, Level: u.Level, Age: u.Age}
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}

// RespondToRequest godoc
// @Summary      Accept or reject an athlete request
// @Tags         Coach
// @Accept       json
// @Produce      json
// @Param        player_id  path  string          true  "Player ID"
// @Param        body       body  RespondRequest  true  "ACCEPT or REJECT"
// @Success      200  {object}  responses.SuccessResponse{data=LinkResponse}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      404  {object}  responses.ErrorResponse "No pending request from this player"
// @Security     ApiKeyAuth
// @Router       /coach/requests/{player_id}/respond [post]
func (cc *CoachController) RespondToRequest(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	playerID := c.Param("player_id")

	var req RespondRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	var (
		to    models.LinkStatus
		draft notification.Draft
	)
	switch strings.ToUpper(strings.TrimSpace(req.Action)) {
	case ActionAccept:
		to = models.LinkActive
		draft = notification.Draft{
			Type:    models.NotifCoachRequestAccepted,
			Title:   "Coach request accepted",
			Message: fmt.Sprintf("%s is now your coach", p.Name),
		}
	case ActionReject:
		to = models.LinkNone
		draft = notification.Draft{
			Type:    models.NotifCoachRequestRejected,
			Title:   "Coach request declined",
			Message: fmt.Sprintf("%s declined your request", p.Name),
		}
	default:
		responses.BadRequest(c, "action must be ACCEPT or REJECT")
		return
	}
	draft.UserID = playerID
	draft.RelatedUserID = p.UserID
	draft.ReferenceID = p.UserID

	err := cc.repo.WithTransaction(func(repo CoachRepository) error {
		ok, err := repo.SetLinkStatus(p.UserID, playerID, to)
		if err != nil {
			return err
		}
		if !ok {
			return responses.ErrNotFound("Pending request")
		}
		return repo.Notify(draft)
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	logging.Ctx(c.Request.Context()).Info().
		Str("player_id", playerID).
		Str("link_status", string(to)).
		Msg("coach request answered")

	status := "accepted"
	if to == models.LinkNone {
		status = "rejected"
	}
	responses.SendSuccess(c, http.StatusOK, "", LinkResponse{Status: status, CoachID: p.UserID})
}

// DisconnectCoach godoc
// @Summary      Leave my coach
// @Description  Cancels a pending request or ends an active link, and leaves every squad of that coach.
// @Tags         Coach
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=LinkResponse}
// @Failure      400  {object}  responses.ErrorResponse "Caller is a coach"
// @Failure      409  {object}  responses.ErrorResponse "No coach to disconnect from"
// @Security     ApiKeyAuth
// @Router       /disconnect-coach [post]
func (cc *CoachController) DisconnectCoach(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)
	if !p.IsPlayer() {
		responses.BadRequest(c, "Coaches have no coach to disconnect from")
		return
	}

	err := cc.repo.WithTransaction(func(repo CoachRepository) error {
		player, err := repo.GetUser(p.UserID)
		if err != nil {
			return err
		}
		if player.CoachID == nil || player.CoachLinkStatus == models.LinkNone {
			return responses.ErrConflict("You are not connected to a coach")
		}
		coachID := *player.CoachID

		ok, err := repo.ClearLink(p.UserID, coachID, models.LinkPending, models.LinkActive)
		if err != nil {
			return err
		}
		if !ok {
			return responses.ErrConflict("You are not connected to a coach")
		}
		if _, err := repo.RemoveFromCoachSquads(p.UserID, coachID); err != nil {
			return err
		}

		return repo.Notify(notification.Draft{
			UserID:        coachID,
			RelatedUserID: p.UserID,
			Type:          models.NotifCoachDisconnected,
			Title:         "Athlete disconnected",
			Message:       fmt.Sprintf("%s is no longer connected to you", p.Name),
			ReferenceID:   p.UserID,
		})
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Disconnected from coach", LinkResponse{Status: "disconnected"})
}
