package team

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
)

// TeamController serves a coach's roster views.
type TeamController struct {
	repo      TeamRepository
	appConfig *config.Config
}

func NewTeamController(repo TeamRepository, appConfig *config.Config) *TeamController {
	return &TeamController{
		repo:      repo,
		appConfig: appConfig,
	}
}

// GetMyAthletes godoc
// @Summary      List my directly linked players
// @Description  Players whose coach link points at the caller, pending or active.
// @Tags         Coach
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]models.User}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /my-athletes [get]
func (tc *TeamController) GetMyAthletes(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	players, err := tc.repo.DirectPlayers(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if players == nil {
		players = []models.User{}
	}
	responses.SendSuccess(c, http.StatusOK, "", players)
}

// GetAllAthletes godoc
// @Summary      List every player on my team
// @Description  Direct players plus the members of all of the caller's squads, without duplicates.
// @Tags         Squads
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]models.User}
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /squads/athletes [get]
func (tc *TeamController) GetAllAthletes(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	players, err := tc.repo.Athletes(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", players)
}
