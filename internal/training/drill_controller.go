package training

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

type TrainingController struct {
	repo      TrainingRepository
	appConfig *config.Config
}

func NewTrainingController(repo TrainingRepository, appConfig *config.Config) *TrainingController {
	return &TrainingController{
		repo:      repo,
		appConfig: appConfig,
	}
}

// GetDrills godoc
// @Summary      List drills
// @Tags         Training
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]models.Drill}
// @Security     ApiKeyAuth
// @Router       /drills [get]
func (tc *TrainingController) GetDrills(c *gin.Context) {
	drills, err := tc.repo.ListDrills()
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if drills == nil {
		drills = []models.Drill{}
	}
	responses.SendSuccess(c, http.StatusOK, "", drills)
}

// CreateDrill godoc
// @Summary      Add a drill to the library
// @Tags         Training
// @Accept       json
// @Produce      json
// @Param        body  body  CreateDrillRequest  true  "Drill"
// @Success      201  {object}  responses.SuccessResponse{data=models.Drill}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /drills [post]
func (tc *TrainingController) CreateDrill(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req CreateDrillRequest
	if !validator.BindJSON(c, &req) {
		return
	}
	minutes := req.DefaultDurationMin
	if minutes == 0 {
		minutes = 10
	}

	drill := models.Drill{
		Name:               req.Name,
		Category:           req.Category,
		Difficulty:         req.Difficulty,
		Description:        req.Description,
		DefaultDurationMin: minutes,
		VideoURL:           req.VideoURL,
		IsPremium:          req.IsPremium,
		TargetValue:        req.TargetValue,
		TargetPrompt:       req.TargetPrompt,
		CreatorID:          &p.UserID,
	}
	if err := tc.repo.CreateDrill(&drill); err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Drill created", drill)
}

// SeedDrills godoc
// @Summary      Load the starter drill catalogue
// @Description  Safe to call repeatedly; existing drills are left alone.
// @Tags         Training
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=SeedResponse}
// @Security     ApiKeyAuth
// @Router       /seed-drills [post]
func (tc *TrainingController) SeedDrills(c *gin.Context) {
	n, err := tc.repo.SeedDrills(catalogue())
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	logging.Ctx(c.Request.Context()).Info().Int64("seeded", n).Msg("drill catalogue seeded")

	msg := "Drills seeded"
	if n == 0 {
		msg = "Drills already seeded"
	}
	responses.SendSuccess(c, http.StatusOK, "", SeedResponse{Message: msg, Seeded: n})
}
