package team

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// RegisterTeamRoutes sets up the coach roster routes.
func RegisterTeamRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	teamController := NewTeamController(NewTeamRepository(db), appConfig)

	coachRoutes := router.Group("")
	coachRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), mw.RequireRole(models.RoleCoach))
	{
		coachRoutes.GET("/my-athletes", teamController.GetMyAthletes)
		coachRoutes.GET("/squads/athletes", teamController.GetAllAthletes)
	}
}
