package coach

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// RegisterCoachRoutes sets up coach code and coach link routes.
func RegisterCoachRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	coachController := NewCoachController(NewCoachRepository(db), appConfig)
	authMiddleware := mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)

	// Player side; role checks live in the handlers so coaches get a 400.
	playerRoutes := router.Group("")
	playerRoutes.Use(authMiddleware)
	{
		playerRoutes.POST("/request-coach", coachController.RequestCoach)
		playerRoutes.POST("/disconnect-coach", coachController.DisconnectCoach)
	}

	coachRoutes := router.Group("/coach")
	coachRoutes.Use(authMiddleware, mw.RequireRole(models.RoleCoach))
	{
		coachRoutes.GET("/code", coachController.GetCoachCode)
		coachRoutes.POST("/code/regenerate", coachController.RegenerateCoachCode)
		coachRoutes.GET("/requests", coachController.GetRequests)
		coachRoutes.POST("/requests/:player_id/respond", coachController.RespondToRequest)
	}
}
