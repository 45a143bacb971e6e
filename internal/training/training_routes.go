package training

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// RegisterTrainingRoutes sets up drill, program and session routes.
func RegisterTrainingRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	trainingController := NewTrainingController(NewTrainingRepository(db), appConfig)
	authMiddleware := mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)
	coachOnly := mw.RequireRole(models.RoleCoach)

	training := router.Group("")
	training.Use(authMiddleware)
	{
		// Drills
		training.GET("/drills", trainingController.GetDrills)
		training.POST("/drills", coachOnly, trainingController.CreateDrill)
		training.POST("/seed-drills", trainingController.SeedDrills)

		// Programs
		training.GET("/programs", trainingController.GetPrograms)
		training.POST("/programs", trainingController.CreateProgram)
		training.PATCH("/programs/:id/status", trainingController.UpdateProgramStatus)
		training.DELETE("/programs/:id", trainingController.DeleteProgram)
		training.GET("/my-active-program", trainingController.GetMyActiveProgram)

		// Session logs
		training.POST("/sessions", trainingController.CreateSessionLog)
		training.GET("/my-session-logs", trainingController.GetMySessionLogs)
		training.PUT("/sessions/:id/feedback", coachOnly, trainingController.UpdateSessionFeedback)
		training.GET("/athletes/:id/logs", trainingController.GetAthleteLogs)
		training.GET("/coach/activity", coachOnly, trainingController.GetCoachActivity)
	}
}
