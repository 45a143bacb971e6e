package squad

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// RegisterSquadRoutes sets up all squad-related routes
func RegisterSquadRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	squadController := NewSquadController(NewSquadRepository(db), appConfig)
	authMiddleware := mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)
	coachOnly := mw.RequireRole(models.RoleCoach)

	squads := router.Group("/squads")
	squads.Use(authMiddleware)
	{
		// Coach management; ownership is checked in the handlers
		squads.GET("", coachOnly, squadController.GetMySquads)
		squads.POST("", coachOnly, squadController.CreateSquad)
		squads.DELETE("/:id", coachOnly, squadController.DeleteSquad)
		squads.POST("/:id/members", coachOnly, squadController.AddMember)
		squads.DELETE("/:id/members/:player_id", coachOnly, squadController.RemoveMember)
		squads.POST("/:id/attendance", coachOnly, squadController.MarkAttendance)

		// Visible to the coach and to members
		squads.GET("/:id/members", squadController.GetSquadMembers)
		squads.GET("/:id/leaderboard", squadController.GetLeaderboard)
		squads.GET("/:id/progress", squadController.GetProgress)
	}
}
