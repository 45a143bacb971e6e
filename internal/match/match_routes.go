package match

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/team"
)

// MatchRoutes sets up all match diary routes.
func MatchRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, teamRepo team.TeamRepository) {
	matchRepo := NewGormMatchRepository(db)
	matchController := NewMatchController(matchRepo, teamRepo, appConfig)

	// Authenticated routes
	authRoutes := router.Group("/matches")
	authRoutes.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		authRoutes.POST("", matchController.CreateMatch)
		authRoutes.GET("", matchController.GetMatches)
		authRoutes.GET("/:id", matchController.GetMatchByID)
		authRoutes.PATCH("/:id", matchController.UpdateMatch)

		// Coach review
		authRoutes.PUT("/:id/feedback", mw.RequireRole(models.RoleCoach), matchController.UpdateMatchFeedback)
	}
}
