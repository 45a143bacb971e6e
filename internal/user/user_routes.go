package user

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
)

func RegisterUserRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	userController := NewUserController(NewUserRepository(db), appConfig)

	router.GET("/leaderboard", mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db), userController.GetLeaderboard)
}
