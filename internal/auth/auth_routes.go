package auth

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
)

func RegisterAuthRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	authRepo := NewAuthRepository(db)
	authController := NewAuthController(authRepo, appConfig)
	loginLimiter := middleware.NewRateLimiter(appConfig.RateLimit.LoginPerSecond, appConfig.RateLimit.LoginBurst)

	// Public routes
	authPublic := router.Group("/auth")
	{
		authPublic.POST("/register", authController.Register)
		authPublic.POST("/token", loginLimiter.Middleware(), authController.Login)
	}

	// Authenticated routes
	authMiddleware := middleware.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db)
	authProtected := router.Group("/auth")
	authProtected.Use(authMiddleware)
	{
		authProtected.GET("/me", authController.GetProfile)
	}

	router.PUT("/my-profile", authMiddleware, authController.UpdateProfile)
}
