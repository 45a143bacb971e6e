package technique

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/storage"
)

// RegisterTechniqueRoutes sets up the video library and comparison routes.
func RegisterTechniqueRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config, store storage.Storage) {
	techniqueController := NewTechniqueController(NewTechniqueRepository(db), store, appConfig)

	technique := router.Group("/technique")
	technique.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		technique.GET("/pro-videos", techniqueController.GetProVideos)
		technique.POST("/pro-videos", mw.RequireRole(models.RoleCoach), techniqueController.UploadProVideo)
		technique.POST("/upload-user-video", techniqueController.UploadUserVideo)
		technique.GET("/my-videos", techniqueController.GetMyVideos)
		technique.POST("/comparisons", techniqueController.CreateComparison)
		technique.GET("/comparisons", techniqueController.GetComparisons)
	}
}
