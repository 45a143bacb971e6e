package notification

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	mw "github.com/DhavalSuthar-24/courtside/internal/middleware"
)

func RegisterNotificationRoutes(router *gin.RouterGroup, db *gorm.DB, appConfig *config.Config) {
	notificationController := NewNotificationController(NewNotificationRepository(db), appConfig)

	notifications := router.Group("/notifications")
	notifications.Use(mw.AuthMiddleware(appConfig.JWT.AccessTokenSecret, db))
	{
		notifications.GET("", notificationController.ListNotifications)
		notifications.POST("", notificationController.SendNotification)
		notifications.GET("/unread-counts", notificationController.UnreadCounts)
		notifications.POST("/:id/read", notificationController.MarkAsRead)
	}
}
