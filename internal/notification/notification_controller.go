package notification

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

type NotificationController struct {
	repo   NotificationRepository
	config *config.Config
}

func NewNotificationController(repo NotificationRepository, cfg *config.Config) *NotificationController {
	return &NotificationController{repo: repo, config: cfg}
}

// ListNotifications godoc
// @Summary List my notifications
// @Description Newest first, paginated.
// @Tags Notifications
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(50)
// @Success 200 {object} responses.PaginatedResponse{data=[]models.Notification}
// @Failure 401 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications [get]
func (nc *NotificationController) ListNotifications(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 200 {
		limit = 50
	}

	items, total, err := nc.repo.ListForUser(p.UserID, page, limit)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendPaginated(c, http.StatusOK, "Notifications retrieved successfully", items, total, page, limit)
}

// SendNotification godoc
// @Summary Send a notification to another user
// @Tags Notifications
// @Accept json
// @Produce json
// @Param body body SendNotificationRequest true "Notification"
// @Success 202 {object} responses.SuccessResponse
// @Failure 400 {object} responses.ErrorResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications [post]
func (nc *NotificationController) SendNotification(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req SendNotificationRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	exists, err := nc.repo.UserExists(req.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if !exists {
		responses.NotFound(c, "User")
		return
	}

	kind := strings.ToUpper(strings.TrimSpace(req.Type))
	if kind == "" {
		kind = models.NotifMessage
	}

	var ids []string
	err = nc.repo.WithTransaction(func(tx *gorm.DB) error {
		ids, err = Enqueue(tx, Draft{
			UserID:        req.UserID,
			RelatedUserID: p.UserID,
			Type:          kind,
			Title:         req.Title,
			Message:       req.Message,
			ReferenceID:   req.ReferenceID,
		})
		return err
	})
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusAccepted, "Notification queued", gin.H{"id": ids[0]})
}

// MarkAsRead godoc
// @Summary Mark a notification as read
// @Tags Notifications
// @Produce json
// @Param id path string true "Notification ID"
// @Success 200 {object} responses.SuccessResponse
// @Failure 404 {object} responses.ErrorResponse
// @Security ApiKeyAuth
// @Router /notifications/{id}/read [post]
func (nc *NotificationController) MarkAsRead(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	found, err := nc.repo.MarkRead(c.Param("id"), p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if !found {
		responses.NotFound(c, "Notification")
		return
	}
	responses.SendSuccess(c, http.StatusOK, "Notification marked as read", gin.H{"status": "success"})
}

// UnreadCounts godoc
// @Summary Unread notification counts
// @Description Total unread plus a breakdown by the user who triggered them.
// @Tags Notifications
// @Produce json
// @Success 200 {object} responses.SuccessResponse{data=UnreadCountsResponse}
// @Security ApiKeyAuth
// @Router /notifications/unread-counts [get]
func (nc *NotificationController) UnreadCounts(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	total, byUser, err := nc.repo.UnreadCounts(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusOK, "", UnreadCountsResponse{Total: total, ByUser: byUser})
}
