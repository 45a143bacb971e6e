package technique

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/storage"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

type TechniqueController struct {
	repo      TechniqueRepository
	store     storage.Storage
	appConfig *config.Config
}

func NewTechniqueController(repo TechniqueRepository, store storage.Storage, appConfig *config.Config) *TechniqueController {
	return &TechniqueController{
		repo:      repo,
		store:     store,
		appConfig: appConfig,
	}
}

// videoFile returns the "file" part after checking its extension.
func videoFile(c *gin.Context) (*multipart.FileHeader, bool) {
	file, err := c.FormFile("file")
	if err != nil {
		responses.BadRequest(c, "Video file is required")
		return nil, false
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedVideoExt[ext] {
		responses.BadRequest(c, fmt.Sprintf("Unsupported video format %q", ext))
		return nil, false
	}
	return file, true
}

// GetProVideos godoc
// @Summary      Pro technique library
// @Tags         Technique
// @Produce      json
// @Param        shot_type  query  string  false  "Filter by shot type"
// @Success      200  {object}  responses.SuccessResponse{data=[]models.ProVideo}
// @Security     ApiKeyAuth
// @Router       /technique/pro-videos [get]
func (tc *TechniqueController) GetProVideos(c *gin.Context) {
	videos, err := tc.repo.ListProVideos(strings.TrimSpace(c.Query("shot_type")))
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if videos == nil {
		videos = []models.ProVideo{}
	}
	responses.SendSuccess(c, http.StatusOK, "", videos)
}

// UploadProVideo godoc
// @Summary      Add a pro video
// @Description  Multipart upload. An optional thumbnail image is scaled down before it is stored.
// @Tags         Technique
// @Accept       multipart/form-data
// @Produce      json
// @Param        file         formData  file    true   "Video file"
// @Param        thumbnail    formData  file    false  "Thumbnail image"
// @Param        player_name  formData  string  true   "Player shown in the clip"
// @Param        shot_type    formData  string  true   "Shot type"
// @Param        handedness   formData  string  false  "Right or Left"
// @Param        tags         formData  string  false  "Comma separated tags"
// @Success      201  {object}  responses.SuccessResponse{data=models.ProVideo}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /technique/pro-videos [post]
func (tc *TechniqueController) UploadProVideo(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var form ProVideoForm
	if !validator.Bind(c, &form) {
		return
	}
	file, ok := videoFile(c)
	if !ok {
		return
	}

	ctx := c.Request.Context()
	title := form.PlayerName + " " + form.ShotType
	videoURL, err := storage.SaveUpload(ctx, tc.store, file, categoryPro, title)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	var thumbURL string
	if thumb, err := c.FormFile("thumbnail"); err == nil {
		if thumbURL, err = storage.SaveThumbnail(ctx, tc.store, thumb, categoryThumbnails, title); err != nil {
			logging.Ctx(ctx).Warn().Err(err).Msg("thumbnail rejected")
			responses.BadRequest(c, "Thumbnail must be a JPEG, PNG or GIF image")
			return
		}
	}

	handedness := form.Handedness
	if handedness != "" {
		handedness = strings.ToUpper(handedness[:1]) + strings.ToLower(handedness[1:])
	}
	video := models.ProVideo{
		PlayerName:   form.PlayerName,
		ShotType:     form.ShotType,
		Handedness:   handedness,
		Tags:         form.Tags,
		VideoURL:     videoURL,
		ThumbnailURL: thumbURL,
		UploadedByID: p.UserID,
	}
	if err := tc.repo.CreateProVideo(&video); err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Pro video uploaded", video)
}

// UploadUserVideo godoc
// @Summary      Upload one of my clips
// @Tags         Technique
// @Accept       multipart/form-data
// @Produce      json
// @Param        file   formData  file    true  "Video file"
// @Param        title  formData  string  true  "Title"
// @Success      201  {object}  responses.SuccessResponse{data=models.UserVideo}
// @Failure      400  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /technique/upload-user-video [post]
func (tc *TechniqueController) UploadUserVideo(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var form UserVideoForm
	if !validator.Bind(c, &form) {
		return
	}
	file, ok := videoFile(c)
	if !ok {
		return
	}

	url, err := storage.SaveUpload(c.Request.Context(), tc.store, file, categoryUser, form.Title)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	video := models.UserVideo{UserID: p.UserID, Title: form.Title, VideoURL: url}
	if err := tc.repo.CreateUserVideo(&video); err != nil {
		responses.HandleError(c, err)
		return
	}
	responses.SendSuccess(c, http.StatusCreated, "Video uploaded", video)
}

// GetMyVideos godoc
// @Summary      My uploaded clips
// @Tags         Technique
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]models.UserVideo}
// @Security     ApiKeyAuth
// @Router       /technique/my-videos [get]
func (tc *TechniqueController) GetMyVideos(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	videos, err := tc.repo.ListUserVideos(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if videos == nil {
		videos = []models.UserVideo{}
	}
	responses.SendSuccess(c, http.StatusOK, "", videos)
}

// CreateComparison godoc
// @Summary      Save a side-by-side comparison
// @Tags         Technique
// @Accept       json
// @Produce      json
// @Param        body  body  CreateComparisonRequest  true  "Comparison"
// @Success      201  {object}  responses.SuccessResponse{data=models.Comparison}
// @Failure      400  {object}  responses.ErrorResponse
// @Failure      403  {object}  responses.ErrorResponse "Clip belongs to someone else"
// @Failure      404  {object}  responses.ErrorResponse
// @Security     ApiKeyAuth
// @Router       /technique/comparisons [post]
func (tc *TechniqueController) CreateComparison(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	var req CreateComparisonRequest
	if !validator.BindJSON(c, &req) {
		return
	}

	pro, err := tc.repo.GetProVideo(req.ProVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "Pro video")
			return
		}
		responses.HandleError(c, err)
		return
	}
	mine, err := tc.repo.GetUserVideo(req.UserVideoID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			responses.NotFound(c, "User video")
			return
		}
		responses.HandleError(c, err)
		return
	}
	if mine.UserID != p.UserID {
		responses.Forbidden(c, "You can only compare your own videos")
		return
	}

	rate := 1.0
	if req.PlaybackRate != nil {
		rate = *req.PlaybackRate
	}
	cmp := models.Comparison{
		UserID:        p.UserID,
		ProVideoID:    pro.ID,
		UserVideoID:   mine.ID,
		ProOffsetSec:  req.ProOffsetSec,
		UserOffsetSec: req.UserOffsetSec,
		PlaybackRate:  rate,
		Notes:         req.Notes,
	}
	if err := tc.repo.CreateComparison(&cmp); err != nil {
		responses.HandleError(c, err)
		return
	}
	cmp.ProVideo = pro
	cmp.UserVideo = mine
	responses.SendSuccess(c, http.StatusCreated, "Comparison saved", cmp)
}

// GetComparisons godoc
// @Summary      My saved comparisons
// @Tags         Technique
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse{data=[]models.Comparison}
// @Security     ApiKeyAuth
// @Router       /technique/comparisons [get]
func (tc *TechniqueController) GetComparisons(c *gin.Context) {
	p, _ := middleware.CurrentPrincipal(c)

	out, err := tc.repo.ListComparisons(p.UserID)
	if err != nil {
		responses.HandleError(c, err)
		return
	}
	if out == nil {
		out = []models.Comparison{}
	}
	responses.SendSuccess(c, http.StatusOK, "", out)
}
