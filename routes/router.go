package routes

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/auth"
	"github.com/DhavalSuthar-24/courtside/internal/coach"
	"github.com/DhavalSuthar-24/courtside/internal/match"
	"github.com/DhavalSuthar-24/courtside/internal/middleware"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/squad"
	"github.com/DhavalSuthar-24/courtside/internal/team"
	"github.com/DhavalSuthar-24/courtside/internal/technique"
	"github.com/DhavalSuthar-24/courtside/internal/training"
	"github.com/DhavalSuthar-24/courtside/internal/user"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
	"github.com/DhavalSuthar-24/courtside/pkg/storage"
	"github.com/DhavalSuthar-24/courtside/pkg/validator"
)

const APIPrefix = "/api/v1"

// SetupRoutes builds the gin engine with every API group mounted under /api/v1.
func SetupRoutes(cfg *config.Config, db *gorm.DB, store storage.Storage) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	validator.Setup()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.AccessLog())
	r.Use(middleware.Metrics())
	r.Use(cors.New(corsConfig(cfg.App.CORSOrigins)))

	// Uploaded files are only served from disk by the local backend; S3 URLs
	// point at the bucket's CDN.
	if local, ok := store.(*storage.Local); ok {
		r.Static("/static", local.Root())
	}

	r.GET("/health", health(db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group(APIPrefix)
	auth.RegisterAuthRoutes(api, db, cfg)
	coach.RegisterCoachRoutes(api, db, cfg)
	team.RegisterTeamRoutes(api, db, cfg)
	user.RegisterUserRoutes(api, db, cfg)
	squad.RegisterSquadRoutes(api, db, cfg)
	training.RegisterTrainingRoutes(api, db, cfg)
	match.MatchRoutes(api, db, cfg, team.NewTeamRepository(db))
	notification.RegisterNotificationRoutes(api, db, cfg)
	technique.RegisterTechniqueRoutes(api, db, cfg, store)

	return r
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = append(c.AllowHeaders, "Authorization", middleware.RequestIDHeader)
	c.ExposeHeaders = []string{middleware.RequestIDHeader}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = origins
	}
	return c
}

// health godoc
// @Summary      Liveness and database check
// @Tags         System
// @Produce      json
// @Success      200  {object}  responses.SuccessResponse
// @Failure      503  {object}  responses.ErrorResponse
// @Router       /health [get]
func health(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			err = sqlDB.PingContext(ctx)
		}
		if err != nil {
			responses.SendError(c, http.StatusServiceUnavailable, "database unavailable")
			return
		}
		responses.SendSuccess(c, http.StatusOK, "ok", gin.H{"status": "ok"})
	}
}
