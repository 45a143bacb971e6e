package user

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/pkg/responses"
)

const defaultLeaderboardSize = 20

type LeaderboardEntry struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Level  string `json:"level"`
	XP     int    `json:"xp"`
}

type UserController struct {
	repo   UserRepository
	config *config.Config
}

func NewUserController(repo UserRepository, cfg *config.Config) *UserController {
	return &UserController{repo: repo, config: cfg}
}

// GetLeaderboard godoc
// @Summary Global XP leaderboard
// @Description Players ranked by total XP earned from logged sessions.
// @Tags Users
// @Produce json
// @Param limit query int false "Number of entries" default(20)
// @Success 200 {object} responses.SuccessResponse{data=[]LeaderboardEntry}
// @Security ApiKeyAuth
// @Router /leaderboard [get]
func (uc *UserController) GetLeaderboard(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultLeaderboardSize)))
	if err != nil || limit < 1 || limit > 100 {
		limit = defaultLeaderboardSize
	}

	users, err := uc.repo.TopPlayersByXP(limit)
	if err != nil {
		responses.HandleError(c, err)
		return
	}

	entries := make([]LeaderboardEntry, len(users))
	for i, u := range users {
		entries[i] = LeaderboardEntry{Rank: i + 1, UserID: u.ID, Name: u.Name, Level: u.Level, XP: u.XP}
	}
	responses.SendSuccess(c, http.StatusOK, "", entries)
}
