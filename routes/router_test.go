package routes_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/auth"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/squad"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
	"github.com/DhavalSuthar-24/courtside/internal/training"
	"github.com/DhavalSuthar-24/courtside/pkg/storage"
	"github.com/DhavalSuthar-24/courtside/routes"
)

func newServer(t *testing.T) (*gin.Engine, *gorm.DB, *config.Config) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	store, err := storage.NewLocal(t.TempDir(), "http://localhost:8088")
	require.NoError(t, err)
	gin.SetMode(gin.TestMode)
	return routes.SetupRoutes(cfg, db, store), db, cfg
}

func register(t *testing.T, r http.Handler, email, role string) auth.RegisterResponse {
	t.Helper()
	w := testutil.Do(r, http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"email": email, "password": testutil.Password, "role": role, "name": email,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var out auth.RegisterResponse
	testutil.Data(t, w, &out)
	return out
}

func login(t *testing.T, r http.Handler, email string) string {
	t.Helper()
	w := testutil.Do(r, http.MethodPost, "/api/v1/auth/token", "", gin.H{"username": email, "password": testutil.Password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var out auth.TokenResponse
	testutil.Data(t, w, &out)
	return "Bearer " + out.AccessToken
}

func inbox(t *testing.T, db *gorm.DB, cfg *config.Config, userID string) []string {
	t.Helper()
	_, err := notification.NewDispatcher(db, cfg.Outbox).DispatchPending(context.Background())
	require.NoError(t, err)
	var types []string
	require.NoError(t, db.Model(&models.Notification{}).Where("user_id = ?", userID).Pluck("type", &types).Error)
	return types
}

func TestHealthAndMetrics(t *testing.T) {
	r, _, _ := newServer(t)

	w := testutil.Do(r, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = testutil.Do(r, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "courtside_api_requests_total")
}

func TestProtectedRoutesNeedToken(t *testing.T) {
	r, _, _ := newServer(t)
	for _, path := range []string{"/api/v1/auth/me", "/api/v1/squads", "/api/v1/programs", "/api/v1/matches", "/api/v1/notifications", "/api/v1/technique/my-videos"} {
		w := testutil.Do(r, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestCoachPlayerSquadProgramFlow(t *testing.T) {
	r, db, cfg := newServer(t)

	coach := register(t, r, "carla@example.com", "COACH")
	require.Len(t, coach.CoachCode, 6)
	player := register(t, r, "pat@example.com", "PLAYER")
	coachAuth := login(t, r, "carla@example.com")
	playerAuth := login(t, r, "pat@example.com")

	w := testutil.Do(r, http.MethodPost, "/api/v1/squads", coachAuth, gin.H{"name": "Varsity", "level": "Advanced"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created squad.CreateSquadResponse
	testutil.Data(t, w, &created)

	w = testutil.Do(r, http.MethodPost, "/api/v1/request-coach", playerAuth, gin.H{"code": coach.CoachCode})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, models.LinkPending, testutil.Reload(t, db, player.ID).CoachLinkStatus)

	w = testutil.Do(r, http.MethodPost, "/api/v1/coach/requests/"+player.ID+"/respond", coachAuth, gin.H{"action": "ACCEPT"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	p := testutil.Reload(t, db, player.ID)
	assert.Equal(t, models.LinkActive, p.CoachLinkStatus)
	require.NotNil(t, p.CoachID)
	assert.Equal(t, coach.ID, *p.CoachID)

	w = testutil.Do(r, http.MethodPost, "/api/v1/squads/"+created.SquadID+"/members", coachAuth, gin.H{"player_id": player.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, inbox(t, db, cfg, player.ID), models.NotifSquadInvite)

	w = testutil.Do(r, http.MethodPost, "/api/v1/seed-drills", coachAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = testutil.Do(r, http.MethodPost, "/api/v1/programs", coachAuth, gin.H{
		"title":        "Clay block",
		"program_type": models.ProgramPlayerPlan,
		"assigned_to":  []string{created.SquadID},
		"sessions": []gin.H{
			{"day": 1, "drills": []gin.H{{"drill_id": "drill_1", "duration": 15}}},
			{"day": 2, "drills": []gin.H{{"drill_id": "drill_3", "duration": 10}}},
		},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var program training.CreateProgramResponse
	testutil.Data(t, w, &program)

	var assignment models.ProgramAssignment
	require.NoError(t, db.Where("program_id = ? AND player_id = ?", program.ProgramID, player.ID).First(&assignment).Error)
	assert.Equal(t, models.StatusPending, assignment.Status)
	assert.Contains(t, inbox(t, db, cfg, player.ID), models.NotifProgramAssigned)

	w = testutil.Do(r, http.MethodPost, "/api/v1/sessions", playerAuth, gin.H{
		"program_id":         program.ProgramID,
		"session_day_order":  1,
		"duration_minutes":   20,
		"rpe":                6,
		"drill_performances": []gin.H{{"drill_id": "drill_1", "outcome": "8/10"}},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	p = testutil.Reload(t, db, player.ID)
	assert.Equal(t, 200, p.XP)
	var perfs int64
	require.NoError(t, db.Model(&models.DrillPerformance{}).Count(&perfs).Error)
	assert.EqualValues(t, 1, perfs)

	w = testutil.Do(r, http.MethodGet, "/api/v1/squads/"+created.SquadID+"/progress", coachAuth, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var progress squad.ProgressResponse
	testutil.Data(t, w, &progress)
	assert.Equal(t, program.ProgramID, progress.ProgramID)
	assert.EqualValues(t, 2, progress.TotalSessions)
	require.Len(t, progress.Members, 1)
	assert.EqualValues(t, 1, progress.Members[0].Logged)
	assert.InDelta(t, 50.0, progress.Members[0].Completion, 0.001)
	assert.InDelta(t, 50.0, progress.SquadCompletion, 0.001)
}
