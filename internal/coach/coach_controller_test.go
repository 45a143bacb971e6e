package coach_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/coach"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
)

type env struct {
	db  *gorm.DB
	cfg *config.Config
	r   *gin.Engine
}

func setup(t *testing.T) env {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	r, api := testutil.NewRouter()
	coach.RegisterCoachRoutes(api, db, cfg)
	return env{db: db, cfg: cfg, r: r}
}

func (e env) coachWithCode(t *testing.T, name, code string) *models.User {
	t.Helper()
	u := testutil.CreateUser(t, e.db, models.RoleCoach, name)
	require.NoError(t, e.db.Model(u).Update("coach_code", code).Error)
	u.CoachCode = &code
	return u
}

func (e env) do(t *testing.T, u *models.User, method, path string, body interface{}) int {
	t.Helper()
	return testutil.Do(e.r, method, path, testutil.Bearer(t, e.cfg, u), body).Code
}

func (e env) notifications(t *testing.T, userID string) []models.Notification {
	t.Helper()
	_, err := notification.NewDispatcher(e.db, e.cfg.Outbox).DispatchPending(context.Background())
	require.NoError(t, err)
	var out []models.Notification
	require.NoError(t, e.db.Where("user_id = ?", userID).Order("created_at").Find(&out).Error)
	return out
}

func TestRequestAcceptDisconnect(t *testing.T) {
	e := setup(t)
	c := e.coachWithCode(t, "Carla Coach", "123456")
	p := testutil.CreateUser(t, e.db, models.RolePlayer, "Ana Player")

	assert.Equal(t, http.StatusOK, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "123456"}))
	u := testutil.Reload(t, e.db, p.ID)
	assert.Equal(t, models.LinkPending, u.CoachLinkStatus)
	assert.Equal(t, c.ID, models.Deref(u.CoachID))

	// From PENDING a second request is refused.
	assert.Equal(t, http.StatusConflict, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "123456"}))

	w := testutil.Do(e.r, http.MethodGet, "/api/v1/coach/requests", testutil.Bearer(t, e.cfg, c), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pending []coach.PendingRequest
	testutil.Data(t, w, &pending)
	require.Len(t, pending, 1)
	assert.Equal(t, p.ID, pending[0].PlayerID)

	assert.Equal(t, http.StatusOK, e.do(t, c, http.MethodPost, "/api/v1/coach/requests/"+p.ID+"/respond", gin.H{"action": "accept"}))
	u = testutil.Reload(t, e.db, p.ID)
	assert.Equal(t, models.LinkActive, u.CoachLinkStatus)
	assert.Equal(t, c.ID, models.Deref(u.CoachID))

	// Nothing left to answer.
	assert.Equal(t, http.StatusNotFound, e.do(t, c, http.MethodPost, "/api/v1/coach/requests/"+p.ID+"/respond", gin.H{"action": "REJECT"}))
	// From ACTIVE a request is refused too.
	assert.Equal(t, http.StatusConflict, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "123456"}))

	sq := &models.Squad{CoachID: c.ID, Name: "Varsity"}
	require.NoError(t, e.db.Create(sq).Error)
	require.NoError(t, e.db.Create(&models.SquadMember{SquadID: sq.ID, PlayerID: p.ID}).Error)

	assert.Equal(t, http.StatusOK, e.do(t, p, http.MethodPost, "/api/v1/disconnect-coach", nil))
	u = testutil.Reload(t, e.db, p.ID)
	assert.Equal(t, models.LinkNone, u.CoachLinkStatus)
	assert.Nil(t, u.CoachID)

	var members int64
	require.NoError(t, e.db.Model(&models.SquadMember{}).Where("player_id = ?", p.ID).Count(&members).Error)
	assert.Zero(t, members)

	// From NONE there is nothing to disconnect.
	assert.Equal(t, http.StatusConflict, e.do(t, p, http.MethodPost, "/api/v1/disconnect-coach", nil))

	coachInbox := e.notifications(t, c.ID)
	require.Len(t, coachInbox, 2)
	assert.Equal(t, models.NotifCoachRequest, coachInbox[0].Type)
	assert.Equal(t, models.NotifCoachDisconnected, coachInbox[1].Type)

	playerInbox := e.notifications(t, p.ID)
	require.Len(t, playerInbox, 1)
	assert.Equal(t, models.NotifCoachRequestAccepted, playerInbox[0].Type)
}

func TestRejectClearsCoach(t *testing.T) {
	e := setup(t)
	c := e.coachWithCode(t, "Carla Coach", "222222")
	p := testutil.CreateUser(t, e.db, models.RolePlayer, "Ana Player")

	require.Equal(t, http.StatusOK, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "222222"}))
	assert.Equal(t, http.StatusBadRequest, e.do(t, c, http.MethodPost, "/api/v1/coach/requests/"+p.ID+"/respond", gin.H{"action": "MAYBE"}))
	require.Equal(t, http.StatusOK, e.do(t, c, http.MethodPost, "/api/v1/coach/requests/"+p.ID+"/respond", gin.H{"action": "REJECT"}))

	u := testutil.Reload(t, e.db, p.ID)
	assert.Equal(t, models.LinkNone, u.CoachLinkStatus)
	assert.Nil(t, u.CoachID)

	inbox := e.notifications(t, p.ID)
	require.Len(t, inbox, 1)
	assert.Equal(t, models.NotifCoachRequestRejected, inbox[0].Type)

	// A rejected player may ask again.
	assert.Equal(t, http.StatusOK, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "222222"}))
}

func TestPendingRequestCanBeCancelled(t *testing.T) {
	e := setup(t)
	e.coachWithCode(t, "Carla Coach", "333333")
	p := testutil.CreateUser(t, e.db, models.RolePlayer, "Ana Player")

	require.Equal(t, http.StatusOK, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "333333"}))
	require.Equal(t, http.StatusOK, e.do(t, p, http.MethodPost, "/api/v1/disconnect-coach", nil))
	assert.Equal(t, models.LinkNone, testutil.Reload(t, e.db, p.ID).CoachLinkStatus)
}

func TestCoachCannotLink(t *testing.T) {
	e := setup(t)
	c := e.coachWithCode(t, "Carla Coach", "444444")
	other := testutil.CreateUser(t, e.db, models.RoleCoach, "Otto Coach")
	p := testutil.CreateUser(t, e.db, models.RolePlayer, "Ana Player")

	// Self-link and coach-to-coach links always fail.
	assert.Equal(t, http.StatusBadRequest, e.do(t, c, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "444444"}))
	assert.Equal(t, http.StatusBadRequest, e.do(t, other, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "444444"}))
	assert.Equal(t, http.StatusBadRequest, e.do(t, c, http.MethodPost, "/api/v1/disconnect-coach", nil))

	assert.Equal(t, http.StatusNotFound, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "999999"}))
	assert.Equal(t, http.StatusBadRequest, e.do(t, p, http.MethodPost, "/api/v1/request-coach", gin.H{"code": "12ab"}))
	assert.Equal(t, http.StatusForbidden, e.do(t, p, http.MethodGet, "/api/v1/coach/requests", nil))
	assert.Equal(t, models.LinkNone, testutil.Reload(t, e.db, c.ID).CoachLinkStatus)
}

func TestCoachCodeReadAndRegenerate(t *testing.T) {
	e := setup(t)
	c := testutil.CreateUser(t, e.db, models.RoleCoach, "Carla Coach")
	auth := testutil.Bearer(t, e.cfg, c)

	w := testutil.Do(e.r, http.MethodGet, "/api/v1/coach/code", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var first coach.CoachCodeResponse
	testutil.Data(t, w, &first)
	assert.Regexp(t, `^[0-9]{6}$`, first.CoachCode)

	w = testutil.Do(e.r, http.MethodGet, "/api/v1/coach/code", auth, nil)
	var again coach.CoachCodeResponse
	testutil.Data(t, w, &again)
	assert.Equal(t, first.CoachCode, again.CoachCode)

	w = testutil.Do(e.r, http.MethodPost, "/api/v1/coach/code/regenerate", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fresh coach.CoachCodeResponse
	testutil.Data(t, w, &fresh)
	assert.Regexp(t, `^[0-9]{6}$`, fresh.CoachCode)
	assert.Equal(t, fresh.CoachCode, models.Deref(testutil.Reload(t, e.db, c.ID).CoachCode))
}
