package notification_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
)

func setup(t *testing.T) (*gorm.DB, *config.Config, *gin.Engine) {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	r, api := testutil.NewRouter()
	notification.RegisterNotificationRoutes(api, db, cfg)
	return db, cfg, r
}

func dispatch(t *testing.T, db *gorm.DB, cfg *config.Config) {
	t.Helper()
	_, err := notification.NewDispatcher(db, cfg.Outbox).DispatchPending(context.Background())
	require.NoError(t, err)
}

func TestNotificationsRequireAuth(t *testing.T) {
	_, _, r := setup(t)
	w := testutil.Do(r, http.MethodGet, "/api/v1/notifications", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSendListAndUnreadCounts(t *testing.T) {
	db, cfg, r := setup(t)
	coach := testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach")
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")
	other := testutil.CreateUser(t, db, models.RolePlayer, "Ben Player")

	for _, sender := range []*models.User{coach, coach, other} {
		w := testutil.Do(r, http.MethodPost, "/api/v1/notifications", testutil.Bearer(t, cfg, sender), gin.H{
			"user_id": player.ID,
			"title":   "Practice moved",
		})
		require.Equal(t, http.StatusAccepted, w.Code, w.Body.String())
	}
	// A system notification with no related user.
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := notification.Enqueue(tx, notification.Draft{UserID: player.ID, Type: models.NotifProgramCompleted, Title: "Done"})
		return err
	}))
	dispatch(t, db, cfg)

	auth := testutil.Bearer(t, cfg, player)
	w := testutil.Do(r, http.MethodGet, "/api/v1/notifications", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []models.Notification
	testutil.Data(t, w, &items)
	require.Len(t, items, 4)
	assert.Equal(t, models.NotifProgramCompleted, items[0].Type)
	assert.Equal(t, models.NotifMessage, items[3].Type)

	var counts notification.UnreadCountsResponse
	w = testutil.Do(r, http.MethodGet, "/api/v1/notifications/unread-counts", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	testutil.Data(t, w, &counts)
	assert.EqualValues(t, 4, counts.Total)
	assert.EqualValues(t, 2, counts.ByUser[coach.ID])
	assert.EqualValues(t, 1, counts.ByUser[other.ID])
	assert.Len(t, counts.ByUser, 2)

	w = testutil.Do(r, http.MethodPost, "/api/v1/notifications/"+items[0].ID+"/read", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)
	// Marking twice still succeeds.
	w = testutil.Do(r, http.MethodPost, "/api/v1/notifications/"+items[0].ID+"/read", auth, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = testutil.Do(r, http.MethodGet, "/api/v1/notifications/unread-counts", auth, nil)
	testutil.Data(t, w, &counts)
	assert.EqualValues(t, 3, counts.Total)
}

func TestMarkAsReadIsRecipientScoped(t *testing.T) {
	db, cfg, r := setup(t)
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")
	other := testutil.CreateUser(t, db, models.RolePlayer, "Ben Player")

	var ids []string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = notification.Enqueue(tx, notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "hi"})
		return err
	}))
	dispatch(t, db, cfg)

	w := testutil.Do(r, http.MethodPost, "/api/v1/notifications/"+ids[0]+"/read", testutil.Bearer(t, cfg, other), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.Do(r, http.MethodPost, "/api/v1/notifications/missing/read", testutil.Bearer(t, cfg, player), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var n models.Notification
	require.NoError(t, db.First(&n, "id = ?", ids[0]).Error)
	assert.False(t, n.IsRead)
}

func TestSendToUnknownUser(t *testing.T) {
	db, cfg, r := setup(t)
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")

	w := testutil.Do(r, http.MethodPost, "/api/v1/notifications", testutil.Bearer(t, cfg, player), gin.H{
		"user_id": "nope",
		"title":   "hello",
	})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = testutil.Do(r, http.MethodPost, "/api/v1/notifications", testutil.Bearer(t, cfg, player), gin.H{"user_id": player.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
