package notification_test

import (
	"context"
	"testing"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/metrics"
	"github.com/DhavalSuthar-24/courtside/internal/models"
	"github.com/DhavalSuthar-24/courtside/internal/notification"
	"github.com/DhavalSuthar-24/courtside/internal/testutil"
)

func TestEnqueueSkipsDraftsWithoutRecipient(t *testing.T) {
	db := testutil.NewDB(t)
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")

	var ids []string
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = notification.Enqueue(tx,
			notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "hi"},
			notification.Draft{Type: models.NotifMessage, Title: "nobody"},
		)
		return err
	})
	require.NoError(t, err)
	assert.Len(t, ids, 1)

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestEnqueueRollsBackWithTransaction(t *testing.T) {
	db := testutil.NewDB(t)
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")

	_ = db.Transaction(func(tx *gorm.DB) error {
		_, err := notification.Enqueue(tx, notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "hi"})
		require.NoError(t, err)
		return gorm.ErrInvalidTransaction
	})

	var count int64
	require.NoError(t, db.Model(&models.OutboxEvent{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDispatchPendingDeliversOnce(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	coach := testutil.CreateUser(t, db, models.RoleCoach, "Carla Coach")
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")

	var ids []string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = notification.Enqueue(tx, notification.Draft{
			UserID:        player.ID,
			RelatedUserID: coach.ID,
			Type:          models.NotifProgramAssigned,
			Title:         "New program",
			Message:       "Carla assigned you a program",
			ReferenceID:   "prog-1",
		})
		return err
	}))

	d := notification.NewDispatcher(db, cfg.Outbox)
	n, err := d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var got models.Notification
	require.NoError(t, db.First(&got, "id = ?", ids[0]).Error)
	assert.Equal(t, player.ID, got.UserID)
	assert.Equal(t, coach.ID, models.Deref(got.RelatedUserID))
	assert.Equal(t, "prog-1", models.Deref(got.ReferenceID))
	assert.False(t, got.IsRead)

	var ev models.OutboxEvent
	require.NoError(t, db.First(&ev, "id = ?", ids[0]).Error)
	assert.NotNil(t, ev.DispatchedAt)

	n, err = d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDispatchPendingRedeliveryIsIdempotent(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")

	var ids []string
	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		var err error
		ids, err = notification.Enqueue(tx, notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "hi"})
		return err
	}))

	d := notification.NewDispatcher(db, cfg.Outbox)
	_, err := d.DispatchPending(context.Background())
	require.NoError(t, err)

	// Simulate a crash after the insert but before the event was marked.
	require.NoError(t, db.Model(&models.OutboxEvent{}).Where("id = ?", ids[0]).
		Update("dispatched_at", nil).Error)

	n, err := d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestDispatchPendingRecordsFailures(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.Outbox.MaxAttempts = 2

	bad := models.OutboxEvent{Topic: "unknown", Payload: []byte(`{}`)}
	require.NoError(t, db.Create(&bad).Error)

	d := notification.NewDispatcher(db, cfg.Outbox)
	for i := 0; i < 3; i++ {
		n, err := d.DispatchPending(context.Background())
		require.NoError(t, err)
		assert.Zero(t, n)
	}

	var ev models.OutboxEvent
	require.NoError(t, db.First(&ev, "id = ?", bad.ID).Error)
	assert.Equal(t, 2, ev.Attempts)
	assert.Contains(t, ev.LastError, "unknown outbox topic")
	assert.Nil(t, ev.DispatchedAt)
	assert.Equal(t, float64(1), promtest.ToFloat64(metrics.OutboxPending))
}

func TestDispatchPendingGaugeCountsWholeBacklog(t *testing.T) {
	db := testutil.NewDB(t)
	cfg := testutil.Config()
	cfg.Outbox.BatchSize = 2
	player := testutil.CreateUser(t, db, models.RolePlayer, "Ana Player")

	require.NoError(t, db.Transaction(func(tx *gorm.DB) error {
		_, err := notification.Enqueue(tx,
			notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "one"},
			notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "two"},
			notification.Draft{UserID: player.ID, Type: models.NotifMessage, Title: "three"},
		)
		return err
	}))

	d := notification.NewDispatcher(db, cfg.Outbox)
	n, err := d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, float64(1), promtest.ToFloat64(metrics.OutboxPending))

	n, err = d.DispatchPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Equal(t, float64(0), promtest.ToFloat64(metrics.OutboxPending))
}
