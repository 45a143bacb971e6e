package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/DhavalSuthar-24/courtside/config"
	"github.com/DhavalSuthar-24/courtside/internal/logging"
	"github.com/DhavalSuthar-24/courtside/internal/metrics"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

// Dispatcher moves outbox events into the notifications table. Delivery is
// at least once: a crash between insert and marking the event only causes a
// retry, and the retry is absorbed because the notification reuses the event id.
type Dispatcher struct {
	db  *gorm.DB
	cfg config.OutboxConfig
}

func NewDispatcher(db *gorm.DB, cfg config.OutboxConfig) *Dispatcher {
	return &Dispatcher{db: db, cfg: cfg}
}

// DispatchPending delivers up to one batch and returns how many succeeded.
func (d *Dispatcher) DispatchPending(ctx context.Context) (int, error) {
	var events []models.OutboxEvent
	err := d.db.WithContext(ctx).
		Where("dispatched_at IS NULL AND attempts < ?", d.cfg.MaxAttempts).
		Order("created_at ASC").
		Limit(d.cfg.BatchSize).
		Find(&events).Error
	if err != nil {
		return 0, fmt.Errorf("load outbox: %w", err)
	}

	delivered := 0
	for i := range events {
		ev := &events[i]
		if err := d.deliver(ctx, ev); err != nil {
			metrics.OutboxFailures.Inc()
			logging.Warn().Err(err).Str("event_id", ev.ID).Int("attempt", ev.Attempts+1).Msg("outbox delivery failed")
			if markErr := d.markFailed(ctx, ev.ID, err); markErr != nil {
				return delivered, markErr
			}
			continue
		}
		delivered++
		metrics.OutboxDispatched.Inc()
	}

	if err := d.recordPending(ctx); err != nil {
		return delivered, err
	}
	return delivered, nil
}

// recordPending publishes every undelivered event, including those that ran
// out of attempts, on the OutboxPending gauge.
func (d *Dispatcher) recordPending(ctx context.Context) error {
	var pending int64
	err := d.db.WithContext(ctx).
		Model(&models.OutboxEvent{}).
		Where("dispatched_at IS NULL").
		Count(&pending).Error
	if err != nil {
		return fmt.Errorf("count pending outbox: %w", err)
	}
	metrics.OutboxPending.Set(float64(pending))
	return nil
}

func (d *Dispatcher) deliver(ctx context.Context, ev *models.OutboxEvent) error {
	if ev.Topic != TopicNotification {
		return fmt.Errorf("unknown outbox topic %q", ev.Topic)
	}
	draft, err := decodeDraft(ev)
	if err != nil {
		return err
	}

	n := models.Notification{
		BaseModel:     models.BaseModel{ID: ev.ID, CreatedAt: ev.CreatedAt},
		UserID:        draft.UserID,
		RelatedUserID: models.StringPtr(draft.RelatedUserID),
		Title:         draft.Title,
		Message:       draft.Message,
		Type:          draft.Type,
		ReferenceID:   models.StringPtr(draft.ReferenceID),
	}

	return d.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&n).Error; err != nil {
			return fmt.Errorf("insert notification: %w", err)
		}
		return tx.Model(&models.OutboxEvent{}).
			Where("id = ?", ev.ID).
			Updates(map[string]interface{}{
				"dispatched_at": time.Now().UTC(),
				"attempts":      gorm.Expr("attempts + 1"),
				"last_error":    "",
			}).Error
	})
}

func (d *Dispatcher) markFailed(ctx context.Context, id string, cause error) error {
	err := d.db.WithContext(ctx).Model(&models.OutboxEvent{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"attempts":   gorm.Expr("attempts + 1"),
			"last_error": cause.Error(),
		}).Error
	if err != nil {
		return fmt.Errorf("record outbox failure: %w", err)
	}
	return nil
}

// Serve runs DispatchPending on the configured interval until ctx ends.
// It satisfies suture.Service.
func (d *Dispatcher) Serve(ctx context.Context) error {
	log := logging.With().Str("component", d.String()).Logger()

	sched, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("create outbox scheduler: %w", err)
	}

	_, err = sched.NewJob(
		gocron.DurationJob(d.cfg.Interval),
		gocron.NewTask(func() {
			if _, err := d.DispatchPending(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logging.Err(err).Msg("outbox dispatch run failed")
			}
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule outbox dispatch: %w", err)
	}

	sched.Start()
	log.Info().Dur("interval", d.cfg.Interval).Msg("outbox dispatcher started")

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("outbox scheduler shutdown")
	}
	return ctx.Err()
}

func (d *Dispatcher) String() string { return "outbox-dispatcher" }
