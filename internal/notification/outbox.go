package notification

import (
	"fmt"

	"github.com/goccy/go-json"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/DhavalSuthar-24/courtside/internal/metrics"
	"github.com/DhavalSuthar-24/courtside/internal/models"
)

const TopicNotification = "notification"

// Draft is a notification waiting in the outbox.
type Draft struct {
	UserID        string `json:"user_id"`
	RelatedUserID string `json:"related_user_id,omitempty"`
	Type          string `json:"type"`
	Title         string `json:"title"`
	Message       string `json:"message"`
	ReferenceID   string `json:"reference_id,omitempty"`
}

// Enqueue writes drafts to the outbox using tx, so they commit or roll back
// with the change that produced them. Drafts without a recipient are skipped.
// It returns the ids of the written events; each becomes the notification id.
func Enqueue(tx *gorm.DB, drafts ...Draft) ([]string, error) {
	events := make([]models.OutboxEvent, 0, len(drafts))
	for _, d := range drafts {
		if d.UserID == "" {
			continue
		}
		payload, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("encode %s notification: %w", d.Type, err)
		}
		events = append(events, models.OutboxEvent{
			Topic:   TopicNotification,
			Payload: datatypes.JSON(payload),
		})
	}
	if len(events) == 0 {
		return nil, nil
	}
	if err := tx.Create(&events).Error; err != nil {
		return nil, fmt.Errorf("enqueue notifications: %w", err)
	}

	ids := make([]string, len(events))
	for i := range events {
		ids[i] = events[i].ID
	}
	for _, d := range drafts {
		if d.UserID != "" {
			metrics.OutboxEnqueued.WithLabelValues(d.Type).Inc()
		}
	}
	return ids, nil
}

func decodeDraft(ev *models.OutboxEvent) (Draft, error) {
	var d Draft
	if err := json.Unmarshal(ev.Payload, &d); err != nil {
		return Draft{}, fmt.Errorf("decode outbox event %s: %w", ev.ID, err)
	}
	if d.UserID == "" {
		return Draft{}, fmt.Errorf("outbox event %s has no recipient", ev.ID)
	}
	return d, nil
}
