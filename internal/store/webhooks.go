package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// WebhookEvent records a processed PayPal webhook delivery.
type WebhookEvent struct {
	ID        string `gorm:"primaryKey"`
	EventType string `gorm:"not null"`
	CreatedAt time.Time
}

func (WebhookEvent) TableName() string { return "paypal_webhook_events" }

type WebhookEvents struct {
	DB *gorm.DB
}

func NewWebhookEvents(db *gorm.DB) *WebhookEvents { return &WebhookEvents{DB: db} }

// MarkProcessed records id and reports false when it was already recorded.
func (s *WebhookEvents) MarkProcessed(ctx context.Context, id, eventType string) (bool, error) {
	err := s.DB.WithContext(ctx).Create(&WebhookEvent{ID: id, EventType: eventType}).Error
	if errors.Is(translate(err), ErrConflict) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("record webhook event %s: %w", id, err)
	}
	return true, nil
}

// Forget removes id so a failed delivery can be retried by PayPal.
func (s *WebhookEvents) Forget(ctx context.Context, id string) error {
	return s.DB.WithContext(ctx).Delete(&WebhookEvent{ID: id}).Error
}
