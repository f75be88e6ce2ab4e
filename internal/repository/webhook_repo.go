package repository

import (
	"context"

	"github.com/s-411/cpn-backend/internal/models"
)

// WebhookRepository persists inbound affiliate events so a dispatch
// failure can be replayed or audited later.
type WebhookRepository struct {
	db DBTX
}

func NewWebhookRepository(db DBTX) *WebhookRepository {
	return &WebhookRepository{db: db}
}

func (r *WebhookRepository) Record(ctx context.Context, eventType string, payload []byte) (*models.WebhookEvent, error) {
	query := `
		INSERT INTO webhook_events (event_type, payload)
		VALUES ($1, $2)
		RETURNING id, event_type, payload, received_at
	`
	var event models.WebhookEvent
	err := r.db.QueryRow(ctx, query, eventType, payload).Scan(
		&event.ID,
		&event.EventType,
		&event.Payload,
		&event.ReceivedAt,
	)
	if err != nil {
		return nil, err
	}
	return &event, nil
}
