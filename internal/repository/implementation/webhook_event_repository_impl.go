package implementation

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/mapper"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WebhookEventRepositoryImpl struct {
	db *gorm.DB
}

func NewWebhookEventRepository(db *gorm.DB) contract.WebhookEventRepository {
	return &WebhookEventRepositoryImpl{db: db}
}

func (r *WebhookEventRepositoryImpl) Record(ctx context.Context, event *entity.WebhookEvent) error {
	m := mapper.WebhookEventToModel(event)
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "event_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":       m.Status,
				"error":        m.Error,
				"processed_at": m.ProcessedAt,
				"attempts":     gorm.Expr("webhook_events.attempts + 1"),
			}),
		}).
		Create(m).Error
}
