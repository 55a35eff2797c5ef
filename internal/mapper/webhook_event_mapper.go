package mapper

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"

	"gorm.io/datatypes"
)

func WebhookEventToModel(e *entity.WebhookEvent) *model.WebhookEvent {
	if e == nil {
		return nil
	}
	return &model.WebhookEvent{
		EventId:     e.EventId,
		Type:        e.Type,
		Payload:     datatypes.JSON(e.Payload),
		Status:      string(e.Status),
		Error:       e.Error,
		Attempts:    e.Attempts,
		ProcessedAt: e.ProcessedAt,
	}
}
