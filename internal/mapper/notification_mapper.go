package mapper

import (
	"encoding/json"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/model"

	"gorm.io/datatypes"
)

type NotificationMapper struct{}

func NewNotificationMapper() *NotificationMapper {
	return &NotificationMapper{}
}

func (m *NotificationMapper) ToEntity(n *model.Notification) *entity.Notification {
	if n == nil {
		return nil
	}
	var meta map[string]interface{}
	if len(n.Metadata) > 0 {
		_ = json.Unmarshal(n.Metadata, &meta)
	}
	return &entity.Notification{
		Id:         n.Id,
		UserId:     n.UserId,
		TypeCode:   n.TypeCode,
		Title:      n.Title,
		Message:    n.Message,
		Metadata:   meta,
		EntityType: n.EntityType,
		EntityId:   n.EntityId,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

func (m *NotificationMapper) ToModel(n *entity.Notification) *model.Notification {
	if n == nil {
		return nil
	}
	var meta datatypes.JSON
	if n.Metadata != nil {
		if raw, err := json.Marshal(n.Metadata); err == nil {
			meta = datatypes.JSON(raw)
		}
	}
	return &model.Notification{
		Id:         n.Id,
		UserId:     n.UserId,
		TypeCode:   n.TypeCode,
		Title:      n.Title,
		Message:    n.Message,
		Metadata:   meta,
		EntityType: n.EntityType,
		EntityId:   n.EntityId,
		IsRead:     n.IsRead,
		ReadAt:     n.ReadAt,
		CreatedAt:  n.CreatedAt,
	}
}

func (m *NotificationMapper) TypeToEntity(t *model.NotificationType) *entity.NotificationType {
	if t == nil {
		return nil
	}
	return &entity.NotificationType{
		Id:          t.Id,
		Code:        t.Code,
		DisplayName: t.DisplayName,
		Template:    t.Template,
		TargetType:  entity.NotificationTarget(t.TargetType),
		IsActive:    t.IsActive,
	}
}

func (m *NotificationMapper) TypeToModel(t *entity.NotificationType) *model.NotificationType {
	if t == nil {
		return nil
	}
	return &model.NotificationType{
		Id:          t.Id,
		Code:        t.Code,
		DisplayName: t.DisplayName,
		Template:    t.Template,
		TargetType:  string(t.TargetType),
		IsActive:    t.IsActive,
	}
}
