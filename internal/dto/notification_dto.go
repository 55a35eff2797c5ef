package dto

import (
	"time"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	Id         uuid.UUID              `json:"id"`
	TypeCode   string                 `json:"typeCode"`
	Title      string                 `json:"title"`
	Message    string                 `json:"message"`
	Metadata   map[string]interface{} `json:"metadata,omitempty"`
	EntityType string                 `json:"entityType,omitempty"`
	EntityId   *uuid.UUID             `json:"entityId,omitempty"`
	IsRead     bool                   `json:"isRead"`
	ReadAt     *time.Time             `json:"readAt,omitempty"`
	CreatedAt  time.Time              `json:"createdAt"`
}

type NotificationListResponse struct {
	Items []NotificationDTO `json:"items"`
	Total int64             `json:"total"`
}

type UnreadCountResponse struct {
	Count int64 `json:"count"`
}
