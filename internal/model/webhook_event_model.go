package model

import (
	"time"

	"gorm.io/datatypes"
)

type WebhookEvent struct {
	EventId     string         `gorm:"type:varchar(255);primaryKey"`
	Type        string         `gorm:"type:varchar(100);not null;index"`
	Payload     datatypes.JSON `gorm:"type:jsonb"`
	Status      string         `gorm:"type:varchar(20);not null"`
	Error       string         `gorm:"type:text"`
	Attempts    int            `gorm:"default:1"`
	ProcessedAt time.Time      `gorm:"not null"`
	CreatedAt   time.Time      `gorm:"autoCreateTime"`
}

func (WebhookEvent) TableName() string {
	return "webhook_events"
}
