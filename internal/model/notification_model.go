package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type NotificationType struct {
	Id          uint      `gorm:"primaryKey;autoIncrement"`
	Code        string    `gorm:"type:varchar(50);unique;not null"`
	DisplayName string    `gorm:"type:varchar(100);not null"`
	Template    string    `gorm:"type:text;not null"`
	TargetType  string    `gorm:"type:varchar(30);not null"`
	IsActive    bool      `gorm:"default:true"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime"`
}

func (NotificationType) TableName() string {
	return "notification_types"
}

type Notification struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     uuid.UUID      `gorm:"type:uuid;not null;index:idx_notifications_user_created,priority:1;index:idx_notifications_user_unread,priority:1"`
	TypeCode   string         `gorm:"type:varchar(50);not null;index"`
	Title      string         `gorm:"type:varchar(200);not null"`
	Message    string         `gorm:"type:text;not null"`
	Metadata   datatypes.JSON `gorm:"type:jsonb"`
	EntityType string         `gorm:"type:varchar(50)"`
	EntityId   *uuid.UUID     `gorm:"type:uuid"`
	IsRead     bool           `gorm:"default:false;index:idx_notifications_user_unread,priority:2"`
	ReadAt     *time.Time
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_notifications_user_created,priority:2"`
}

func (Notification) TableName() string {
	return "notifications"
}
