package entity

import (
	"time"

	"github.com/google/uuid"
)

type NotificationTarget string

const (
	NotificationTargetSelf             NotificationTarget = "SELF"
	NotificationTargetBroadcastMembers NotificationTarget = "BROADCAST_MEMBERS"
)

// NotificationType maps an event type code to how it is rendered and who receives it.
type NotificationType struct {
	Id          uint
	Code        string
	DisplayName string
	Template    string
	TargetType  NotificationTarget
	IsActive    bool
}

type Notification struct {
	Id         uuid.UUID
	UserId     uuid.UUID
	TypeCode   string
	Title      string
	Message    string
	Metadata   map[string]interface{}
	EntityType string
	EntityId   *uuid.UUID
	IsRead     bool
	ReadAt     *time.Time
	CreatedAt  time.Time
}
