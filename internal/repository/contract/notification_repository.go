package contract

import (
	"context"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"

	"github.com/google/uuid"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	FindByUser(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Notification, int64, error)
	CountUnread(ctx context.Context, userId uuid.UUID) (int64, error)
	// MarkAsRead is scoped to the owner. Returns false when nothing matched.
	MarkAsRead(ctx context.Context, userId, id uuid.UUID) (bool, error)
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error

	FindTypeByCode(ctx context.Context, code string) (*entity.NotificationType, error)
	UpsertType(ctx context.Context, notificationType *entity.NotificationType) error
}
