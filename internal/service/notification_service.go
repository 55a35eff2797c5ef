package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/dto"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/apperror"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/logger"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/pkg/mailer"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/contract"
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/repository/unitofwork"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"
	pktNats "github.com/wsbKuba/Klub-Sztuki-Walk/pkg/nats"

	"github.com/google/uuid"
)

const (
	notificationModule  = "NotificationService"
	notificationDurable = "notification-service-worker"
	defaultPageSize     = 20
	maxPageSize         = 100
)

// NotificationDelivery pushes real-time updates. Implemented by the websocket hub.
type NotificationDelivery interface {
	Send(userID uuid.UUID, notification dto.NotificationDTO)
}

// EventSubscriber is the part of the bus the service listens on.
type EventSubscriber interface {
	Subscribe(ctx context.Context, subject, durableName string, handler pktNats.EventHandler) error
}

type INotificationService interface {
	Start(ctx context.Context) error
	HandleEvent(ctx context.Context, event events.Event) error
	List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error)
	UnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error)
	MarkAsRead(ctx context.Context, userId, id uuid.UUID) error
	MarkAllAsRead(ctx context.Context, userId uuid.UUID) error
}

type notificationService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber EventSubscriber
	delivery   NotificationDelivery
	emailQueue mailer.IQueue
	logger     logger.ILogger
}

func NewNotificationService(uowFactory unitofwork.RepositoryFactory, subscriber EventSubscriber, delivery NotificationDelivery, emailQueue mailer.IQueue, log logger.ILogger) INotificationService {
	return &notificationService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		delivery:   delivery,
		emailQueue: emailQueue,
		logger:     log,
	}
}

// Start subscribes to every domain event with a durable consumer.
func (s *notificationService) Start(ctx context.Context) error {
	if s.subscriber == nil {
		s.logger.Warn(notificationModule, "No event subscriber, notifications are disabled", nil)
		return nil
	}
	if err := s.subscriber.Subscribe(ctx, events.SubjectPrefix+">", notificationDurable, s.HandleEvent); err != nil {
		return err
	}
	s.logger.Info(notificationModule, "Listening to events.>", nil)
	return nil
}

func (s *notificationService) HandleEvent(ctx context.Context, event events.Event) error {
	typeCode := strings.TrimPrefix(event.EventType(), events.SubjectPrefix)
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// 1. Registry lookup
	config, err := uow.NotificationRepository().FindTypeByCode(ctx, typeCode)
	if err != nil {
		return err
	}
	if config == nil || !config.IsActive {
		s.logger.Debug(notificationModule, "No active notification type for event", map[string]interface{}{"type": typeCode})
		return nil
	}

	// 2. Recipients
	recipients, err := s.resolveRecipients(ctx, uow, config, event)
	if err != nil {
		return err
	}

	// 3. Store and push per recipient
	for _, userId := range recipients {
		notif := buildNotification(userId, config, event)
		if err := uow.NotificationRepository().Create(ctx, notif); err != nil {
			s.logger.Error(notificationModule, "Failed to save notification", map[string]interface{}{
				"user_id": userId.String(),
				"type":    typeCode,
				"error":   err.Error(),
			})
			continue
		}
		if s.delivery != nil {
			s.delivery.Send(userId, dto.FromNotification(notif))
		}
	}

	if typeCode == events.PaymentFailed {
		s.enqueuePaymentFailed(ctx, uow, event)
	}
	return nil
}

func (s *notificationService) resolveRecipients(ctx context.Context, uow unitofwork.UnitOfWork, config *entity.NotificationType, event events.Event) ([]uuid.UUID, error) {
	switch config.TargetType {
	case entity.NotificationTargetSelf:
		if id, ok := payloadUUID(event.Payload(), "user_id"); ok {
			return []uuid.UUID{id}, nil
		}
		s.logger.Warn(notificationModule, "Target SELF but event has no user_id", map[string]interface{}{"type": config.Code})
		return nil, nil

	case entity.NotificationTargetBroadcastMembers:
		role := entity.UserRoleUser
		users, err := uow.UserRepository().FindAll(ctx, contract.UserFilter{Role: &role, ActiveOnly: true})
		if err != nil {
			return nil, err
		}
		ids := make([]uuid.UUID, 0, len(users))
		for _, u := range users {
			ids = append(ids, u.Id)
		}
		return ids, nil
	}

	s.logger.Warn(notificationModule, "Unknown notification target", map[string]interface{}{"target": string(config.TargetType)})
	return nil, nil
}

func payloadUUID(payload map[string]interface{}, key string) (uuid.UUID, bool) {
	raw, ok := payload[key].(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	return id, err == nil
}

// renderTemplate replaces every {key} with the payload value. Unknown placeholders stay as they are.
func renderTemplate(template string, payload map[string]interface{}) string {
	msg := template
	for k, v := range payload {
		msg = strings.ReplaceAll(msg, "{"+k+"}", fmt.Sprintf("%v", v))
	}
	return msg
}

func buildNotification(userId uuid.UUID, config *entity.NotificationType, event events.Event) *entity.Notification {
	payload := event.Payload()

	meta := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		meta[k] = v
	}

	notif := &entity.Notification{
		UserId:   userId,
		TypeCode: config.Code,
		Title:    config.DisplayName,
		Message:  renderTemplate(config.Template, payload),
		Metadata: meta,
	}
	if et, ok := payload["entity_type"].(string); ok {
		notif.EntityType = et
	}
	if id, ok := payloadUUID(payload, "entity_id"); ok {
		notif.EntityId = &id
	}
	return notif
}

func (s *notificationService) enqueuePaymentFailed(ctx context.Context, uow unitofwork.UnitOfWork, event events.Event) {
	if s.emailQueue == nil {
		return
	}
	userId, ok := payloadUUID(event.Payload(), "user_id")
	if !ok {
		return
	}
	user, err := uow.UserRepository().FindById(ctx, userId)
	if err != nil || user == nil {
		return
	}

	className, _ := event.Payload()["class_name"].(string)
	job := mailer.Job{
		Kind: mailer.JobPaymentFailed,
		To:   user.Email,
		Name: user.FirstName,
		Data: map[string]string{"class_name": className},
	}
	if err := s.emailQueue.Enqueue(ctx, job); err != nil {
		s.logger.Warn(notificationModule, "Failed to enqueue payment failed email", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
	}
}

func (s *notificationService) List(ctx context.Context, userId uuid.UUID, limit, offset int) (*dto.NotificationListResponse, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	items, total, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().FindByUser(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	return &dto.NotificationListResponse{Items: dto.Map(items, dto.FromNotification), Total: total}, nil
}

func (s *notificationService) UnreadCount(ctx context.Context, userId uuid.UUID) (*dto.UnreadCountResponse, error) {
	count, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().CountUnread(ctx, userId)
	if err != nil {
		return nil, err
	}
	return &dto.UnreadCountResponse{Count: count}, nil
}

func (s *notificationService) MarkAsRead(ctx context.Context, userId, id uuid.UUID) error {
	ok, err := s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAsRead(ctx, userId, id)
	if err != nil {
		return err
	}
	if !ok {
		return apperror.NotFound("Notification not found")
	}
	return nil
}

func (s *notificationService) MarkAllAsRead(ctx context.Context, userId uuid.UUID) error {
	return s.uowFactory.NewUnitOfWork(ctx).NotificationRepository().MarkAllAsRead(ctx, userId)
}
