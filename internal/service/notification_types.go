package service

import (
	"github.com/wsbKuba/Klub-Sztuki-Walk/internal/entity"
	"github.com/wsbKuba/Klub-Sztuki-Walk/pkg/events"
)

// DefaultNotificationTypes is the registry seeded by gymctl. Placeholders match the event payload keys.
func DefaultNotificationTypes() []entity.NotificationType {
	return []entity.NotificationType{
		{
			Code:        events.SubscriptionActivated,
			DisplayName: "Karnet aktywny",
			Template:    "Twój karnet na zajęcia {class_name} jest aktywny do {period_end}.",
			TargetType:  entity.NotificationTargetSelf,
			IsActive:    true,
		},
		{
			Code:        events.SubscriptionCancelled,
			DisplayName: "Karnet anulowany",
			Template:    "Twój karnet na zajęcia {class_name} został anulowany.",
			TargetType:  entity.NotificationTargetSelf,
			IsActive:    true,
		},
		{
			Code:        events.SubscriptionPastDue,
			DisplayName: "Zaległa płatność",
			Template:    "Płatność za karnet {class_name} jest zaległa. Zaktualizuj metodę płatności.",
			TargetType:  entity.NotificationTargetSelf,
			IsActive:    true,
		},
		{
			Code:        events.PaymentSucceeded,
			DisplayName: "Płatność przyjęta",
			Template:    "Otrzymaliśmy płatność {amount} {currency} za zajęcia {class_name}.",
			TargetType:  entity.NotificationTargetSelf,
			IsActive:    true,
		},
		{
			Code:        events.PaymentFailed,
			DisplayName: "Płatność odrzucona",
			Template:    "Płatność {amount} {currency} za zajęcia {class_name} nie powiodła się.",
			TargetType:  entity.NotificationTargetSelf,
			IsActive:    true,
		},
		{
			Code:        events.ClassCancelled,
			DisplayName: "Odwołane zajęcia",
			Template:    "Zajęcia {class_name} w dniu {date} o godz. {start_time} zostały odwołane.",
			TargetType:  entity.NotificationTargetBroadcastMembers,
			IsActive:    true,
		},
		{
			Code:        events.UserRegistered,
			DisplayName: "Witamy w klubie",
			Template:    "Cześć {first_name}, dziękujemy za rejestrację!",
			TargetType:  entity.NotificationTargetSelf,
			IsActive:    true,
		},
	}
}
