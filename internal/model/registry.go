package model

// All returns every table in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&UserRefreshToken{},
		&ClassType{},
		&ClassSchedule{},
		&ClassCancellation{},
		&Subscription{},
		&Payment{},
		&News{},
		&NotificationType{},
		&Notification{},
		&WebhookEvent{},
	}
}
