package model

import (
	"time"

	"github.com/google/uuid"
)

type Subscription struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId               uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_user_class,priority:1"`
	ClassTypeId          uuid.UUID `gorm:"type:uuid;not null;index:idx_subscriptions_user_class,priority:2"`
	StripeSubscriptionId *string   `gorm:"type:varchar(255);uniqueIndex"`
	StripeCustomerId     *string   `gorm:"type:varchar(255)"`
	Status               string    `gorm:"type:subscription_status;not null;default:'incomplete'"`
	CurrentPeriodStart   *time.Time
	CurrentPeriodEnd     *time.Time
	CancelAtPeriodEnd    bool      `gorm:"default:false"`
	CreatedAt            time.Time `gorm:"autoCreateTime"`
	UpdatedAt            time.Time `gorm:"autoUpdateTime"`

	ClassType *ClassType `gorm:"foreignKey:ClassTypeId"`
	User      *User      `gorm:"foreignKey:UserId"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}

type Payment struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SubscriptionId  uuid.UUID `gorm:"type:uuid;not null;index"`
	StripeInvoiceId *string   `gorm:"type:varchar(255);uniqueIndex"`
	Amount          int64     `gorm:"not null"`
	Currency        string    `gorm:"type:varchar(3);not null;default:'pln'"`
	Status          string    `gorm:"type:payment_status;not null"`
	PaidAt          *time.Time
	CreatedAt       time.Time `gorm:"autoCreateTime"`

	Subscription *Subscription `gorm:"foreignKey:SubscriptionId"`
}

func (Payment) TableName() string {
	return "payments"
}
