package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByStripeSubscriptionID struct {
	ID string
}

func (s ByStripeSubscriptionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_subscription_id = ?", s.ID)
}

type ByStripeInvoiceID struct {
	ID string
}

func (s ByStripeInvoiceID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_invoice_id = ?", s.ID)
}

type ByClassType struct {
	ClassTypeID uuid.UUID
}

func (s ByClassType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("class_type_id = ?", s.ClassTypeID)
}

type BySubscriptionStatus struct {
	Status string
}

func (s BySubscriptionStatus) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("status = ?", s.Status)
}

type HasStripeCustomer struct{}

func (s HasStripeCustomer) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("stripe_customer_id IS NOT NULL AND stripe_customer_id <> ''")
}

// PaymentsOwnedBy restricts payments to those whose subscription belongs to the user.
type PaymentsOwnedBy struct {
	UserID uuid.UUID
}

func (s PaymentsOwnedBy) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("subscription_id IN (?)",
		db.Session(&gorm.Session{NewDB: true}).Table("subscriptions").Select("id").Where("user_id = ?", s.UserID))
}
