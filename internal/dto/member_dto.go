package dto

import (
	"time"

	"github.com/google/uuid"
)

type MemberSubscriptionDTO struct {
	Id               uuid.UUID    `json:"id"`
	ClassType        ClassTypeRef `json:"classType"`
	Status           string       `json:"status"`
	CurrentPeriodEnd *time.Time   `json:"currentPeriodEnd"`
}

type MemberDTO struct {
	Id            uuid.UUID               `json:"id"`
	Email         string                  `json:"email"`
	FirstName     string                  `json:"firstName"`
	LastName      string                  `json:"lastName"`
	Phone         *string                 `json:"phone,omitempty"`
	Subscriptions []MemberSubscriptionDTO `json:"subscriptions"`
}

type ClassTypeStatDTO struct {
	ClassTypeId   uuid.UUID `json:"classTypeId"`
	ClassTypeName string    `json:"classTypeName"`
	ActiveMembers int64     `json:"activeMembers"`
}
