package entity

import (
	"time"

	"github.com/google/uuid"
)

type NewsType string

const (
	NewsTypeAnnouncement NewsType = "announcement"
	NewsTypeEvent        NewsType = "event"
	NewsTypeCancellation NewsType = "cancellation"
)

func (t NewsType) Valid() bool {
	switch t {
	case NewsTypeAnnouncement, NewsTypeEvent, NewsTypeCancellation:
		return true
	}
	return false
}

type News struct {
	Id            uuid.UUID
	AuthorId      uuid.UUID
	Title         string
	Content       string
	Type          NewsType
	CoverImageUrl *string
	PublishedAt   time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Author *User
}
