package model

import (
	"time"

	"github.com/google/uuid"
)

type News struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	AuthorId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Title         string    `gorm:"type:varchar(200);not null"`
	Content       string    `gorm:"type:text;not null"`
	Type          string    `gorm:"type:news_type;not null;default:'announcement'"`
	CoverImageUrl *string   `gorm:"type:text"`
	PublishedAt   time.Time `gorm:"not null;index"`
	CreatedAt     time.Time `gorm:"autoCreateTime"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime"`

	Author *User `gorm:"foreignKey:AuthorId"`
}

func (News) TableName() string {
	return "news"
}
