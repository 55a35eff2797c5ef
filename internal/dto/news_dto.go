package dto

import (
	"time"

	"github.com/google/uuid"
)

type NewsDTO struct {
	Id            uuid.UUID  `json:"id"`
	Title         string     `json:"title"`
	Content       string     `json:"content"`
	Type          string     `json:"type"`
	CoverImageUrl *string    `json:"coverImageUrl,omitempty"`
	PublishedAt   time.Time  `json:"publishedAt"`
	Author        *PersonRef `json:"author,omitempty"`
}

type CreateNewsRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Content       string  `json:"content" validate:"required"`
	Type          string  `json:"type" validate:"required,oneof=announcement event cancellation"`
	CoverImageUrl *string `json:"coverImageUrl" validate:"omitempty,url"`
}

type UpdateNewsRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=200"`
	Content       *string `json:"content" validate:"omitempty,min=1"`
	Type          *string `json:"type" validate:"omitempty,oneof=announcement event cancellation"`
	CoverImageUrl *string `json:"coverImageUrl" validate:"omitempty,url"`
}
