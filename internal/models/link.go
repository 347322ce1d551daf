package models

import (
	"time"
)

// Link представляет одну запись сокращения ссылки.
type Link struct {
	ID           string    `json:"id"`
	OriginalURL  string    `json:"originalUrl"`
	ShortenedURL string    `json:"shortenedUrl"`
	CreatedBy    string    `json:"createdBy"`
	ClickCount   int64     `json:"clickCount"`
	CreatedAt    time.Time `json:"createdAt"`
	ExpiredAt    time.Time `json:"expiredAt"`

	// CreatedUser заполняется только в MostClickedLinks (client-side join,
	// в хранилище это поле не пишется).
	CreatedUser string `json:"createdUser,omitempty"`
}

type CreateLinkInput struct {
	OriginalURL string    `json:"originalUrl" binding:"required,url"`
	ExpiredAt   time.Time `json:"expiredAt" binding:"required"`
	SpecialKey  string    `json:"specialKey,omitempty"`
}

// UpdateLinkInput повторяет форму Link: PUT заменяет запись целиком,
// id берётся из пути, а не из тела.
type UpdateLinkInput struct {
	OriginalURL  string    `json:"originalUrl" binding:"required,url"`
	ShortenedURL string    `json:"shortenedUrl" binding:"required"`
	CreatedBy    string    `json:"createdBy"`
	ClickCount   int64     `json:"clickCount"`
	ExpiredAt    time.Time `json:"expiredAt" binding:"required"`
}

type MostLinkShortenerUserResponse struct {
	FullName  string `json:"fullName"`
	LinkCount int    `json:"linkCount"`
}
