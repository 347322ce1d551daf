package models

import (
	"time"
)

// Click одна запись аудита перехода. Авторитетный счётчик кликов ведётся
// на самой ссылке и инкрементируется атомарно, аудит его не заменяет.
type Click struct {
	ID        int64     `json:"id"`
	LinkID    string    `json:"linkId"`
	IPAddress string    `json:"ipAddress"`
	UserAgent string    `json:"userAgent"`
	Referer   string    `json:"referer"`
	ClickedAt time.Time `json:"clickedAt"`
}

// ClickEvent событие для асинхронной записи аудита.
type ClickEvent struct {
	LinkID    string
	IPAddress string
	UserAgent string
	Referer   string
}

type ClickStats struct {
	LinkID       string `json:"linkId"`
	TotalClicks  int64  `json:"totalClicks"`
	UniqueClicks int64  `json:"uniqueClicks"`
}
