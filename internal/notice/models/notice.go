package models

import (
	"time"

	id "campusconnect/pkg/domain"
)

// Notice is an event announcement published by an administrator.
type Notice struct {
	ID          id.NoticeID
	Title       string
	Description string
	EventDate   time.Time
	CreatedBy   id.UserID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
