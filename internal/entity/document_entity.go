package entity

import (
	"time"

	"github.com/google/uuid"
)

type DocumentSession struct {
	Id           uuid.UUID
	UserId       uuid.UUID
	Title        string
	DocumentType string
	FieldValues  map[string]any
	CreatedAt    time.Time
	UpdatedAt    *time.Time
	DeletedAt    *time.Time
	IsDeleted    bool
}

type DocumentMessage struct {
	Id        uuid.UUID
	SessionId uuid.UUID
	Role      string
	Content   string
	Intent    string
	CreatedAt time.Time
}
