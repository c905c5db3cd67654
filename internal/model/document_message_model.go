package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentMessage struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId uuid.UUID      `gorm:"type:uuid;not null;index"`
	Role      string         `gorm:"type:varchar(20);not null"` // "user" or "assistant"
	Content   string         `gorm:"type:text;not null"`
	Intent    string         `gorm:"type:varchar(32)"` // resolved intent for user messages
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (DocumentMessage) TableName() string {
	return "document_messages"
}
