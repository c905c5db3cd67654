package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentSession is the persisted record behind a chat session. The live
// field values are served from the in-memory store; this row is the durable
// copy used to rehydrate after a restart.
type DocumentSession struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"` // User ownership for data isolation
	Title        string         `gorm:"type:text;not null"`
	DocumentType string         `gorm:"type:varchar(64);not null"`
	FieldValues  []byte         `gorm:"type:jsonb"`
	CreatedAt    time.Time      `gorm:"autoCreateTime"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime"`
	DeletedAt    gorm.DeletedAt `gorm:"index"`
}

func (DocumentSession) TableName() string {
	return "document_sessions"
}
