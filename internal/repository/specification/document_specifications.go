package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ByUserID struct {
	UserID uuid.UUID
}

func (s ByUserID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("user_id = ?", s.UserID)
}

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByDocumentType struct {
	DocumentType string
}

func (s ByDocumentType) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("document_type = ?", s.DocumentType)
}

type ByArticleNumber struct {
	Number string
}

func (s ByArticleNumber) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("article_number = ?", s.Number)
}
