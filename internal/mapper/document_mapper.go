package mapper

import (
	"encoding/json"
	"time"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/model"
	"ai-compliance-be/pkg/docstate"

	"gorm.io/gorm"
)

type DocumentMapper struct{}

func NewDocumentMapper() *DocumentMapper {
	return &DocumentMapper{}
}

// Session Mappers

func (m *DocumentMapper) SessionToEntity(s *model.DocumentSession) *entity.DocumentSession {
	if s == nil {
		return nil
	}

	var deletedAt *time.Time
	if s.DeletedAt.Valid {
		t := s.DeletedAt.Time
		deletedAt = &t
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	values := map[string]any{}
	if len(s.FieldValues) > 0 {
		var raw map[string]any
		if err := json.Unmarshal(s.FieldValues, &raw); err == nil {
			for path, v := range raw {
				values[path] = docstate.NormalizeValue(v)
			}
		}
	}

	return &entity.DocumentSession{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		DocumentType: s.DocumentType,
		FieldValues:  values,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
		IsDeleted:    s.DeletedAt.Valid,
	}
}

func (m *DocumentMapper) SessionToModel(s *entity.DocumentSession) *model.DocumentSession {
	if s == nil {
		return nil
	}

	var deletedAt gorm.DeletedAt
	if s.DeletedAt != nil {
		deletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
	} else if s.IsDeleted {
		deletedAt = gorm.DeletedAt{Time: time.Now(), Valid: true}
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	var fieldValues []byte
	if s.FieldValues != nil {
		fieldValues, _ = json.Marshal(s.FieldValues)
	}

	return &model.DocumentSession{
		Id:           s.Id,
		UserId:       s.UserId,
		Title:        s.Title,
		DocumentType: s.DocumentType,
		FieldValues:  fieldValues,
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

// Message Mappers

func (m *DocumentMapper) MessageToEntity(msg *model.DocumentMessage) *entity.DocumentMessage {
	if msg == nil {
		return nil
	}
	return &entity.DocumentMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Intent:    msg.Intent,
		CreatedAt: msg.CreatedAt,
	}
}

func (m *DocumentMapper) MessageToModel(msg *entity.DocumentMessage) *model.DocumentMessage {
	if msg == nil {
		return nil
	}
	return &model.DocumentMessage{
		Id:        msg.Id,
		SessionId: msg.SessionId,
		Role:      msg.Role,
		Content:   msg.Content,
		Intent:    msg.Intent,
		CreatedAt: msg.CreatedAt,
	}
}
