package dto

import (
	"time"

	"github.com/google/uuid"
)

type CreateSessionRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	Title        string `json:"title,omitempty"`
}

type CreateSessionResponse struct {
	Id           uuid.UUID `json:"id"`
	DocumentType string    `json:"document_type"`
	Title        string    `json:"title"`
	FirstPrompt  string    `json:"first_prompt,omitempty"` // opening question for the first unset field
}

type GetAllSessionsResponse struct {
	Id           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	DocumentType string     `json:"document_type"`
	Completion   float64    `json:"completion"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at"`
}

type GetChatHistoryResponse struct {
	Id        uuid.UUID `json:"id"`
	Role      string    `json:"role"`
	Chat      string    `json:"chat"`
	Intent    string    `json:"intent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type SendChatRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	Chat      string    `json:"chat" validate:"required"`
}

type MergedFieldDTO struct {
	Path  string `json:"path"`
	Label string `json:"label"`
}

type RejectedFieldDTO struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

type PendingFieldDTO struct {
	Path       string  `json:"path"`
	Label      string  `json:"label"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

type SendChatResponse struct {
	SessionId     uuid.UUID          `json:"session_id"`
	Reply         string             `json:"reply"`
	Intent        string             `json:"intent"`
	Completion    float64            `json:"completion"`
	MergedFields  []MergedFieldDTO   `json:"merged_fields,omitempty"`
	Rejected      []RejectedFieldDTO `json:"rejected_fields,omitempty"`
	PendingFields []PendingFieldDTO  `json:"pending_fields,omitempty"` // low-confidence proposals awaiting confirmation
	NextField     string             `json:"next_field,omitempty"`
	ReadyToExport bool               `json:"ready_to_export"`
}

type ConfirmFieldsRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	// Paths to confirm from the pending set. Empty means confirm all.
	Paths []string `json:"paths,omitempty"`
}

type SectionStatusDTO struct {
	Name      string   `json:"name"`
	Label     string   `json:"label"`
	Filled    int      `json:"filled"`
	Required  int      `json:"required"`
	Missing   []string `json:"missing,omitempty"`
	Completed bool     `json:"completed"`
}

type DocumentStatusResponse struct {
	SessionId     uuid.UUID          `json:"session_id"`
	DocumentType  string             `json:"document_type"`
	Completion    float64            `json:"completion"`
	Sections      []SectionStatusDTO `json:"sections"`
	Outstanding   []string           `json:"outstanding,omitempty"`
	ReadyToExport bool               `json:"ready_to_export"`
}

type ExportRequest struct {
	Format string `json:"format" validate:"required,oneof=pdf html markdown md"`
	// Optional: send the rendered document to this address as an attachment.
	Email string `json:"email,omitempty" validate:"omitempty,email"`
}

type TemplateFieldDTO struct {
	Path     string   `json:"path"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	Options  []string `json:"options,omitempty"`
}

type TemplateSectionDTO struct {
	Name   string             `json:"name"`
	Label  string             `json:"label"`
	Fields []TemplateFieldDTO `json:"fields"`
}

type TemplateResponse struct {
	DocumentType string               `json:"document_type"`
	Title        string               `json:"title"`
	Sections     []TemplateSectionDTO `json:"sections"`
}

type AnalyzeRepositoryRequest struct {
	SessionId uuid.UUID `json:"session_id" validate:"required"`
	RepoURL   string    `json:"repo_url" validate:"required,url"`
}

type AnalyzeRepositoryResponse struct {
	SessionId    uuid.UUID        `json:"session_id"`
	MergedFields []MergedFieldDTO `json:"merged_fields,omitempty"`
	Completion   float64          `json:"completion"`
}

type AskRegulationRequest struct {
	Question string `json:"question" validate:"required,min=5"`
}

type AskRegulationResponse struct {
	Answer    string   `json:"answer"`
	Citations []string `json:"citations,omitempty"`
}

type DeleteSessionRequest struct {
	SessionId uuid.UUID `json:"session_id"`
}

// IndexArticleMessage is the payload on the in-process indexing bus.
type IndexArticleMessage struct {
	ArticleNumber string `json:"article_number"`
}

type ReindexResponse struct {
	Queued int `json:"queued"`
}
