package contract

import (
	"context"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentMessageRepository interface {
	Create(ctx context.Context, message *entity.DocumentMessage) error
	DeleteBySessionId(ctx context.Context, sessionId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentMessage, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
