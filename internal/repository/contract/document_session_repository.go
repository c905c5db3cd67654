package contract

import (
	"context"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/specification"

	"github.com/google/uuid"
)

type DocumentSessionRepository interface {
	Create(ctx context.Context, session *entity.DocumentSession) error
	Update(ctx context.Context, session *entity.DocumentSession) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteAllByUserIdUnscoped(ctx context.Context, userId uuid.UUID) error // Hard delete all
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DocumentSession, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DocumentSession, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
