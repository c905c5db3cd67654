package unitofwork

import (
	"context"

	"ai-compliance-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	DocumentSessionRepository() contract.DocumentSessionRepository
	DocumentMessageRepository() contract.DocumentMessageRepository
	ArticleRepository() contract.ArticleRepository
	ArticleEmbeddingRepository() contract.ArticleEmbeddingRepository
}
