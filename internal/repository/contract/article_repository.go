package contract

import (
	"context"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/specification"
)

type ArticleRepository interface {
	Upsert(ctx context.Context, article *entity.Article) error
	FindByNumber(ctx context.Context, number string) (*entity.Article, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Article, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

type ArticleEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ArticleEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ArticleEmbedding) error
	DeleteByArticleNumber(ctx context.Context, number string) error
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// SearchArticleNumbers returns distinct article numbers ranked by cosine
	// similarity of their closest chunk to the query vector.
	SearchArticleNumbers(ctx context.Context, vector []float32, topK int) ([]string, error)
}
