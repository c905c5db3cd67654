package implementation

import (
	"context"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/mapper"
	"ai-compliance-be/internal/model"
	"ai-compliance-be/internal/repository/contract"
	"ai-compliance-be/internal/repository/specification"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type ArticleEmbeddingRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ArticleMapper
}

func NewArticleEmbeddingRepository(db *gorm.DB) contract.ArticleEmbeddingRepository {
	return &ArticleEmbeddingRepositoryImpl{
		db:     db,
		mapper: mapper.NewArticleMapper(),
	}
}

func (r *ArticleEmbeddingRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ArticleEmbeddingRepositoryImpl) Create(ctx context.Context, embedding *entity.ArticleEmbedding) error {
	m := r.mapper.EmbeddingToModel(embedding)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*embedding = *r.mapper.EmbeddingToEntity(m)
	return nil
}

func (r *ArticleEmbeddingRepositoryImpl) CreateBulk(ctx context.Context, embeddings []*entity.ArticleEmbedding) error {
	if len(embeddings) == 0 {
		return nil
	}
	models := make([]*model.ArticleEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = r.mapper.EmbeddingToModel(e)
	}
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *ArticleEmbeddingRepositoryImpl) DeleteByArticleNumber(ctx context.Context, number string) error {
	return r.db.WithContext(ctx).Where("article_number = ?", number).Delete(&model.ArticleEmbedding{}).Error
}

func (r *ArticleEmbeddingRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.ArticleEmbedding{}), specs...)
	err := query.Count(&count).Error
	return count, err
}

func (r *ArticleEmbeddingRepositoryImpl) SearchArticleNumbers(ctx context.Context, vector []float32, topK int) ([]string, error) {
	if topK <= 0 {
		topK = 3
	}

	// Cosine distance over the closest chunk per article. The inner ordering
	// ranks chunks, DISTINCT ON collapses them to one row per article.
	var numbers []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT article_number FROM (
			SELECT DISTINCT ON (article_number)
				article_number,
				embedding_value <=> ? AS distance
			FROM article_embeddings
			ORDER BY article_number, distance
		) ranked
		ORDER BY distance
		LIMIT ?
	`, pgvector.NewVector(vector), topK).Scan(&numbers).Error
	if err != nil {
		return nil, err
	}
	return numbers, nil
}
