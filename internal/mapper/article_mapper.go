package mapper

import (
	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type ArticleMapper struct{}

func NewArticleMapper() *ArticleMapper {
	return &ArticleMapper{}
}

func (m *ArticleMapper) ToEntity(a *model.Article) *entity.Article {
	if a == nil {
		return nil
	}
	return &entity.Article{
		Id:        a.Id,
		Number:    a.Number,
		Title:     a.Title,
		Chapter:   a.Chapter,
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *ArticleMapper) ToModel(a *entity.Article) *model.Article {
	if a == nil {
		return nil
	}
	return &model.Article{
		Id:        a.Id,
		Number:    a.Number,
		Title:     a.Title,
		Chapter:   a.Chapter,
		Content:   a.Content,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func (m *ArticleMapper) EmbeddingToEntity(e *model.ArticleEmbedding) *entity.ArticleEmbedding {
	if e == nil {
		return nil
	}
	return &entity.ArticleEmbedding{
		Id:             e.Id,
		ArticleNumber:  e.ArticleNumber,
		Document:       e.Document,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ArticleMapper) EmbeddingToModel(e *entity.ArticleEmbedding) *model.ArticleEmbedding {
	if e == nil {
		return nil
	}
	return &model.ArticleEmbedding{
		Id:             e.Id,
		ArticleNumber:  e.ArticleNumber,
		Document:       e.Document,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}
