package entity

import (
	"time"

	"github.com/google/uuid"
)

type Article struct {
	Id        uuid.UUID
	Number    string
	Title     string
	Chapter   string
	Content   string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type ArticleEmbedding struct {
	Id             uuid.UUID
	ArticleNumber  string
	Document       string
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
