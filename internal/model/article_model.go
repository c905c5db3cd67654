package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// Article mirrors the EU AI Act articles held in the knowledge graph so the
// relational side can serve embedding lookups and bulk listings.
type Article struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Number    string    `gorm:"type:varchar(16);uniqueIndex;not null"`
	Title     string    `gorm:"type:text;not null"`
	Chapter   string    `gorm:"type:text"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Article) TableName() string {
	return "articles"
}

type ArticleEmbedding struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ArticleNumber  string          `gorm:"type:varchar(16);not null;index"`
	Document       string          `gorm:"type:text"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	ChunkIndex     int             `gorm:"default:0"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (ArticleEmbedding) TableName() string {
	return "article_embeddings"
}
