// FILE: internal/service/consumer_service.go
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"ai-compliance-be/internal/dto"
	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/embedding"
	"ai-compliance-be/pkg/utils"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService embeds regulation articles in the background. Reindex
// requests arrive over the in-process bus so API handlers never block on
// the embedding provider.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	uowFactory        unitofwork.RepositoryFactory
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		uowFactory:        uowFactory,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.IndexArticleMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Indexing article %s", payload.ArticleNumber)

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	article, err := uow.ArticleRepository().FindByNumber(ctx, payload.ArticleNumber)
	if err != nil {
		log.Printf("[ERROR] Failed to get article %s: %v", payload.ArticleNumber, err)
		msg.Nack() // Nack for retriable errors
		return
	}
	if article == nil {
		log.Printf("[ERROR] Article not found: %s", payload.ArticleNumber)
		msg.Ack() // Article removed? Ack.
		return
	}

	content := fmt.Sprintf(`Article %s: %s
Chapter: %s

%s`,
		article.Number,
		article.Title,
		article.Chapter,
		article.Content,
	)

	// ChunkSize: 1500 chars (approx 375 tokens), Overlap: 200 chars
	chunks := utils.SplitText(content, 1500, 200)
	log.Printf("[INFO] Article %s split into %d chunks", article.Number, len(chunks))

	var newEmbeddings []*entity.ArticleEmbedding

	for i, chunk := range chunks {
		res, err := cs.embeddingProvider.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			log.Printf("[ERROR] Failed to generate embedding for chunk %d of article %s: %v", i, article.Number, err)
			msg.Nack()
			return
		}

		newEmbeddings = append(newEmbeddings, &entity.ArticleEmbedding{
			Id:             uuid.New(),
			ArticleNumber:  article.Number,
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		log.Printf("[ERROR] Failed to begin transaction: %v", err)
		msg.Nack()
		return
	}
	defer uow.Rollback()

	if err := uow.ArticleEmbeddingRepository().DeleteByArticleNumber(ctx, article.Number); err != nil {
		log.Printf("[ERROR] Failed to delete old embeddings: %v", err)
		msg.Nack()
		return
	}

	if len(newEmbeddings) > 0 {
		if err := uow.ArticleEmbeddingRepository().CreateBulk(ctx, newEmbeddings); err != nil {
			log.Printf("[ERROR] Failed to create bulk embeddings: %v", err)
			msg.Nack()
			return
		}
	}

	if err := uow.Commit(); err != nil {
		log.Printf("[ERROR] Failed to commit transaction: %v", err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Article %s indexed (%d chunks)", article.Number, len(newEmbeddings))
	msg.Ack()
}
