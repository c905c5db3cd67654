package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/specification"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.UserRepository())
	assert.NotNil(t, uow.DocumentSessionRepository())
	assert.NotNil(t, uow.ArticleRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check User Repository", func(t *testing.T) {
		count, err := uow.UserRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("User count: %d", count)
	})

	t.Run("Check Article Embedding Repository", func(t *testing.T) {
		// Count implies table check
		count, err := uow.ArticleEmbeddingRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("ArticleEmbedding count: %d", count)
	})

	t.Run("Check Transactional Session Lifecycle", func(t *testing.T) {
		ctx := context.Background()

		userId := uuid.New()
		user := &entity.User{
			Id:       userId,
			Email:    "test-integration-" + uuid.New().String() + "@example.com",
			FullName: "Integration Test User",
			Role:     "user",
			Status:   "active",
		}

		err := uow.Begin(ctx)
		assert.NoError(t, err)
		defer uow.Rollback()

		err = uow.UserRepository().Create(ctx, user)
		assert.NoError(t, err)

		session := &entity.DocumentSession{
			Id:           uuid.New(),
			UserId:       userId,
			Title:        "Integration Model Card",
			DocumentType: "model_card",
			FieldValues: map[string]any{
				"model_details": map[string]any{"name": "resnet-50"},
			},
		}

		err = uow.DocumentSessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		found, err := uow.DocumentSessionRepository().FindOne(ctx,
			specification.ByID{ID: session.Id},
			specification.ByUserID{UserID: userId},
		)
		assert.NoError(t, err)
		if assert.NotNil(t, found) {
			assert.Equal(t, "model_card", found.DocumentType)
		}

		// Rollback in defer keeps the database clean.
	})
}
