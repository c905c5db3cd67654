package bootstrap

import (
	"context"
	"log"
	"os"

	"ai-compliance-be/internal/config"
	"ai-compliance-be/internal/controller"
	"ai-compliance-be/internal/handler"
	"ai-compliance-be/internal/pkg/logger"
	"ai-compliance-be/internal/pkg/mailer"
	"ai-compliance-be/internal/repository/implementation"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/internal/service"
	"ai-compliance-be/internal/websocket"
	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/embedding"
	"ai-compliance-be/pkg/embedding/jina"
	"ai-compliance-be/pkg/extraction"
	"ai-compliance-be/pkg/graph"
	"ai-compliance-be/pkg/llm/factory"
	"ai-compliance-be/pkg/regulation"
	"ai-compliance-be/pkg/render"
	"ai-compliance-be/pkg/repoanalysis"
	"ai-compliance-be/pkg/schema"
	"ai-compliance-be/pkg/tracker"

	pktNats "ai-compliance-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const appVersion = "1.0.0"

type Container struct {
	// Controllers
	DocumentChatController controller.IDocumentChatController
	DocumentController     controller.IDocumentController
	RegulationController   controller.IRegulationController
	UserController         controller.IUserController
	AuthController         controller.IAuthController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub

	// Graph store, exposed so main can close the driver on shutdown
	GraphStore *graph.Store
}

// vectorSearchAdapter exposes the pgvector similarity search to the
// regulation retriever without leaking the unit of work.
type vectorSearchAdapter struct {
	uowFactory unitofwork.RepositoryFactory
}

func (a *vectorSearchAdapter) SearchArticleNumbers(ctx context.Context, vector []float32, topK int) ([]string, error) {
	uow := a.uowFactory.NewUnitOfWork(ctx)
	return uow.ArticleEmbeddingRepository().SearchArticleNumbers(ctx, vector, topK)
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")
	pkgLogger := log.New(os.Stdout, "[DOC] ", log.LstdFlags)

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else if cfg.Ai.EmbeddingProvider == "jina" {
		embeddingProvider = jina.NewJinaProvider(cfg.Keys.Jina)
		log.Printf("[INFO] Using Embedding Provider: JINA AI")
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.LLMBaseURL,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 4. Document Engine
	registry := schema.NewRegistry()
	sessionStore := docstate.NewStore(cfg.Session.TTL, cfg.Session.PurgeInterval)
	fieldTracker := tracker.New(registry, pkgLogger)
	extractor := extraction.NewLLMExtractor(llmProvider, registry, pkgLogger)
	renderer := render.NewRenderer(appVersion)

	// 5. Knowledge Graph (regulation articles)
	graphStore, err := graph.NewStore(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, pkgLogger)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize Neo4j driver: %v", err)
	}
	if err := graphStore.Verify(context.Background()); err != nil {
		log.Printf("[WARN] Neo4j unreachable, graph lookups degraded: %v", err)
	}

	retriever := regulation.NewRetriever(
		&vectorSearchAdapter{uowFactory: uowFactory},
		graphStore,
		embeddingProvider,
		pkgLogger,
	)
	answerer := regulation.NewAnswerer(retriever, llmProvider, pkgLogger)

	analysisClient := repoanalysis.NewClient(cfg.Keys.N8NWebhook, pkgLogger)

	// 6. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 7. Services
	publisherService := service.NewPublisherService(cfg.App.IndexTopic, pubSub)
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.App.IndexTopic,
		uowFactory,
		embeddingProvider,
	)

	userService := service.NewUserService(uowFactory, natsPub)
	authService := service.NewAuthService(uowFactory, emailService, natsPub)

	chatService := service.NewDocumentChatService(
		uowFactory,
		registry,
		sessionStore,
		fieldTracker,
		extractor,
		natsPub,
		cfg.Extraction.ConfidenceThreshold,
	)
	documentService := service.NewDocumentService(
		uowFactory,
		registry,
		sessionStore,
		fieldTracker,
		renderer,
		emailService,
		natsPub,
	)
	regulationService := service.NewRegulationService(
		uowFactory,
		answerer,
		publisherService,
		cfg.Extraction.RetrievalTopK,
	)
	analysisService := service.NewRepoAnalysisService(
		uowFactory,
		analysisClient,
		registry,
		sessionStore,
		fieldTracker,
		natsPub,
	)

	// 8. Notification System
	notifRepo := implementation.NewNotificationRepository(db)
	notifService := service.NewNotificationService(notifRepo, natsSub, wsHub, sysLogger) // Hub implements NotificationDelivery

	// Start Service (Worker)
	if natsSub != nil {
		go notifService.Start()
	}

	notifHandler := handler.NewNotificationHandler(notifService, natsPub, wsHub, wsLogger)

	// 9. Controllers
	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,
		GraphStore:          graphStore,

		DocumentChatController: controller.NewDocumentChatController(chatService),
		DocumentController:     controller.NewDocumentController(documentService, analysisService),
		RegulationController:   controller.NewRegulationController(regulationService),
		UserController:         controller.NewUserController(userService),
		AuthController:         controller.NewAuthController(authService),

		ConsumerService: consumerService,
	}
}
