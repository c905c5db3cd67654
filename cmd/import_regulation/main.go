package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"ai-compliance-be/internal/config"
	"ai-compliance-be/internal/entity"
	"ai-compliance-be/internal/repository/unitofwork"
	"ai-compliance-be/pkg/database"
	"ai-compliance-be/pkg/embedding"
	"ai-compliance-be/pkg/embedding/jina"
	"ai-compliance-be/pkg/graph"
	"ai-compliance-be/pkg/utils"

	"github.com/fatih/color"
	"github.com/google/uuid"
)

// importArticle is the shape of one entry in the regulation source file.
type importArticle struct {
	Number     string   `json:"number"`
	Title      string   `json:"title"`
	Chapter    string   `json:"chapter"`
	Content    string   `json:"content"`
	References []string `json:"references"`
}

func main() {
	filePath := flag.String("file", "regulation.json", "Path to the regulation source JSON")
	skipEmbed := flag.Bool("skip-embeddings", false, "Only load articles, skip embedding generation")
	flag.Parse()

	color.Cyan("🚀 Regulation Importer\n")

	cfg := config.Load()

	raw, err := os.ReadFile(*filePath)
	if err != nil {
		color.Red("Failed to read %s: %v", *filePath, err)
		os.Exit(1)
	}

	var articles []importArticle
	if err := json.Unmarshal(raw, &articles); err != nil {
		color.Red("Failed to parse %s: %v", *filePath, err)
		os.Exit(1)
	}
	color.Green("Parsed %d articles from %s", len(articles), *filePath)

	db, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		color.Red("Failed to connect to database: %v", err)
		os.Exit(1)
	}

	pkgLogger := log.New(os.Stdout, "[IMPORT] ", log.LstdFlags)
	graphStore, err := graph.NewStore(cfg.Graph.URI, cfg.Graph.Username, cfg.Graph.Password, pkgLogger)
	if err != nil {
		color.Red("Failed to initialize Neo4j driver: %v", err)
		os.Exit(1)
	}
	ctx := context.Background()
	defer graphStore.Close(ctx)

	if err := graphStore.Verify(ctx); err != nil {
		color.Red("Neo4j unreachable: %v", err)
		os.Exit(1)
	}

	var embedder embedding.EmbeddingProvider
	if !*skipEmbed {
		switch cfg.Ai.EmbeddingProvider {
		case "ollama":
			embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
		case "jina":
			embedder = jina.NewJinaProvider(cfg.Keys.Jina)
		default:
			embedder = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		}
	}

	uowFactory := unitofwork.NewRepositoryFactory(db)
	uow := uowFactory.NewUnitOfWork(ctx)

	for _, a := range articles {
		color.Yellow("\nArticle %s: %s", a.Number, a.Title)

		// 1. Relational store
		err := uow.ArticleRepository().Upsert(ctx, &entity.Article{
			Number:  a.Number,
			Title:   a.Title,
			Chapter: a.Chapter,
			Content: a.Content,
		})
		if err != nil {
			color.Red("  DB upsert failed: %v", err)
			continue
		}

		// 2. Knowledge graph
		err = graphStore.UpsertArticle(ctx, graph.Article{
			Number:     a.Number,
			Title:      a.Title,
			Chapter:    a.Chapter,
			Content:    a.Content,
			References: a.References,
		})
		if err != nil {
			color.Red("  Graph upsert failed: %v", err)
			continue
		}

		// 3. Embeddings
		if *skipEmbed {
			color.Green("  Loaded (embeddings skipped)")
			continue
		}
		if err := embedArticle(ctx, uow, embedder, a); err != nil {
			color.Red("  Embedding failed: %v", err)
			continue
		}
		color.Green("  Loaded and embedded")
	}

	color.Cyan("\n✅ Import finished")
}

func embedArticle(ctx context.Context, uow unitofwork.UnitOfWork, embedder embedding.EmbeddingProvider, a importArticle) error {
	content := "Article " + a.Number + ": " + a.Title + "\nChapter: " + a.Chapter + "\n\n" + a.Content
	chunks := utils.SplitText(content, 1500, 200)

	var embeddings []*entity.ArticleEmbedding
	for i, chunk := range chunks {
		res, err := embedder.Generate(chunk, "RETRIEVAL_DOCUMENT")
		if err != nil {
			return err
		}
		embeddings = append(embeddings, &entity.ArticleEmbedding{
			Id:             uuid.New(),
			ArticleNumber:  a.Number,
			Document:       chunk,
			EmbeddingValue: res.Embedding.Values,
			ChunkIndex:     i,
			CreatedAt:      time.Now(),
		})
	}

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	if err := uow.ArticleEmbeddingRepository().DeleteByArticleNumber(ctx, a.Number); err != nil {
		uow.Rollback()
		return err
	}
	if err := uow.ArticleEmbeddingRepository().CreateBulk(ctx, embeddings); err != nil {
		uow.Rollback()
		return err
	}
	return uow.Commit()
}
