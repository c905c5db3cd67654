package graph

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// Article is a regulation article node as stored in the graph.
type Article struct {
	Number  string
	Title   string
	Chapter string
	Content string
	// Numbers of articles this article references in its text.
	References []string
}

// Store wraps a Neo4j driver for the regulation knowledge graph.
// Articles are nodes, cross-references between articles are REFERENCES edges.
type Store struct {
	driver neo4j.DriverWithContext
	logger *log.Logger
}

func NewStore(uri, username, password string, logger *log.Logger) (*Store, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(username, password, ""))
	if err != nil {
		return nil, fmt.Errorf("failed to create neo4j driver: %w", err)
	}
	return &Store{driver: driver, logger: logger}, nil
}

// Verify checks connectivity. Called once at startup.
func (s *Store) Verify(ctx context.Context) error {
	return s.driver.VerifyConnectivity(ctx)
}

func (s *Store) Close(ctx context.Context) error {
	return s.driver.Close(ctx)
}

// UpsertArticle writes an article node and its REFERENCES edges.
// Existing nodes with the same number are updated in place.
func (s *Store) UpsertArticle(ctx context.Context, article Article) error {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MERGE (a:Article {number: $number})
			SET a.title = $title, a.chapter = $chapter, a.content = $content
		`, map[string]any{
			"number":  article.Number,
			"title":   article.Title,
			"chapter": article.Chapter,
			"content": article.Content,
		})
		if err != nil {
			return nil, err
		}

		for _, ref := range article.References {
			_, err := tx.Run(ctx, `
				MATCH (a:Article {number: $from})
				MERGE (b:Article {number: $to})
				MERGE (a)-[:REFERENCES]->(b)
			`, map[string]any{"from": article.Number, "to": ref})
			if err != nil {
				return nil, err
			}
		}
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to upsert article %s: %w", article.Number, err)
	}
	return nil
}

// SearchByKeywords returns the numbers of articles whose title or content
// contains any of the given keywords (case-insensitive).
func (s *Store) SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]string, error) {
	if len(keywords) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	lowered := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			lowered = append(lowered, kw)
		}
	}
	if len(lowered) == 0 {
		return nil, nil
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (a:Article)
			WHERE any(kw IN $keywords WHERE toLower(a.title) CONTAINS kw OR toLower(a.content) CONTAINS kw)
			RETURN a.number AS number
			ORDER BY a.number
			LIMIT $limit
		`, map[string]any{"keywords": lowered, "limit": limit})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("keyword search failed: %w", err)
	}

	var numbers []string
	for _, rec := range records.([]*neo4j.Record) {
		if num, ok := rec.Get("number"); ok {
			if numStr, ok := num.(string); ok {
				numbers = append(numbers, numStr)
			}
		}
	}
	return numbers, nil
}

// GetArticle fetches the full article for a given number.
// Returns nil when the article is not in the graph.
func (s *Store) GetArticle(ctx context.Context, number string) (*Article, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	record, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (a:Article {number: $number})
			RETURN a.number AS number, a.title AS title, a.chapter AS chapter, a.content AS content
		`, map[string]any{"number": number})
		if err != nil {
			return nil, err
		}
		recs, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(recs) == 0 {
			return nil, nil
		}
		return recs[0], nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch article %s: %w", number, err)
	}
	if record == nil {
		return nil, nil
	}

	rec := record.(*neo4j.Record)
	article := &Article{}
	if v, ok := rec.Get("number"); ok {
		article.Number, _ = v.(string)
	}
	if v, ok := rec.Get("title"); ok {
		article.Title, _ = v.(string)
	}
	if v, ok := rec.Get("chapter"); ok {
		article.Chapter, _ = v.(string)
	}
	if v, ok := rec.Get("content"); ok {
		article.Content, _ = v.(string)
	}
	return article, nil
}

// RelatedArticles follows REFERENCES edges one hop out from the given article.
func (s *Store) RelatedArticles(ctx context.Context, number string) ([]string, error) {
	session := s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	records, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (:Article {number: $number})-[:REFERENCES]->(b:Article)
			RETURN b.number AS number
			ORDER BY b.number
		`, map[string]any{"number": number})
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch related articles for %s: %w", number, err)
	}

	var numbers []string
	for _, rec := range records.([]*neo4j.Record) {
		if num, ok := rec.Get("number"); ok {
			if numStr, ok := num.(string); ok {
				numbers = append(numbers, numStr)
			}
		}
	}
	return numbers, nil
}
