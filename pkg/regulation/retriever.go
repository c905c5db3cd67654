package regulation

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"ai-compliance-be/pkg/embedding"
	"ai-compliance-be/pkg/graph"
)

// VectorSearcher finds article numbers by embedding similarity.
// Implemented by the gorm article embedding repository.
type VectorSearcher interface {
	SearchArticleNumbers(ctx context.Context, vector []float32, topK int) ([]string, error)
}

// GraphSearcher is the slice of the knowledge graph the retriever needs.
// Implemented by graph.Store.
type GraphSearcher interface {
	SearchByKeywords(ctx context.Context, keywords []string, limit int) ([]string, error)
	GetArticle(ctx context.Context, number string) (*graph.Article, error)
	RelatedArticles(ctx context.Context, number string) ([]string, error)
}

// Retriever combines semantic search over article embeddings with keyword
// lookups in the knowledge graph. Results from both channels are unioned
// before the full article bodies are fetched, so a hit on either side is
// enough to surface an article.
type Retriever struct {
	vectors  VectorSearcher
	graph    GraphSearcher
	embedder embedding.EmbeddingProvider
	logger   *log.Logger
}

func NewRetriever(vectors VectorSearcher, graphStore GraphSearcher, embedder embedding.EmbeddingProvider, logger *log.Logger) *Retriever {
	return &Retriever{
		vectors:  vectors,
		graph:    graphStore,
		embedder: embedder,
		logger:   logger,
	}
}

// Retrieve returns the full articles relevant to the query, ordered by
// article number. Both retrieval channels are best-effort: a failure on
// one side degrades to the other instead of failing the whole lookup.
func (r *Retriever) Retrieve(ctx context.Context, query string, topK int) ([]graph.Article, error) {
	if topK <= 0 {
		topK = 3
	}

	seen := map[string]bool{}

	resp, err := r.embedder.Generate(query, "retrieval_query")
	if err != nil {
		r.logger.Printf("embedding failed for regulation query, falling back to keyword search: %v", err)
	} else {
		numbers, err := r.vectors.SearchArticleNumbers(ctx, resp.Embedding.Values, topK)
		if err != nil {
			r.logger.Printf("vector search failed: %v", err)
		} else {
			for _, n := range numbers {
				seen[n] = true
			}
		}
	}

	keywords := ExtractKeywords(query)
	if len(keywords) > 0 {
		numbers, err := r.graph.SearchByKeywords(ctx, keywords, topK)
		if err != nil {
			r.logger.Printf("graph keyword search failed: %v", err)
		} else {
			for _, n := range numbers {
				seen[n] = true
			}
		}
	}

	if len(seen) == 0 {
		return nil, nil
	}

	// Expand the direct hits one hop along REFERENCES edges, so an answer
	// about article 6 also carries the articles 6 points the reader to.
	hits := make([]string, 0, len(seen))
	for n := range seen {
		hits = append(hits, n)
	}
	for _, n := range hits {
		related, err := r.graph.RelatedArticles(ctx, n)
		if err != nil {
			r.logger.Printf("reference expansion failed for article %s: %v", n, err)
			continue
		}
		for _, ref := range related {
			seen[ref] = true
		}
	}

	numbers := make([]string, 0, len(seen))
	for n := range seen {
		numbers = append(numbers, n)
	}
	sortArticleNumbers(numbers)

	var articles []graph.Article
	for _, n := range numbers {
		article, err := r.graph.GetArticle(ctx, n)
		if err != nil {
			return nil, fmt.Errorf("failed to load article %s: %w", n, err)
		}
		if article == nil {
			r.logger.Printf("article %s referenced by search but missing from graph", n)
			continue
		}
		articles = append(articles, *article)
	}
	return articles, nil
}

// sortArticleNumbers orders numerically where possible ("2" before "10"),
// falling back to lexical order for non-numeric identifiers.
func sortArticleNumbers(numbers []string) {
	sort.Slice(numbers, func(i, j int) bool {
		a, errA := strconv.Atoi(numbers[i])
		b, errB := strconv.Atoi(numbers[j])
		if errA == nil && errB == nil {
			return a < b
		}
		if errA == nil {
			return true
		}
		if errB == nil {
			return false
		}
		return numbers[i] < numbers[j]
	})
}

var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "can": true, "do": true, "does": true, "for": true,
	"from": true, "how": true, "i": true, "in": true, "is": true, "it": true,
	"my": true, "of": true, "on": true, "or": true, "our": true, "should": true,
	"that": true, "the": true, "this": true, "to": true, "we": true, "what": true,
	"when": true, "where": true, "which": true, "who": true, "why": true,
	"will": true, "with": true, "you": true, "your": true,
}

// ExtractKeywords strips stopwords and short tokens from a free-form question.
func ExtractKeywords(query string) []string {
	fields := strings.FieldsFunc(strings.ToLower(query), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	var keywords []string
	dedup := map[string]bool{}
	for _, f := range fields {
		if len(f) < 3 || stopwords[f] || dedup[f] {
			continue
		}
		dedup[f] = true
		keywords = append(keywords, f)
	}
	return keywords
}
