package regulation

import (
	"context"
	"errors"
	"io"
	"log"
	"reflect"
	"testing"

	"ai-compliance-be/pkg/embedding"
	"ai-compliance-be/pkg/graph"
)

type fakeVectorSearcher struct {
	numbers []string
	err     error
}

func (f *fakeVectorSearcher) SearchArticleNumbers(_ context.Context, _ []float32, _ int) ([]string, error) {
	return f.numbers, f.err
}

type fakeGraphSearcher struct {
	keywordHits []string
	keywordErr  error
	articles    map[string]*graph.Article
	related     map[string][]string
	relatedErr  error
}

func (f *fakeGraphSearcher) SearchByKeywords(_ context.Context, _ []string, _ int) ([]string, error) {
	return f.keywordHits, f.keywordErr
}

func (f *fakeGraphSearcher) GetArticle(_ context.Context, number string) (*graph.Article, error) {
	return f.articles[number], nil
}

func (f *fakeGraphSearcher) RelatedArticles(_ context.Context, number string) ([]string, error) {
	if f.relatedErr != nil {
		return nil, f.relatedErr
	}
	return f.related[number], nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Generate(_ string, _ string) (*embedding.EmbeddingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &embedding.EmbeddingResponse{
		Embedding: embedding.EmbeddingResponseEmbedding{Values: []float32{0.1, 0.2}},
	}, nil
}

func articleFixtures(numbers ...string) map[string]*graph.Article {
	articles := make(map[string]*graph.Article, len(numbers))
	for _, n := range numbers {
		articles[n] = &graph.Article{Number: n, Title: "Article " + n, Content: "body " + n}
	}
	return articles
}

func articleNumbers(articles []graph.Article) []string {
	var numbers []string
	for _, a := range articles {
		numbers = append(numbers, a.Number)
	}
	return numbers
}

func TestRetrieveUnionsVectorAndKeywordHits(t *testing.T) {
	r := NewRetriever(
		&fakeVectorSearcher{numbers: []string{"10", "6"}},
		&fakeGraphSearcher{
			keywordHits: []string{"6", "14"},
			articles:    articleFixtures("6", "10", "14"),
		},
		&fakeEmbedder{},
		log.New(io.Discard, "", 0),
	)

	articles, err := r.Retrieve(context.Background(), "human oversight requirements", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	got := articleNumbers(articles)
	want := []string{"6", "10", "14"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Retrieve() articles = %v, want %v", got, want)
	}
}

func TestRetrieveExpandsReferences(t *testing.T) {
	r := NewRetriever(
		&fakeVectorSearcher{numbers: []string{"6"}},
		&fakeGraphSearcher{
			articles: articleFixtures("6", "9", "72"),
			related:  map[string][]string{"6": {"9", "72"}},
		},
		&fakeEmbedder{},
		log.New(io.Discard, "", 0),
	)

	articles, err := r.Retrieve(context.Background(), "classification rules for high-risk systems", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	got := articleNumbers(articles)
	want := []string{"6", "9", "72"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Retrieve() articles = %v, want %v", got, want)
	}
}

func TestRetrieveReferenceExpansionIsBestEffort(t *testing.T) {
	r := NewRetriever(
		&fakeVectorSearcher{numbers: []string{"6"}},
		&fakeGraphSearcher{
			articles:   articleFixtures("6"),
			relatedErr: errors.New("graph unavailable"),
		},
		&fakeEmbedder{},
		log.New(io.Discard, "", 0),
	)

	articles, err := r.Retrieve(context.Background(), "classification rules", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	got := articleNumbers(articles)
	if !reflect.DeepEqual(got, []string{"6"}) {
		t.Errorf("Retrieve() articles = %v, want [6]", got)
	}
}

func TestRetrieveFallsBackToKeywordsWhenEmbeddingFails(t *testing.T) {
	r := NewRetriever(
		&fakeVectorSearcher{numbers: []string{"10"}},
		&fakeGraphSearcher{
			keywordHits: []string{"14"},
			articles:    articleFixtures("14"),
		},
		&fakeEmbedder{err: errors.New("embedding provider down")},
		log.New(io.Discard, "", 0),
	)

	articles, err := r.Retrieve(context.Background(), "transparency obligations", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	got := articleNumbers(articles)
	if !reflect.DeepEqual(got, []string{"14"}) {
		t.Errorf("Retrieve() articles = %v, want [14]", got)
	}
}

func TestRetrieveNoHits(t *testing.T) {
	r := NewRetriever(
		&fakeVectorSearcher{},
		&fakeGraphSearcher{},
		&fakeEmbedder{},
		log.New(io.Discard, "", 0),
	)

	articles, err := r.Retrieve(context.Background(), "unrelated question", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	if articles != nil {
		t.Errorf("Retrieve() = %v, want nil for no hits", articles)
	}
}

func TestRetrieveSkipsArticlesMissingFromGraph(t *testing.T) {
	r := NewRetriever(
		&fakeVectorSearcher{numbers: []string{"6", "99"}},
		&fakeGraphSearcher{articles: articleFixtures("6")},
		&fakeEmbedder{},
		log.New(io.Discard, "", 0),
	)

	articles, err := r.Retrieve(context.Background(), "risk management", 3)
	if err != nil {
		t.Fatalf("Retrieve() error = %v", err)
	}
	got := articleNumbers(articles)
	if !reflect.DeepEqual(got, []string{"6"}) {
		t.Errorf("Retrieve() articles = %v, want [6]", got)
	}
}

func TestExtractKeywords(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "stopwords and short tokens dropped",
			query: "What are the requirements for a high-risk AI system?",
			want:  []string{"requirements", "high", "risk", "system"},
		},
		{
			name:  "lowercased and deduplicated",
			query: "Oversight OVERSIGHT oversight measures",
			want:  []string{"oversight", "measures"},
		},
		{
			name:  "punctuation splits tokens",
			query: "transparency/record-keeping obligations",
			want:  []string{"transparency", "record", "keeping", "obligations"},
		},
		{
			name:  "numbers survive",
			query: "what does article 14 say",
			want:  []string{"article", "say"},
		},
		{
			name:  "only stopwords",
			query: "what is it for",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractKeywords(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractKeywords(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestSortArticleNumbers(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{
			name: "numeric order not lexical",
			in:   []string{"10", "2", "1"},
			want: []string{"1", "2", "10"},
		},
		{
			name: "numeric before non-numeric",
			in:   []string{"annex-iii", "14", "recital-1", "6"},
			want: []string{"6", "14", "annex-iii", "recital-1"},
		},
		{
			name: "all non-numeric fall back to lexical",
			in:   []string{"b", "a", "c"},
			want: []string{"a", "b", "c"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			numbers := append([]string(nil), tt.in...)
			sortArticleNumbers(numbers)
			if !reflect.DeepEqual(numbers, tt.want) {
				t.Errorf("sortArticleNumbers(%v) = %v, want %v", tt.in, numbers, tt.want)
			}
		})
	}
}
