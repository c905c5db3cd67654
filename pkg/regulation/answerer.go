package regulation

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-compliance-be/pkg/graph"
	"ai-compliance-be/pkg/llm"
)

// Answer is a grounded response to a regulation question.
type Answer struct {
	Text string
	// Article numbers the answer was grounded on, in the order retrieved.
	Citations []string
}

// Answerer generates answers about the EU AI Act grounded on retrieved articles.
type Answerer struct {
	retriever   *Retriever
	llmProvider llm.LLMProvider
	logger      *log.Logger
}

func NewAnswerer(retriever *Retriever, llmProvider llm.LLMProvider, logger *log.Logger) *Answerer {
	return &Answerer{
		retriever:   retriever,
		llmProvider: llmProvider,
		logger:      logger,
	}
}

// Ask retrieves relevant articles and asks the model to answer strictly
// from them. With no retrieved context the model is not called at all.
func (a *Answerer) Ask(ctx context.Context, question string, topK int) (*Answer, error) {
	articles, err := a.retriever.Retrieve(ctx, question, topK)
	if err != nil {
		return nil, err
	}

	if len(articles) == 0 {
		return &Answer{
			Text: "I could not find a relevant provision in the EU AI Act for that question. Try rephrasing it, or ask about a specific obligation such as risk management, transparency, or human oversight.",
		}, nil
	}

	prompt := buildGroundedPrompt(question, articles)

	response, err := a.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.2))
	if err != nil {
		return nil, fmt.Errorf("failed to generate grounded answer: %w", err)
	}

	answer := &Answer{Text: strings.TrimSpace(response)}
	for _, article := range articles {
		answer.Citations = append(answer.Citations, article.Number)
	}
	return answer, nil
}

func buildGroundedPrompt(question string, articles []graph.Article) string {
	var sb strings.Builder

	sb.WriteString("<system>\n")
	sb.WriteString("You are a compliance assistant answering questions about the EU AI Act.\n")
	sb.WriteString("Answer ONLY from the provided articles. If the articles do not cover the question, say so.\n")
	sb.WriteString("Cite article numbers inline, e.g. (Article 9).\n")
	sb.WriteString("</system>\n\n")

	sb.WriteString("<articles>\n")
	for _, article := range articles {
		fmt.Fprintf(&sb, "Article %s: %s\n", article.Number, article.Title)
		if article.Chapter != "" {
			fmt.Fprintf(&sb, "Chapter: %s\n", article.Chapter)
		}
		sb.WriteString(article.Content)
		sb.WriteString("\n---\n")
	}
	sb.WriteString("</articles>\n\n")

	sb.WriteString("<question>\n")
	sb.WriteString(question)
	sb.WriteString("\n</question>\n")

	return sb.String()
}
