package extraction

import (
	"context"
	"fmt"
	"log"
	"strings"

	"ai-compliance-be/pkg/llm"
	"ai-compliance-be/pkg/schema"
)

// LLMExtractor resolves intent and field proposals with a single model call.
type LLMExtractor struct {
	llmProvider llm.LLMProvider
	registry    *schema.Registry
	logger      *log.Logger
}

// NewLLMExtractor creates an LLM-backed extractor.
func NewLLMExtractor(llmProvider llm.LLMProvider, registry *schema.Registry, logger *log.Logger) *LLMExtractor {
	return &LLMExtractor{
		llmProvider: llmProvider,
		registry:    registry,
		logger:      logger,
	}
}

// Extract analyzes the user message against the active schema. Proposed
// paths that do not exist in the schema are dropped and logged, never
// returned, so nothing downstream can violate the schema invariant.
func (e *LLMExtractor) Extract(ctx context.Context, snapshot *Snapshot, userText string) (*Result, error) {
	s, err := e.registry.Get(snapshot.DocumentType)
	if err != nil {
		return nil, err
	}

	prompt := e.buildPrompt(s, snapshot, userText)

	// Temperature 0 for deterministic classification output.
	response, err := e.llmProvider.Generate(ctx, prompt, llm.WithTemperature(0.0))
	if err != nil {
		e.logger.Printf("[EXTRACT] Model call failed, falling back to keyword classification: %v", err)
		return &Result{Intent: classifyByKeywords(userText)}, nil
	}

	result := parseResult(response, userText)

	kept := result.Proposals[:0]
	for _, p := range result.Proposals {
		if _, ok := s.Field(p.Path); !ok {
			e.logger.Printf("[EXTRACT] Dropping proposal for unknown path %q", p.Path)
			continue
		}
		if p.Confidence < 0 {
			p.Confidence = 0
		}
		if p.Confidence > 1 {
			p.Confidence = 1
		}
		kept = append(kept, p)
	}
	result.Proposals = kept

	e.logger.Printf("[EXTRACT] Intent=%s proposals=%d", result.Intent, len(result.Proposals))
	return result, nil
}

func (e *LLMExtractor) buildPrompt(s *schema.DocumentSchema, snapshot *Snapshot, userText string) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You analyze user messages in a compliance-documentation conversation.\n")
	prompt.WriteString("Your ONLY job is to classify the intent and extract document field values.\n")
	prompt.WriteString("You do NOT answer the user.\n")
	prompt.WriteString("</system>\n\n")

	prompt.WriteString("<document_state>\n")
	prompt.WriteString(fmt.Sprintf("DOCUMENT_TYPE: %s\n", s.Type))
	if len(snapshot.Filled) > 0 {
		prompt.WriteString("FILLED_FIELDS:\n")
		for _, sec := range s.Sections {
			for _, f := range sec.Fields {
				if v, ok := snapshot.Filled[f.Path]; ok {
					prompt.WriteString(fmt.Sprintf("  %s = %v\n", f.Path, v))
				}
			}
		}
	}
	if len(snapshot.Outstanding) > 0 {
		prompt.WriteString("MISSING_REQUIRED_FIELDS:\n")
		for _, path := range snapshot.Outstanding {
			if f, ok := s.Field(path); ok {
				prompt.WriteString(fmt.Sprintf("  %s (%s): %s\n", f.Path, f.Type, f.Label))
			}
		}
	}
	prompt.WriteString("</document_state>\n\n")

	if len(snapshot.History) > 0 {
		prompt.WriteString("<conversation_history>\n")
		// Last few turns are enough context for classification.
		start := len(snapshot.History) - 5
		if start < 0 {
			start = 0
		}
		for _, msg := range snapshot.History[start:] {
			prompt.WriteString(fmt.Sprintf("%s: %s\n", msg.Role, msg.Content))
		}
		prompt.WriteString("</conversation_history>\n\n")
	}

	prompt.WriteString("<user_message>\n")
	prompt.WriteString(userText)
	prompt.WriteString("\n</user_message>\n\n")

	prompt.WriteString("<instructions>\n")
	prompt.WriteString("Choose ONE intent:\n")
	prompt.WriteString("PROVIDE_INFO: the user states facts that belong in document fields\n")
	prompt.WriteString("ASK_QUESTION: the user asks about the process or the document\n")
	prompt.WriteString("REQUEST_EXPORT: the user wants the finished document generated or downloaded\n")
	prompt.WriteString("REQUEST_STATUS: the user asks how complete the document is\n")
	prompt.WriteString("UNKNOWN: none of the above\n\n")
	prompt.WriteString("For PROVIDE_INFO, extract field values using ONLY the field paths listed above.\n")
	prompt.WriteString("Respond with a single JSON object, nothing else:\n")
	prompt.WriteString(`{"intent": "...", "fields": [{"path": "...", "value": ..., "confidence": 0.0}]}`)
	prompt.WriteString("\nconfidence is 0.0-1.0: how certain you are the value belongs to that field.\n")
	prompt.WriteString("</instructions>\n")

	return prompt.String()
}
