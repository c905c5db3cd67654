// Package extraction wraps the language-model call that turns free text
// into an intent plus structured field proposals.
package extraction

import (
	"context"

	"ai-compliance-be/pkg/llm"
)

// Intent is the closed set of detected user intentions.
type Intent string

const (
	IntentProvideInfo   Intent = "PROVIDE_INFO"
	IntentAskQuestion   Intent = "ASK_QUESTION"
	IntentRequestExport Intent = "REQUEST_EXPORT"
	IntentRequestStatus Intent = "REQUEST_STATUS"
	IntentUnknown       Intent = "UNKNOWN"
)

// FieldProposal is a candidate field update with the model's confidence.
type FieldProposal struct {
	Path       string  `json:"path"`
	Value      any     `json:"value"`
	Confidence float64 `json:"confidence"`
}

// Result is the structured outcome of analyzing one user message.
type Result struct {
	Intent    Intent          `json:"intent"`
	Proposals []FieldProposal `json:"proposals"`
}

// Snapshot is the read-only view of session state handed to the adapter.
type Snapshot struct {
	SessionID    string
	DocumentType string
	Filled       map[string]any // current values keyed by path
	Outstanding  []string       // required paths still unset, schema order
	History      []llm.Message
}

// Extractor is the adapter boundary. Implementations may be rule-based or
// LLM-backed; the caller only relies on this contract.
type Extractor interface {
	Extract(ctx context.Context, snapshot *Snapshot, userText string) (*Result, error)
}
