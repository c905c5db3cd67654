// Package tracker implements the document completion logic: merging
// extracted field updates into session state, recomputing completion, and
// selecting the next field to ask for.
package tracker

import (
	"log"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

// Update is a single proposed field change.
type Update struct {
	Path  string
	Value any
}

// Rejection reasons for updates that were not merged.
const (
	ReasonUnknownField = "unknown_field"
	ReasonInvalidValue = "invalid_value"
)

// RejectedUpdate reports an update that was skipped during a batch merge.
type RejectedUpdate struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// SectionCompletion is the per-section part of the completion summary.
type SectionCompletion struct {
	Name           string `json:"name"`
	Label          string `json:"label"`
	RequiredFilled int    `json:"required_filled"`
	RequiredTotal  int    `json:"required_total"`
}

// CompletionSummary is derived from the session state after every merge.
type CompletionSummary struct {
	Sections       []SectionCompletion `json:"sections"`
	Percentage     float64             `json:"percentage"`
	Outstanding    []string            `json:"outstanding"` // required paths still unset, schema order
	ReadyForExport bool                `json:"ready_for_export"`
}

// Result is the outcome of one ApplyUpdates batch.
type Result struct {
	Summary  *CompletionSummary
	Rejected []RejectedUpdate
}

// Tracker merges updates against the active schema. The merge itself is
// synchronous; concurrent access to a session is serialized by the state
// store, not here.
type Tracker struct {
	registry *schema.Registry
	logger   *log.Logger
}

// New creates a tracker bound to the schema registry.
func New(registry *schema.Registry, logger *log.Logger) *Tracker {
	return &Tracker{registry: registry, logger: logger}
}

// ApplyUpdates merges a batch of updates into the session. Merge rule: unset
// fields are set, set fields are overwritten (newest statement wins); list
// and table fields are replaced wholesale, never appended. Updates with an
// unknown path or a value whose shape does not match the field type are
// skipped and reported; the rest of the batch still applies.
func (t *Tracker) ApplyUpdates(session *docstate.Session, updates []Update) (*Result, error) {
	s, err := t.registry.Get(session.DocumentType)
	if err != nil {
		return nil, err
	}

	var rejected []RejectedUpdate
	for _, u := range updates {
		spec, ok := s.Field(u.Path)
		if !ok {
			t.logger.Printf("[TRACKER] Dropping unknown field path %q for %s", u.Path, session.DocumentType)
			rejected = append(rejected, RejectedUpdate{Path: u.Path, Reason: ReasonUnknownField})
			continue
		}

		value, err := coerceValue(spec, u.Value)
		if err != nil {
			t.logger.Printf("[TRACKER] Rejecting value for %q: %v", u.Path, err)
			rejected = append(rejected, RejectedUpdate{Path: u.Path, Reason: ReasonInvalidValue, Detail: err.Error()})
			continue
		}

		session.Values[u.Path] = value
	}

	return &Result{
		Summary:  t.summarize(s, session.Values),
		Rejected: rejected,
	}, nil
}

// Summary recomputes the completion summary without merging anything.
func (t *Tracker) Summary(session *docstate.Session) (*CompletionSummary, error) {
	s, err := t.registry.Get(session.DocumentType)
	if err != nil {
		return nil, err
	}
	return t.summarize(s, session.Values), nil
}

// NextField returns the first required field still unset, scanning sections
// and fields in schema order, or nil when all required fields are filled.
func (t *Tracker) NextField(session *docstate.Session) (*schema.FieldSpec, error) {
	s, err := t.registry.Get(session.DocumentType)
	if err != nil {
		return nil, err
	}
	for _, sec := range s.Sections {
		for i := range sec.Fields {
			f := &sec.Fields[i]
			if f.Required && !isSet(session.Values[f.Path]) {
				return f, nil
			}
		}
	}
	return nil, nil
}

// summarize recomputes completion from scratch. Field counts are small, and
// full recomputation keeps the summary from drifting away from the values.
func (t *Tracker) summarize(s *schema.DocumentSchema, values docstate.DocumentValue) *CompletionSummary {
	summary := &CompletionSummary{}
	var filled, total int

	for _, sec := range s.Sections {
		sc := SectionCompletion{Name: sec.Name, Label: sec.Label}
		for _, f := range sec.Fields {
			if !f.Required {
				continue
			}
			sc.RequiredTotal++
			total++
			if isSet(values[f.Path]) {
				sc.RequiredFilled++
				filled++
			} else {
				summary.Outstanding = append(summary.Outstanding, f.Path)
			}
		}
		summary.Sections = append(summary.Sections, sc)
	}

	if total > 0 {
		summary.Percentage = float64(filled) / float64(total) * 100
	}
	summary.ReadyForExport = total > 0 && filled == total
	return summary
}

func isSet(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	case []map[string]string:
		return len(t) > 0
	default:
		return true
	}
}
