package tracker

import (
	"io"
	"log"
	"testing"
	"time"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

func newTestTracker() *Tracker {
	return New(schema.NewRegistry(), log.New(io.Discard, "", 0))
}

func newTestSession(docType string) *docstate.Session {
	now := time.Now()
	return &docstate.Session{
		ID:           "test-session",
		DocumentType: docType,
		Values:       make(docstate.DocumentValue),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestApplyUpdatesMergeRules(t *testing.T) {
	trk := newTestTracker()

	tests := []struct {
		name      string
		updates   []Update
		wantValue any
		path      string
	}{
		{
			name:      "set unset string field",
			updates:   []Update{{Path: "model_details.name", Value: "bert-base"}},
			path:      "model_details.name",
			wantValue: "bert-base",
		},
		{
			name: "newest statement wins",
			updates: []Update{
				{Path: "model_details.name", Value: "bert-base"},
				{Path: "model_details.name", Value: "roberta-large"},
			},
			path:      "model_details.name",
			wantValue: "roberta-large",
		},
		{
			name:      "lone statement becomes one-item list",
			updates:   []Update{{Path: "training_data.datasets", Value: "ImageNet"}},
			path:      "training_data.datasets",
			wantValue: []string{"ImageNet"},
		},
		{
			name:      "enum normalized to lower case",
			updates:   []Update{{Path: "risk_assessment.risk_level", Value: "High"}},
			path:      "risk_assessment.risk_level",
			wantValue: "high",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newTestSession(schema.DocTypeEUAIActModelCard)
			res, err := trk.ApplyUpdates(session, tt.updates)
			if err != nil {
				t.Fatalf("ApplyUpdates() error = %v", err)
			}
			if len(res.Rejected) != 0 {
				t.Fatalf("Rejected = %v, want none", res.Rejected)
			}
			got := session.Values[tt.path]
			switch want := tt.wantValue.(type) {
			case string:
				if got != want {
					t.Errorf("Values[%q] = %v, want %v", tt.path, got, want)
				}
			case []string:
				gotList, ok := got.([]string)
				if !ok || len(gotList) != len(want) {
					t.Fatalf("Values[%q] = %v, want %v", tt.path, got, want)
				}
				for i := range want {
					if gotList[i] != want[i] {
						t.Errorf("Values[%q][%d] = %q, want %q", tt.path, i, gotList[i], want[i])
					}
				}
			}
		})
	}
}

func TestApplyUpdatesListsAreReplacedNotAppended(t *testing.T) {
	trk := newTestTracker()
	session := newTestSession(schema.DocTypeEUAIActModelCard)

	if _, err := trk.ApplyUpdates(session, []Update{
		{Path: "training_data.datasets", Value: []string{"ImageNet", "COCO"}},
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := trk.ApplyUpdates(session, []Update{
		{Path: "training_data.datasets", Value: []string{"OpenWebText"}},
	}); err != nil {
		t.Fatal(err)
	}

	got, ok := session.Values["training_data.datasets"].([]string)
	if !ok || len(got) != 1 || got[0] != "OpenWebText" {
		t.Errorf("datasets = %v, want [OpenWebText]", got)
	}
}

func TestApplyUpdatesPartialBatch(t *testing.T) {
	trk := newTestTracker()
	session := newTestSession(schema.DocTypeEUAIActModelCard)

	res, err := trk.ApplyUpdates(session, []Update{
		{Path: "model_details.name", Value: "bert-base"},
		{Path: "model_details.favorite_color", Value: "blue"},       // not in any schema
		{Path: "risk_assessment.risk_level", Value: "catastrophic"}, // not an allowed option
		{Path: "model_details.version", Value: "1.2"},
	})
	if err != nil {
		t.Fatalf("ApplyUpdates() error = %v", err)
	}

	if len(res.Rejected) != 2 {
		t.Fatalf("len(Rejected) = %d, want 2 (%v)", len(res.Rejected), res.Rejected)
	}
	byPath := map[string]string{}
	for _, r := range res.Rejected {
		byPath[r.Path] = r.Reason
	}
	if byPath["model_details.favorite_color"] != ReasonUnknownField {
		t.Errorf("favorite_color reason = %q, want %q", byPath["model_details.favorite_color"], ReasonUnknownField)
	}
	if byPath["risk_assessment.risk_level"] != ReasonInvalidValue {
		t.Errorf("risk_level reason = %q, want %q", byPath["risk_assessment.risk_level"], ReasonInvalidValue)
	}

	// The valid part of the batch still applied.
	if session.Values["model_details.name"] != "bert-base" {
		t.Errorf("name = %v, want bert-base", session.Values["model_details.name"])
	}
	if session.Values["model_details.version"] != "1.2" {
		t.Errorf("version = %v, want 1.2", session.Values["model_details.version"])
	}
	if _, set := session.Values["risk_assessment.risk_level"]; set {
		t.Error("rejected value must not be merged")
	}
}

func TestApplyUpdatesIdempotent(t *testing.T) {
	trk := newTestTracker()
	session := newTestSession(schema.DocTypeGeneralModelCard)

	updates := []Update{
		{Path: "model_details.name", Value: "bert-base"},
		{Path: "limitations.known_limitations", Value: []string{"english only"}},
	}

	first, err := trk.ApplyUpdates(session, updates)
	if err != nil {
		t.Fatal(err)
	}
	second, err := trk.ApplyUpdates(session, updates)
	if err != nil {
		t.Fatal(err)
	}

	if first.Summary.Percentage != second.Summary.Percentage {
		t.Errorf("percentage changed on replay: %v -> %v", first.Summary.Percentage, second.Summary.Percentage)
	}
	if len(first.Summary.Outstanding) != len(second.Summary.Outstanding) {
		t.Errorf("outstanding changed on replay: %v -> %v", first.Summary.Outstanding, second.Summary.Outstanding)
	}
}

func TestApplyUpdatesOrderIndependentForDisjointFields(t *testing.T) {
	trk := newTestTracker()

	updates := []Update{
		{Path: "model_details.name", Value: "bert"},
		{Path: "model_details.version", Value: "2.0"},
		{Path: "training_data.datasets", Value: []string{"ImageNet"}},
	}
	reversed := []Update{updates[2], updates[1], updates[0]}

	a := newTestSession(schema.DocTypeGeneralModelCard)
	b := newTestSession(schema.DocTypeGeneralModelCard)
	if _, err := trk.ApplyUpdates(a, updates); err != nil {
		t.Fatal(err)
	}
	if _, err := trk.ApplyUpdates(b, reversed); err != nil {
		t.Fatal(err)
	}

	for _, u := range updates {
		av, bv := a.Values[u.Path], b.Values[u.Path]
		switch at := av.(type) {
		case string:
			if at != bv {
				t.Errorf("Values[%q] differ by order: %v vs %v", u.Path, av, bv)
			}
		case []string:
			bt, ok := bv.([]string)
			if !ok || len(at) != len(bt) || at[0] != bt[0] {
				t.Errorf("Values[%q] differ by order: %v vs %v", u.Path, av, bv)
			}
		}
	}
}

func TestApplyUpdatesUnknownDocumentType(t *testing.T) {
	trk := newTestTracker()
	session := newTestSession("shopping_list")

	if _, err := trk.ApplyUpdates(session, nil); err == nil {
		t.Fatal("expected error for unknown document type")
	}
}

func TestSummaryCompletion(t *testing.T) {
	trk := newTestTracker()
	session := newTestSession(schema.DocTypeGeneralModelCard)

	summary, err := trk.Summary(session)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Percentage != 0 {
		t.Errorf("empty session percentage = %v, want 0", summary.Percentage)
	}
	if summary.ReadyForExport {
		t.Error("empty session must not be ready for export")
	}

	s, _ := schema.NewRegistry().Get(schema.DocTypeGeneralModelCard)
	required := s.RequiredPaths()
	if len(summary.Outstanding) != len(required) {
		t.Fatalf("outstanding = %d paths, want %d", len(summary.Outstanding), len(required))
	}
	// Outstanding paths come back in schema order.
	for i, p := range required {
		if summary.Outstanding[i] != p {
			t.Errorf("outstanding[%d] = %q, want %q", i, summary.Outstanding[i], p)
		}
	}

	// Fill every required field and check the gate flips.
	for _, path := range required {
		f, _ := s.Field(path)
		var v any
		switch f.Type {
		case schema.TypeString:
			v = "filled"
		case schema.TypeStringList:
			v = []string{"filled"}
		case schema.TypeTable:
			v = []map[string]string{{"metric": "accuracy", "value": "0.91"}}
		case schema.TypeEnum:
			v = f.Options[0]
		}
		if _, err := trk.ApplyUpdates(session, []Update{{Path: path, Value: v}}); err != nil {
			t.Fatal(err)
		}
	}

	summary, err = trk.Summary(session)
	if err != nil {
		t.Fatal(err)
	}
	if summary.Percentage != 100 {
		t.Errorf("percentage = %v, want 100", summary.Percentage)
	}
	if !summary.ReadyForExport {
		t.Error("session with all required fields filled must be ready for export")
	}
	if len(summary.Outstanding) != 0 {
		t.Errorf("outstanding = %v, want empty", summary.Outstanding)
	}
}

func TestNextFieldWalksSchemaOrder(t *testing.T) {
	trk := newTestTracker()
	session := newTestSession(schema.DocTypeGeneralModelCard)

	next, err := trk.NextField(session)
	if err != nil {
		t.Fatal(err)
	}
	if next == nil || next.Path != "model_details.name" {
		t.Fatalf("first next field = %v, want model_details.name", next)
	}

	if _, err := trk.ApplyUpdates(session, []Update{{Path: "model_details.name", Value: "bert"}}); err != nil {
		t.Fatal(err)
	}

	next, err = trk.NextField(session)
	if err != nil {
		t.Fatal(err)
	}
	if next == nil || next.Path != "model_details.version" {
		t.Fatalf("next field after name = %v, want model_details.version", next)
	}
}

func TestCoerceValueTableShapes(t *testing.T) {
	s, _ := schema.NewRegistry().Get(schema.DocTypeEUAIActModelCard)
	spec, _ := s.Field("performance_metrics.metrics")

	// JSON-decoded rows arrive as []any of map[string]any.
	rows := []any{
		map[string]any{"metric": "accuracy", "value": "0.92"},
		map[string]any{"metric": "f1", "value": "0.88"},
	}
	got, err := coerceValue(spec, rows)
	if err != nil {
		t.Fatalf("coerceValue() error = %v", err)
	}
	table, ok := got.([]map[string]string)
	if !ok || len(table) != 2 || table[0]["metric"] != "accuracy" {
		t.Errorf("coerced table = %v", got)
	}

	if _, err := coerceValue(spec, "just a sentence"); err == nil {
		t.Error("scalar for a table field must be rejected")
	}
}
