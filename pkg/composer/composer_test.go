package composer

import (
	"strings"
	"testing"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/extraction"
	"ai-compliance-be/pkg/schema"
	"ai-compliance-be/pkg/tracker"
)

func testSchema(t *testing.T) *schema.DocumentSchema {
	t.Helper()
	s, err := schema.NewRegistry().Get(schema.DocTypeGeneralModelCard)
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func baseInput(t *testing.T) Input {
	return Input{
		Session: &docstate.Session{ID: "sess-1", DocumentType: schema.DocTypeGeneralModelCard},
		Schema:  testSchema(t),
		Summary: &tracker.CompletionSummary{},
	}
}

func TestComposeProvideInfoJoinsLabels(t *testing.T) {
	tests := []struct {
		name   string
		merged []string
		want   string
	}{
		{
			name:   "single field",
			merged: []string{"model_details.name"},
			want:   "Thanks, I recorded Model name.",
		},
		{
			name:   "two fields",
			merged: []string{"model_details.name", "model_details.version"},
			want:   "Thanks, I recorded Model name and Model version.",
		},
		{
			name:   "three fields use an oxford comma",
			merged: []string{"model_details.name", "model_details.version", "model_details.description"},
			want:   "Thanks, I recorded Model name, Model version, and Model description.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := baseInput(t)
			in.Intent = extraction.IntentProvideInfo
			in.Merged = tt.merged

			got := Compose(in)
			if !strings.HasPrefix(got, tt.want) {
				t.Errorf("Compose() = %q, want prefix %q", got, tt.want)
			}
		})
	}
}

func TestComposeProvideInfoReportsInvalidValues(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentProvideInfo
	in.Merged = []string{"model_details.name"}
	in.Rejected = []tracker.RejectedUpdate{
		{Path: "performance_metrics.metrics", Reason: tracker.ReasonInvalidValue, Detail: "expected table rows"},
		{Path: "model_details.favorite_color", Reason: tracker.ReasonUnknownField, Detail: "no such field"},
	}

	got := Compose(in)
	if !strings.Contains(got, "I couldn't use what you said for Metrics") {
		t.Errorf("missing invalid-value sentence in %q", got)
	}
	// Unknown-field rejections are dropped silently, not surfaced to the user.
	if strings.Contains(got, "favorite_color") {
		t.Errorf("unknown-field rejection leaked into %q", got)
	}
}

func TestComposeProvideInfoNothingFound(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentProvideInfo

	got := Compose(in)
	if !strings.Contains(got, "I didn't find document information in that message.") {
		t.Errorf("Compose() = %q", got)
	}
}

func TestComposeStatus(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentRequestStatus
	in.Summary = &tracker.CompletionSummary{
		Percentage: 40,
		Sections: []tracker.SectionCompletion{
			{Name: "model_details", Label: "Model Details", RequiredFilled: 2, RequiredTotal: 3},
			{Name: "appendix", Label: "Appendix", RequiredFilled: 0, RequiredTotal: 0},
		},
	}

	got := Compose(in)
	if !strings.Contains(got, "Your general model card is 40% complete.") {
		t.Errorf("missing headline in %q", got)
	}
	if !strings.Contains(got, "- Model Details: 2 of 3 required fields") {
		t.Errorf("missing section line in %q", got)
	}
	// Sections without required fields are skipped.
	if strings.Contains(got, "Appendix") {
		t.Errorf("optional-only section leaked into %q", got)
	}
}

func TestComposeExportGatedUntilComplete(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentRequestExport
	in.Summary = &tracker.CompletionSummary{
		Percentage:  75,
		Outstanding: []string{"training_data.datasets"},
	}

	got := Compose(in)
	if !strings.Contains(got, "can't be exported yet") {
		t.Errorf("missing export gate in %q", got)
	}
	if !strings.Contains(got, "- Training datasets") {
		t.Errorf("missing outstanding label in %q", got)
	}
}

func TestComposeExportReady(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentRequestExport
	in.Summary = &tracker.CompletionSummary{Percentage: 100, ReadyForExport: true}
	in.ExportHint = "GET /api/v1/documents/sess-1/export"

	got := Compose(in)
	if !strings.Contains(got, "ready for export") {
		t.Errorf("missing ready message in %q", got)
	}
	if !strings.Contains(got, "GET /api/v1/documents/sess-1/export") {
		t.Errorf("missing export hint in %q", got)
	}
}

func TestComposeLowConfidenceConfirmation(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentProvideInfo
	in.Merged = []string{"model_details.name"}
	in.LowConf = []extraction.FieldProposal{
		{Path: "model_details.version", Value: "2.0", Confidence: 0.4},
	}

	got := Compose(in)
	if !strings.Contains(got, "I wasn't fully sure about the following. Can you confirm?") {
		t.Errorf("missing confirmation block in %q", got)
	}
	if !strings.Contains(got, "- Model version: 2.0") {
		t.Errorf("missing held-back proposal in %q", got)
	}
}

func TestComposeAppendsNextQuestion(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentProvideInfo
	in.Merged = []string{"model_details.name"}
	f, _ := in.Schema.Field("model_details.version")
	in.NextField = f

	got := Compose(in)
	if !strings.HasSuffix(got, f.Prompt) {
		t.Errorf("Compose() = %q, want suffix %q", got, f.Prompt)
	}
}

func TestComposeGuidanceForUnknownIntent(t *testing.T) {
	in := baseInput(t)
	in.Intent = extraction.IntentUnknown

	got := Compose(in)
	if !strings.Contains(got, "We're working on your general model card.") {
		t.Errorf("Compose() = %q", got)
	}
}
