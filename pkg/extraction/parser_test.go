package extraction

import "testing"

func TestParseResultExtractsEmbeddedJSON(t *testing.T) {
	response := "Sure, here is the extraction:\n" +
		`{"intent":"PROVIDE_INFO","fields":[{"path":"model_details.name","value":"bert-base","confidence":0.95}]}` +
		"\nLet me know if you need more."

	got := parseResult(response, "the model is called bert-base")

	if got.Intent != IntentProvideInfo {
		t.Errorf("Intent = %q, want %q", got.Intent, IntentProvideInfo)
	}
	if len(got.Proposals) != 1 {
		t.Fatalf("len(Proposals) = %d, want 1", len(got.Proposals))
	}
	p := got.Proposals[0]
	if p.Path != "model_details.name" || p.Value != "bert-base" || p.Confidence != 0.95 {
		t.Errorf("proposal = %+v", p)
	}
}

func TestParseResultSkipsIncompleteProposals(t *testing.T) {
	response := `{"intent":"PROVIDE_INFO","fields":[` +
		`{"path":"","value":"orphan","confidence":0.9},` +
		`{"path":"model_details.name","value":null,"confidence":0.9},` +
		`{"path":"model_details.version","value":"2.0","confidence":0.8}]}`

	got := parseResult(response, "")

	if len(got.Proposals) != 1 {
		t.Fatalf("len(Proposals) = %d, want 1 (%+v)", len(got.Proposals), got.Proposals)
	}
	if got.Proposals[0].Path != "model_details.version" {
		t.Errorf("kept proposal = %+v", got.Proposals[0])
	}
}

func TestParseResultProposalsForceProvideInfo(t *testing.T) {
	response := `{"intent":"SOMETHING_ELSE","fields":[{"path":"model_details.name","value":"bert","confidence":0.9}]}`

	got := parseResult(response, "")

	if got.Intent != IntentProvideInfo {
		t.Errorf("Intent = %q, want %q", got.Intent, IntentProvideInfo)
	}
}

func TestParseResultKeywordFallback(t *testing.T) {
	tests := []struct {
		name     string
		response string
		userText string
		want     Intent
	}{
		{
			name:     "no json at all",
			response: "I could not produce structured output.",
			userText: "please export my document",
			want:     IntentRequestExport,
		},
		{
			name:     "malformed json",
			response: `{"intent": "PROVIDE_INFO", "fields": [`,
			userText: "how complete is my model card",
			want:     IntentRequestStatus,
		},
		{
			name:     "question mark",
			response: "plain prose",
			userText: "what does the risk level mean?",
			want:     IntentAskQuestion,
		},
		{
			name:     "nothing recognizable",
			response: "plain prose",
			userText: "hmm",
			want:     IntentUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseResult(tt.response, tt.userText)
			if got.Intent != tt.want {
				t.Errorf("Intent = %q, want %q", got.Intent, tt.want)
			}
			if len(got.Proposals) != 0 {
				t.Errorf("Proposals = %+v, want none", got.Proposals)
			}
		})
	}
}

func TestNormalizeIntent(t *testing.T) {
	tests := []struct {
		in   string
		want Intent
	}{
		{"PROVIDE_INFO", IntentProvideInfo},
		{"provide_information", IntentProvideInfo},
		{" ask_question ", IntentAskQuestion},
		{"GENERAL_QUERY", IntentAskQuestion},
		{"EXPORT", IntentRequestExport},
		{"request_export", IntentRequestExport},
		{"STATUS", IntentRequestStatus},
		{"REQUEST_STATUS", IntentRequestStatus},
		{"banana", IntentUnknown},
		{"", IntentUnknown},
	}

	for _, tt := range tests {
		if got := normalizeIntent(tt.in); got != tt.want {
			t.Errorf("normalizeIntent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestClassifyByKeywords(t *testing.T) {
	tests := []struct {
		text string
		want Intent
	}{
		{"Please DOWNLOAD the card", IntentRequestExport},
		{"generate the document now", IntentRequestExport},
		{"show me my progress", IntentRequestStatus},
		{"what is a model card?", IntentAskQuestion},
		{"the model is bert", IntentUnknown},
	}

	for _, tt := range tests {
		if got := classifyByKeywords(tt.text); got != tt.want {
			t.Errorf("classifyByKeywords(%q) = %q, want %q", tt.text, got, tt.want)
		}
	}
}
