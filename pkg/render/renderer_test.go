package render

import (
	"strings"
	"testing"
	"time"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{in: "pdf", want: FormatPDF},
		{in: "html", want: FormatHTML},
		{in: "markdown", want: FormatMarkdown},
		{in: "md", want: FormatMarkdown},
		{in: "docx", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseFormat(%q) error = nil, want error", tt.in)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFormatExtensionAndMediaType(t *testing.T) {
	tests := []struct {
		format    Format
		extension string
		mediaType string
	}{
		{FormatPDF, "pdf", "application/pdf"},
		{FormatHTML, "html", "text/html; charset=utf-8"},
		{FormatMarkdown, "md", "text/markdown; charset=utf-8"},
	}

	for _, tt := range tests {
		if got := tt.format.Extension(); got != tt.extension {
			t.Errorf("%s.Extension() = %q, want %q", tt.format, got, tt.extension)
		}
		if got := tt.format.MediaType(); got != tt.mediaType {
			t.Errorf("%s.MediaType() = %q, want %q", tt.format, got, tt.mediaType)
		}
	}
}

func testValues() docstate.DocumentValue {
	return docstate.DocumentValue{
		"model_details.name":          "resnet-50",
		"model_details.version":       "1.0",
		"model_details.description":   "Image classifier for retail shelf audits.",
		"training_data.datasets":      []string{"ImageNet", "internal shelf photos"},
		"performance_metrics.metrics": []map[string]string{{"metric": "accuracy", "value": "0.92"}, {"metric": "f1", "value": "0.89"}},
	}
}

func TestRenderMarkdown(t *testing.T) {
	r := NewRenderer("1.2.3")
	r.now = func() time.Time { return time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC) }

	s, err := schema.NewRegistry().Get(schema.DocTypeGeneralModelCard)
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(s, testValues(), FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	md := string(out)

	if !strings.Contains(md, "# resnet-50: Model Card") {
		t.Errorf("missing title in:\n%s", md)
	}
	if !strings.Contains(md, "## Model Details") {
		t.Error("missing section heading")
	}
	if !strings.Contains(md, "### Model name") {
		t.Error("missing field heading")
	}
	if !strings.Contains(md, "- ImageNet\n- internal shelf photos") {
		t.Error("missing list rendering")
	}
	if !strings.Contains(md, "| metric | value |") {
		t.Error("missing table header")
	}
	if !strings.Contains(md, "| accuracy | 0.92 |") {
		t.Error("missing table row")
	}
	if !strings.Contains(md, "*Generated on 2026-03-14 09:30 by AI Compliance Documentation Generator v1.2.3*") {
		t.Errorf("missing footer in:\n%s", md)
	}

	// Unfilled fields stay out of the artifact entirely.
	if strings.Contains(md, "### License") {
		t.Error("unfilled optional field was rendered")
	}
	if strings.Contains(md, "## Limitations") {
		t.Error("section with no filled fields was rendered")
	}
}

func TestRenderMarkdownFallbackTitle(t *testing.T) {
	r := NewRenderer("1.0.0")
	s, err := schema.NewRegistry().Get(schema.DocTypeEUAIActModelCard)
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(s, docstate.DocumentValue{"model_details.version": "1.0"}, FormatMarkdown)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(out), "# EU AI Act Model Card") {
		t.Errorf("fallback title missing in:\n%s", out)
	}
}

func TestRenderHTMLWrapsMarkdown(t *testing.T) {
	r := NewRenderer("1.0.0")
	s, err := schema.NewRegistry().Get(schema.DocTypeGeneralModelCard)
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(s, testValues(), FormatHTML)
	if err != nil {
		t.Fatal(err)
	}
	html := string(out)

	if !strings.Contains(html, "<html") {
		t.Error("output is not an HTML document")
	}
	if !strings.Contains(html, "resnet-50") {
		t.Error("document content missing from HTML")
	}
}

func TestRenderPDFProducesDocument(t *testing.T) {
	r := NewRenderer("1.0.0")
	s, err := schema.NewRegistry().Get(schema.DocTypeGeneralModelCard)
	if err != nil {
		t.Fatal(err)
	}

	out, err := r.Render(s, testValues(), FormatPDF)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(out), "%PDF") {
		t.Errorf("output does not start with a PDF header: %q", string(out[:min(len(out), 8)]))
	}
}

func TestRenderTableColumnUnion(t *testing.T) {
	got := renderTable([]map[string]string{
		{"metric": "accuracy", "value": "0.92"},
		{"metric": "recall", "dataset": "holdout"},
	})

	lines := strings.Split(got, "\n")
	if lines[0] != "| dataset | metric | value |" {
		t.Errorf("header = %q, want sorted union of columns", lines[0])
	}
	if lines[1] != "| --- | --- | --- |" {
		t.Errorf("separator = %q", lines[1])
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4:\n%s", len(lines), got)
	}
}
