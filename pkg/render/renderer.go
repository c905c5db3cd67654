// Package render turns a fully merged document (schema + values) into a
// downloadable artifact. The service layer decides when export is allowed;
// this package only knows how to render.
package render

import (
	"fmt"
	"time"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

// Format is the requested artifact format.
type Format string

const (
	FormatPDF      Format = "pdf"
	FormatHTML     Format = "html"
	FormatMarkdown Format = "markdown"
)

// ParseFormat validates a caller-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatPDF, FormatHTML, FormatMarkdown:
		return Format(s), nil
	case "md":
		return FormatMarkdown, nil
	default:
		return "", fmt.Errorf("unsupported export format: %q", s)
	}
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	switch f {
	case FormatPDF:
		return "pdf"
	case FormatHTML:
		return "html"
	default:
		return "md"
	}
}

// MediaType returns the HTTP content type for the format.
func (f Format) MediaType() string {
	switch f {
	case FormatPDF:
		return "application/pdf"
	case FormatHTML:
		return "text/html; charset=utf-8"
	default:
		return "text/markdown; charset=utf-8"
	}
}

// Renderer renders documents. Markdown is the base representation; HTML is
// converted from it, and PDF is typeset directly from the schema walk.
type Renderer struct {
	version string
	now     func() time.Time
}

// NewRenderer creates a renderer. The version string ends up in the
// artifact footer.
func NewRenderer(version string) *Renderer {
	return &Renderer{version: version, now: time.Now}
}

// Render produces the artifact bytes for the given format.
func (r *Renderer) Render(s *schema.DocumentSchema, values docstate.DocumentValue, format Format) ([]byte, error) {
	switch format {
	case FormatMarkdown:
		md, err := r.renderMarkdown(s, values)
		if err != nil {
			return nil, err
		}
		return []byte(md), nil
	case FormatHTML:
		md, err := r.renderMarkdown(s, values)
		if err != nil {
			return nil, err
		}
		return r.markdownToHTML(s, md)
	case FormatPDF:
		return r.renderPDF(s, values)
	default:
		return nil, fmt.Errorf("unsupported export format: %q", format)
	}
}
