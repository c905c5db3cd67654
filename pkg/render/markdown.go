package render

import (
	"fmt"
	"sort"
	"strings"
	"text/template"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

const markdownTemplate = `# {{ .Title }}

{{ .Description }}
{{ range .Sections }}
## {{ .Label }}
{{ range .Fields }}
### {{ .Label }}

{{ .Rendered }}
{{ end }}{{ end }}
---

*Generated on {{ .GeneratedAt }} by AI Compliance Documentation Generator v{{ .Version }}*
`

type mdField struct {
	Label    string
	Rendered string
}

type mdSection struct {
	Label  string
	Fields []mdField
}

type mdContext struct {
	Title       string
	Description string
	Sections    []mdSection
	GeneratedAt string
	Version     string
}

func (r *Renderer) renderMarkdown(s *schema.DocumentSchema, values docstate.DocumentValue) (string, error) {
	ctx := mdContext{
		Title:       documentTitle(s, values),
		Description: s.Description,
		GeneratedAt: r.now().Format("2006-01-02 15:04"),
		Version:     r.version,
	}

	for _, sec := range s.Sections {
		mdSec := mdSection{Label: sec.Label}
		for _, f := range sec.Fields {
			v, ok := values[f.Path]
			if !ok {
				continue // unfilled optional fields are omitted from the artifact
			}
			mdSec.Fields = append(mdSec.Fields, mdField{
				Label:    f.Label,
				Rendered: renderValue(v),
			})
		}
		if len(mdSec.Fields) > 0 {
			ctx.Sections = append(ctx.Sections, mdSec)
		}
	}

	tmpl, err := template.New("document").Parse(markdownTemplate)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	if err := tmpl.Execute(&b, ctx); err != nil {
		return "", err
	}
	return b.String(), nil
}

func renderValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		var b strings.Builder
		for _, item := range t {
			fmt.Fprintf(&b, "- %s\n", item)
		}
		return strings.TrimRight(b.String(), "\n")
	case []map[string]string:
		return renderTable(t)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// renderTable draws a Markdown table with a stable column order taken from
// the union of row keys.
func renderTable(rows []map[string]string) string {
	if len(rows) == 0 {
		return ""
	}
	colSet := make(map[string]bool)
	for _, row := range rows {
		for k := range row {
			colSet[k] = true
		}
	}
	cols := make([]string, 0, len(colSet))
	for k := range colSet {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString("| " + strings.Join(cols, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(cols)) + "\n")
	for _, row := range rows {
		cells := make([]string, len(cols))
		for i, c := range cols {
			cells[i] = row[c]
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func documentTitle(s *schema.DocumentSchema, values docstate.DocumentValue) string {
	if name, ok := values["model_details.name"].(string); ok && name != "" {
		return fmt.Sprintf("%s: %s", name, s.Title)
	}
	return s.Title
}
