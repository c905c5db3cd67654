package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/go-pdf/fpdf"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/schema"
)

func (r *Renderer) renderPDF(s *schema.DocumentSchema, values docstate.DocumentValue) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.MultiCell(0, 9, documentTitle(s, values), "", "L", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.SetTextColor(100, 100, 100)
	pdf.MultiCell(0, 5, s.Description, "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	for _, sec := range s.Sections {
		var filled []schema.FieldSpec
		for _, f := range sec.Fields {
			if _, ok := values[f.Path]; ok {
				filled = append(filled, f)
			}
		}
		if len(filled) == 0 {
			continue
		}

		pdf.SetFont("Helvetica", "B", 14)
		pdf.CellFormat(0, 8, sec.Label, "", 1, "L", false, 0, "")
		pdf.Ln(1)

		for _, f := range filled {
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 6, f.Label, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			writeValue(pdf, values[f.Path])
			pdf.Ln(2)
		}
		pdf.Ln(2)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	footer := fmt.Sprintf("Generated on %s by AI Compliance Documentation Generator v%s",
		r.now().Format("2006-01-02 15:04"), r.version)
	pdf.CellFormat(0, 5, footer, "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("pdf generation failed: %w", err)
	}
	return buf.Bytes(), nil
}

func writeValue(pdf *fpdf.Fpdf, v any) {
	switch t := v.(type) {
	case string:
		pdf.MultiCell(0, 5, t, "", "L", false)
	case []string:
		for _, item := range t {
			pdf.MultiCell(0, 5, "- "+item, "", "L", false)
		}
	case []map[string]string:
		// Tables are flattened to "key: value" lines; fpdf table layout is
		// not worth the complexity for small compliance tables.
		for _, row := range t {
			keys := make([]string, 0, len(row))
			for k := range row {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf("%s: %s", k, row[k])
			}
			pdf.MultiCell(0, 5, "- "+strings.Join(parts, ", "), "", "L", false)
		}
	default:
		pdf.MultiCell(0, 5, fmt.Sprintf("%v", v), "", "L", false)
	}
}
