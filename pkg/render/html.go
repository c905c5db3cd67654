package render

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"ai-compliance-be/pkg/schema"
)

const htmlShell = `<!DOCTYPE html>
<html>
<head>
<title>%s</title>
<meta charset="utf-8">
<style>
  body { font-family: Arial, sans-serif; line-height: 1.6; max-width: 900px; margin: 0 auto; padding: 20px; color: #333; }
  h1, h2, h3 { color: #222; }
  table { border-collapse: collapse; width: 100%%; margin-bottom: 20px; }
  th, td { border: 1px solid #ddd; padding: 8px; }
  th { background-color: #f2f2f2; text-align: left; }
</style>
</head>
<body>
%s
</body>
</html>
`

func (r *Renderer) markdownToHTML(s *schema.DocumentSchema, md string) ([]byte, error) {
	converter := goldmark.New(
		goldmark.WithExtensions(extension.Table),
	)

	var body bytes.Buffer
	if err := converter.Convert([]byte(md), &body); err != nil {
		return nil, fmt.Errorf("markdown conversion failed: %w", err)
	}

	return []byte(fmt.Sprintf(htmlShell, s.Title, body.String())), nil
}
