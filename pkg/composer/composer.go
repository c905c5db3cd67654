// Package composer turns tracker decisions into user-facing reply text.
// Composition is a pure function of session state, completion summary, and
// extraction result: no side effects, no external calls.
package composer

import (
	"fmt"
	"strings"

	"ai-compliance-be/pkg/docstate"
	"ai-compliance-be/pkg/extraction"
	"ai-compliance-be/pkg/schema"
	"ai-compliance-be/pkg/tracker"
)

// Input bundles everything a reply is composed from.
type Input struct {
	Session    *docstate.Session
	Schema     *schema.DocumentSchema
	Summary    *tracker.CompletionSummary
	Intent     extraction.Intent
	Merged     []string                   // paths merged this turn
	Rejected   []tracker.RejectedUpdate   // user-visible rejections (invalid values)
	LowConf    []extraction.FieldProposal // proposals held back for confirmation
	NextField  *schema.FieldSpec          // nil when the document is complete
	ExportHint string                     // e.g. the export endpoint shown on completion
}

// Compose builds the assistant reply for one turn.
func Compose(in Input) string {
	var b strings.Builder

	switch in.Intent {
	case extraction.IntentRequestExport:
		composeExport(&b, in)
	case extraction.IntentRequestStatus:
		composeStatus(&b, in)
	case extraction.IntentProvideInfo:
		composeProvideInfo(&b, in)
	default:
		composeGuidance(&b, in)
	}

	if len(in.LowConf) > 0 {
		b.WriteString("\n\n")
		composeConfirmation(&b, in)
	}

	return b.String()
}

func composeProvideInfo(b *strings.Builder, in Input) {
	if len(in.Merged) > 0 {
		b.WriteString("Thanks, I recorded ")
		b.WriteString(joinLabels(in.Schema, in.Merged))
		b.WriteString(".")
	}

	for _, r := range in.Rejected {
		if r.Reason != tracker.ReasonInvalidValue {
			continue
		}
		label := pathLabel(in.Schema, r.Path)
		fmt.Fprintf(b, " I couldn't use what you said for %s: %s.", label, r.Detail)
	}

	if len(in.Merged) == 0 && len(in.Rejected) == 0 && len(in.LowConf) == 0 {
		b.WriteString("I didn't find document information in that message.")
	}

	appendNextStep(b, in)
}

func composeStatus(b *strings.Builder, in Input) {
	fmt.Fprintf(b, "Your %s is %.0f%% complete.", docLabel(in.Schema), in.Summary.Percentage)
	for _, sec := range in.Summary.Sections {
		if sec.RequiredTotal == 0 {
			continue
		}
		fmt.Fprintf(b, "\n- %s: %d of %d required fields", sec.Label, sec.RequiredFilled, sec.RequiredTotal)
	}
	appendNextStep(b, in)
}

func composeExport(b *strings.Builder, in Input) {
	if in.Summary.ReadyForExport {
		b.WriteString("All required fields are filled. Your document is ready for export.")
		if in.ExportHint != "" {
			fmt.Fprintf(b, " You can download it as PDF, HTML, or Markdown via %s.", in.ExportHint)
		}
		return
	}

	fmt.Fprintf(b, "The document is %.0f%% complete, so it can't be exported yet. Still missing:", in.Summary.Percentage)
	for _, path := range in.Summary.Outstanding {
		fmt.Fprintf(b, "\n- %s", pathLabel(in.Schema, path))
	}
	appendNextStep(b, in)
}

func composeGuidance(b *strings.Builder, in Input) {
	fmt.Fprintf(b, "We're working on your %s.", docLabel(in.Schema))
	b.WriteString(" You can tell me facts about your model, ask for the current status, or request an export once everything is filled in.")
	appendNextStep(b, in)
}

func composeConfirmation(b *strings.Builder, in Input) {
	b.WriteString("I wasn't fully sure about the following. Can you confirm?")
	for _, p := range in.LowConf {
		fmt.Fprintf(b, "\n- %s: %v", pathLabel(in.Schema, p.Path), p.Value)
	}
}

func appendNextStep(b *strings.Builder, in Input) {
	if in.NextField != nil {
		b.WriteString("\n\n")
		b.WriteString(in.NextField.Prompt)
		return
	}
	if in.Summary != nil && in.Summary.ReadyForExport && in.Intent != extraction.IntentRequestExport {
		b.WriteString("\n\nAll required fields are filled. The document is ready for export.")
	}
}

func pathLabel(s *schema.DocumentSchema, path string) string {
	if f, ok := s.Field(path); ok {
		return f.Label
	}
	return path
}

func joinLabels(s *schema.DocumentSchema, paths []string) string {
	labels := make([]string, len(paths))
	for i, p := range paths {
		labels[i] = pathLabel(s, p)
	}
	switch len(labels) {
	case 1:
		return labels[0]
	case 2:
		return labels[0] + " and " + labels[1]
	default:
		return strings.Join(labels[:len(labels)-1], ", ") + ", and " + labels[len(labels)-1]
	}
}

func docLabel(s *schema.DocumentSchema) string {
	return strings.ReplaceAll(s.Type, "_", " ")
}
