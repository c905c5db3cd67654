package extraction

import (
	"encoding/json"
	"strings"
)

type rawResult struct {
	Intent string `json:"intent"`
	Fields []struct {
		Path       string  `json:"path"`
		Value      any     `json:"value"`
		Confidence float64 `json:"confidence"`
	} `json:"fields"`
}

// parseResult extracts the JSON object from a model response. Models wrap
// JSON in prose often enough that we scan for the outermost braces instead
// of unmarshalling the whole reply. Unparseable responses fall back to
// keyword classification of the original user text.
func parseResult(response, userText string) *Result {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start < 0 || end <= start {
		return &Result{Intent: classifyByKeywords(userText)}
	}

	var raw rawResult
	if err := json.Unmarshal([]byte(response[start:end+1]), &raw); err != nil {
		return &Result{Intent: classifyByKeywords(userText)}
	}

	result := &Result{Intent: normalizeIntent(raw.Intent)}
	for _, f := range raw.Fields {
		if f.Path == "" || f.Value == nil {
			continue
		}
		result.Proposals = append(result.Proposals, FieldProposal{
			Path:       f.Path,
			Value:      f.Value,
			Confidence: f.Confidence,
		})
	}

	// A reply that carries field values is an information statement even
	// when the model mislabels the intent.
	if len(result.Proposals) > 0 && result.Intent == IntentUnknown {
		result.Intent = IntentProvideInfo
	}
	return result
}

func normalizeIntent(s string) Intent {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "PROVIDE_INFO", "PROVIDE_INFORMATION":
		return IntentProvideInfo
	case "ASK_QUESTION", "GENERAL_QUERY":
		return IntentAskQuestion
	case "REQUEST_EXPORT", "EXPORT":
		return IntentRequestExport
	case "REQUEST_STATUS", "STATUS":
		return IntentRequestStatus
	default:
		return IntentUnknown
	}
}

// classifyByKeywords is the degraded path when no structured intent is
// available from the model.
func classifyByKeywords(text string) Intent {
	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "export") || strings.Contains(lower, "download") || strings.Contains(lower, "generate the document"):
		return IntentRequestExport
	case strings.Contains(lower, "status") || strings.Contains(lower, "how complete") || strings.Contains(lower, "progress"):
		return IntentRequestStatus
	case strings.Contains(lower, "?"):
		return IntentAskQuestion
	default:
		return IntentUnknown
	}
}
