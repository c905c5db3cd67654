package repoanalysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"ai-compliance-be/pkg/tracker"
)

// Analysis is the result of a repository scan returned by the n8n workflow.
type Analysis struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	Framework    string   `json:"framework"`
	License      string   `json:"license"`
	Languages    []string `json:"languages"`
	Dependencies []string `json:"dependencies"`
	Datasets     []string `json:"datasets"`
	Summary      string   `json:"summary"`
}

// Client calls an n8n webhook that clones and analyzes a GitHub repository.
type Client struct {
	webhookURL string
	httpClient *http.Client
	logger     *log.Logger
}

func NewClient(webhookURL string, logger *log.Logger) *Client {
	return &Client{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		logger:     logger,
	}
}

// Analyze posts the repository URL to the webhook and parses the analysis.
func (c *Client) Analyze(ctx context.Context, repoURL string) (*Analysis, error) {
	if c.webhookURL == "" {
		return nil, fmt.Errorf("repository analysis webhook is not configured")
	}

	payload, err := json.Marshal(map[string]string{"repo_url": repoURL})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	var analysis Analysis
	if err := json.Unmarshal(body, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis response: %w", err)
	}

	c.logger.Printf("repository analysis completed for %s (name=%q, %d dependencies)",
		repoURL, analysis.Name, len(analysis.Dependencies))
	return &analysis, nil
}

// FieldUpdates maps the analysis onto document field updates. Only fields
// the scan actually produced are proposed, so an empty analysis yields no
// updates rather than blanking existing values.
func (a *Analysis) FieldUpdates() []tracker.Update {
	var updates []tracker.Update

	addString := func(path, value string) {
		if v := strings.TrimSpace(value); v != "" {
			updates = append(updates, tracker.Update{Path: path, Value: v})
		}
	}
	addList := func(path string, values []string) {
		var cleaned []string
		for _, v := range values {
			if v = strings.TrimSpace(v); v != "" {
				cleaned = append(cleaned, v)
			}
		}
		if len(cleaned) > 0 {
			updates = append(updates, tracker.Update{Path: path, Value: cleaned})
		}
	}

	addString("model_details.name", a.Name)
	addString("model_details.framework", a.Framework)
	addString("model_details.license", a.License)
	addList("technical_specifications.dependencies", a.Dependencies)
	addList("training_data.datasets", a.Datasets)

	description := a.Description
	if description == "" {
		description = a.Summary
	}
	addString("model_details.description", description)

	return updates
}
