package repoanalysis

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"ai-compliance-be/pkg/tracker"
)

func TestFieldUpdates(t *testing.T) {
	a := &Analysis{
		Name:         "resnet-50",
		Description:  "Image classifier.",
		Framework:    "pytorch",
		License:      "apache-2.0",
		Dependencies: []string{"torch", " torchvision ", ""},
		Datasets:     []string{"ImageNet"},
		Summary:      "should be ignored while description is set",
	}

	updates := a.FieldUpdates()

	byPath := map[string]any{}
	for _, u := range updates {
		byPath[u.Path] = u.Value
	}

	if byPath["model_details.name"] != "resnet-50" {
		t.Errorf("name = %v", byPath["model_details.name"])
	}
	if byPath["model_details.framework"] != "pytorch" {
		t.Errorf("framework = %v", byPath["model_details.framework"])
	}
	if byPath["model_details.license"] != "apache-2.0" {
		t.Errorf("license = %v", byPath["model_details.license"])
	}
	if byPath["model_details.description"] != "Image classifier." {
		t.Errorf("description = %v", byPath["model_details.description"])
	}

	deps, _ := byPath["technical_specifications.dependencies"].([]string)
	if !reflect.DeepEqual(deps, []string{"torch", "torchvision"}) {
		t.Errorf("dependencies = %v, want trimmed non-empty entries", deps)
	}
	datasets, _ := byPath["training_data.datasets"].([]string)
	if !reflect.DeepEqual(datasets, []string{"ImageNet"}) {
		t.Errorf("datasets = %v", datasets)
	}
}

func TestFieldUpdatesSummaryFallback(t *testing.T) {
	a := &Analysis{Summary: "A bert fine-tune for sentiment."}

	updates := a.FieldUpdates()
	if len(updates) != 1 {
		t.Fatalf("len(updates) = %d, want 1 (%+v)", len(updates), updates)
	}
	want := tracker.Update{Path: "model_details.description", Value: "A bert fine-tune for sentiment."}
	if updates[0] != want {
		t.Errorf("update = %+v, want %+v", updates[0], want)
	}
}

func TestFieldUpdatesEmptyAnalysis(t *testing.T) {
	a := &Analysis{Dependencies: []string{"  ", ""}}

	if updates := a.FieldUpdates(); len(updates) != 0 {
		t.Errorf("updates = %+v, want none", updates)
	}
}

func TestAnalyze(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Errorf("payload is not JSON: %v", err)
		}
		if payload["repo_url"] != "https://github.com/acme/resnet" {
			t.Errorf("repo_url = %q", payload["repo_url"])
		}
		json.NewEncoder(w).Encode(Analysis{Name: "resnet", Framework: "pytorch"})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, log.New(io.Discard, "", 0))
	got, err := c.Analyze(context.Background(), "https://github.com/acme/resnet")
	if err != nil {
		t.Fatalf("Analyze() error = %v", err)
	}
	if got.Name != "resnet" || got.Framework != "pytorch" {
		t.Errorf("analysis = %+v", got)
	}
}

func TestAnalyzeNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "workflow not found", http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, log.New(io.Discard, "", 0))
	if _, err := c.Analyze(context.Background(), "https://github.com/acme/resnet"); err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestAnalyzeWithoutWebhookConfigured(t *testing.T) {
	c := NewClient("", log.New(io.Discard, "", 0))
	if _, err := c.Analyze(context.Background(), "https://github.com/acme/resnet"); err == nil {
		t.Fatal("expected error when webhook URL is empty")
	}
}
