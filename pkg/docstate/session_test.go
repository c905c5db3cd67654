package docstate

import (
	"testing"
	"time"
)

func TestCloneIsolation(t *testing.T) {
	s := &Session{
		ID:           "sess-1",
		DocumentType: "general_model_card",
		Values: DocumentValue{
			"model_details.name":       "bert",
			"training_data.datasets":   []string{"ImageNet"},
			"performance_metrics.rows": []map[string]string{{"metric": "accuracy", "value": "0.9"}},
		},
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	cp := s.Clone()
	cp.Values["model_details.name"] = "roberta"
	cp.Values["training_data.datasets"].([]string)[0] = "COCO"
	cp.Values["performance_metrics.rows"].([]map[string]string)[0]["value"] = "0.1"

	if s.Values["model_details.name"] != "bert" {
		t.Error("scalar mutation leaked into the original")
	}
	if s.Values["training_data.datasets"].([]string)[0] != "ImageNet" {
		t.Error("list mutation leaked into the original")
	}
	if s.Values["performance_metrics.rows"].([]map[string]string)[0]["value"] != "0.9" {
		t.Error("table mutation leaked into the original")
	}
}

func TestMarshalUnmarshalRoundTrip(t *testing.T) {
	s := &Session{
		ID:           "sess-1",
		UserID:       "user-1",
		DocumentType: "eu_ai_act_model_card",
		Values: DocumentValue{
			"model_details.name":          "bert",
			"training_data.datasets":      []string{"ImageNet", "COCO"},
			"performance_metrics.metrics": []map[string]string{{"metric": "f1", "value": "0.88"}},
		},
		CreatedAt: time.Now().UTC().Truncate(time.Second),
		UpdatedAt: time.Now().UTC().Truncate(time.Second),
	}

	data, err := s.Marshal()
	if err != nil {
		t.Fatal(err)
	}
	restored, err := Unmarshal(data)
	if err != nil {
		t.Fatal(err)
	}

	if restored.ID != s.ID || restored.UserID != s.UserID || restored.DocumentType != s.DocumentType {
		t.Errorf("restored header = %+v", restored)
	}
	if restored.Values["model_details.name"] != "bert" {
		t.Errorf("name = %v", restored.Values["model_details.name"])
	}

	// JSON decoding yields []any; the round trip must restore concrete shapes.
	datasets, ok := restored.Values["training_data.datasets"].([]string)
	if !ok || len(datasets) != 2 || datasets[1] != "COCO" {
		t.Errorf("datasets = %#v, want []string{ImageNet, COCO}", restored.Values["training_data.datasets"])
	}
	rows, ok := restored.Values["performance_metrics.metrics"].([]map[string]string)
	if !ok || len(rows) != 1 || rows[0]["value"] != "0.88" {
		t.Errorf("metrics = %#v, want one table row", restored.Values["performance_metrics.metrics"])
	}
}

func TestNormalizeValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want any
	}{
		{
			name: "string list",
			in:   []any{"a", "b"},
			want: []string{"a", "b"},
		},
		{
			name: "table rows",
			in:   []any{map[string]any{"metric": "accuracy", "value": "0.9"}},
			want: []map[string]string{{"metric": "accuracy", "value": "0.9"}},
		},
		{
			name: "empty list",
			in:   []any{},
			want: []string{},
		},
		{
			name: "scalar passthrough",
			in:   "plain",
			want: "plain",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeValue(tt.in)
			switch want := tt.want.(type) {
			case string:
				if got != want {
					t.Errorf("NormalizeValue() = %v, want %v", got, want)
				}
			case []string:
				gotList, ok := got.([]string)
				if !ok || len(gotList) != len(want) {
					t.Fatalf("NormalizeValue() = %#v, want %#v", got, want)
				}
				for i := range want {
					if gotList[i] != want[i] {
						t.Errorf("NormalizeValue()[%d] = %q, want %q", i, gotList[i], want[i])
					}
				}
			case []map[string]string:
				gotRows, ok := got.([]map[string]string)
				if !ok || len(gotRows) != len(want) {
					t.Fatalf("NormalizeValue() = %#v, want %#v", got, want)
				}
				for i := range want {
					for k, v := range want[i] {
						if gotRows[i][k] != v {
							t.Errorf("row[%d][%q] = %q, want %q", i, k, gotRows[i][k], v)
						}
					}
				}
			}
		})
	}
}
