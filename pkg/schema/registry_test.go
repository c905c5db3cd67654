package schema

import (
	"errors"
	"testing"
)

func TestRegistryGet(t *testing.T) {
	r := NewRegistry()

	tests := []struct {
		name    string
		docType string
		wantErr bool
	}{
		{name: "eu ai act model card", docType: DocTypeEUAIActModelCard},
		{name: "us risk assessment", docType: DocTypeUSRiskAssessment},
		{name: "general model card", docType: DocTypeGeneralModelCard},
		{name: "unknown type", docType: "shopping_list", wantErr: true},
		{name: "empty type", docType: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := r.Get(tt.docType)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Get(%q) error = nil, want error", tt.docType)
				}
				if !errors.Is(err, ErrUnknownDocumentType) {
					t.Errorf("Get(%q) error = %v, want ErrUnknownDocumentType", tt.docType, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Get(%q) error = %v", tt.docType, err)
			}
			if s.Type != tt.docType {
				t.Errorf("schema.Type = %q, want %q", s.Type, tt.docType)
			}
			if s.Title == "" {
				t.Errorf("schema %q has empty Title", tt.docType)
			}
			if len(s.Sections) == 0 {
				t.Errorf("schema %q has no sections", tt.docType)
			}
		})
	}
}

func TestRegistryTypesSorted(t *testing.T) {
	r := NewRegistry()
	got := r.Types()

	want := []string{
		DocTypeEUAIActModelCard,
		DocTypeGeneralModelCard,
		DocTypeUSRiskAssessment,
	}
	if len(got) != len(want) {
		t.Fatalf("Types() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Types()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestFieldLookup(t *testing.T) {
	r := NewRegistry()
	s, err := r.Get(DocTypeEUAIActModelCard)
	if err != nil {
		t.Fatal(err)
	}

	f, ok := s.Field("risk_assessment.risk_level")
	if !ok {
		t.Fatal("risk_assessment.risk_level not found")
	}
	if f.Type != TypeEnum {
		t.Errorf("risk_level type = %q, want %q", f.Type, TypeEnum)
	}
	if len(f.Options) == 0 {
		t.Error("risk_level has no enum options")
	}
	if !f.Required {
		t.Error("risk_level must be required")
	}

	if _, ok := s.Field("risk_assessment.nonexistent"); ok {
		t.Error("unknown path must not resolve")
	}
}

func TestRequiredPathsFollowSchemaOrder(t *testing.T) {
	r := NewRegistry()
	s, err := r.Get(DocTypeGeneralModelCard)
	if err != nil {
		t.Fatal(err)
	}

	paths := s.RequiredPaths()
	if len(paths) == 0 {
		t.Fatal("no required paths")
	}
	if paths[0] != "model_details.name" {
		t.Errorf("first required path = %q, want model_details.name", paths[0])
	}

	// Every required path resolves back to a required field.
	for _, p := range paths {
		f, ok := s.Field(p)
		if !ok {
			t.Errorf("required path %q does not resolve", p)
			continue
		}
		if !f.Required {
			t.Errorf("path %q listed as required but field is optional", p)
		}
	}
}

func TestGeneralCardIsSubsetOfEUCard(t *testing.T) {
	r := NewRegistry()
	general, err := r.Get(DocTypeGeneralModelCard)
	if err != nil {
		t.Fatal(err)
	}
	eu, err := r.Get(DocTypeEUAIActModelCard)
	if err != nil {
		t.Fatal(err)
	}

	for _, sec := range general.Sections {
		for _, f := range sec.Fields {
			if _, ok := eu.Field(f.Path); !ok {
				t.Errorf("general card field %q missing from the EU schema", f.Path)
			}
		}
	}
}
