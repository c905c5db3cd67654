package service

import (
	"reflect"
	"testing"
	"time"

	"ai-compliance-be/pkg/extraction"

	"github.com/patrickmn/go-cache"
)

func newPendingService() *documentChatService {
	return &documentChatService{pending: cache.New(time.Minute, time.Minute)}
}

func TestIsAffirmative(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{text: "yes", want: true},
		{text: "Yes.", want: true},
		{text: "  OKAY!", want: true},
		{text: "that's right", want: true},
		{text: "yep", want: true},
		{text: "no", want: false},
		{text: "yes the version is 2.0", want: false},
		{text: "", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := isAffirmative(tt.text); got != tt.want {
				t.Errorf("isAffirmative(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTakePendingAll(t *testing.T) {
	s := newPendingService()
	proposals := []extraction.FieldProposal{
		{Path: "model_details.name", Value: "resnet-50", Confidence: 0.6},
		{Path: "model_details.version", Value: "2.0", Confidence: 0.5},
	}
	s.storePending("session-1", proposals)

	got := s.takePending("session-1", nil)
	if !reflect.DeepEqual(got, proposals) {
		t.Errorf("takePending() = %v, want %v", got, proposals)
	}
	if again := s.takePending("session-1", nil); again != nil {
		t.Errorf("takePending() second call = %v, want nil", again)
	}
}

func TestTakePendingFiltersByPath(t *testing.T) {
	s := newPendingService()
	s.storePending("session-1", []extraction.FieldProposal{
		{Path: "model_details.name", Value: "resnet-50", Confidence: 0.6},
		{Path: "model_details.version", Value: "2.0", Confidence: 0.5},
	})

	taken := s.takePending("session-1", []string{"model_details.version"})
	if len(taken) != 1 || taken[0].Path != "model_details.version" {
		t.Fatalf("takePending(filtered) = %v, want only model_details.version", taken)
	}

	rest := s.takePending("session-1", nil)
	if len(rest) != 1 || rest[0].Path != "model_details.name" {
		t.Errorf("remaining proposals = %v, want only model_details.name", rest)
	}
}

func TestTakePendingUnknownSession(t *testing.T) {
	s := newPendingService()
	if got := s.takePending("missing", nil); got != nil {
		t.Errorf("takePending(missing) = %v, want nil", got)
	}
}
