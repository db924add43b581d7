package mediator

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/truthempowered/tercoach/pkg/provider/llm"
	llmmock "github.com/truthempowered/tercoach/pkg/provider/llm/mock"
)

func TestAnalyze_ParsesCompletion(t *testing.T) {
	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: `{
			"telSummary": {
				"outer": "Partner said the chores feel one-sided",
				"undercurrents": "Exhaustion, resentment building",
				"whatMatters": "Fairness and feeling like a team"
			},
			"depthQuestions": ["Which chore weighs heaviest?", "When did this start?", "What would balanced feel like?"],
			"suggestedGame": {
				"name": "And What Else?",
				"duration": "10-20 min",
				"description": "Release layers of unspoken resentment",
				"rationale": "Resentment has been accumulating"
			}
		}`},
	}
	s := New(provider)

	analysis := s.Analyze(context.Background(), "I do everything around here", "partner", 42)
	if analysis.Fallback {
		t.Fatal("unexpected fallback")
	}
	if analysis.TELSummary.Outer != "Partner said the chores feel one-sided" {
		t.Errorf("outer = %q", analysis.TELSummary.Outer)
	}
	if len(analysis.DepthQuestions) != 3 {
		t.Errorf("depth questions = %d, want 3", len(analysis.DepthQuestions))
	}
	if analysis.SuggestedGame.Name != "And What Else?" {
		t.Errorf("suggested game = %q", analysis.SuggestedGame.Name)
	}

	if len(provider.CompleteCalls) != 1 {
		t.Fatalf("provider calls = %d, want 1", len(provider.CompleteCalls))
	}
	req := provider.CompleteCalls[0].Req
	if !req.ForceJSON {
		t.Error("analysis completion should force JSON output")
	}
	user := req.Messages[0].Content
	if !strings.HasPrefix(user, "Partner said:") {
		t.Errorf("user message = %q, want partner attribution", user)
	}
	if !strings.Contains(user, "42 seconds") {
		t.Errorf("user message missing duration: %q", user)
	}
}

func TestAnalyze_SpeakerAttribution(t *testing.T) {
	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: `{}`},
	}
	s := New(provider)

	s.Analyze(context.Background(), "hello", "speaker", 5)
	user := provider.CompleteCalls[0].Req.Messages[0].Content
	if !strings.HasPrefix(user, "Speaker said:") {
		t.Errorf("user message = %q, want speaker attribution", user)
	}
}

func TestAnalyze_NoProviderServesExample(t *testing.T) {
	s := New(nil)

	analysis := s.Analyze(context.Background(), "anything", "partner", 10)
	if !analysis.Fallback {
		t.Fatal("expected fallback without a provider")
	}
	if analysis.SuggestedGame.Name == "" || len(analysis.DepthQuestions) != 3 {
		t.Errorf("fallback payload incomplete: %+v", analysis)
	}
}

func TestAnalyze_ProviderErrorServesExample(t *testing.T) {
	provider := &llmmock.Provider{CompleteErr: errors.New("boom")}
	s := New(provider)

	analysis := s.Analyze(context.Background(), "anything", "partner", 10)
	if !analysis.Fallback {
		t.Fatal("expected fallback on provider error")
	}
}

func TestAnalyze_MalformedCompletionServesExample(t *testing.T) {
	provider := &llmmock.Provider{
		CompleteResponse: &llm.CompletionResponse{Content: "no json here"},
	}
	s := New(provider)

	analysis := s.Analyze(context.Background(), "anything", "partner", 10)
	if !analysis.Fallback {
		t.Fatal("expected fallback on malformed completion")
	}
}
