// Package mediator analyzes a conversation segment through the Truth
// Empowered Listening lens: what was said, the feelings beneath it, what is
// at stake, plus depth questions and one suggested practice. Like the
// translator, it degrades to a built-in example instead of erroring.
package mediator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/truthempowered/tercoach/internal/observe"
	"github.com/truthempowered/tercoach/pkg/provider/llm"
)

// TELSummary is the listening distillation of a conversation segment.
type TELSummary struct {
	Outer         string `json:"outer"`
	Undercurrents string `json:"undercurrents"`
	WhatMatters   string `json:"whatMatters"`
}

// SuggestedGame points the couple at one practice fitting the moment.
type SuggestedGame struct {
	Name        string `json:"name"`
	Duration    string `json:"duration"`
	Description string `json:"description"`
	Rationale   string `json:"rationale,omitempty"`
}

// Analysis is the mediator's output for one conversation segment.
type Analysis struct {
	TELSummary     TELSummary    `json:"telSummary"`
	DepthQuestions []string      `json:"depthQuestions"`
	SuggestedGame  SuggestedGame `json:"suggestedGame"`
	Fallback       bool          `json:"fallback,omitempty"`
}

const systemPrompt = `You are a Truth Empowered Listening (TEL) analyzer. Analyze this conversation segment and provide:

1. TEL Summary with:
   - Outer: What was actually said (facts)
   - Undercurrents: The emotions beneath the words
   - What Matters: Core values or needs at stake

2. Three depth questions to help deepen understanding

3. Suggest ONE appropriate game from:
   - Internal Weather Report (2 min): For emotional awareness
   - Pause (1-2 min): For de-escalation
   - And What Else? (10-20 min): For clearing resentments
   - Closeness Counter (30-60 min): For reconnection
   - Bomb Squad (45 min): For recurring conflicts

Return ONLY valid JSON:
{
  "telSummary": {
    "outer": "...",
    "undercurrents": "...",
    "whatMatters": "..."
  },
  "depthQuestions": ["...", "...", "..."],
  "suggestedGame": {
    "name": "...",
    "duration": "...",
    "description": "...",
    "rationale": "..."
  }
}`

// Service runs conversation analyses. Safe for concurrent use.
type Service struct {
	provider llm.Provider // may be nil
	metrics  *observe.Metrics
}

// Option configures a Service.
type Option func(*Service)

// WithMetrics attaches metrics recording.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// New creates a mediator. provider may be nil, in which case every analysis
// serves the built-in example.
func New(provider llm.Provider, opts ...Option) *Service {
	s := &Service{provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Analyze distills a transcript segment. speaker is "partner" or "speaker";
// duration is the segment length in seconds. Never returns an error: any
// failure degrades to the built-in example with Fallback set.
func (s *Service) Analyze(ctx context.Context, transcript, speaker string, duration int) Analysis {
	if s.provider == nil {
		return s.fallback(ctx, "no provider configured")
	}

	who := "Speaker"
	if speaker == "partner" {
		who = "Partner"
	}
	userMessage := fmt.Sprintf("%s said: %q (Duration: %d seconds)", who, transcript, duration)

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: userMessage}},
		Temperature:  0.7,
		ForceJSON:    true,
	})
	if err != nil {
		return s.fallback(ctx, err.Error())
	}
	if resp == nil {
		return s.fallback(ctx, "empty completion")
	}

	var analysis Analysis
	if err := json.Unmarshal([]byte(resp.Content), &analysis); err != nil {
		return s.fallback(ctx, "malformed completion: "+err.Error())
	}
	return analysis
}

func (s *Service) fallback(ctx context.Context, reason string) Analysis {
	observe.Logger(ctx).Warn("mediator serving built-in example", "reason", reason)
	if s.metrics != nil {
		s.metrics.RecordFallbackServe(ctx, "mediator")
	}
	return Analysis{
		TELSummary: TELSummary{
			Outer:         "Partner expressed frustration about feeling unheard",
			Undercurrents: "Feeling dismissed, unimportant, possibly lonely",
			WhatMatters:   "Being seen, validated, and prioritized in the relationship",
		},
		DepthQuestions: []string{
			"What specific moments help you feel truly heard?",
			"How do you know when I'm really listening to you?",
			"What would feeling prioritized look like in daily life?",
		},
		SuggestedGame: SuggestedGame{
			Name:        "And What Else?",
			Duration:    "10-20 min",
			Description: "Release layers of unspoken resentment",
			Rationale:   "There seem to be accumulated feelings that need expression",
		},
		Fallback: true,
	}
}
