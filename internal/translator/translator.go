// Package translator turns reactive language into Truth Empowered Speaking
// (TES) output or distills a partner's words through Truth Empowered
// Listening (TEL). Translation is backed by an LLM; when no provider is
// configured or the call fails, a built-in example translation is served so
// the client flow keeps working.
package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/truthempowered/tercoach/internal/observe"
	"github.com/truthempowered/tercoach/pkg/provider/llm"
)

// Mode selects the translation direction.
type Mode string

const (
	// ModeTES translates the user's own reactive words into conscious
	// speaking.
	ModeTES Mode = "TES"

	// ModeTEL distills what a partner said into what to listen for.
	ModeTEL Mode = "TEL"
)

// ParseMode validates a client-supplied mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToUpper(strings.TrimSpace(s))) {
	case ModeTES:
		return ModeTES, nil
	case ModeTEL:
		return ModeTEL, nil
	}
	return "", fmt.Errorf("translator: unknown mode %q (valid: TES, TEL)", s)
}

// Checks reports how a TES translation holds up against the framework.
type Checks struct {
	NonMeanness          bool  `json:"nonMeanness"`
	PillarsAligned       bool  `json:"pillarsAligned"`
	InstructionsFollowed []int `json:"instructionsFollowed"`
}

// TESResult is a Truth Empowered Speaking translation.
type TESResult struct {
	Noticing         string   `json:"noticing"`
	Outer            string   `json:"outer"`
	Under            string   `json:"under"`
	Why              string   `json:"why"`
	Ask              string   `json:"ask"`
	Checks           Checks   `json:"checks"`
	CuriousQuestions []string `json:"curiousQuestions"`
}

// TELResult is a Truth Empowered Listening distillation.
type TELResult struct {
	Outer          string   `json:"outer"`
	Undercurrents  string   `json:"undercurrents"`
	WhatMatters    string   `json:"whatMatters"`
	DepthQuestions []string `json:"depthQuestions"`
}

// Result is the outcome of a translation. Exactly one of TES and TEL is
// set, matching Mode. Fallback is true when the built-in example was served
// instead of a live translation.
type Result struct {
	Mode     Mode       `json:"mode"`
	TES      *TESResult `json:"tes,omitempty"`
	TEL      *TELResult `json:"tel,omitempty"`
	Fallback bool       `json:"fallback,omitempty"`
}

const tesSystemPrompt = `You are a Truth Empowered Speaking translator. Transform reactive language into conscious communication.

FRAMEWORK:
- NOTICING (Inner): Internal body sensations and emotions
- OUTER (Words): Observable facts only (what a camera would record)
- UNDER: Deepest fear or vulnerability (abandonment, inadequacy, unworthiness)
- WHY: Core need or value driving the emotion
- ASK: Clear, kind, specific request

Return ONLY valid JSON:
{
  "noticing": "I notice [body sensation and emotion]",
  "outer": "[Observable fact without interpretation]",
  "under": "I'm afraid [deepest fear]",
  "why": "[Core need/value] is how I [feel valued/safe/loved]",
  "ask": "Can [specific doable request]?",
  "checks": {
    "nonMeanness": true,
    "pillarsAligned": true,
    "instructionsFollowed": [1, 5, 8]
  },
  "curiousQuestions": [
    "[Question to understand their perspective]",
    "[Question to find mutual solution]"
  ]
}`

const telSystemPrompt = `You are a Truth Empowered Listening coach. Help someone understand what their partner shared.

FRAMEWORK:
- OUTER: What they actually said (facts)
- UNDERCURRENTS: What they might be feeling beneath
- WHAT MATTERS: Core values or needs at stake
- DEPTH QUESTIONS: Curious questions to deepen understanding

Return ONLY valid JSON:
{
  "outer": "[Key facts from what they said]",
  "undercurrents": "[Possible feelings beneath the words]",
  "whatMatters": "[Core values/needs: connection, respect, safety, etc.]",
  "depthQuestions": [
    "[Open-ended curious question 1]",
    "[Open-ended curious question 2]",
    "[Open-ended curious question 3]"
  ]
}`

// Service performs TES/TEL translations. Safe for concurrent use.
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

// New creates a translator. provider may be nil, in which case every
// translation serves the built-in example.
func New(provider llm.Provider, opts ...Option) *Service {
	s := &Service{provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Translate runs a translation. It never returns an error: any failure
// along the provider path degrades to the built-in example with Fallback
// set, and the failure is logged.
func (s *Service) Translate(ctx context.Context, mode Mode, input string) Result {
	if s.provider == nil {
		return s.fallback(ctx, mode, "no provider configured")
	}

	systemPrompt := tesSystemPrompt
	if mode == ModeTEL {
		systemPrompt = telSystemPrompt
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: input}},
		Temperature:  0.7,
		ForceJSON:    true,
	})
	if err != nil {
		return s.fallback(ctx, mode, err.Error())
	}
	if resp == nil {
		return s.fallback(ctx, mode, "empty completion")
	}

	result := Result{Mode: mode}
	switch mode {
	case ModeTES:
		var tes TESResult
		if err := json.Unmarshal([]byte(resp.Content), &tes); err != nil {
			return s.fallback(ctx, mode, "malformed completion: "+err.Error())
		}
		result.TES = &tes
	case ModeTEL:
		var tel TELResult
		if err := json.Unmarshal([]byte(resp.Content), &tel); err != nil {
			return s.fallback(ctx, mode, "malformed completion: "+err.Error())
		}
		result.TEL = &tel
	}
	return result
}

func (s *Service) fallback(ctx context.Context, mode Mode, reason string) Result {
	observe.Logger(ctx).Warn("translator serving built-in example",
		"mode", string(mode), "reason", reason)
	if s.metrics != nil {
		s.metrics.RecordFallbackServe(ctx, "translator")
	}
	result := Result{Mode: mode, Fallback: true}
	if mode == ModeTEL {
		tel := mockTEL
		result.TEL = &tel
	} else {
		tes := mockTES
		result.TES = &tes
	}
	return result
}

// mockTES is the built-in example served when live translation is
// unavailable.
var mockTES = TESResult{
	Noticing: "I notice my chest feels tight and my shoulders are tense",
	Outer:    "You made plans for Saturday without checking with me first",
	Under:    "I'm afraid I don't matter enough to be considered in decisions",
	Why:      "Being included in planning is how I feel valued and part of the team",
	Ask:      "Can we check with each other before making weekend plans?",
	Checks: Checks{
		NonMeanness:          true,
		PillarsAligned:       true,
		InstructionsFollowed: []int{1, 5, 8},
	},
	CuriousQuestions: []string{
		"What was happening for you when you made those plans?",
		"How can we both get our needs met this weekend?",
	},
}

var mockTEL = TELResult{
	Outer:         "Partner made weekend plans without discussing first",
	Undercurrents: "Feeling excluded, unimportant, perhaps lonely",
	WhatMatters:   "Partnership, being considered, shared decision-making",
	DepthQuestions: []string{
		"What does being included in planning mean to you?",
		"How do you imagine I experience sudden plan changes?",
		"What would ideal weekend planning look like for us?",
	},
}
