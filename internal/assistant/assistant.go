// Package assistant implements Aria, the voice companion. Aria replies to
// conversational turns and detects practice-launch intent in the user's
// words, so "let's play baggage claim" opens the practice even when the
// reply itself comes from a language model that knows nothing about the
// catalog. Intent detection is deterministic and server-side: exact
// substring matches on practice titles and aliases first, then a fuzzy
// pass that tolerates typos and mistranscriptions.
package assistant

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/antzucaro/matchr"

	"github.com/truthempowered/tercoach/internal/catalog"
	"github.com/truthempowered/tercoach/internal/observe"
	"github.com/truthempowered/tercoach/pkg/provider/llm"
)

// IntentStartGame is the only intent Aria currently emits.
const IntentStartGame = "start_game"

// defaultName is the companion's name when none is configured.
const defaultName = "Aria"

// Turn is one message in the companion conversation.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Reply is Aria's answer to a conversation. Intent and GameID are set
// together when the user asked to start a practice.
type Reply struct {
	Reply  string `json:"reply"`
	Intent string `json:"intent,omitempty"`
	GameID string `json:"gameId,omitempty"`
}

// Service is the Aria companion. Safe for concurrent use.
type Service struct {
	catalog  *catalog.Catalog
	provider llm.Provider // may be nil
	metrics  *observe.Metrics

	mu      sync.RWMutex
	name    string
	persona string
}

// Option configures a Service.
type Option func(*Service)

// WithProvider attaches the LLM backend. Without one Aria serves built-in
// replies.
func WithProvider(p llm.Provider) Option {
	return func(s *Service) { s.provider = p }
}

// WithMetrics attaches metrics recording.
func WithMetrics(m *observe.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithPersona overrides the companion name and persona description used in
// the system prompt.
func WithPersona(name, persona string) Option {
	return func(s *Service) {
		if name != "" {
			s.name = name
		}
		s.persona = persona
	}
}

// New creates the companion over the given catalog.
func New(cat *catalog.Catalog, opts ...Option) *Service {
	s := &Service{catalog: cat, name: defaultName}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetPersona swaps the companion name and persona at runtime, used for
// config hot-reload. An empty name keeps the current one.
func (s *Service) SetPersona(name, persona string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if name != "" {
		s.name = name
	}
	s.persona = persona
}

func (s *Service) systemPrompt() string {
	s.mu.RLock()
	name, persona := s.name, s.persona
	s.mu.RUnlock()
	if persona == "" {
		persona = "You listen deeply, reflect concisely, and suggest embodied practices when useful."
	}
	return fmt.Sprintf(`You are %s, a compassionate Truth Empowered Relationships assistant. %s If the user asks to "play" or "start" a specific game, acknowledge it and end with a gentle invitation to begin. Keep responses under 120 words.`,
		name, persona)
}

// Respond answers the conversation. The latest user turn is scanned for
// practice-launch intent regardless of where the reply text comes from.
// Never returns an error: provider failures degrade to a built-in reply.
func (s *Service) Respond(ctx context.Context, turns []Turn) Reply {
	lastUser := ""
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].Role == llm.RoleUser && turns[i].Content != "" {
			lastUser = turns[i].Content
			break
		}
	}

	reply := Reply{}
	if id, ok := s.DetectIntent(lastUser); ok {
		reply.Intent = IntentStartGame
		reply.GameID = id
	}

	if s.provider == nil {
		reply.Reply = s.builtinReply(ctx, reply.GameID, "no provider configured")
		return reply
	}

	messages := make([]llm.Message, 0, len(turns))
	for _, t := range turns {
		if t.Content == "" {
			continue
		}
		role := llm.RoleUser
		if t.Role == llm.RoleAssistant {
			role = llm.RoleAssistant
		}
		messages = append(messages, llm.Message{Role: role, Content: t.Content})
	}

	resp, err := s.provider.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: s.systemPrompt(),
		Messages:     messages,
		Temperature:  0.6,
	})
	if err != nil {
		reply.Reply = s.builtinReply(ctx, reply.GameID, err.Error())
		return reply
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		reply.Reply = "I am here with you. Would you like to try a practice together?"
		return reply
	}

	reply.Reply = strings.TrimSpace(resp.Content)
	return reply
}

func (s *Service) builtinReply(ctx context.Context, gameID, reason string) string {
	observe.Logger(ctx).Warn("companion serving built-in reply", "reason", reason)
	if s.metrics != nil {
		s.metrics.RecordFallbackServe(ctx, "assistant")
	}
	if gameID != "" {
		if def, ok := s.catalog.Get(gameID); ok {
			return fmt.Sprintf("Opening the %s practice so you can begin it together.", def.Title)
		}
	}
	return "I hear you. Would you like a reflection, a grounding prompt, or to start a practice like Baggage Claim?"
}

// launchVerbs gate the fuzzy matching pass: a typo-tolerant match only
// counts when the utterance sounds like a request to start something.
// Exact title/alias mentions are honored without a verb.
var launchVerbs = []string{"play", "start", "open", "launch", "begin", "try", "do"}

// DetectIntent scans an utterance for a practice the user wants to start.
// Returns the practice ID and true on a match.
func (s *Service) DetectIntent(text string) (string, bool) {
	norm := normalize(text)
	if norm == "" {
		return "", false
	}

	// Exact pass: the title or an alias appears verbatim.
	for _, def := range s.catalog.All() {
		for _, cand := range candidates(def) {
			if strings.Contains(norm, normalize(cand)) {
				return def.ID, true
			}
		}
	}

	if !containsAny(norm, launchVerbs) {
		return "", false
	}

	// Fuzzy pass: slide a window of the candidate's word count across the
	// utterance and accept small edit distances, so "bagage claim" still
	// opens Baggage Claim.
	words := strings.Fields(norm)
	for _, def := range s.catalog.All() {
		for _, cand := range candidates(def) {
			c := normalize(cand)
			n := len(strings.Fields(c))
			if n == 0 || n > len(words) {
				continue
			}
			for i := 0; i+n <= len(words); i++ {
				window := strings.Join(words[i:i+n], " ")
				if matchr.DamerauLevenshtein(window, c) <= fuzzyThreshold(c) {
					return def.ID, true
				}
			}
		}
	}
	return "", false
}

func candidates(def catalog.Definition) []string {
	out := make([]string, 0, len(def.Aliases)+1)
	out = append(out, def.Title)
	out = append(out, def.Aliases...)
	return out
}

// fuzzyThreshold allows more edits for longer phrases.
func fuzzyThreshold(candidate string) int {
	if len(candidate) < 8 {
		return 1
	}
	return 2
}

func containsAny(norm string, needles []string) bool {
	for _, w := range strings.Fields(norm) {
		for _, n := range needles {
			if w == n {
				return true
			}
		}
	}
	return false
}

// normalize lowercases and strips everything but letters, digits, and
// spaces so punctuation never blocks a match.
func normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '\t', r == '\n':
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}
