// Package practice runs launched practices as step machines. A plan is
// derived from a catalog definition once; a runtime walks the plan forward
// (with explicit back-steps), gates advancement on required input, drives
// countdown steps at 1 Hz, and fires its completion callback exactly once.
// Abandoning a runtime persists nothing.
package practice

import (
	"fmt"
	"time"

	"github.com/truthempowered/tercoach/internal/catalog"
)

// StepKind classifies a plan step.
type StepKind string

const (
	// StepIntro presents the practice and its instructions.
	StepIntro StepKind = "intro"

	// StepPrompt asks for a response; when RequiresInput is set the
	// runtime refuses to advance until input is recorded.
	StepPrompt StepKind = "prompt"

	// StepChoice presents fixed options to pick from.
	StepChoice StepKind = "choice"

	// StepCountdown holds the participant for a fixed duration.
	StepCountdown StepKind = "countdown"

	// StepReflection closes the practice.
	StepReflection StepKind = "reflection"
)

// Step is one stop in a practice plan.
type Step struct {
	ID            string        `json:"id"`
	Kind          StepKind      `json:"kind"`
	Title         string        `json:"title"`
	Prompt        string        `json:"prompt,omitempty"`
	Placeholder   string        `json:"placeholder,omitempty"`
	Options       []string      `json:"options,omitempty"`
	RequiresInput bool          `json:"requiresInput,omitempty"`
	Duration      time.Duration `json:"-"`
}

// Plan is the ordered step sequence for one practice.
type Plan struct {
	PracticeID string `json:"practiceId"`
	Title      string `json:"title"`
	Steps      []Step `json:"steps"`
}

// PlanFor builds the step plan for a catalog definition. Every practice
// opens with an intro and closes with a reflection; what sits between
// depends on the practice's behavior kind.
func PlanFor(def catalog.Definition) Plan {
	steps := []Step{{
		ID:     "intro",
		Kind:   StepIntro,
		Title:  def.Title,
		Prompt: def.Instructions,
	}}
	steps = append(steps, activeSteps(def)...)
	steps = append(steps, Step{
		ID:     "reflection",
		Kind:   StepReflection,
		Title:  "Reflection",
		Prompt: "What did you notice? Name one thing that shifted.",
	})
	return Plan{PracticeID: def.ID, Title: def.Title, Steps: steps}
}

func activeSteps(def catalog.Definition) []Step {
	switch def.ID {
	case "baggage-claim":
		steps := make([]Step, 0, len(catalog.BaggageClaimPrompts))
		for _, p := range catalog.BaggageClaimPrompts {
			options := make([]string, len(p.Options))
			for i, o := range p.Options {
				options[i] = o.Text
			}
			steps = append(steps, Step{
				ID:            p.ID,
				Kind:          StepChoice,
				Title:         p.Label,
				Prompt:        p.Description,
				Options:       options,
				RequiresInput: true,
			})
		}
		return steps

	case "internal-weather-report":
		options := make([]string, len(catalog.WeatherOptions))
		for i, w := range catalog.WeatherOptions {
			options[i] = w.Label + " - " + w.Description
		}
		return []Step{
			{
				ID: "your-turn", Kind: StepChoice, Title: "Your Forecast",
				Prompt:        "Pick the weather that matches your inner state, then share a sentence about what is behind it.",
				Options:       options,
				RequiresInput: true,
			},
			{
				ID: "partner-turn", Kind: StepChoice, Title: "Partner's Forecast",
				Prompt:        "Now your partner picks theirs. Listen without fixing.",
				Options:       options,
				RequiresInput: true,
			},
		}

	case "pause":
		return []Step{{
			ID: "pausing", Kind: StepCountdown, Title: "Pausing",
			Prompt:   "Breathe. No talking, no phones. The timer will let you know when the minute is up.",
			Duration: time.Minute,
		}}

	case "pillar-talk":
		steps := make([]Step, 0, len(catalog.PillarPrompts)+1)
		for _, p := range catalog.PillarPrompts {
			steps = append(steps, Step{
				ID:            "rate-" + p.Name,
				Kind:          StepPrompt,
				Title:         p.Name,
				Prompt:        p.Description + " Rate 1-10, then guess your partner's rating.",
				RequiresInput: true,
			})
		}
		steps = append(steps, Step{
			ID: "discussion", Kind: StepPrompt, Title: "Compare Notes",
			Prompt: "Where is the biggest gap between your ratings? Talk about that pillar first.",
		})
		return steps

	case "and-what-else":
		return []Step{{
			ID: "process", Kind: StepPrompt, Title: "Release the Layers",
			Prompt:        `Share what you resent. Your partner only responds with: "And what else?" Keep going until you hit bottom, then swap.`,
			Placeholder:   "I resent that...",
			RequiresInput: true,
		}}

	case "closeness-counter":
		options := make([]string, len(catalog.ClosenessDistances))
		for i, d := range catalog.ClosenessDistances {
			options[i] = fmt.Sprintf("%d - %s", i+1, d)
		}
		return []Step{
			{
				ID: "setup", Kind: StepChoice, Title: "Set the Distance",
				Prompt:        "Each partner rates the emotional distance 1-10. Take the physical distance matching the higher rating.",
				Options:       options,
				RequiresInput: true,
			},
			{
				ID: "active", Kind: StepCountdown, Title: "Hold the Distance",
				Prompt:   "Stay at that distance. No screens, no distractions.",
				Duration: 30 * time.Minute,
			},
		}

	case "seven-nights":
		steps := make([]Step, 0, len(catalog.SevenNightPrompts))
		for _, n := range catalog.SevenNightPrompts {
			steps = append(steps, Step{
				ID:            fmt.Sprintf("night-%d", n.Night),
				Kind:          StepPrompt,
				Title:         fmt.Sprintf("Night %d", n.Night),
				Prompt:        n.Prompt,
				RequiresInput: true,
			})
		}
		return steps

	case "switch":
		return []Step{
			{
				ID: "setup", Kind: StepPrompt, Title: "Pick the Issue",
				Prompt:        "Pick a recurring disagreement. Medium-sized, not your biggest wound.",
				RequiresInput: true,
			},
			{
				ID: "partner-a", Kind: StepPrompt, Title: "Partner A Switches",
				Prompt:        "Partner A: make the best case for Partner B's viewpoint, 2-3 minutes.",
				RequiresInput: true,
			},
			{
				ID: "partner-b", Kind: StepPrompt, Title: "Partner B Switches",
				Prompt:        "Partner B: make the best case for Partner A's viewpoint, 2-3 minutes.",
				RequiresInput: true,
			},
		}

	case "bomb-squad":
		steps := make([]Step, 0, len(catalog.BombSquadStages))
		for i, s := range catalog.BombSquadStages {
			steps = append(steps, Step{
				ID:            fmt.Sprintf("stage-%d", i+1),
				Kind:          StepPrompt,
				Title:         s.Title,
				Prompt:        s.Prompt,
				Placeholder:   s.Placeholder,
				RequiresInput: true,
				Duration:      time.Duration(s.Minutes) * time.Minute,
			})
		}
		return steps

	case "section-assessment":
		steps := make([]Step, 0, len(SectionQuestions))
		for _, q := range SectionQuestions {
			steps = append(steps, Step{
				ID:            q.ID,
				Kind:          StepChoice,
				Title:         "Question",
				Prompt:        q.Question,
				Options:       q.Options,
				RequiresInput: true,
			})
		}
		return steps
	}

	// Unrecognized practices still get a usable single-prompt plan.
	return []Step{{
		ID: "active", Kind: StepPrompt, Title: def.Title,
		Prompt: def.Description,
	}}
}
