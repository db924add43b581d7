// Package catalog defines the built-in roster of relationship practices:
// their identifiers, difficulty tiers, descriptions, and the behavioral
// shape each one takes at runtime (matching, timed, staged, and so on).
//
// The catalog is fixed at construction time and safe for concurrent reads.
// All listing operations preserve the built-in definition order so clients
// render practices in a stable sequence.
package catalog

import (
	"fmt"
	"strings"
)

// Tier is a practice difficulty level. Tiers are ordered: beginner <
// intermediate < advanced. A user working at a given tier has access to
// every practice at that tier and below.
type Tier string

const (
	TierBeginner     Tier = "beginner"
	TierIntermediate Tier = "intermediate"
	TierAdvanced     Tier = "advanced"
)

// tierRank orders tiers for access checks.
var tierRank = map[Tier]int{
	TierBeginner:     0,
	TierIntermediate: 1,
	TierAdvanced:     2,
}

// ParseTier validates a user-supplied tier string. The comparison is
// case-insensitive; the canonical lowercase Tier is returned.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tierRank[t]; !ok {
		return "", fmt.Errorf("unknown tier %q (valid: beginner, intermediate, advanced)", s)
	}
	return t, nil
}

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	_, ok := tierRank[t]
	return ok
}

// Allows reports whether a user at tier t may access a practice at tier
// other. Higher tiers include everything below them.
func (t Tier) Allows(other Tier) bool {
	return tierRank[t] >= tierRank[other]
}

// Description returns the short blurb shown alongside each tier when the
// user picks a level.
func (t Tier) Description() string {
	switch t {
	case TierBeginner:
		return "Gentle introductions that build shared language."
	case TierIntermediate:
		return "Adds embodied check-ins and collaborative experiments."
	case TierAdvanced:
		return "For seasoned pairs integrating playful rigor."
	}
	return ""
}

// BehaviorKind tags the runtime shape of a practice. The practice runtime
// uses it to decide which step machine to build for a launched practice.
type BehaviorKind string

const (
	// BehaviorMatching pairs prompts with the reflection that belongs to
	// them (Baggage Claim).
	BehaviorMatching BehaviorKind = "matching"

	// BehaviorTimed runs a countdown the practice centers on (Pause).
	BehaviorTimed BehaviorKind = "timed"

	// BehaviorTurns alternates between partners through fixed steps
	// (Internal Weather Report, Switch).
	BehaviorTurns BehaviorKind = "turns"

	// BehaviorRounds repeats an open-ended prompt until the participant
	// decides they are done (And What Else, Seven Nights).
	BehaviorRounds BehaviorKind = "rounds"

	// BehaviorStaged walks through a sequence of titled stages, each with
	// its own prompt and suggested duration (Bomb Squad, Closeness Counter).
	BehaviorStaged BehaviorKind = "staged"

	// BehaviorChecklist collects a rating or check per item (Pillar Talk).
	BehaviorChecklist BehaviorKind = "checklist"

	// BehaviorAssessment is a scored multiple-choice quiz with a pass
	// threshold.
	BehaviorAssessment BehaviorKind = "assessment"
)

// Definition describes one practice in the catalog.
type Definition struct {
	// ID is the stable identifier used in URLs and progress records.
	ID string `json:"id"`

	// Title is the display name.
	Title string `json:"title"`

	// Tier is the minimum difficulty level at which the practice unlocks.
	Tier Tier `json:"level"`

	// Duration is a human-readable time estimate, e.g. "6 min".
	Duration string `json:"duration"`

	// Description is the one-sentence pitch shown on the practice card.
	Description string `json:"description"`

	// Instructions is the numbered how-to text, newline-separated.
	Instructions string `json:"instructions"`

	// Behavior selects the runtime step machine for this practice.
	Behavior BehaviorKind `json:"-"`

	// Aliases are alternative names the voice companion accepts when the
	// user asks for this practice by name. The Title itself is always
	// matched; aliases cover common shorthand.
	Aliases []string `json:"-"`
}

// Catalog is the immutable set of built-in practice definitions.
type Catalog struct {
	defs []Definition
	byID map[string]int
}

// New returns the built-in catalog.
func New() *Catalog {
	defs := builtinDefinitions()
	byID := make(map[string]int, len(defs))
	for i, d := range defs {
		byID[d.ID] = i
	}
	return &Catalog{defs: defs, byID: byID}
}

// Get looks up a practice by ID.
func (c *Catalog) Get(id string) (Definition, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i], true
}

// All returns every definition in catalog order. The returned slice is a
// copy and safe for the caller to modify.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	copy(out, c.defs)
	return out
}

// ByTier returns the practices unlocked at tier t, in catalog order. A
// practice is included when t.Allows(practice.Tier).
func (c *Catalog) ByTier(t Tier) []Definition {
	var out []Definition
	for _, d := range c.defs {
		if t.Allows(d.Tier) {
			out = append(out, d)
		}
	}
	return out
}

// Len returns the number of practices in the catalog.
func (c *Catalog) Len() int {
	return len(c.defs)
}
