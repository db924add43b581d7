package catalog

// This file holds the built-in practice definitions and the structured
// content each one draws on at runtime (matching prompts, stage lists,
// nightly questions). Content is exported so the practice runtime and the
// voice companion can reference it without re-declaring it.

// builtinDefinitions returns the full practice roster in display order.
func builtinDefinitions() []Definition {
	return []Definition{
		{
			ID:          "baggage-claim",
			Title:       "Baggage Claim",
			Tier:        TierBeginner,
			Duration:    "6 min",
			Description: "Sort the stories, impacts, and needs so you can hand your baggage to the right carousel.",
			Instructions: "1. Read the prompt on each suitcase.\n" +
				"2. Tap the reflection that belongs with that suitcase.\n" +
				"3. Check your matches and notice what clears when the baggage is claimed.",
			Behavior: BehaviorMatching,
			Aliases:  []string{"baggage", "the baggage game"},
		},
		{
			ID:          "internal-weather-report",
			Title:       "Internal Weather Report",
			Tier:        TierBeginner,
			Duration:    "5 min",
			Description: "A quick daily practice to share your emotional weather with each other.",
			Instructions: "1. Each partner picks the weather that matches their inner state.\n" +
				"2. Share a sentence about what is behind the forecast.\n" +
				"3. Listen without fixing, then swap.",
			Behavior: BehaviorTurns,
			Aliases:  []string{"weather report", "weather", "iwr"},
		},
		{
			ID:          "pause",
			Title:       "Pause",
			Tier:        TierBeginner,
			Duration:    "2 min",
			Description: "A quick de-escalation tool when a conversation is heating up.",
			Instructions: "1. Either partner calls Pause out loud.\n" +
				"2. Breathe for one full minute. No talking, no phones.\n" +
				"3. When the timer ends, name one thing you appreciate before resuming.",
			Behavior: BehaviorTimed,
			Aliases:  []string{"the pause", "pause game"},
		},
		{
			ID:          "pillar-talk",
			Title:       "Pillar Talk",
			Tier:        TierBeginner,
			Duration:    "15 min",
			Description: "Check in on the Four Pillars of a healthy relationship: Freeness, Wholesomeness, Non-Meanness, and Fairness.",
			Instructions: "1. Rate each pillar 1-10 for how the relationship feels to you right now.\n" +
				"2. Guess how your partner would rate the same pillar.\n" +
				"3. Compare notes and talk about the biggest gap.",
			Behavior: BehaviorChecklist,
			Aliases:  []string{"pillars", "four pillars check-in"},
		},
		{
			ID:          "and-what-else",
			Title:       "And What Else?",
			Tier:        TierIntermediate,
			Duration:    "15 min",
			Description: "Release layers of unspoken resentment through gentle inquiry. The person sharing keeps going until they hit bottom.",
			Instructions: "1. Partner A shares a resentment.\n" +
				"2. Partner B responds only with: \"And what else?\" - no defending, explaining, or fixing.\n" +
				"3. Keep going until Partner A reaches the bottom, then swap roles.",
			Behavior: BehaviorRounds,
			Aliases:  []string{"what else", "and what else"},
		},
		{
			ID:          "closeness-counter",
			Title:       "Closeness Counter",
			Tier:        TierIntermediate,
			Duration:    "30 min",
			Description: "Your physical distance reflects your emotional distance. Stay at that distance for 30-60 minutes - no screens, no distractions.",
			Instructions: "1. Each partner rates the emotional distance 1-10.\n" +
				"2. Place yourselves at the matching physical distance.\n" +
				"3. Hold the distance for the full time, then talk about what shifted.",
			Behavior: BehaviorStaged,
			Aliases:  []string{"closeness", "distance game"},
		},
		{
			ID:          "seven-nights",
			Title:       "Seven Nights of Truth",
			Tier:        TierIntermediate,
			Duration:    "7 nights",
			Description: "Build progressive vulnerability over seven nights. Each night goes deeper than the last.",
			Instructions: "1. One prompt per night, before bed, phones away.\n" +
				"2. Both partners answer the same prompt.\n" +
				"3. Listen fully. No problem-solving until the seventh night is done.",
			Behavior: BehaviorRounds,
			Aliases:  []string{"seven nights", "7 nights"},
		},
		{
			ID:          "switch",
			Title:       "Switch",
			Tier:        TierAdvanced,
			Duration:    "15 min",
			Description: "Argue from your partner's perspective. This isn't about winning - it's about understanding.",
			Instructions: "1. Pick a recurring disagreement (medium-sized, not your biggest wound).\n" +
				"2. Each person argues the OTHER person's side for 2-3 minutes.\n" +
				"3. Your partner listens and corrects if you miss something important.",
			Behavior: BehaviorTurns,
			Aliases:  []string{"the switch", "perspective swap"},
		},
		{
			ID:          "bomb-squad",
			Title:       "Bomb Squad",
			Tier:        TierAdvanced,
			Duration:    "45 min",
			Description: "Defuse the recurring fights that keep blowing up your connection. This is structured repair work - 45 minutes exactly.",
			Instructions: "1. Work through each stage in order; the timer keeps you honest.\n" +
				"2. Write your answers down - vague answers defuse nothing.\n" +
				"3. End with a defusal agreement and a repair plan you both sign off on.",
			Behavior: BehaviorStaged,
			Aliases:  []string{"bombsquad", "defusal"},
		},
		{
			ID:          "section-assessment",
			Title:       "Section Assessment",
			Tier:        TierBeginner,
			Duration:    "5 min",
			Description: "Check your grasp of the core tools before moving on. Pass with 80% or retry as often as you like.",
			Instructions: "1. Answer every question.\n" +
				"2. Submit to see your score and the explanations.\n" +
				"3. Retry with a clean slate if you land under the passing score.",
			Behavior: BehaviorAssessment,
			Aliases:  []string{"assessment", "quiz", "section quiz"},
		},
	}
}

// MatchOption is one candidate reflection for a matching prompt.
type MatchOption struct {
	ID    string `json:"id"`
	Text  string `json:"text"`
	Match bool   `json:"-"`
}

// MatchPrompt is one suitcase in Baggage Claim: a labeled prompt and the
// candidate reflections, exactly one of which belongs to it.
type MatchPrompt struct {
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Description string        `json:"description"`
	Options     []MatchOption `json:"options"`
}

// MatchIndex returns the position of the option that belongs to this
// suitcase, or -1 when none is marked.
func (p MatchPrompt) MatchIndex() int {
	for i, o := range p.Options {
		if o.Match {
			return i
		}
	}
	return -1
}

// BaggageClaimPrompts are the three suitcases of the Baggage Claim practice.
var BaggageClaimPrompts = []MatchPrompt{
	{
		ID:          "story",
		Label:       "Story I am telling myself",
		Description: "Match the inner narrative with the suitcase label it belongs to.",
		Options: []MatchOption{
			{ID: "story-a", Text: "If they really cared they would have checked in.", Match: true},
			{ID: "story-b", Text: "The meeting started at 3pm like the calendar invite said."},
			{ID: "story-c", Text: "The dog barked when the delivery driver knocked."},
		},
	},
	{
		ID:          "impact",
		Label:       "Impact on me right now",
		Description: "Identify which reflection belongs to this suitcase.",
		Options: []MatchOption{
			{ID: "impact-a", Text: "My chest tightens and I want to pull away.", Match: true},
			{ID: "impact-b", Text: "They should already know better than to do that."},
			{ID: "impact-c", Text: "Last year I felt the same way on our anniversary."},
		},
	},
	{
		ID:          "need",
		Label:       "What I am needing",
		Description: "Choose the need that clears this suitcase.",
		Options: []MatchOption{
			{ID: "need-a", Text: "To feel chosen and kept in the loop when plans change.", Match: true},
			{ID: "need-b", Text: "To remind them of the agreement we made months ago."},
			{ID: "need-c", Text: "To point out what happened during our first year together."},
		},
	},
}

// WeatherOption is one selectable state in the Internal Weather Report.
type WeatherOption struct {
	ID          string `json:"id"`
	Label       string `json:"label"`
	Description string `json:"description"`
}

// WeatherOptions are the seven inner-weather states, mildest to most shut
// down.
var WeatherOptions = []WeatherOption{
	{ID: "sunny", Label: "Sunny", Description: "Clear, warm, content"},
	{ID: "partly-cloudy", Label: "Partly Cloudy", Description: "Mixed feelings, some uncertainty"},
	{ID: "drizzly", Label: "Drizzly", Description: "Light sadness, gentle melancholy"},
	{ID: "rainy", Label: "Rainy", Description: "Sadness, tears, grief"},
	{ID: "windy", Label: "Windy", Description: "Restless, scattered, anxious"},
	{ID: "stormy", Label: "Stormy", Description: "Intense emotion, anger, turmoil"},
	{ID: "frozen", Label: "Frozen", Description: "Numb, shut down, distant"},
}

// NightPrompt is one evening's question in Seven Nights of Truth.
type NightPrompt struct {
	Night  int    `json:"night"`
	Prompt string `json:"prompt"`
	Depth  string `json:"depth"`
}

// SevenNightPrompts are the nightly questions, ordered by increasing
// vulnerability.
var SevenNightPrompts = []NightPrompt{
	{Night: 1, Prompt: "What's something small I do that makes you feel loved?", Depth: "low"},
	{Night: 2, Prompt: "What's one thing I could do this week that would help you feel more connected to me?", Depth: "low"},
	{Night: 3, Prompt: "What's a fear you have about our relationship that you haven't said out loud?", Depth: "medium"},
	{Night: 4, Prompt: "What's something you resent about me that you've been holding?", Depth: "medium"},
	{Night: 5, Prompt: "What's something about yourself that you're afraid I'll stop loving if I really knew it?", Depth: "high"},
	{Night: 6, Prompt: "What's the thing you most need from me that you're afraid to ask for?", Depth: "high"},
	{Night: 7, Prompt: "If you could change one thing about how we love each other, what would it be?", Depth: "high"},
}

// Stage is one titled step of a staged practice, with a suggested duration
// in minutes.
type Stage struct {
	Title       string `json:"title"`
	Prompt      string `json:"prompt"`
	Placeholder string `json:"placeholder,omitempty"`
	Minutes     int    `json:"minutes"`
}

// BombSquadStages walk a couple from naming a recurring fight to a concrete
// repair plan. Total suggested time is 45 minutes.
var BombSquadStages = []Stage{
	{
		Title:       "Name the Fight",
		Prompt:      "What do you call this recurring fight? Give it a nickname.",
		Placeholder: `e.g., "The Dishes War", "The Schedule Spiral", "The Money Thing"`,
		Minutes:     3,
	},
	{
		Title:       "The Surface Pattern",
		Prompt:      "What happens on the surface? Describe the visible cycle.",
		Placeholder: "What triggers it? Who says/does what? How does it usually end?",
		Minutes:     5,
	},
	{
		Title:       "Your Under",
		Prompt:      "Partner 1: What are you afraid of underneath this fight?",
		Placeholder: "I'm afraid that...",
		Minutes:     5,
	},
	{
		Title:       "Partner's Under",
		Prompt:      "Partner 2: What are you afraid of underneath this fight?",
		Placeholder: "I'm afraid that...",
		Minutes:     5,
	},
	{
		Title:       "The Real Fight",
		Prompt:      "What's the fight actually about? (Not the surface topic)",
		Placeholder: "Connection? Control? Being valued? Safety? Autonomy?",
		Minutes:     5,
	},
	{
		Title:       "What Both Need",
		Prompt:      "What do BOTH of you need to feel safe/valued/connected?",
		Placeholder: "List what each person truly needs...",
		Minutes:     7,
	},
	{
		Title:       "The Defusal Agreement",
		Prompt:      "What ONE thing can you try differently next time this pattern starts?",
		Placeholder: "A phrase to say? A pause signal? A specific action?",
		Minutes:     10,
	},
	{
		Title:       "The Repair Plan",
		Prompt:      "When this fight happens again (it will), how will you repair?",
		Placeholder: "What will you say/do to reconnect after the fight?",
		Minutes:     5,
	},
}

// ClosenessDistances maps an emotional-distance rating (1 = closest, 10 =
// furthest) to the physical distance a couple holds during Closeness
// Counter. Index with rating-1.
var ClosenessDistances = [10]string{
	"Touching/embracing",
	"Arms length apart",
	"Across a small table",
	"3-4 feet apart",
	"Across a room",
	"In different rooms (door open)",
	"In different rooms (door closed)",
	"On different floors",
	"Outside the house",
	"Completely separate locations",
}

// ClosenessDistance resolves an emotional-distance rating to the physical
// distance the couple holds. Ratings outside 1-10 report false.
func ClosenessDistance(rating int) (string, bool) {
	if rating < 1 || rating > len(ClosenessDistances) {
		return "", false
	}
	return ClosenessDistances[rating-1], true
}

// PillarPrompt is one of the Four Pillars check-in items in Pillar Talk.
type PillarPrompt struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// PillarPrompts are the Four Pillars each partner rates 1-10.
var PillarPrompts = []PillarPrompt{
	{Name: "Freeness", Description: "Can I be myself? Do I feel free to express what I think and feel?"},
	{Name: "Wholesomeness", Description: "Are we bringing out the best in each other? Growing together?"},
	{Name: "Non-Meanness", Description: "Do we treat each other with kindness, even when upset?"},
	{Name: "Fairness", Description: "Is the relationship balanced? Do we both give and receive?"},
}
