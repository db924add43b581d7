// Package pillars holds the Four Pillars reference content: the foundation
// concepts of Truth Empowered Relationships, served read-only to clients.
package pillars

// Pillar is one of the Four Pillars of a healthy relationship.
type Pillar struct {
	// Number orders the pillar (1-4).
	Number int `json:"number"`

	// Name is the pillar's title.
	Name string `json:"name"`

	// Essence is the one-line definition.
	Essence string `json:"essence"`

	// InPractice describes what living the pillar looks like.
	InPractice string `json:"inPractice"`

	// Examples are concrete everyday illustrations.
	Examples []string `json:"examples"`

	// Under is the fear that erodes the pillar when it goes unspoken.
	Under string `json:"under"`
}

// All returns the Four Pillars in order.
func All() []Pillar {
	return []Pillar{
		{
			Number:     1,
			Name:       "Freeness",
			Essence:    "The freedom to be yourself without judgment",
			InPractice: "Express authentic emotions, uncomfortable truths, and deep fears without punishment or rejection",
			Examples: []string{
				"Sharing unpopular opinions without being dismissed",
				`Crying without being told to "be strong"`,
				"Admitting mistakes without shame",
			},
			Under: `"I'm afraid if you see the real me, you'll leave"`,
		},
		{
			Number:     2,
			Name:       "Wholesomeness",
			Essence:    "Genuine commitment to each other's wellbeing",
			InPractice: "Actively support growth, healing, and happiness as if they were your own",
			Examples: []string{
				"Celebrating victories enthusiastically",
				"Supporting through challenges without fixing",
				"Encouraging personal growth even if it's scary",
			},
			Under: `"I'm afraid your growth means you'll outgrow me"`,
		},
		{
			Number:     3,
			Name:       "Non-Meanness",
			Essence:    "Never intentionally hurting each other",
			InPractice: "Maintain respect even in conflict, choose kindness when triggered",
			Examples: []string{
				"Pausing when angry instead of attacking",
				"Protecting dignity in public",
				"Avoiding known triggers deliberately",
			},
			Under: `"I'm afraid if I don't hurt you first, you'll hurt me"`,
		},
		{
			Number:     4,
			Name:       "Fairness",
			Essence:    "Equal respect and consideration for both partners",
			InPractice: "Both needs matter equally, both voices heard, both boundaries respected",
			Examples: []string{
				"Taking turns being heard",
				"Equal say in decisions",
				"Shared emotional labor",
			},
			Under: `"I'm afraid my needs don't matter as much as yours"`,
		},
	}
}
