package practice

import (
	"fmt"

	"github.com/truthempowered/tercoach/internal/catalog"
)

// MatchCheck is the graded outcome for one suitcase: the selected option,
// whether it was the one that belongs, and the revealed answer.
type MatchCheck struct {
	PromptID string `json:"promptId"`
	Selected int    `json:"selected"`
	Correct  bool   `json:"correct"`
	Match    int    `json:"match"`
}

// MatchResult is the reveal payload for a completed matching round.
type MatchResult struct {
	Correct int          `json:"correct"`
	Total   int          `json:"total"`
	Results []MatchCheck `json:"results"`
}

// GradeMatching scores one selection per suitcase and reveals which option
// belongs to each. Selections map prompt IDs to option indices; every
// prompt needs a selection within range.
func GradeMatching(prompts []catalog.MatchPrompt, selections map[string]int) (MatchResult, error) {
	res := MatchResult{Total: len(prompts)}
	for _, p := range prompts {
		sel, ok := selections[p.ID]
		if !ok {
			return MatchResult{}, fmt.Errorf("practice: no selection for %q", p.ID)
		}
		if sel < 0 || sel >= len(p.Options) {
			return MatchResult{}, fmt.Errorf("practice: option %d out of range for %q", sel, p.ID)
		}
		check := MatchCheck{
			PromptID: p.ID,
			Selected: sel,
			Match:    p.MatchIndex(),
		}
		check.Correct = sel == check.Match
		if check.Correct {
			res.Correct++
		}
		res.Results = append(res.Results, check)
	}
	return res, nil
}
