package practice

import (
	"testing"

	"github.com/truthempowered/tercoach/internal/catalog"
)

func correctSelections() map[string]int {
	sel := make(map[string]int, len(catalog.BaggageClaimPrompts))
	for _, p := range catalog.BaggageClaimPrompts {
		sel[p.ID] = p.MatchIndex()
	}
	return sel
}

func TestGradeMatching_AllCorrect(t *testing.T) {
	res, err := GradeMatching(catalog.BaggageClaimPrompts, correctSelections())
	if err != nil {
		t.Fatalf("GradeMatching: %v", err)
	}
	if res.Correct != res.Total || res.Total != len(catalog.BaggageClaimPrompts) {
		t.Fatalf("correct/total = %d/%d, want %d/%d",
			res.Correct, res.Total, len(catalog.BaggageClaimPrompts), len(catalog.BaggageClaimPrompts))
	}
	for _, c := range res.Results {
		if !c.Correct || c.Selected != c.Match {
			t.Errorf("suitcase %q: selected %d, match %d, correct %v",
				c.PromptID, c.Selected, c.Match, c.Correct)
		}
	}
}

func TestGradeMatching_RevealsWrongPick(t *testing.T) {
	first := catalog.BaggageClaimPrompts[0]
	sel := correctSelections()
	sel[first.ID] = (first.MatchIndex() + 1) % len(first.Options)

	res, err := GradeMatching(catalog.BaggageClaimPrompts, sel)
	if err != nil {
		t.Fatalf("GradeMatching: %v", err)
	}
	if res.Correct != res.Total-1 {
		t.Errorf("correct = %d, want %d", res.Correct, res.Total-1)
	}
	wrong := res.Results[0]
	if wrong.Correct {
		t.Error("wrong pick graded correct")
	}
	if wrong.Match != first.MatchIndex() {
		t.Errorf("revealed match = %d, want %d", wrong.Match, first.MatchIndex())
	}
}

func TestGradeMatching_RejectsIncompleteOrOutOfRange(t *testing.T) {
	sel := correctSelections()
	delete(sel, catalog.BaggageClaimPrompts[0].ID)
	if _, err := GradeMatching(catalog.BaggageClaimPrompts, sel); err == nil {
		t.Error("missing selection accepted")
	}

	sel = correctSelections()
	sel[catalog.BaggageClaimPrompts[0].ID] = 99
	if _, err := GradeMatching(catalog.BaggageClaimPrompts, sel); err == nil {
		t.Error("out-of-range selection accepted")
	}
}
