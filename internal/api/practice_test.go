package api

import (
	"net/http"
	"testing"

	"github.com/truthempowered/tercoach/internal/catalog"
	"github.com/truthempowered/tercoach/internal/practice"
)

func TestPlan_ServesSteps(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/games/pause/plan", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		PracticeID string `json:"practiceId"`
		Steps      []struct {
			ID              string `json:"id"`
			Kind            string `json:"kind"`
			DurationSeconds int    `json:"durationSeconds"`
		} `json:"steps"`
	}
	decode(t, rec, &resp)
	if resp.PracticeID != "pause" {
		t.Errorf("practiceId = %q", resp.PracticeID)
	}
	if len(resp.Steps) != 3 {
		t.Fatalf("steps = %d, want intro + countdown + reflection", len(resp.Steps))
	}
	if resp.Steps[0].Kind != string(practice.StepIntro) {
		t.Errorf("first step kind = %q", resp.Steps[0].Kind)
	}
	if resp.Steps[1].Kind != string(practice.StepCountdown) || resp.Steps[1].DurationSeconds != 60 {
		t.Errorf("countdown step = %+v, want 60s countdown", resp.Steps[1])
	}
	if resp.Steps[2].Kind != string(practice.StepReflection) {
		t.Errorf("last step kind = %q", resp.Steps[2].Kind)
	}
}

func TestPlan_UnknownPractice(t *testing.T) {
	h := newTestHandler(t, nil)
	rec := doJSON(t, h, http.MethodGet, "/api/games/no-such-game/plan", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func suitcaseSelections() map[string]int {
	sel := make(map[string]int, len(catalog.BaggageClaimPrompts))
	for _, p := range catalog.BaggageClaimPrompts {
		sel[p.ID] = p.MatchIndex()
	}
	return sel
}

func TestMatch_GradesAndReveals(t *testing.T) {
	h := newTestHandler(t, nil)

	sel := suitcaseSelections()
	first := catalog.BaggageClaimPrompts[0]
	sel[first.ID] = (first.MatchIndex() + 1) % len(first.Options)

	rec := doJSON(t, h, http.MethodPost, "/api/games/baggage-claim/match",
		matchRequest{Selections: sel})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var result practice.MatchResult
	decode(t, rec, &result)
	if result.Total != len(catalog.BaggageClaimPrompts) || result.Correct != result.Total-1 {
		t.Errorf("correct/total = %d/%d, want %d/%d",
			result.Correct, result.Total, result.Total-1, len(catalog.BaggageClaimPrompts))
	}
	if result.Results[0].Correct || result.Results[0].Match != first.MatchIndex() {
		t.Errorf("first suitcase = %+v, want wrong pick with revealed match %d",
			result.Results[0], first.MatchIndex())
	}
}

func TestMatch_Validation(t *testing.T) {
	h := newTestHandler(t, nil)

	// An incomplete round cannot be graded.
	sel := suitcaseSelections()
	delete(sel, catalog.BaggageClaimPrompts[0].ID)
	rec := doJSON(t, h, http.MethodPost, "/api/games/baggage-claim/match",
		matchRequest{Selections: sel})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("incomplete selections: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/games/pause/match",
		matchRequest{Selections: suitcaseSelections()})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("non-matching practice: status = %d, want 400", rec.Code)
	}

	rec = doJSON(t, h, http.MethodPost, "/api/games/no-such-game/match",
		matchRequest{Selections: suitcaseSelections()})
	if rec.Code != http.StatusNotFound {
		t.Errorf("unknown practice: status = %d, want 404", rec.Code)
	}
}

func TestAssessment_QuestionsHideAnswers(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodGet, "/api/assessment", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Questions []map[string]any `json:"questions"`
	}
	decode(t, rec, &resp)
	if len(resp.Questions) != len(practice.SectionQuestions) {
		t.Fatalf("questions = %d, want %d", len(resp.Questions), len(practice.SectionQuestions))
	}
	for _, q := range resp.Questions {
		if _, leaked := q["CorrectAnswer"]; leaked {
			t.Error("correct answer leaked in questions payload")
		}
		if _, leaked := q["correctAnswer"]; leaked {
			t.Error("correct answer leaked in questions payload")
		}
	}
}

func correctAnswers() map[string]int {
	answers := make(map[string]int, len(practice.SectionQuestions))
	for _, q := range practice.SectionQuestions {
		answers[q.ID] = q.CorrectAnswer
	}
	return answers
}

func TestAssessment_GradesSubmission(t *testing.T) {
	h := newTestHandler(t, nil)

	rec := doJSON(t, h, http.MethodPost, "/api/assessment",
		assessmentRequest{Answers: correctAnswers()})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}

	var result practice.AssessmentResult
	decode(t, rec, &result)
	if result.Score != 100 || !result.Passed {
		t.Errorf("result = %+v, want perfect pass", result)
	}
	if result.Total != len(practice.SectionQuestions) {
		t.Errorf("total = %d", result.Total)
	}
}

func TestAssessment_IncompleteRejected(t *testing.T) {
	h := newTestHandler(t, nil)

	answers := correctAnswers()
	for id := range answers {
		delete(answers, id)
		break
	}
	rec := doJSON(t, h, http.MethodPost, "/api/assessment", assessmentRequest{Answers: answers})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestAssessment_ConfiguredThreshold(t *testing.T) {
	h := newTestHandler(t, func(cfg *Config) {
		cfg.PassThreshold = 100
	})

	// One wrong answer out of five: 80%, below the raised threshold.
	answers := correctAnswers()
	first := practice.SectionQuestions[0]
	answers[first.ID] = (first.CorrectAnswer + 1) % len(first.Options)

	rec := doJSON(t, h, http.MethodPost, "/api/assessment", assessmentRequest{Answers: answers})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body: %s", rec.Code, rec.Body.String())
	}
	var result practice.AssessmentResult
	decode(t, rec, &result)
	if result.Score != 80 || result.Passed {
		t.Errorf("result = %+v, want 80%% fail at threshold 100", result)
	}
}
