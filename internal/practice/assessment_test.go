package practice

import "testing"

func fiveQuestions() []Question {
	qs := make([]Question, 5)
	for i := range qs {
		qs[i] = Question{
			ID:            string(rune('a' + i)),
			Question:      "pick the first option",
			Options:       []string{"right", "wrong", "also wrong"},
			CorrectAnswer: 0,
		}
	}
	return qs
}

// answerAll records answers so that `correct` of the five are right.
func answerAll(t *testing.T, a *Assessment, correct int) {
	t.Helper()
	for i, q := range a.Questions() {
		choice := 0
		if i >= correct {
			choice = 1
		}
		if err := a.Answer(q.ID, choice); err != nil {
			t.Fatalf("Answer(%s): %v", q.ID, err)
		}
	}
}

func TestAssessment_FourOfFivePasses(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 0)
	answerAll(t, a, 4)

	res, err := a.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 80 {
		t.Errorf("score = %d, want 80", res.Score)
	}
	if !res.Passed {
		t.Error("80 should pass at the default threshold")
	}
	if res.Correct != 4 || res.Total != 5 {
		t.Errorf("correct/total = %d/%d, want 4/5", res.Correct, res.Total)
	}
}

func TestAssessment_ThreeOfFiveFails(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 0)
	answerAll(t, a, 3)

	res, err := a.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 60 {
		t.Errorf("score = %d, want 60", res.Score)
	}
	if res.Passed {
		t.Error("60 should fail at the default threshold")
	}
}

func TestAssessment_CustomThreshold(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 60)
	answerAll(t, a, 3)

	res, err := a.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if !res.Passed {
		t.Error("60 should pass at a 60 threshold")
	}
}

func TestAssessment_SubmitRequiresAllAnswers(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 0)
	if err := a.Answer("a", 0); err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if _, err := a.Submit(); err == nil {
		t.Fatal("Submit with unanswered questions should error")
	}
}

func TestAssessment_RetryClearsAnswers(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 0)
	answerAll(t, a, 5)
	if a.Answered() != 5 {
		t.Fatalf("answered = %d, want 5", a.Answered())
	}

	a.Retry()
	if a.Answered() != 0 {
		t.Fatalf("answered after retry = %d, want 0", a.Answered())
	}
	if _, err := a.Submit(); err == nil {
		t.Fatal("Submit after retry should require fresh answers")
	}
}

func TestAssessment_AnswerValidation(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 0)
	if err := a.Answer("zz", 0); err == nil {
		t.Error("unknown question should error")
	}
	if err := a.Answer("a", 3); err == nil {
		t.Error("out-of-range option should error")
	}
	if err := a.Answer("a", -1); err == nil {
		t.Error("negative option should error")
	}
}

func TestAssessment_ReanswerReplacesSelection(t *testing.T) {
	a := NewAssessment(fiveQuestions(), 0)
	answerAll(t, a, 0) // all wrong
	for _, q := range a.Questions() {
		if err := a.Answer(q.ID, 0); err != nil {
			t.Fatalf("re-answer: %v", err)
		}
	}
	res, err := a.Submit()
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if res.Score != 100 {
		t.Errorf("score = %d, want 100 after re-answering", res.Score)
	}
}

func TestSectionQuestions_WellFormed(t *testing.T) {
	if len(SectionQuestions) == 0 {
		t.Fatal("no built-in section questions")
	}
	for _, q := range SectionQuestions {
		if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
			t.Errorf("question %q: correct answer %d out of range", q.ID, q.CorrectAnswer)
		}
		if q.Explanation == "" {
			t.Errorf("question %q has no explanation", q.ID)
		}
	}
}
