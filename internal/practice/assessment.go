package practice

import (
	"fmt"
	"math"
	"sync"
)

// DefaultPassThreshold is the passing score (percent) when none is
// configured.
const DefaultPassThreshold = 80

// Question is one single-choice assessment item.
type Question struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"-"`
	Explanation   string   `json:"explanation"`
}

// AssessmentResult is the outcome of a submitted assessment.
type AssessmentResult struct {
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
}

// Assessment is a scored single-choice quiz. Answers accumulate until
// Submit; Retry wipes them so the next attempt starts clean.
type Assessment struct {
	questions []Question
	threshold int

	mu      sync.Mutex
	answers map[string]int
}

// NewAssessment creates an assessment over the given questions. A
// threshold outside (0,100] falls back to [DefaultPassThreshold].
func NewAssessment(questions []Question, threshold int) *Assessment {
	if threshold <= 0 || threshold > 100 {
		threshold = DefaultPassThreshold
	}
	return &Assessment{
		questions: questions,
		threshold: threshold,
		answers:   make(map[string]int),
	}
}

// Questions returns the quiz items in order.
func (a *Assessment) Questions() []Question {
	out := make([]Question, len(a.questions))
	copy(out, a.questions)
	return out
}

// Answer records the selected option for a question. Re-answering replaces
// the previous selection.
func (a *Assessment) Answer(questionID string, option int) error {
	var q *Question
	for i := range a.questions {
		if a.questions[i].ID == questionID {
			q = &a.questions[i]
			break
		}
	}
	if q == nil {
		return fmt.Errorf("practice: unknown question %q", questionID)
	}
	if option < 0 || option >= len(q.Options) {
		return fmt.Errorf("practice: option %d out of range for question %q", option, questionID)
	}
	a.mu.Lock()
	a.answers[questionID] = option
	a.mu.Unlock()
	return nil
}

// Answered returns how many questions have a recorded answer.
func (a *Assessment) Answered() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.answers)
}

// Submit scores the assessment. Every question must be answered first.
// score = round(100 * correct / total); passed when score meets the
// threshold.
func (a *Assessment) Submit() (AssessmentResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if len(a.answers) < len(a.questions) {
		return AssessmentResult{}, fmt.Errorf("practice: %d of %d questions unanswered",
			len(a.questions)-len(a.answers), len(a.questions))
	}

	correct := 0
	for _, q := range a.questions {
		if a.answers[q.ID] == q.CorrectAnswer {
			correct++
		}
	}
	score := int(math.Round(100 * float64(correct) / float64(len(a.questions))))
	return AssessmentResult{
		Score:   score,
		Passed:  score >= a.threshold,
		Correct: correct,
		Total:   len(a.questions),
	}, nil
}

// Retry clears all recorded answers for a fresh attempt.
func (a *Assessment) Retry() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.answers = make(map[string]int)
}

// SectionQuestions is the built-in check on the core tools of the first
// workbook section.
var SectionQuestions = []Question{
	{
		ID:       "q-pause",
		Question: "A conversation is heating up fast. What does calling Pause commit you both to?",
		Options: []string{
			"Leaving the room until tomorrow",
			"One silent minute of breathing before resuming",
			"Letting the calmer partner finish their point",
			"Changing the subject to something lighter",
		},
		CorrectAnswer: 1,
		Explanation:   "Pause is a one-minute reset: no talking, no phones, then name an appreciation before you resume.",
	},
	{
		ID:       "q-and-what-else",
		Question: `In And What Else?, how may the listening partner respond while the other shares resentments?`,
		Options: []string{
			`Only with "And what else?"`,
			"With a brief explanation of their side",
			"With an apology after each item",
			"With a suggestion for fixing the issue",
		},
		CorrectAnswer: 0,
		Explanation:   "The listener never defends, explains, or fixes. The single question keeps layers surfacing until the sharer hits bottom.",
	},
	{
		ID:       "q-under",
		Question: `When a recurring fight keeps resurfacing, what is "the Under"?`,
		Options: []string{
			"The topic the fight appears to be about",
			"The partner who started the fight",
			"The fear or need beneath the surface topic",
			"The compromise that ends the fight",
		},
		CorrectAnswer: 2,
		Explanation:   "Fights repeat when the surface topic gets argued but the fear underneath never gets named.",
	},
	{
		ID:       "q-pillars",
		Question: "Which of these is one of the Four Pillars of a healthy relationship?",
		Options: []string{
			"Efficiency",
			"Freeness",
			"Agreement",
			"Independence",
		},
		CorrectAnswer: 1,
		Explanation:   "The Four Pillars are Freeness, Wholesomeness, Non-Meanness, and Fairness.",
	},
	{
		ID:       "q-weather",
		Question: "In the Internal Weather Report, what does your partner do after you share your forecast?",
		Options: []string{
			"Suggests how to improve your mood",
			"Rates how accurate your forecast seems",
			"Shares advice from their own experience",
			"Listens without fixing, then shares theirs",
		},
		CorrectAnswer: 3,
		Explanation:   "The weather report is a check-in, not a problem to solve. Listen, then swap.",
	},
}
