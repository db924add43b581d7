package api

import (
	"encoding/json"
	"net/http"

	"github.com/truthempowered/tercoach/internal/catalog"
	"github.com/truthempowered/tercoach/internal/practice"
)

// planStep widens [practice.Step] with a JSON-friendly duration so clients
// can drive countdown steps without parsing Go durations.
type planStep struct {
	practice.Step
	DurationSeconds int `json:"durationSeconds,omitempty"`
}

type planResponse struct {
	PracticeID string     `json:"practiceId"`
	Title      string     `json:"title"`
	Steps      []planStep `json:"steps"`
}

// handlePlan serves the step sequence for one practice so clients can run
// it without hardcoding the flow.
func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	def, ok := s.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown practice")
		return
	}

	plan := practice.PlanFor(def)
	steps := make([]planStep, len(plan.Steps))
	for i, st := range plan.Steps {
		steps[i] = planStep{Step: st, DurationSeconds: int(st.Duration.Seconds())}
	}
	writeJSON(w, http.StatusOK, planResponse{
		PracticeID: plan.PracticeID,
		Title:      plan.Title,
		Steps:      steps,
	})
}

type matchRequest struct {
	// Selections maps suitcase IDs to the chosen option index.
	Selections map[string]int `json:"selections"`
}

// handleMatch grades a matching practice server-side and reveals which
// option belongs to each suitcase. The answer key never leaves the server
// until the client submits.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	def, ok := s.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "Unknown practice")
		return
	}
	if def.Behavior != catalog.BehaviorMatching {
		writeError(w, http.StatusBadRequest, "Not a matching practice")
		return
	}

	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	result, err := practice.GradeMatching(catalog.BaggageClaimPrompts, req.Selections)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type assessmentRequest struct {
	// Answers maps question IDs to the selected option index.
	Answers map[string]int `json:"answers"`
}

// handleAssessment grades the section assessment server-side. Correct
// answers never leave the server; the client submits option indices and
// gets back the score and pass verdict.
func (s *Server) handleAssessment(w http.ResponseWriter, r *http.Request) {
	var req assessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	a := practice.NewAssessment(practice.SectionQuestions, int(s.passThreshold.Load()))
	for id, option := range req.Answers {
		if err := a.Answer(id, option); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	result, err := a.Submit()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleAssessmentQuestions lists the section assessment items. The
// CorrectAnswer field is excluded from the JSON encoding.
func (s *Server) handleAssessmentQuestions(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"questions": practice.SectionQuestions,
	})
}
