package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/truthempowered/tercoach/internal/catalog"
	"github.com/truthempowered/tercoach/internal/pillars"
	"github.com/truthempowered/tercoach/internal/progress"
)

// handlePillars serves the Four Pillars reference content.
func (s *Server) handlePillars(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, struct {
		Pillars []pillars.Pillar `json:"pillars"`
	}{Pillars: pillars.All()})
}

// handleGames lists the practices unlocked at the requested tier with the
// device user's progress. Without a tier parameter the full catalog is
// returned.
func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	tier := catalog.TierAdvanced
	if raw := r.URL.Query().Get("tier"); raw != "" {
		var err error
		tier, err = catalog.ParseTier(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}

	summary := s.progress.LoadSummary(r.Context(), DeviceID(r.Context()), tier)
	writeJSON(w, http.StatusOK, struct {
		Tier            catalog.Tier              `json:"tier"`
		TierDescription string                    `json:"tierDescription"`
		Games           []progress.PracticeStatus `json:"games"`
	}{Tier: tier, TierDescription: tier.Description(), Games: summary})
}

// handleLaunch marks a practice as the active target.
func (s *Server) handleLaunch(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.progress.Launch(id); err != nil {
		writeError(w, http.StatusNotFound, "unknown practice: "+id)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordPracticeLaunch(r.Context(), id)
	}
	w.WriteHeader(http.StatusNoContent)
}

// completeRequest is the optional body of a completion; assessments report
// their score.
type completeRequest struct {
	Score  *int  `json:"score"`
	Passed *bool `json:"passed"`
}

// handleComplete records a completion for the device user. Replaying a
// completion is allowed and refreshes the completion timestamp.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	def, ok := s.catalog.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, "unknown practice: "+id)
		return
	}

	var req completeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}

	// Only assessments carry a score; anything else reporting one is a
	// client error.
	var opts []progress.CompleteOption
	if req.Score != nil && req.Passed != nil {
		if def.Behavior != catalog.BehaviorAssessment {
			writeError(w, http.StatusBadRequest, "score reported for a practice that is not an assessment")
			return
		}
		opts = append(opts, progress.WithAssessmentResult(*req.Score, *req.Passed))
	}

	userID := DeviceID(r.Context())
	if err := s.progress.Complete(r.Context(), userID, id, opts...); err != nil {
		writeError(w, http.StatusNotFound, "unknown practice: "+id)
		return
	}
	if s.metrics != nil {
		s.metrics.RecordPracticeCompletion(r.Context(), id)
	}

	summary := s.progress.LoadSummary(r.Context(), userID, catalog.TierAdvanced)
	for _, status := range summary {
		if status.Definition.ID == id {
			writeJSON(w, http.StatusOK, status)
			return
		}
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleProgress serves the full completion summary for the device user.
func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	userID := DeviceID(r.Context())
	summary := s.progress.LoadSummary(r.Context(), userID, catalog.TierAdvanced)

	completed := 0
	for _, status := range summary {
		if status.State == progress.StateCompleted {
			completed++
		}
	}

	writeJSON(w, http.StatusOK, struct {
		UserID    string                    `json:"userId"`
		Completed int                       `json:"completed"`
		Total     int                       `json:"total"`
		Practices []progress.PracticeStatus `json:"practices"`
	}{
		UserID:    userID,
		Completed: completed,
		Total:     len(summary),
		Practices: summary,
	})
}
