package api

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/truthempowered/tercoach/internal/assistant"
	"github.com/truthempowered/tercoach/internal/observe"
	"github.com/truthempowered/tercoach/internal/translator"
	"github.com/truthempowered/tercoach/pkg/provider/stt"
	"github.com/truthempowered/tercoach/pkg/provider/tts"
)

// maxAudioBytes caps uploaded audio at the Whisper API limit.
const maxAudioBytes = 25 << 20

// handleTranslate runs a TES or TEL translation. Provider failures serve
// the built-in example translation, never an error status.
func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode  string `json:"mode"`
		Input string `json:"input"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}
	mode, err := translator.ParseMode(req.Mode)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Input == "" {
		writeError(w, http.StatusBadRequest, "input must not be empty")
		return
	}

	result := s.translator.Translate(r.Context(), mode, req.Input)
	if result.TES != nil {
		writeJSON(w, http.StatusOK, result.TES)
		return
	}
	writeJSON(w, http.StatusOK, result.TEL)
}

// handleAnalyze runs the mediator over a transcript segment.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Transcript string `json:"transcript"`
		Speaker    string `json:"speaker"`
		Duration   int    `json:"duration"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}
	if req.Transcript == "" {
		writeError(w, http.StatusBadRequest, "transcript must not be empty")
		return
	}

	analysis := s.mediator.Analyze(r.Context(), req.Transcript, req.Speaker, req.Duration)
	writeJSON(w, http.StatusOK, analysis)
}

// transcribeResponse carries the transcription text; Note is set when the
// fallback text was served.
type transcribeResponse struct {
	Text string `json:"text"`
	Note string `json:"error,omitempty"`
}

// handleTranscribe accepts multipart audio and returns its transcript. A
// missing provider serves a mode-specific example utterance; a provider
// failure serves a generic one. Both are 200s.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxAudioBytes); err != nil {
		writeError(w, http.StatusBadRequest, "malformed multipart body: "+err.Error())
		return
	}
	file, header, err := r.FormFile("audio")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No audio file provided")
		return
	}
	defer file.Close()
	mode := r.FormValue("mode")

	if s.stt == nil {
		s.recordFallback(r, "transcribe", "no provider configured")
		text := "You never help with anything around the house"
		if mode == "TES" {
			text = "I feel frustrated when you don't listen to me"
		}
		writeJSON(w, http.StatusOK, transcribeResponse{Text: text})
		return
	}

	audio, err := io.ReadAll(io.LimitReader(file, maxAudioBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "reading audio: "+err.Error())
		return
	}

	prompt := "Transcribe what someone said to their partner."
	if mode == "TES" {
		prompt = "Transcribe this emotional expression about a relationship issue."
	}

	text, err := s.stt.Transcribe(r.Context(), stt.Request{
		Audio:    audio,
		Filename: header.Filename,
		Language: "en",
		Prompt:   prompt,
	})
	if err != nil {
		s.recordFallback(r, "transcribe", err.Error())
		writeJSON(w, http.StatusOK, transcribeResponse{
			Text: "I need to talk about something that's been bothering me",
			Note: "Transcription failed, using fallback",
		})
		return
	}
	writeJSON(w, http.StatusOK, transcribeResponse{Text: text})
}

// speechFallback tells the client to use its own speech synthesis.
type speechFallback struct {
	Fallback bool   `json:"fallback"`
	Message  string `json:"message,omitempty"`
	Note     string `json:"error,omitempty"`
}

// handleSpeech synthesizes text as audio/mpeg. When no provider is
// configured or synthesis fails the client is told to fall back to the
// browser's Web Speech API; neither case is an error status.
func (s *Server) handleSpeech(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text  string  `json:"text"`
		Voice string  `json:"voice"`
		Speed float64 `json:"speed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "No text provided")
		return
	}

	if s.tts == nil {
		s.recordFallback(r, "speech", "no provider configured")
		writeJSON(w, http.StatusOK, speechFallback{
			Fallback: true,
			Message:  "Using browser text-to-speech",
		})
		return
	}

	audio, err := s.tts.Synthesize(r.Context(), tts.Request{
		Text:  req.Text,
		Voice: tts.Voice(req.Voice),
		Speed: req.Speed,
	})
	if err != nil {
		s.recordFallback(r, "speech", err.Error())
		writeJSON(w, http.StatusOK, speechFallback{
			Fallback: true,
			Note:     "Text-to-speech failed",
		})
		return
	}

	w.Header().Set("Content-Type", "audio/mpeg")
	w.Header().Set("Content-Length", strconv.Itoa(len(audio)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(audio); err != nil {
		observe.Logger(r.Context()).Warn("writing audio response", "error", err.Error())
	}
}

// handleVoices lists the available synthesis voices. Served even without a
// provider so client voice pickers stay populated.
func (s *Server) handleVoices(w http.ResponseWriter, _ *http.Request) {
	voices := tts.DefaultVoices()
	if s.tts != nil {
		voices = s.tts.Voices()
	}
	writeJSON(w, http.StatusOK, struct {
		Voices []tts.VoiceInfo `json:"voices"`
	}{Voices: voices})
}

// voiceChatRequest is the companion turn payload, shared by the POST
// endpoint and the WebSocket stream.
type voiceChatRequest struct {
	Messages []assistant.Turn `json:"messages"`
}

// handleVoiceChat answers one companion exchange.
func (s *Server) handleVoiceChat(w http.ResponseWriter, r *http.Request) {
	var req voiceChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body: "+err.Error())
		return
	}
	reply := s.assistant.Respond(r.Context(), req.Messages)
	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) recordFallback(r *http.Request, service, reason string) {
	observe.Logger(r.Context()).Warn("serving fallback payload",
		"service", service, "reason", reason)
	if s.metrics != nil {
		s.metrics.RecordFallbackServe(r.Context(), service)
	}
}
