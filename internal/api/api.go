// Package api wires the HTTP surface: the practice catalog and progress
// endpoints, the Four Pillars content, and the AI endpoints (translator,
// mediator, transcription, speech, and the Aria companion including its
// WebSocket stream).
//
// Error policy: collaborator and storage failures never surface as non-2xx
// responses on the AI endpoints; each serves its built-in payload instead.
// Input validation (empty input, unknown practice, bad tier) is the only
// source of 4xx.
package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync/atomic"

	"github.com/rs/cors"

	"github.com/truthempowered/tercoach/internal/assistant"
	"github.com/truthempowered/tercoach/internal/catalog"
	"github.com/truthempowered/tercoach/internal/health"
	"github.com/truthempowered/tercoach/internal/identity"
	"github.com/truthempowered/tercoach/internal/mediator"
	"github.com/truthempowered/tercoach/internal/observe"
	"github.com/truthempowered/tercoach/internal/progress"
	"github.com/truthempowered/tercoach/internal/translator"
	"github.com/truthempowered/tercoach/pkg/provider/stt"
	"github.com/truthempowered/tercoach/pkg/provider/tts"
)

// deviceIDHeader carries the client's device identity.
const deviceIDHeader = "X-Device-ID"

type deviceIDKey struct{}

// DeviceID returns the device identity attached to the request context.
func DeviceID(ctx context.Context) string {
	id, _ := ctx.Value(deviceIDKey{}).(string)
	return id
}

// Server holds the handler dependencies. STT and TTS providers may be nil;
// the corresponding endpoints then serve their fallback payloads.
type Server struct {
	catalog    *catalog.Catalog
	progress   *progress.Coordinator
	translator *translator.Service
	mediator   *mediator.Service
	assistant  *assistant.Service
	stt        stt.Provider
	tts        tts.Provider
	identity   *identity.Store
	health     *health.Handler
	metrics    *observe.Metrics
	metricsH   http.Handler
	cors       *cors.Cors
	wsOrigins  []string

	passThreshold atomic.Int32
}

// Config collects the server's collaborators.
type Config struct {
	Catalog    *catalog.Catalog
	Progress   *progress.Coordinator
	Translator *translator.Service
	Mediator   *mediator.Service
	Assistant  *assistant.Service
	STT        stt.Provider
	TTS        tts.Provider
	Identity   *identity.Store
	Health     *health.Handler
	Metrics    *observe.Metrics

	// MetricsHandler serves GET /metrics (promhttp). Optional.
	MetricsHandler http.Handler

	// PassThreshold is the assessment pass mark in percent; values outside
	// (0,100] fall back to the practice package default.
	PassThreshold int

	// AllowedOrigins configures CORS. Empty means same-origin only.
	AllowedOrigins []string
}

// NewServer creates the HTTP server surface.
func NewServer(cfg Config) *Server {
	s := &Server{
		catalog:    cfg.Catalog,
		progress:   cfg.Progress,
		translator: cfg.Translator,
		mediator:   cfg.Mediator,
		assistant:  cfg.Assistant,
		stt:        cfg.STT,
		tts:        cfg.TTS,
		identity:   cfg.Identity,
		health:     cfg.Health,
		metrics:    cfg.Metrics,
		metricsH:   cfg.MetricsHandler,
	}
	s.passThreshold.Store(int32(cfg.PassThreshold))
	if len(cfg.AllowedOrigins) > 0 {
		for _, origin := range cfg.AllowedOrigins {
			s.wsOrigins = append(s.wsOrigins, hostPattern(origin))
		}
		s.cors = cors.New(cors.Options{
			AllowedOrigins:   cfg.AllowedOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", deviceIDHeader},
			ExposedHeaders:   []string{deviceIDHeader, "X-Correlation-ID"},
			AllowCredentials: false,
		})
	}
	return s
}

// Handler builds the full route table wrapped in the middleware stack.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	if s.health != nil {
		s.health.Register(mux)
	}
	if s.metricsH != nil {
		mux.Handle("GET /metrics", s.metricsH)
	}

	mux.HandleFunc("GET /api/pillars", s.handlePillars)
	mux.HandleFunc("GET /api/games", s.handleGames)
	mux.HandleFunc("GET /api/games/{id}/plan", s.handlePlan)
	mux.HandleFunc("POST /api/games/{id}/match", s.handleMatch)
	mux.HandleFunc("POST /api/games/{id}/launch", s.handleLaunch)
	mux.HandleFunc("POST /api/games/{id}/complete", s.handleComplete)
	mux.HandleFunc("GET /api/progress", s.handleProgress)
	mux.HandleFunc("GET /api/assessment", s.handleAssessmentQuestions)
	mux.HandleFunc("POST /api/assessment", s.handleAssessment)
	mux.HandleFunc("POST /api/translate", s.handleTranslate)
	mux.HandleFunc("POST /api/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /api/transcribe", s.handleTranscribe)
	mux.HandleFunc("POST /api/speech", s.handleSpeech)
	mux.HandleFunc("GET /api/speech/voices", s.handleVoices)
	mux.HandleFunc("POST /api/voice-chat", s.handleVoiceChat)
	mux.HandleFunc("GET /api/voice-chat/stream", s.handleVoiceChatStream)

	var h http.Handler = mux
	h = s.deviceIDMiddleware(h)
	if s.cors != nil {
		h = s.cors.Handler(h)
	}
	if s.metrics != nil {
		h = observe.Middleware(s.metrics)(h)
	}
	return h
}

// SetPassThreshold swaps the assessment pass mark at runtime, used for
// config hot-reload.
func (s *Server) SetPassThreshold(threshold int) {
	s.passThreshold.Store(int32(threshold))
}

// deviceIDMiddleware resolves the request's device identity: a valid
// X-Device-ID header is used as-is; otherwise the server's persistent
// identity backs the request. Either way the identity is echoed in the
// response header so clients can adopt it.
func (s *Server) deviceIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(deviceIDHeader)
		if !identity.Valid(id) {
			var err error
			id, err = s.identity.DeviceID()
			if err != nil {
				slog.Warn("device identity unavailable, minting per-request",
					slog.String("error", err.Error()))
				id = identity.Mint()
			}
		}
		w.Header().Set(deviceIDHeader, id)
		ctx := context.WithValue(r.Context(), deviceIDKey{}, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// hostPattern strips the scheme from a CORS origin so it can serve as a
// WebSocket origin pattern ("https://app.example.com" -> "app.example.com").
func hostPattern(origin string) string {
	if i := strings.Index(origin, "://"); i >= 0 {
		return origin[i+3:]
	}
	return origin
}

// writeJSON encodes v with the given status. Encoding failures are logged;
// headers are already sent at that point.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("response encoding failed", slog.String("error", err.Error()))
	}
}

// errorBody is the uniform 4xx payload.
type errorBody struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
