package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per collaborator kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"llm": {"openai", "anthropic", "gemini", "ollama", "deepseek", "mistral", "groq", "llamacpp", "llamafile"},
	"stt": {"openai"},
	"tts": {"openai"},
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader] and [Validate].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r and validates the result.
// Useful in tests where configs are constructed from string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("llm", cfg.Providers.LLM.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)

	// Collaborator availability warnings. None of these are errors: every
	// service degrades to its built-in guidance when a collaborator is absent.
	if cfg.Providers.LLM.Name == "" {
		slog.Warn("no LLM provider configured; translator, mediator, and companion will serve built-in guidance")
	}
	if cfg.Providers.STT.Name == "" {
		slog.Warn("no STT provider configured; transcription requests will return placeholder text")
	}
	if cfg.Providers.TTS.Name == "" {
		slog.Warn("no TTS provider configured; clients will fall back to browser speech synthesis")
	}

	// Companion
	if v := cfg.Companion.Voice; v != "" && !slices.Contains(knownVoices, v) {
		errs = append(errs, fmt.Errorf("companion.voice %q is invalid; valid values: %v", v, knownVoices))
	}
	if sf := cfg.Companion.SpeedFactor; sf != 0 {
		if sf < 0.25 || sf > 4.0 {
			errs = append(errs, fmt.Errorf("companion.speed_factor %.2f is out of range [0.25, 4.0]", sf))
		}
	}

	// Progress availability
	if cfg.Progress.PostgresDSN == "" {
		slog.Warn("progress.postgres_dsn is empty; completions will not be shared across devices")
	}

	// Practice
	if pt := cfg.Practice.PassThreshold; pt != 0 {
		if pt < 1 || pt > 100 {
			errs = append(errs, fmt.Errorf("practice.pass_threshold %d is out of range [1, 100]", pt))
		}
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
