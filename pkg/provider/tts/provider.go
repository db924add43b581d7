// Package tts defines the Provider interface for Text-to-Speech backends.
//
// A TTS provider wraps a speech synthesis service and returns a complete
// encoded audio clip for a piece of coaching text — an Aria reply, a
// translated statement, or a game instruction read aloud. Clips are short
// (a few sentences), so the interface is batch rather than streaming; the
// browser falls back to the Web Speech API when no provider is configured.
//
// Implementations must be safe for concurrent use.
package tts

import "context"

// Voice identifies a synthesis voice by its provider-specific name.
type Voice string

// The OpenAI voice roster. Alloy is the default.
const (
	VoiceAlloy   Voice = "alloy"
	VoiceEcho    Voice = "echo"
	VoiceFable   Voice = "fable"
	VoiceOnyx    Voice = "onyx"
	VoiceNova    Voice = "nova"
	VoiceShimmer Voice = "shimmer"
)

// VoiceInfo describes an available voice for client voice pickers.
type VoiceInfo struct {
	// ID is the provider-specific voice identifier.
	ID Voice `json:"id"`

	// Name is a human-readable display name.
	Name string `json:"name"`

	// Description characterises the voice's tone.
	Description string `json:"description"`
}

// DefaultVoices is the standard six-voice roster. Providers that expose
// exactly the OpenAI voices can return it directly, and the API serves it
// when no provider is configured so voice pickers stay populated.
func DefaultVoices() []VoiceInfo {
	return []VoiceInfo{
		{ID: VoiceAlloy, Name: "Alloy", Description: "Neutral and balanced"},
		{ID: VoiceEcho, Name: "Echo", Description: "Warm and conversational"},
		{ID: VoiceFable, Name: "Fable", Description: "Expressive and dynamic"},
		{ID: VoiceOnyx, Name: "Onyx", Description: "Deep and authoritative"},
		{ID: VoiceNova, Name: "Nova", Description: "Friendly and upbeat"},
		{ID: VoiceShimmer, Name: "Shimmer", Description: "Soft and gentle"},
	}
}

// Request carries one synthesis job.
type Request struct {
	// Text is the content to speak. Must be non-empty.
	Text string

	// Voice selects the synthesis voice. Empty means the provider default.
	Voice Voice

	// Speed adjusts the speaking rate in the range [0.25, 4.0].
	// Zero means the provider default.
	Speed float64
}

// Provider is the abstraction over any TTS backend.
//
// Implementations must be safe for concurrent use and must propagate context
// cancellation promptly.
type Provider interface {
	// Synthesize renders req.Text as a complete encoded audio clip
	// (audio/mpeg unless documented otherwise). Returns an error if the
	// request fails or ctx is cancelled.
	Synthesize(ctx context.Context, req Request) ([]byte, error)

	// Voices returns the voices this provider can synthesise with.
	Voices() []VoiceInfo
}
