// Package stt defines the Provider interface for Speech-to-Text backends.
//
// An STT provider wraps a transcription service (e.g., OpenAI Whisper) and
// presents a uniform batch interface: the browser client records a short clip
// during a translator or mediator session, uploads it whole, and receives the
// transcript text back.
//
// Implementations must be safe for concurrent use.
package stt

import "context"

// Request carries a single audio clip to transcribe.
type Request struct {
	// Audio is the encoded audio payload as uploaded by the client
	// (webm/opus from MediaRecorder, or wav/mp3).
	Audio []byte

	// Filename hints the container format to providers that sniff by
	// extension (e.g., "recording.webm").
	Filename string

	// Language is an optional ISO-639-1 language hint.
	Language string

	// Prompt is an optional domain vocabulary hint. Passing relationship
	// terminology here measurably improves recognition of terms like
	// "undercurrents" or "pillar talk".
	Prompt string
}

// Provider is the abstraction over any batch transcription backend.
//
// Implementations must be safe for concurrent use and must propagate context
// cancellation promptly.
type Provider interface {
	// Transcribe sends the clip to the backend and returns the transcript
	// text. Returns an error if the request fails or ctx is cancelled.
	Transcribe(ctx context.Context, req Request) (string, error)
}
