// Package tts defines the batch text-to-speech provider interface.
//
// The synthesis engine issues one request per text chunk and expects a
// complete WAV clip back; providers never stream. Implementations live in
// subpackages (sarvam for the cloud API, kokoro for a local inference
// server); a test double is available in the mock subpackage.
package tts

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the synthesis provider failed or returned no
// audio. The synthesis engine treats this as a signal to try the next
// fallback tier.
var ErrUnavailable = errors.New("speech synthesis unavailable")

// Request describes one synthesis call. Text length limits are enforced by
// the caller, not the provider.
type Request struct {
	// Text is the text to speak. Never empty.
	Text string

	// LanguageCode is the region-qualified code of the text's language
	// (e.g. "hi-IN").
	LanguageCode string

	// Voice is the provider-specific speaker identifier.
	Voice string

	// Pace is the speaking-rate multiplier; 1.0 is normal speed. Zero means
	// provider default.
	Pace float64
}

// Provider converts one text fragment to a complete WAV clip.
//
// Implementations must be safe for concurrent use; the engine may synthesize
// several chunks of one utterance in parallel.
type Provider interface {
	// Synthesize speaks req.Text and returns the audio as a WAV file.
	// Failures, including empty audio in an otherwise successful response,
	// wrap [ErrUnavailable].
	Synthesize(ctx context.Context, req Request) ([]byte, error)
}
