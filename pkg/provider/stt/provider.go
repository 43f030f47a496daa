// Package stt defines the batch speech-to-text provider interface.
//
// Voice utterances arrive as complete WAV recordings, so transcription is a
// single request/response call rather than a stream. Implementations live in
// subpackages (e.g. sarvam); a test double is available in the mock
// subpackage.
package stt

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the transcription provider failed or returned no
// transcript. Voice turns cannot proceed without a transcript, so callers
// surface this to the user rather than degrading.
var ErrUnavailable = errors.New("speech-to-text unavailable")

// Transcript is the result of transcribing one recording.
type Transcript struct {
	// Text is the recognised utterance text.
	Text string

	// Language is the region-qualified code of the recognised language, when
	// the provider reports one. May be empty.
	Language string
}

// Provider transcribes a complete WAV recording in one call.
//
// Implementations must be safe for concurrent use.
type Provider interface {
	// Transcribe converts wavData to text. languageHint is a region-qualified
	// code narrowing recognition; pass "" to let the provider auto-detect.
	// Failures wrap [ErrUnavailable].
	Transcribe(ctx context.Context, wavData []byte, languageHint string) (Transcript, error)
}
