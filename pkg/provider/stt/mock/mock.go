// Package mock provides a test double for the stt.Provider interface.
package mock

import (
	"context"
	"sync"

	"github.com/vaanilabs/dhanvani/pkg/provider/stt"
)

// TranscribeCall records a single invocation of Transcribe.
type TranscribeCall struct {
	// WavData is a copy of the audio passed to Transcribe.
	WavData []byte

	// LanguageHint is the hint passed to Transcribe.
	LanguageHint string
}

// Provider is a mock implementation of stt.Provider.
type Provider struct {
	mu sync.Mutex

	// TranscribeResult is returned by Transcribe when TranscribeErr is nil.
	TranscribeResult stt.Transcript

	// TranscribeErr, if non-nil, is returned as the error from Transcribe.
	TranscribeErr error

	// TranscribeCalls records every call to Transcribe in order.
	TranscribeCalls []TranscribeCall
}

// Transcribe records the call and returns TranscribeResult, TranscribeErr.
func (p *Provider) Transcribe(_ context.Context, wavData []byte, languageHint string) (stt.Transcript, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	dataCopy := make([]byte, len(wavData))
	copy(dataCopy, wavData)
	p.TranscribeCalls = append(p.TranscribeCalls, TranscribeCall{WavData: dataCopy, LanguageHint: languageHint})
	if p.TranscribeErr != nil {
		return stt.Transcript{}, p.TranscribeErr
	}
	return p.TranscribeResult, nil
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.TranscribeCalls = nil
}

// Ensure Provider implements stt.Provider at compile time.
var _ stt.Provider = (*Provider)(nil)
