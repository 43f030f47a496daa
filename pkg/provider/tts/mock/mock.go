// Package mock provides a test double for the tts.Provider interface.
//
// Use Provider to feed controlled audio to consumers and to verify that the
// correct text, language, and voice reach the synthesis backend.
//
// Example:
//
//	p := &mock.Provider{SynthesizeResult: wav.Silence(time.Second, format)}
//	audio, _ := p.Synthesize(ctx, tts.Request{Text: "hi", LanguageCode: "en-IN"})
package mock

import (
	"context"
	"sync"

	"github.com/vaanilabs/dhanvani/pkg/provider/tts"
)

// SynthesizeCall records a single invocation of Synthesize.
type SynthesizeCall struct {
	// Ctx is the context passed to Synthesize.
	Ctx context.Context

	// Req is the request passed to Synthesize.
	Req tts.Request
}

// Provider is a mock implementation of tts.Provider.
type Provider struct {
	mu sync.Mutex

	// SynthesizeFn, when set, computes the response per call. It takes
	// precedence over SynthesizeResult and SynthesizeErr.
	SynthesizeFn func(req tts.Request) ([]byte, error)

	// SynthesizeResult is returned by Synthesize when SynthesizeErr is nil.
	SynthesizeResult []byte

	// SynthesizeErr, if non-nil, is returned as the error from Synthesize.
	SynthesizeErr error

	// SynthesizeCalls records every call to Synthesize in order.
	SynthesizeCalls []SynthesizeCall
}

// Synthesize records the call and returns the configured response.
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	p.mu.Lock()
	p.SynthesizeCalls = append(p.SynthesizeCalls, SynthesizeCall{Ctx: ctx, Req: req})
	fn := p.SynthesizeFn
	result := p.SynthesizeResult
	err := p.SynthesizeErr
	p.mu.Unlock()

	if fn != nil {
		return fn(req)
	}
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Calls returns a snapshot of the recorded calls. Thread-safe.
func (p *Provider) Calls() []SynthesizeCall {
	p.mu.Lock()
	defer p.mu.Unlock()
	calls := make([]SynthesizeCall, len(p.SynthesizeCalls))
	copy(calls, p.SynthesizeCalls)
	return calls
}

// Reset clears all recorded calls. Thread-safe.
func (p *Provider) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.SynthesizeCalls = nil
}

// Ensure Provider implements tts.Provider at compile time.
var _ tts.Provider = (*Provider)(nil)
