// Package kokoro provides a tts.Provider backed by a locally hosted Kokoro
// inference server.
//
// Kokoro serves as the offline fallback tier behind the cloud provider: it
// runs on the same host, needs no API key, and speaks a smaller but always
// available set of voices. The server exposes an OpenAI-compatible speech
// endpoint at POST /v1/audio/speech returning raw WAV bytes.
//
// Usage:
//
//	p, err := kokoro.New("http://localhost:8880",
//	    kokoro.WithVoice("hf_alpha"),
//	)
//	audio, err := p.Synthesize(ctx, tts.Request{Text: "hello", LanguageCode: "en-IN"})
package kokoro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vaanilabs/dhanvani/pkg/provider/tts"
)

const (
	defaultModel   = "kokoro"
	defaultVoice   = "af_heart"
	defaultTimeout = 30 * time.Second
)

// Compile-time assertion that Provider implements tts.Provider.
var _ tts.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithModel sets the model identifier sent to the server. Defaults to
// "kokoro".
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithVoice sets the voice used when a request does not name one. Defaults
// to "af_heart".
func WithVoice(voice string) Option {
	return func(p *Provider) {
		p.voice = voice
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.httpClient.Timeout = d
	}
}

// Provider implements tts.Provider backed by a local Kokoro server.
type Provider struct {
	serverURL  string
	model      string
	voice      string
	httpClient *http.Client
}

// New creates a Provider that connects to the Kokoro server at serverURL
// (e.g. "http://localhost:8880"). serverURL must be non-empty.
func New(serverURL string, opts ...Option) (*Provider, error) {
	if serverURL == "" {
		return nil, errors.New("kokoro: serverURL must not be empty")
	}
	p := &Provider{
		serverURL:  serverURL,
		model:      defaultModel,
		voice:      defaultVoice,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// speechRequest is the JSON body for POST /v1/audio/speech.
type speechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	Speed          float64 `json:"speed,omitempty"`
}

// Synthesize speaks req.Text via the local server. The request's Voice is a
// cloud speaker name, not a Kokoro one, so the provider's configured voice is
// used instead. Failures wrap [tts.ErrUnavailable].
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	body := speechRequest{
		Model:          p.model,
		Input:          req.Text,
		Voice:          p.voice,
		ResponseFormat: "wav",
		Speed:          req.Pace,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", tts.ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.serverURL+"/v1/audio/speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", tts.ErrUnavailable, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %v", tts.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server returned HTTP %d", tts.ErrUnavailable, resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", tts.ErrUnavailable, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: server returned empty audio", tts.ErrUnavailable)
	}
	return audio, nil
}
