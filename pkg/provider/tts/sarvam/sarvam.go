// Package sarvam provides a tts.Provider backed by the Sarvam AI
// text-to-speech REST API.
//
// The API accepts a JSON request per utterance and returns the audio as a
// base64-encoded WAV in the "audios" array. The bulbul model family speaks
// the Indian-language voices this pipeline uses (meera, neel, amol, ...).
//
// Usage:
//
//	p, err := sarvam.New(apiKey,
//	    sarvam.WithSampleRate(22050),
//	)
//	audio, err := p.Synthesize(ctx, tts.Request{Text: "नमस्ते", LanguageCode: "hi-IN", Voice: "neel"})
package sarvam

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vaanilabs/dhanvani/pkg/provider/tts"
)

const (
	defaultBaseURL    = "https://api.sarvam.ai"
	defaultModel      = "bulbul:v1"
	defaultSampleRate = 22050
	defaultTimeout    = 30 * time.Second
)

// Compile-time assertion that Provider implements tts.Provider.
var _ tts.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		p.baseURL = u
	}
}

// WithModel sets the synthesis model identifier. Defaults to "bulbul:v1".
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithSampleRate sets the sample rate (in Hz) requested from the API. All
// chunks of one utterance must use the same rate or reassembly fails.
// Defaults to 22050.
func WithSampleRate(rate int) Option {
	return func(p *Provider) {
		p.sampleRate = rate
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.httpClient.Timeout = d
	}
}

// Provider implements tts.Provider against the Sarvam AI API.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
	sampleRate int
	httpClient *http.Client
}

// New creates a Provider authenticated with apiKey. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Provider, error) {
	if apiKey == "" {
		return nil, errors.New("sarvam: apiKey must not be empty")
	}
	p := &Provider{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		sampleRate: defaultSampleRate,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// synthesizeRequest is the JSON body for POST /text-to-speech.
type synthesizeRequest struct {
	Inputs              []string `json:"inputs"`
	TargetLanguageCode  string   `json:"target_language_code"`
	Speaker             string   `json:"speaker"`
	Pace                float64  `json:"pace,omitempty"`
	Loudness            float64  `json:"loudness"`
	SpeechSampleRate    int      `json:"speech_sample_rate"`
	EnablePreprocessing bool     `json:"enable_preprocessing"`
	Model               string   `json:"model"`
}

// Synthesize speaks req.Text via POST /text-to-speech and decodes the
// base64 WAV from the response. Failures wrap [tts.ErrUnavailable].
func (p *Provider) Synthesize(ctx context.Context, req tts.Request) ([]byte, error) {
	body := synthesizeRequest{
		Inputs:             []string{req.Text},
		TargetLanguageCode: req.LanguageCode,
		Speaker:            req.Voice,
		Pace:               req.Pace,
		Loudness:           1,
		SpeechSampleRate:   p.sampleRate,
		Model:              p.model,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal request: %v", tts.ErrUnavailable, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/text-to-speech", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %v", tts.ErrUnavailable, err)
	}
	httpReq.Header.Set("api-subscription-key", p.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: http request: %v", tts.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: server returned HTTP %d", tts.ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response body: %v", tts.ErrUnavailable, err)
	}

	var result struct {
		Audios []string `json:"audios"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%w: parse JSON response: %v", tts.ErrUnavailable, err)
	}
	if len(result.Audios) == 0 || result.Audios[0] == "" {
		return nil, fmt.Errorf("%w: response contains no audio", tts.ErrUnavailable)
	}

	audio, err := base64.StdEncoding.DecodeString(result.Audios[0])
	if err != nil {
		return nil, fmt.Errorf("%w: decode base64 audio: %v", tts.ErrUnavailable, err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("%w: decoded audio is empty", tts.ErrUnavailable)
	}
	return audio, nil
}
