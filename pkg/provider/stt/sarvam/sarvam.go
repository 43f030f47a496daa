// Package sarvam provides an stt.Provider backed by the Sarvam AI
// speech-to-text REST API.
//
// Recordings are uploaded whole as multipart/form-data. Recognition uses the
// saarika model family, which covers the Indian languages this pipeline
// serves; when no language hint is given the special "unknown" code asks the
// API to detect the language itself.
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/vaanilabs/dhanvani/pkg/provider/stt"
)

const (
	defaultBaseURL = "https://api.sarvam.ai"
	defaultModel   = "saarika:v2"
	defaultTimeout = 30 * time.Second

	// autoDetect is the language_code value that lets the API detect the
	// spoken language itself.
	autoDetect = "unknown"
)

// Compile-time assertion that Provider implements stt.Provider.
var _ stt.Provider = (*Provider)(nil)

// Option is a functional option for configuring a Provider.
type Option func(*Provider)

// WithBaseURL overrides the default API endpoint.
func WithBaseURL(u string) Option {
	return func(p *Provider) {
		p.baseURL = u
	}
}

// WithModel sets the recognition model identifier. Defaults to "saarika:v2".
func WithModel(model string) Option {
	return func(p *Provider) {
		p.model = model
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(p *Provider) {
		p.httpClient.Timeout = d
	}
}

// Provider implements stt.Provider against the Sarvam AI API.
type Provider struct {
	apiKey     string
	baseURL    string
	model      string
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
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(p)
	}
	return p, nil
}

// Transcribe uploads wavData to POST /speech-to-text and returns the
// recognised transcript. An empty languageHint requests auto-detection.
// Failures, including an empty transcript, wrap [stt.ErrUnavailable].
func (p *Provider) Transcribe(ctx context.Context, wavData []byte, languageHint string) (stt.Transcript, error) {
	lang := languageHint
	if lang == "" {
		lang = autoDetect
	}

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", "audio.wav")
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: create form file: %v", stt.ErrUnavailable, err)
	}
	if _, err := fw.Write(wavData); err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: write wav data: %v", stt.ErrUnavailable, err)
	}

	fields := map[string]string{
		"model":            p.model,
		"language_code":    lang,
		"with_timestamps":  "false",
		"with_diarization": "false",
		"num_speakers":     "1",
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return stt.Transcript{}, fmt.Errorf("%w: write field %s: %v", stt.ErrUnavailable, k, err)
		}
	}
	if err := mw.Close(); err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: close multipart writer: %v", stt.ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/speech-to-text", &body)
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: create request: %v", stt.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("api-subscription-key", p.apiKey)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: http request: %v", stt.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return stt.Transcript{}, fmt.Errorf("%w: server returned HTTP %d", stt.ErrUnavailable, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: read response body: %v", stt.ErrUnavailable, err)
	}

	var result struct {
		Transcript   string `json:"transcript"`
		LanguageCode string `json:"language_code"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return stt.Transcript{}, fmt.Errorf("%w: parse JSON response: %v", stt.ErrUnavailable, err)
	}

	text := strings.TrimSpace(result.Transcript)
	if text == "" {
		return stt.Transcript{}, fmt.Errorf("%w: no transcript detected", stt.ErrUnavailable)
	}
	return stt.Transcript{Text: text, Language: result.LanguageCode}, nil
}
