// Package sarvam provides a translate.Gateway backed by the Sarvam AI
// translation and transliteration REST APIs.
//
// Usage:
//
//	g, err := sarvam.New(apiKey,
//	    sarvam.WithTimeout(30*time.Second),
//	)
//	hindi, err := g.Translate(ctx, "How are you?", "en-IN", "hi-IN")
package sarvam

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vaanilabs/dhanvani/pkg/provider/translate"
)

const (
	defaultBaseURL = "https://api.sarvam.ai"
	defaultModel   = "mayura:v1"
	defaultTimeout = 30 * time.Second
)

// Compile-time assertion that Gateway implements translate.Gateway.
var _ translate.Gateway = (*Gateway)(nil)

// Option is a functional option for configuring a Gateway.
type Option func(*Gateway)

// WithBaseURL overrides the default API endpoint. Useful for tests and
// proxies.
func WithBaseURL(u string) Option {
	return func(g *Gateway) {
		g.baseURL = u
	}
}

// WithModel sets the translation model identifier. Defaults to "mayura:v1".
func WithModel(model string) Option {
	return func(g *Gateway) {
		g.model = model
	}
}

// WithTimeout sets the per-request HTTP timeout. Defaults to 30s.
func WithTimeout(d time.Duration) Option {
	return func(g *Gateway) {
		g.httpClient.Timeout = d
	}
}

// Gateway implements translate.Gateway against the Sarvam AI API.
type Gateway struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
}

// New creates a Gateway authenticated with apiKey. apiKey must be non-empty.
func New(apiKey string, opts ...Option) (*Gateway, error) {
	if apiKey == "" {
		return nil, errors.New("sarvam: apiKey must not be empty")
	}
	g := &Gateway{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, o := range opts {
		o(g)
	}
	return g, nil
}

// translateRequest is the JSON body for POST /translate.
type translateRequest struct {
	Input               string `json:"input"`
	SourceLanguageCode  string `json:"source_language_code"`
	TargetLanguageCode  string `json:"target_language_code"`
	SpeakerGender       string `json:"speaker_gender"`
	Mode                string `json:"mode"`
	Model               string `json:"model"`
	EnablePreprocessing bool   `json:"enable_preprocessing"`
	OutputScript        string `json:"output_script"`
	NumeralsFormat      string `json:"numerals_format"`
}

// transliterateRequest is the JSON body for POST /transliterate.
type transliterateRequest struct {
	Input                      string `json:"input"`
	SourceLanguageCode         string `json:"source_language_code"`
	TargetLanguageCode         string `json:"target_language_code"`
	NumeralsFormat             string `json:"numerals_format"`
	SpokenFormNumeralsLanguage string `json:"spoken_form_numerals_language"`
	SpokenForm                 bool   `json:"spoken_form"`
}

// Translate converts text between languages via POST /translate. On any
// failure the original text is returned alongside an error wrapping
// [translate.ErrTranslationUnavailable].
func (g *Gateway) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body := translateRequest{
		Input:              text,
		SourceLanguageCode: sourceLang,
		TargetLanguageCode: targetLang,
		SpeakerGender:      "Female",
		Mode:               "formal",
		Model:              g.model,
		OutputScript:       "roman",
		NumeralsFormat:     "international",
	}

	var result struct {
		TranslatedText string `json:"translated_text"`
	}
	if err := g.post(ctx, "/translate", body, &result); err != nil {
		return text, fmt.Errorf("%w: %v", translate.ErrTranslationUnavailable, err)
	}
	if result.TranslatedText == "" {
		return text, fmt.Errorf("%w: empty translation in response", translate.ErrTranslationUnavailable)
	}
	return result.TranslatedText, nil
}

// Transliterate renders text in the target language's native script via
// POST /transliterate. On any failure the original text is returned alongside
// an error wrapping [translate.ErrTransliterationUnavailable].
func (g *Gateway) Transliterate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	body := transliterateRequest{
		Input:                      text,
		SourceLanguageCode:         sourceLang,
		TargetLanguageCode:         targetLang,
		NumeralsFormat:             "international",
		SpokenFormNumeralsLanguage: "native",
	}

	var result struct {
		TransliteratedText string `json:"transliterated_text"`
	}
	if err := g.post(ctx, "/transliterate", body, &result); err != nil {
		return text, fmt.Errorf("%w: %v", translate.ErrTransliterationUnavailable, err)
	}
	if result.TransliteratedText == "" {
		return text, fmt.Errorf("%w: empty transliteration in response", translate.ErrTransliterationUnavailable)
	}
	return result.TransliteratedText, nil
}

// post sends a JSON request to path and decodes the JSON response into out.
func (g *Gateway) post(ctx context.Context, path string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("api-subscription-key", g.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("server returned HTTP %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response body: %w", err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse JSON response: %w", err)
	}
	return nil
}
