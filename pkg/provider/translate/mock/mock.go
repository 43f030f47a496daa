// Package mock provides a test double for the translate.Gateway interface.
package mock

import (
	"context"
	"sync"

	"github.com/vaanilabs/dhanvani/pkg/provider/translate"
)

// TranslateCall records a single invocation of Translate.
type TranslateCall struct {
	Text       string
	SourceLang string
	TargetLang string
}

// TransliterateCall records a single invocation of Transliterate.
type TransliterateCall struct {
	Text       string
	SourceLang string
	TargetLang string
}

// Gateway is a mock implementation of translate.Gateway.
//
// When an error field is set, the corresponding method mirrors the real
// gateway contract: it returns the input text unchanged alongside the error.
type Gateway struct {
	mu sync.Mutex

	// TranslateFn, when set, computes the translation result. Otherwise
	// TranslateResult is returned.
	TranslateFn func(text, sourceLang, targetLang string) string

	// TranslateResult is returned by Translate when TranslateFn is nil and
	// TranslateErr is nil. When empty, the input text is echoed.
	TranslateResult string

	// TranslateErr, if non-nil, is returned by Translate together with the
	// unmodified input text.
	TranslateErr error

	// TransliterateResult is returned by Transliterate when TransliterateErr
	// is nil. When empty, the input text is echoed.
	TransliterateResult string

	// TransliterateErr, if non-nil, is returned by Transliterate together
	// with the unmodified input text.
	TransliterateErr error

	// TranslateCalls records every call to Translate in order.
	TranslateCalls []TranslateCall

	// TransliterateCalls records every call to Transliterate in order.
	TransliterateCalls []TransliterateCall
}

// Translate records the call and returns the configured result.
func (g *Gateway) Translate(_ context.Context, text, sourceLang, targetLang string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.TranslateCalls = append(g.TranslateCalls, TranslateCall{Text: text, SourceLang: sourceLang, TargetLang: targetLang})

	if g.TranslateErr != nil {
		return text, g.TranslateErr
	}
	if g.TranslateFn != nil {
		return g.TranslateFn(text, sourceLang, targetLang), nil
	}
	if g.TranslateResult != "" {
		return g.TranslateResult, nil
	}
	return text, nil
}

// Transliterate records the call and returns the configured result.
func (g *Gateway) Transliterate(_ context.Context, text, sourceLang, targetLang string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.TransliterateCalls = append(g.TransliterateCalls, TransliterateCall{Text: text, SourceLang: sourceLang, TargetLang: targetLang})

	if g.TransliterateErr != nil {
		return text, g.TransliterateErr
	}
	if g.TransliterateResult != "" {
		return g.TransliterateResult, nil
	}
	return text, nil
}

// Reset clears all recorded calls. Thread-safe.
func (g *Gateway) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.TranslateCalls = nil
	g.TransliterateCalls = nil
}

// Ensure Gateway implements translate.Gateway at compile time.
var _ translate.Gateway = (*Gateway)(nil)
