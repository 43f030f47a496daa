// Package translate defines the text translation and transliteration gateway
// interface used by the language pipeline.
//
// Implementations live in subpackages (e.g. sarvam). A mock implementation
// for tests is available in the mock subpackage.
package translate

import (
	"context"
	"errors"
)

// ErrTranslationUnavailable indicates the translation provider could not
// produce a translation. The accompanying text result is still the original
// input, so callers may continue with it.
var ErrTranslationUnavailable = errors.New("translation unavailable")

// ErrTransliterationUnavailable indicates the transliteration provider could
// not render the text in its native script. The accompanying text result is
// still the original input.
var ErrTransliterationUnavailable = errors.New("transliteration unavailable")

// Gateway converts text between languages and scripts.
//
// Both methods make a single attempt with no internal retries; retry policy
// belongs to the caller. On failure the returned string is the unmodified
// input text, never empty, so the pipeline can degrade instead of aborting.
type Gateway interface {
	// Translate converts text from the source language to the target
	// language. Languages are region-qualified BCP-47 codes (e.g. "hi-IN").
	// On failure it returns the original text and an error wrapping
	// [ErrTranslationUnavailable].
	Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error)

	// Transliterate renders text in the native script of the target language
	// without changing its meaning. On failure it returns the original text
	// and an error wrapping [ErrTransliterationUnavailable].
	Transliterate(ctx context.Context, text, sourceLang, targetLang string) (string, error)
}
