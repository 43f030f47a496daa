// Package langid identifies the language of user text from a configured set
// of supported languages and maps it to the region-qualified codes the
// providers expect (e.g. "hi-IN").
package langid

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pemistahl/lingua-go"
)

// ErrDetectionFailed indicates the detector could not attribute the text to
// any supported language.
var ErrDetectionFailed = errors.New("language detection failed")

// Detector identifies which supported language a piece of text is written in.
// Safe for concurrent use.
type Detector struct {
	det     lingua.LanguageDetector
	regions map[string]string
}

// New builds a Detector restricted to the given languages. The map keys are
// region-qualified codes ("hi-IN", "en-IN"); values are display names and are
// ignored here. Restricting the candidate set keeps detection reliable on
// short utterances.
func New(languages map[string]string) (*Detector, error) {
	if len(languages) == 0 {
		return nil, errors.New("langid: no languages configured")
	}

	regions := make(map[string]string, len(languages))
	var candidates []lingua.Language
	for code := range languages {
		prefix, _, _ := strings.Cut(code, "-")
		iso := lingua.GetIsoCode639_1FromValue(strings.ToUpper(prefix))
		if iso == lingua.UnknownIsoCode639_1 {
			return nil, fmt.Errorf("langid: unsupported language code %q", code)
		}
		lang := lingua.GetLanguageFromIsoCode639_1(iso)
		if lang == lingua.Unknown {
			return nil, fmt.Errorf("langid: unsupported language code %q", code)
		}
		candidates = append(candidates, lang)
		regions[strings.ToLower(iso.String())] = code
	}

	det := lingua.NewLanguageDetectorBuilder().
		FromLanguages(candidates...).
		Build()

	return &Detector{det: det, regions: regions}, nil
}

// Detect returns the region-qualified language code of text, e.g. "hi-IN".
// Returns [ErrDetectionFailed] when the text is empty or cannot be attributed
// to any configured language.
func (d *Detector) Detect(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: empty text", ErrDetectionFailed)
	}

	lang, ok := d.det.DetectLanguageOf(text)
	if !ok {
		return "", fmt.Errorf("%w: no candidate matched", ErrDetectionFailed)
	}

	code, ok := d.regions[strings.ToLower(lang.IsoCode639_1().String())]
	if !ok {
		return "", fmt.Errorf("%w: detected %s outside configured set", ErrDetectionFailed, lang)
	}
	return code, nil
}

// Supported reports whether code is one of the configured languages.
func (d *Detector) Supported(code string) bool {
	for _, c := range d.regions {
		if c == code {
			return true
		}
	}
	return false
}

// Codes returns the configured region-qualified language codes.
func (d *Detector) Codes() []string {
	codes := make([]string, 0, len(d.regions))
	for _, c := range d.regions {
		codes = append(codes, c)
	}
	return codes
}
