package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// ValidProviderNames lists known provider names per provider kind.
// Used by [Validate] to warn about unrecognised provider names.
var ValidProviderNames = map[string][]string{
	"translate":    {"sarvam"},
	"stt":          {"sarvam"},
	"tts":          {"sarvam"},
	"tts_fallback": {"kokoro"},
}

// validSampleRates are the output rates the synthesis providers support.
var validSampleRates = []int{8000, 16000, 22050, 24000}

// DefaultLanguages is the built-in supported language set.
var DefaultLanguages = map[string]string{
	"en-IN": "English",
	"hi-IN": "Hindi",
	"ta-IN": "Tamil",
	"te-IN": "Telugu",
	"bn-IN": "Bengali",
	"kn-IN": "Kannada",
	"ml-IN": "Malayalam",
	"pa-IN": "Punjabi",
	"mr-IN": "Marathi",
	"gu-IN": "Gujarati",
}

// DefaultVoices is the built-in voice mapping.
var DefaultVoices = map[string]string{
	"en": "meera",
	"hi": "neel",
	"ta": "amol",
}

// Load reads the YAML configuration file at path and returns a validated [Config].
// It is a convenience wrapper around [LoadFromReader].
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %q: %w", path, err)
	}
	defer f.Close()

	cfg, err := LoadFromReader(f)
	if err != nil {
		return nil, fmt.Errorf("config: parse %q: %w", path, err)
	}
	return cfg, nil
}

// LoadFromReader decodes a YAML config from r, applies defaults, and
// validates the result. Useful in tests where configs are constructed from
// string literals.
func LoadFromReader(r io.Reader) (*Config, error) {
	cfg := &Config{}
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("config: decode yaml: %w", err)
	}
	ApplyDefaults(cfg)
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills zero-valued fields with their defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":8080"
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = DefaultLanguages
	}
	if len(cfg.Voices) == 0 {
		cfg.Voices = DefaultVoices
	}
	if cfg.Synthesis.MaxChunkChars == 0 {
		cfg.Synthesis.MaxChunkChars = 450
	}
	if cfg.Synthesis.SampleRate == 0 {
		cfg.Synthesis.SampleRate = 22050
	}
	if cfg.Synthesis.TimeoutSeconds == 0 {
		cfg.Synthesis.TimeoutSeconds = 30
	}
	if cfg.Synthesis.Concurrency == 0 {
		cfg.Synthesis.Concurrency = 4
	}
	if cfg.Synthesis.DefaultVoice == "" {
		cfg.Synthesis.DefaultVoice = "meera"
	}

	// Sarvam entries may take their key from the environment so the YAML
	// file does not need to hold secrets.
	if key := os.Getenv("SARVAM_API_KEY"); key != "" {
		for _, e := range []*ProviderEntry{&cfg.Providers.Translate, &cfg.Providers.STT, &cfg.Providers.TTS} {
			if e.Name == "sarvam" && e.APIKey == "" {
				e.APIKey = key
			}
		}
	}
}

// Validate checks that cfg contains a coherent set of values.
// It returns a joined error listing all validation failures found.
func Validate(cfg *Config) error {
	var errs []error

	// Server
	if cfg.Server.LogLevel != "" && !cfg.Server.LogLevel.IsValid() {
		errs = append(errs, fmt.Errorf("server.log_level %q is invalid; valid values: debug, info, warn, error", cfg.Server.LogLevel))
	}
	if cfg.Server.TLS != nil {
		if cfg.Server.TLS.CertFile == "" || cfg.Server.TLS.KeyFile == "" {
			errs = append(errs, errors.New("server.tls requires both cert_file and key_file"))
		}
	}

	// Provider name validation — warn for unknown provider names.
	validateProviderName("translate", cfg.Providers.Translate.Name)
	validateProviderName("stt", cfg.Providers.STT.Name)
	validateProviderName("tts", cfg.Providers.TTS.Name)
	validateProviderName("tts_fallback", cfg.Providers.TTSFallback.Name)

	for kind, entry := range map[string]ProviderEntry{
		"translate": cfg.Providers.Translate,
		"stt":       cfg.Providers.STT,
		"tts":       cfg.Providers.TTS,
	} {
		if entry.Name == "sarvam" && entry.APIKey == "" {
			errs = append(errs, fmt.Errorf("providers.%s: sarvam requires api_key (or SARVAM_API_KEY in the environment)", kind))
		}
	}

	// Languages
	hasEnglish := false
	for code := range cfg.Languages {
		if !strings.Contains(code, "-") {
			errs = append(errs, fmt.Errorf("languages: code %q must be region-qualified (e.g. hi-IN)", code))
		}
		if strings.HasPrefix(code, "en") {
			hasEnglish = true
		}
	}
	if len(cfg.Languages) > 0 && !hasEnglish {
		errs = append(errs, errors.New("languages must include an English variant; replies are generated in English"))
	}

	// Voices must reference configured languages.
	for prefix := range cfg.Voices {
		found := false
		for code := range cfg.Languages {
			if strings.HasPrefix(code, prefix+"-") {
				found = true
				break
			}
		}
		if !found {
			slog.Warn("voice mapping for unconfigured language", "prefix", prefix)
		}
	}

	// Synthesis
	if cfg.Synthesis.MaxChunkChars < 1 {
		errs = append(errs, fmt.Errorf("synthesis.max_chunk_chars %d must be positive", cfg.Synthesis.MaxChunkChars))
	}
	if !slices.Contains(validSampleRates, cfg.Synthesis.SampleRate) {
		errs = append(errs, fmt.Errorf("synthesis.sample_rate %d is invalid; valid values: %v", cfg.Synthesis.SampleRate, validSampleRates))
	}
	if cfg.Synthesis.Concurrency < 1 || cfg.Synthesis.Concurrency > 32 {
		errs = append(errs, fmt.Errorf("synthesis.concurrency %d is out of range [1, 32]", cfg.Synthesis.Concurrency))
	}
	if cfg.Synthesis.TimeoutSeconds < 1 {
		errs = append(errs, fmt.Errorf("synthesis.timeout_seconds %d must be positive", cfg.Synthesis.TimeoutSeconds))
	}

	return errors.Join(errs...)
}

// validateProviderName logs a warning if name is non-empty and not found in
// the [ValidProviderNames] list for the given kind.
func validateProviderName(kind, name string) {
	if name == "" {
		return
	}
	known, ok := ValidProviderNames[kind]
	if !ok {
		return
	}
	if slices.Contains(known, name) {
		return
	}
	slog.Warn("unknown provider name — may be a typo or third-party provider",
		"kind", kind,
		"name", name,
		"known", known,
	)
}
