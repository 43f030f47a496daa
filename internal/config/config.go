// Package config provides the configuration schema and loader for the
// Dhanvani voice advisory server.
package config

// LogLevel controls log verbosity for the server.
type LogLevel string

const (
	LogDebug LogLevel = "debug"
	LogInfo  LogLevel = "info"
	LogWarn  LogLevel = "warn"
	LogError LogLevel = "error"
)

// IsValid reports whether l is a recognised log level.
func (l LogLevel) IsValid() bool {
	switch l {
	case LogDebug, LogInfo, LogWarn, LogError:
		return true
	}
	return false
}

// Config is the root configuration structure.
// It is typically loaded from a YAML file using [Load] or [LoadFromReader].
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Providers ProvidersConfig `yaml:"providers"`

	// Languages maps supported region-qualified language codes to display
	// names, e.g. "hi-IN" → "Hindi". Defaults to the built-in Indian
	// language set when empty.
	Languages map[string]string `yaml:"languages"`

	// Voices maps language-code prefixes to provider speaker names,
	// e.g. "hi" → "neel". Unlisted languages use the default voice.
	Voices map[string]string `yaml:"voices"`

	Synthesis SynthesisConfig `yaml:"synthesis"`
}

// ServerConfig holds network and logging settings.
type ServerConfig struct {
	// ListenAddr is the TCP address the server listens on (e.g., ":8080").
	ListenAddr string `yaml:"listen_addr"`

	// LogLevel controls verbosity.
	LogLevel LogLevel `yaml:"log_level"`

	// TLS configures TLS for the server. When nil, the server runs plain HTTP.
	TLS *TLSConfig `yaml:"tls"`
}

// TLSConfig holds TLS certificate paths for enabling HTTPS.
type TLSConfig struct {
	// CertFile is the path to the PEM-encoded TLS certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded TLS private key.
	KeyFile string `yaml:"key_file"`
}

// ProvidersConfig declares the upstream provider for each pipeline stage.
type ProvidersConfig struct {
	// Translate serves both translation and transliteration.
	Translate ProviderEntry `yaml:"translate"`

	STT ProviderEntry `yaml:"stt"`
	TTS ProviderEntry `yaml:"tts"`

	// TTSFallback is an optional second synthesis tier tried when TTS
	// fails, typically a locally hosted engine.
	TTSFallback ProviderEntry `yaml:"tts_fallback"`
}

// ProviderEntry is the common configuration block shared by all provider types.
type ProviderEntry struct {
	// Name selects the provider implementation (e.g., "sarvam", "kokoro").
	Name string `yaml:"name"`

	// APIKey is the authentication key for the provider's API if any.
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the provider's default API endpoint.
	// Leave empty to use the provider's built-in default.
	BaseURL string `yaml:"base_url"`

	// Model selects a specific model within the provider (e.g., "bulbul:v1").
	Model string `yaml:"model"`

	// Options holds provider-specific configuration values not covered by
	// the standard fields above.
	Options map[string]any `yaml:"options"`
}

// SynthesisConfig tunes the speech synthesis engine.
type SynthesisConfig struct {
	// MaxChunkChars is the per-request text limit above which replies are
	// chunked. Default: 450.
	MaxChunkChars int `yaml:"max_chunk_chars"`

	// SampleRate is the output audio sample rate in Hz. Default: 22050.
	SampleRate int `yaml:"sample_rate"`

	// TimeoutSeconds bounds each provider request. Default: 30.
	TimeoutSeconds int `yaml:"timeout_seconds"`

	// Concurrency bounds how many chunks are synthesized in parallel.
	// Default: 4.
	Concurrency int `yaml:"concurrency"`

	// DefaultVoice is the speaker used when no voice mapping matches.
	// Default: "meera".
	DefaultVoice string `yaml:"default_voice"`
}
