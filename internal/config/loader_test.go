package config

import (
	"strings"
	"testing"
)

const validYAML = `
server:
  listen_addr: ":9090"
  log_level: debug
providers:
  translate:
    name: sarvam
    api_key: test-key
  stt:
    name: sarvam
    api_key: test-key
  tts:
    name: sarvam
    api_key: test-key
  tts_fallback:
    name: kokoro
    base_url: http://localhost:8880
languages:
  en-IN: English
  hi-IN: Hindi
  ta-IN: Tamil
voices:
  en: meera
  hi: neel
  ta: amol
synthesis:
  max_chunk_chars: 450
  sample_rate: 22050
  timeout_seconds: 30
  concurrency: 4
`

func TestLoadFromReader_Valid(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(validYAML))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Server.ListenAddr != ":9090" {
		t.Errorf("ListenAddr = %q, want :9090", cfg.Server.ListenAddr)
	}
	if cfg.Server.LogLevel != LogDebug {
		t.Errorf("LogLevel = %q, want debug", cfg.Server.LogLevel)
	}
	if cfg.Providers.Translate.APIKey != "test-key" {
		t.Errorf("Translate.APIKey = %q", cfg.Providers.Translate.APIKey)
	}
	if cfg.Providers.TTSFallback.Name != "kokoro" {
		t.Errorf("TTSFallback.Name = %q", cfg.Providers.TTSFallback.Name)
	}
	if cfg.Languages["hi-IN"] != "Hindi" {
		t.Errorf("Languages[hi-IN] = %q", cfg.Languages["hi-IN"])
	}
	if cfg.Voices["ta"] != "amol" {
		t.Errorf("Voices[ta] = %q", cfg.Voices["ta"])
	}
}

func TestLoadFromReader_Defaults(t *testing.T) {
	cfg, err := LoadFromReader(strings.NewReader(`
providers:
  translate:
    name: sarvam
    api_key: k
`))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}

	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("default ListenAddr = %q, want :8080", cfg.Server.ListenAddr)
	}
	if cfg.Synthesis.MaxChunkChars != 450 {
		t.Errorf("default MaxChunkChars = %d, want 450", cfg.Synthesis.MaxChunkChars)
	}
	if cfg.Synthesis.SampleRate != 22050 {
		t.Errorf("default SampleRate = %d, want 22050", cfg.Synthesis.SampleRate)
	}
	if cfg.Synthesis.Concurrency != 4 {
		t.Errorf("default Concurrency = %d, want 4", cfg.Synthesis.Concurrency)
	}
	if cfg.Synthesis.DefaultVoice != "meera" {
		t.Errorf("default DefaultVoice = %q, want meera", cfg.Synthesis.DefaultVoice)
	}
	if len(cfg.Languages) != len(DefaultLanguages) {
		t.Errorf("default Languages has %d entries, want %d", len(cfg.Languages), len(DefaultLanguages))
	}
}

func TestLoadFromReader_UnknownField(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader(`
server:
  listen_adddr: ":8080"
`))
	if err == nil {
		t.Error("misspelled field did not error")
	}
}

func TestValidate_Errors(t *testing.T) {
	t.Setenv("SARVAM_API_KEY", "")

	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			"bad log level",
			"server:\n  log_level: verbose\n",
			"server.log_level",
		},
		{
			"missing api key",
			"providers:\n  tts:\n    name: sarvam\n",
			"providers.tts",
		},
		{
			"unqualified language code",
			"languages:\n  en-IN: English\n  hi: Hindi\n",
			"region-qualified",
		},
		{
			"no english",
			"languages:\n  hi-IN: Hindi\n",
			"English variant",
		},
		{
			"bad sample rate",
			"synthesis:\n  sample_rate: 44100\n",
			"synthesis.sample_rate",
		},
		{
			"concurrency out of range",
			"synthesis:\n  concurrency: 100\n",
			"synthesis.concurrency",
		},
		{
			"tls missing key file",
			"server:\n  tls:\n    cert_file: /etc/tls/cert.pem\n",
			"server.tls",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromReader(strings.NewReader(tc.yaml))
			if err == nil {
				t.Fatal("invalid config did not error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Errorf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestApplyDefaults_EnvAPIKey(t *testing.T) {
	t.Setenv("SARVAM_API_KEY", "env-key")

	cfg, err := LoadFromReader(strings.NewReader("providers:\n  tts:\n    name: sarvam\n"))
	if err != nil {
		t.Fatalf("LoadFromReader: %v", err)
	}
	if cfg.Providers.TTS.APIKey != "env-key" {
		t.Errorf("TTS.APIKey = %q, want env-key", cfg.Providers.TTS.APIKey)
	}
}

func TestValidate_JoinsMultipleErrors(t *testing.T) {
	_, err := LoadFromReader(strings.NewReader(`
server:
  log_level: verbose
synthesis:
  sample_rate: 44100
`))
	if err == nil {
		t.Fatal("invalid config did not error")
	}
	msg := err.Error()
	if !strings.Contains(msg, "server.log_level") || !strings.Contains(msg, "synthesis.sample_rate") {
		t.Errorf("joined error missing failures: %q", msg)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/dhanvani.yaml"); err == nil {
		t.Error("Load of missing file did not error")
	}
}
