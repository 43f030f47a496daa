// Command dhanvani is the main entry point for the Dhanvani voice advisory
// server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"

	"github.com/vaanilabs/dhanvani/internal/config"
	"github.com/vaanilabs/dhanvani/internal/health"
	"github.com/vaanilabs/dhanvani/internal/langid"
	"github.com/vaanilabs/dhanvani/internal/observe"
	"github.com/vaanilabs/dhanvani/internal/pipeline"
	"github.com/vaanilabs/dhanvani/internal/server"
	"github.com/vaanilabs/dhanvani/internal/session"
	"github.com/vaanilabs/dhanvani/internal/synth"
	"github.com/vaanilabs/dhanvani/pkg/provider/stt"
	sttsarvam "github.com/vaanilabs/dhanvani/pkg/provider/stt/sarvam"
	"github.com/vaanilabs/dhanvani/pkg/provider/translate"
	trsarvam "github.com/vaanilabs/dhanvani/pkg/provider/translate/sarvam"
	"github.com/vaanilabs/dhanvani/pkg/provider/tts/kokoro"
	ttssarvam "github.com/vaanilabs/dhanvani/pkg/provider/tts/sarvam"
	"github.com/vaanilabs/dhanvani/pkg/wav"
)

// sarvamBaseURL is the default Sarvam API endpoint, used for readiness
// probes when no override is configured.
const sarvamBaseURL = "https://api.sarvam.ai"

var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// ── CLI flags ──────────────────────────────────────────────────────────────
	configPath := flag.String("config", "config.yaml", "path to the YAML configuration file")
	flag.Parse()

	// A .env file beside the binary may supply SARVAM_API_KEY during
	// development. Absence is not an error.
	_ = godotenv.Load()

	// ── Load configuration ────────────────────────────────────────────────────
	cfg, err := config.Load(*configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			fmt.Fprintf(os.Stderr, "dhanvani: config file %q not found — copy configs/example.yaml to get started\n", *configPath)
		} else {
			fmt.Fprintf(os.Stderr, "dhanvani: %v\n", err)
		}
		return 1
	}

	// ── Logger ────────────────────────────────────────────────────────────────
	logger := newLogger(cfg.Server.LogLevel)
	slog.SetDefault(logger)

	slog.Info("dhanvani starting",
		"version", version,
		"config", *configPath,
		"listen_addr", cfg.Server.ListenAddr,
		"log_level", cfg.Server.LogLevel,
	)

	// ── Signal context ────────────────────────────────────────────────────────
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Telemetry ─────────────────────────────────────────────────────────────
	shutdownOtel, err := observe.InitProvider(ctx, observe.ProviderConfig{
		ServiceName:    "dhanvani",
		ServiceVersion: version,
	})
	if err != nil {
		slog.Error("failed to initialise telemetry", "err", err)
		return 1
	}

	metrics, err := observe.NewMetrics(otel.GetMeterProvider())
	if err != nil {
		slog.Error("failed to create metrics", "err", err)
		return 1
	}

	// ── Providers and pipeline ────────────────────────────────────────────────
	timeout := time.Duration(cfg.Synthesis.TimeoutSeconds) * time.Second

	gateway, err := buildTranslate(cfg.Providers.Translate, timeout)
	if err != nil {
		slog.Error("failed to build translate provider", "err", err)
		return 1
	}

	sttProvider, err := buildSTT(cfg.Providers.STT, timeout)
	if err != nil {
		slog.Error("failed to build stt provider", "err", err)
		return 1
	}

	engine, err := buildEngine(cfg, metrics, timeout)
	if err != nil {
		slog.Error("failed to build synthesis engine", "err", err)
		return 1
	}

	detector, err := langid.New(cfg.Languages)
	if err != nil {
		slog.Error("failed to build language detector", "err", err)
		return 1
	}

	sessions := session.NewManager(metrics)
	orchestrator := pipeline.New(detector, gateway, sttProvider, engine, metrics,
		pipeline.WithProviderNames(cfg.Providers.STT.Name, cfg.Providers.Translate.Name))

	healthHandler := health.New(healthCheckers(cfg)...)
	srv := server.New(orchestrator, sessions, healthHandler, metrics, cfg.Languages)

	httpSrv := &http.Server{
		Addr:              cfg.Server.ListenAddr,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if tls := cfg.Server.TLS; tls != nil {
			errCh <- httpSrv.ListenAndServeTLS(tls.CertFile, tls.KeyFile)
		} else {
			errCh <- httpSrv.ListenAndServe()
		}
	}()

	// ── Startup summary ───────────────────────────────────────────────────────
	printStartupSummary(cfg)
	slog.Info("server ready — press Ctrl+C to shut down")

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("serve error", "err", err)
			return 1
		}
	case <-ctx.Done():
	}

	// ── Graceful shutdown ─────────────────────────────────────────────────────
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	slog.Info("shutdown signal received, stopping…")

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "err", err)
		return 1
	}
	if err := shutdownOtel(shutdownCtx); err != nil {
		slog.Warn("telemetry shutdown error", "err", err)
	}
	slog.Info("goodbye")
	return 0
}

// ── Provider wiring ───────────────────────────────────────────────────────────

// buildTranslate constructs the translation gateway named in entry. Only
// "sarvam" ships today; an empty name selects it.
func buildTranslate(entry config.ProviderEntry, timeout time.Duration) (translate.Gateway, error) {
	if entry.Name != "" && entry.Name != "sarvam" {
		return nil, fmt.Errorf("unsupported translate provider %q", entry.Name)
	}
	opts := []trsarvam.Option{trsarvam.WithTimeout(timeout)}
	if entry.BaseURL != "" {
		opts = append(opts, trsarvam.WithBaseURL(entry.BaseURL))
	}
	if entry.Model != "" {
		opts = append(opts, trsarvam.WithModel(entry.Model))
	}
	g, err := trsarvam.New(entry.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// buildSTT constructs the speech recognition provider named in entry.
func buildSTT(entry config.ProviderEntry, timeout time.Duration) (stt.Provider, error) {
	if entry.Name != "" && entry.Name != "sarvam" {
		return nil, fmt.Errorf("unsupported stt provider %q", entry.Name)
	}
	opts := []sttsarvam.Option{sttsarvam.WithTimeout(timeout)}
	if entry.BaseURL != "" {
		opts = append(opts, sttsarvam.WithBaseURL(entry.BaseURL))
	}
	if entry.Model != "" {
		opts = append(opts, sttsarvam.WithModel(entry.Model))
	}
	p, err := sttsarvam.New(entry.APIKey, opts...)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// buildEngine constructs the synthesis engine: Sarvam as the primary tier,
// an optional local Kokoro server as the fallback tier. The terminal silence
// tier is always installed by the engine itself.
func buildEngine(cfg *config.Config, metrics *observe.Metrics, timeout time.Duration) (*synth.Engine, error) {
	entry := cfg.Providers.TTS
	if entry.Name != "" && entry.Name != "sarvam" {
		return nil, fmt.Errorf("unsupported tts provider %q", entry.Name)
	}

	primaryOpts := []ttssarvam.Option{
		ttssarvam.WithTimeout(timeout),
		ttssarvam.WithSampleRate(cfg.Synthesis.SampleRate),
	}
	if entry.BaseURL != "" {
		primaryOpts = append(primaryOpts, ttssarvam.WithBaseURL(entry.BaseURL))
	}
	if entry.Model != "" {
		primaryOpts = append(primaryOpts, ttssarvam.WithModel(entry.Model))
	}
	primary, err := ttssarvam.New(entry.APIKey, primaryOpts...)
	if err != nil {
		return nil, fmt.Errorf("create tts provider: %w", err)
	}

	engineCfg := synth.Config{
		Format: wav.Format{
			SampleRate:    cfg.Synthesis.SampleRate,
			Channels:      1,
			BitsPerSample: 16,
		},
		MaxChunkChars: cfg.Synthesis.MaxChunkChars,
		Concurrency:   cfg.Synthesis.Concurrency,
		Voices:        cfg.Voices,
		DefaultVoice:  cfg.Synthesis.DefaultVoice,
	}

	opts := []synth.Option{synth.WithMetrics(metrics)}
	if fb := cfg.Providers.TTSFallback; fb.Name != "" {
		if fb.Name != "kokoro" {
			return nil, fmt.Errorf("unsupported tts fallback provider %q", fb.Name)
		}
		kokoroOpts := []kokoro.Option{kokoro.WithTimeout(timeout)}
		if fb.Model != "" {
			kokoroOpts = append(kokoroOpts, kokoro.WithModel(fb.Model))
		}
		if voice := optString(fb.Options, "voice"); voice != "" {
			kokoroOpts = append(kokoroOpts, kokoro.WithVoice(voice))
		}
		fallback, err := kokoro.New(fb.BaseURL, kokoroOpts...)
		if err != nil {
			return nil, fmt.Errorf("create tts fallback provider: %w", err)
		}
		opts = append(opts, synth.WithFallback("kokoro", fallback))
		slog.Info("provider created", "kind", "tts_fallback", "name", fb.Name)
	}

	return synth.New("sarvam", primary, engineCfg, opts...), nil
}

// healthCheckers builds readiness probes for each configured upstream.
func healthCheckers(cfg *config.Config) []health.Checker {
	apiURL := cfg.Providers.Translate.BaseURL
	if apiURL == "" {
		apiURL = sarvamBaseURL
	}
	checkers := []health.Checker{
		health.Endpoint("sarvam", apiURL, nil),
	}
	if fb := cfg.Providers.TTSFallback; fb.Name != "" && fb.BaseURL != "" {
		checkers = append(checkers, health.Endpoint("kokoro", fb.BaseURL, nil))
	}
	return checkers
}

// ── Startup summary ───────────────────────────────────────────────────────────

func printStartupSummary(cfg *config.Config) {
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Println("║        Dhanvani — startup summary     ║")
	fmt.Println("╠═══════════════════════════════════════╣")
	printProvider("Translate", cfg.Providers.Translate.Name, cfg.Providers.Translate.Model)
	printProvider("STT", cfg.Providers.STT.Name, cfg.Providers.STT.Model)
	printProvider("TTS", cfg.Providers.TTS.Name, cfg.Providers.TTS.Model)
	printProvider("TTS fallback", cfg.Providers.TTSFallback.Name, cfg.Providers.TTSFallback.Model)
	fmt.Printf("║  Languages       : %-19d ║\n", len(cfg.Languages))
	fmt.Printf("║  Sample rate     : %-19d ║\n", cfg.Synthesis.SampleRate)
	if cfg.Server.TLS != nil {
		fmt.Printf("║  TLS             : %-19s ║\n", "enabled")
	}
	fmt.Printf("║  Listen addr     : %-19s ║\n", cfg.Server.ListenAddr)
	fmt.Println("╚═══════════════════════════════════════╝")
}

func printProvider(kind, name, model string) {
	value := name
	if value == "" {
		value = "(not configured)"
	} else if model != "" {
		value = name + " / " + model
	}
	if len(value) > 19 {
		value = value[:16] + "…"
	}
	fmt.Printf("║  %-12s    : %-19s ║\n", kind, value)
}

// ── Logger ─────────────────────────────────────────────────────────────────────

func newLogger(level config.LogLevel) *slog.Logger {
	var lvl slog.Level
	switch level {
	case config.LogDebug:
		lvl = slog.LevelDebug
	case config.LogWarn:
		lvl = slog.LevelWarn
	case config.LogError:
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// ── Helpers ───────────────────────────────────────────────────────────────────

// optString extracts a string value from a provider Options map[string]any.
// Returns "" if the map is nil, the key is absent, or the value is not a string.
func optString(opts map[string]any, key string) string {
	if opts == nil {
		return ""
	}
	v, ok := opts[key]
	if !ok {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
