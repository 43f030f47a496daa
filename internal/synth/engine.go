// Package synth implements the speech synthesis engine: voice selection,
// text chunking, per-chunk synthesis through a tiered fallback ladder, and
// reassembly of the chunk audio into one playable WAV clip.
//
// The ladder's terminal tier generates silence proportional to the chunk's
// text length, so a chunk can never abort an utterance: the worst outcome is
// a silent gap of roughly the right duration. By the same construction the
// engine as a whole never fails; callers inspect [Result.TierUse] to see how
// degraded the audio is.
package synth

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/vaanilabs/dhanvani/internal/observe"
	"github.com/vaanilabs/dhanvani/internal/resilience"
	"github.com/vaanilabs/dhanvani/pkg/provider/tts"
	"github.com/vaanilabs/dhanvani/pkg/textchunk"
	"github.com/vaanilabs/dhanvani/pkg/wav"
	"golang.org/x/sync/errgroup"
)

const (
	// TierSilence is the name of the terminal silence tier.
	TierSilence = "silence"

	defaultMaxChunkChars = 450
	defaultConcurrency   = 4
	defaultVoice         = "meera"

	// perRuneDuration approximates speaking time per character at pace 1.0,
	// used to size silence substitutes.
	perRuneDuration = 70 * time.Millisecond

	minSilence = 500 * time.Millisecond
	maxSilence = 30 * time.Second
)

// DefaultFormat is the fixed audio format for a synthesis run: the sample
// rate requested from the cloud provider, mono, 16-bit.
var DefaultFormat = wav.Format{SampleRate: 22050, Channels: 1, BitsPerSample: 16}

// defaultVoices maps language-code prefixes to provider speaker names.
var defaultVoices = map[string]string{
	"en": "meera",
	"hi": "neel",
	"ta": "amol",
}

// Config tunes an [Engine]. Zero values select the defaults above.
type Config struct {
	// Format is the run audio format all chunks must share.
	Format wav.Format

	// MaxChunkChars is the per-request text limit above which chunking
	// starts. Default: 450.
	MaxChunkChars int

	// Concurrency bounds how many chunks are synthesized in parallel.
	// Default: 4.
	Concurrency int

	// Voices maps language-code prefixes (e.g. "hi") to speaker names,
	// overriding the built-in table.
	Voices map[string]string

	// DefaultVoice is used when no prefix matches. Default: "meera".
	DefaultVoice string
}

// Option is a functional option for configuring an Engine.
type Option func(*Engine)

// WithFallback appends a fallback synthesis tier tried after the tiers
// registered before it.
func WithFallback(name string, p tts.Provider) Option {
	return func(e *Engine) {
		e.ladder.AddTier(name, p)
	}
}

// WithMetrics records per-tier usage counters to m. When unset, metrics are
// not recorded.
func WithMetrics(m *observe.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Result describes one completed synthesis run.
type Result struct {
	// Audio is the combined WAV clip. Never empty.
	Audio []byte

	// Chunks is the number of text chunks synthesized.
	Chunks int

	// TierUse counts, per tier name, how many chunks that tier produced.
	TierUse map[string]int

	// primaryTier names the first ladder tier so Degraded can tell primary
	// output apart from fallbacks.
	primaryTier string
}

// Degraded reports whether any chunk was produced by a tier other than the
// primary.
func (r Result) Degraded() bool {
	for tier, n := range r.TierUse {
		if tier != r.primaryTier && n > 0 {
			return true
		}
	}
	return false
}

// Engine synthesizes arbitrary-length text into a single WAV clip.
// Safe for concurrent use.
type Engine struct {
	ladder      *resilience.Ladder[tts.Provider]
	primaryTier string
	cfg         Config
	metrics     *observe.Metrics
}

// New creates an Engine with primary as the first synthesis tier. Further
// tiers are added via [WithFallback]; the terminal silence tier is installed
// automatically.
func New(primaryName string, primary tts.Provider, cfg Config, opts ...Option) *Engine {
	if cfg.Format == (wav.Format{}) {
		cfg.Format = DefaultFormat
	}
	if cfg.MaxChunkChars <= 0 {
		cfg.MaxChunkChars = defaultMaxChunkChars
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	if cfg.DefaultVoice == "" {
		cfg.DefaultVoice = defaultVoice
	}

	e := &Engine{
		ladder:      resilience.NewLadder(primary, primaryName, resilience.LadderConfig{}),
		primaryTier: primaryName,
		cfg:         cfg,
	}
	for _, o := range opts {
		o(e)
	}
	e.ladder.SetTerminal(TierSilence, silenceProvider{format: cfg.Format})
	return e
}

// Voice returns the speaker used for languageCode when the caller does not
// name one: the longest matching prefix from the voice table, else the
// default voice.
func (e *Engine) Voice(languageCode string) string {
	prefix, _, _ := strings.Cut(languageCode, "-")
	if v, ok := e.cfg.Voices[prefix]; ok {
		return v
	}
	if v, ok := defaultVoices[prefix]; ok {
		return v
	}
	return e.cfg.DefaultVoice
}

// Synthesize converts text to one WAV clip in the given language. An empty
// voice selects the language default. Pace 0 means normal speed.
//
// The returned audio is never empty: every chunk is guaranteed output by the
// terminal silence tier, and empty text yields a minimum-length silent clip.
// The error return is always nil today and exists for interface stability.
func (e *Engine) Synthesize(ctx context.Context, text, languageCode, voice string, pace float64) (Result, error) {
	if voice == "" {
		voice = e.Voice(languageCode)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{
			Audio:       wav.Silence(minSilence, e.cfg.Format),
			TierUse:     map[string]int{},
			primaryTier: e.primaryTier,
		}, nil
	}

	chunks := textchunk.Split(text, e.cfg.MaxChunkChars)
	if len(chunks) == 1 {
		return e.synthesizeSingle(ctx, chunks[0], languageCode, voice, pace)
	}
	return e.synthesizeChunked(ctx, chunks, languageCode, voice, pace)
}

// synthesizeSingle handles text within the per-request limit: one ladder
// pass, provider audio returned as-is.
func (e *Engine) synthesizeSingle(ctx context.Context, text, languageCode, voice string, pace float64) (Result, error) {
	audio, tier := e.synthesizeChunk(ctx, text, languageCode, voice, pace)
	return Result{
		Audio:       audio,
		Chunks:      1,
		TierUse:     map[string]int{tier: 1},
		primaryTier: e.primaryTier,
	}, nil
}

// synthesizeChunked splits, synthesizes chunks concurrently, and reassembles
// in original chunk order. Chunk audio that does not match the run format
// is replaced by equivalent-duration silence so concatenation cannot fail.
func (e *Engine) synthesizeChunked(ctx context.Context, chunks []string, languageCode, voice string, pace float64) (Result, error) {
	type chunkOut struct {
		audio []byte
		tier  string
	}
	outs := make([]chunkOut, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.cfg.Concurrency)
	for i, chunk := range chunks {
		g.Go(func() error {
			audio, tier := e.synthesizeChunk(gctx, chunk, languageCode, voice, pace)

			// Enforce the run format before reassembly.
			if _, f, err := wav.Decode(audio); err != nil || f != e.cfg.Format {
				slog.Warn("chunk audio does not match run format, substituting silence",
					"chunk", i, "tier", tier, "error", err)
				audio = wav.Silence(silenceFor(chunk, pace), e.cfg.Format)
				tier = TierSilence
			}
			outs[i] = chunkOut{audio: audio, tier: tier}
			return nil
		})
	}
	// Workers never return errors; the ladder's terminal tier is total.
	_ = g.Wait()

	clips := make([][]byte, len(outs))
	tierUse := make(map[string]int)
	for i, out := range outs {
		clips[i] = out.audio
		tierUse[out.tier]++
	}

	audio, err := wav.Concat(clips)
	if err != nil {
		// Unreachable after format enforcement, but never return no audio.
		slog.Error("chunk reassembly failed, substituting silence", "error", err)
		audio = wav.Silence(silenceFor(strings.Join(chunks, ""), pace), e.cfg.Format)
	}

	return Result{
		Audio:       audio,
		Chunks:      len(chunks),
		TierUse:     tierUse,
		primaryTier: e.primaryTier,
	}, nil
}

// synthesizeChunk runs one chunk down the fallback ladder and reports which
// tier produced the audio.
func (e *Engine) synthesizeChunk(ctx context.Context, text, languageCode, voice string, pace float64) ([]byte, string) {
	req := tts.Request{Text: text, LanguageCode: languageCode, Voice: voice, Pace: pace}
	audio, tier, err := resilience.Execute(e.ladder, func(p tts.Provider) ([]byte, error) {
		return p.Synthesize(ctx, req)
	})
	if err != nil {
		// Only possible if the terminal tier itself errored, which
		// silenceProvider never does.
		audio = wav.Silence(silenceFor(text, pace), e.cfg.Format)
		tier = TierSilence
	}
	if e.metrics != nil {
		e.metrics.RecordTierUse(ctx, tier)
	}
	return audio, tier
}

// silenceFor sizes a silence substitute to the speaking time of text,
// clamped to [500ms, 30s].
func silenceFor(text string, pace float64) time.Duration {
	d := time.Duration(len([]rune(text))) * perRuneDuration
	if pace > 0 {
		d = time.Duration(float64(d) / pace)
	}
	if d < minSilence {
		d = minSilence
	}
	if d > maxSilence {
		d = maxSilence
	}
	return d
}

// silenceProvider is the terminal ladder tier: it always succeeds, returning
// silence proportional to the text length.
type silenceProvider struct {
	format wav.Format
}

func (s silenceProvider) Synthesize(_ context.Context, req tts.Request) ([]byte, error) {
	return wav.Silence(silenceFor(req.Text, req.Pace), s.format), nil
}

var _ tts.Provider = silenceProvider{}
