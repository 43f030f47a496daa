// Package pipeline orchestrates one conversation turn: speech recognition
// for voice input, language determination, translation to English, advisory
// reply generation, translation and transliteration back into the user's
// language, and speech synthesis of the reply.
//
// The pipeline degrades rather than aborts: translation, transliteration,
// detection, and synthesis problems all produce a usable (if less polished)
// turn. Only speech recognition failure and reply generation failure abort,
// because without them there is nothing to answer.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/vaanilabs/dhanvani/internal/advisor"
	"github.com/vaanilabs/dhanvani/internal/langid"
	"github.com/vaanilabs/dhanvani/internal/observe"
	"github.com/vaanilabs/dhanvani/internal/session"
	"github.com/vaanilabs/dhanvani/internal/synth"
	"github.com/vaanilabs/dhanvani/pkg/provider/stt"
	"github.com/vaanilabs/dhanvani/pkg/provider/translate"
)

const english = "en-IN"

// Utterance is one user input. Exactly one of Text or Audio is set.
type Utterance struct {
	Text  string
	Audio []byte
}

// Result is the outcome of one processed turn.
type Result struct {
	SessionID string

	// Language is the language the turn was conducted in.
	Language string

	// Transcript is what speech recognition heard. Empty for text input.
	Transcript string

	// ReplyText is the reply in the user's language. Falls back to English
	// when translation back was unavailable.
	ReplyText string

	// EnglishReply is the reply before translation back.
	EnglishReply string

	// Audio is the spoken reply as WAV. Never empty for a processed turn.
	Audio []byte

	// TierUse counts which synthesis tiers produced the audio chunks.
	TierUse map[string]int

	// TranslationDegraded is set when any translate or transliterate step
	// was absorbed.
	TranslationDegraded bool

	// SynthesisDegraded is set when any audio chunk came from a fallback
	// tier.
	SynthesisDegraded bool

	// Duplicate is set when this exact input was already processed in the
	// session; nothing was done.
	Duplicate bool
}

// Orchestrator wires the stages of a turn together.
type Orchestrator struct {
	detector *langid.Detector
	gateway  translate.Gateway
	stt      stt.Provider
	engine   *synth.Engine
	metrics  *observe.Metrics

	sttName       string
	translateName string
}

// Option is a functional option for configuring an Orchestrator.
type Option func(*Orchestrator)

// WithProviderNames sets the provider labels recorded on request metrics.
// Both default to "sarvam".
func WithProviderNames(sttName, translateName string) Option {
	return func(o *Orchestrator) {
		if sttName != "" {
			o.sttName = sttName
		}
		if translateName != "" {
			o.translateName = translateName
		}
	}
}

// New creates an Orchestrator. All dependencies are required except metrics,
// which may be nil.
func New(detector *langid.Detector, gateway translate.Gateway, sttProvider stt.Provider, engine *synth.Engine, metrics *observe.Metrics, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		detector:      detector,
		gateway:       gateway,
		stt:           sttProvider,
		engine:        engine,
		metrics:       metrics,
		sttName:       "sarvam",
		translateName: "sarvam",
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Process runs one turn for the session. Voice input is transcribed first;
// speech recognition failure aborts the turn with an error wrapping
// [stt.ErrUnavailable]. Reply generation failure aborts with
// [advisor.ErrReplyGeneration]. Everything else degrades.
func (o *Orchestrator) Process(ctx context.Context, sess *session.Session, utt Utterance) (Result, error) {
	start := time.Now()
	defer func() {
		if o.metrics != nil {
			o.metrics.PipelineDuration.Record(ctx, time.Since(start).Seconds())
		}
	}()

	voice := len(utt.Audio) > 0
	res := Result{SessionID: sess.ID()}

	text := utt.Text
	if voice {
		transcript, err := o.transcribe(ctx, sess, utt.Audio)
		if err != nil {
			return Result{}, err
		}
		text = transcript
		res.Transcript = transcript
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return Result{}, fmt.Errorf("%w: empty input", advisor.ErrReplyGeneration)
	}

	// The same utterance submitted twice is answered once.
	dupKey := text
	if voice {
		dupKey = string(utt.Audio)
	}
	if !sess.MarkProcessed(dupKey) {
		res.Duplicate = true
		return res, nil
	}

	lang := o.determineLanguage(ctx, sess, text, voice)
	res.Language = lang
	sess.RecordDetectedLanguage(lang, voice)

	englishInput := text
	if !strings.HasPrefix(lang, "en") {
		translated, err := o.translate(ctx, text, lang, english)
		if err != nil {
			o.absorb(ctx, "translation", err)
			res.TranslationDegraded = true
		} else {
			englishInput = translated
		}
	}

	// Facts the user volunteers accumulate on the session profile across
	// turns.
	sess.UpdateProfile(advisor.ExtractProfile(englishInput))

	reply, err := advisor.Reply(englishInput, sess.Profile())
	if err != nil {
		return Result{}, err
	}
	res.EnglishReply = reply

	replyLocal := reply
	if !strings.HasPrefix(lang, "en") {
		translated, err := o.translate(ctx, reply, english, lang)
		if err != nil {
			o.absorb(ctx, "translation", err)
			res.TranslationDegraded = true
		} else {
			replyLocal = translated
			// Script normalization: translation can come back romanized.
			transliterated, err := o.gateway.Transliterate(ctx, translated, english, lang)
			if err != nil {
				o.absorb(ctx, "transliteration", err)
				res.TranslationDegraded = true
			} else {
				replyLocal = transliterated
			}
		}
	}
	res.ReplyText = replyLocal

	userTranslated := ""
	if englishInput != text {
		userTranslated = englishInput
	}
	sess.Append(session.RoleUser, text, userTranslated)

	replyTranslated := ""
	if replyLocal != reply {
		replyTranslated = reply
	}
	sess.Append(session.RoleAssistant, replyLocal, replyTranslated)

	synthStart := time.Now()
	synthRes, err := o.engine.Synthesize(ctx, replyLocal, lang, "", 1.0)
	if err != nil {
		// The engine contract makes this unreachable; guard anyway.
		return Result{}, err
	}
	if o.metrics != nil {
		o.metrics.SynthesisDuration.Record(ctx, time.Since(synthStart).Seconds())
	}
	res.Audio = synthRes.Audio
	res.TierUse = synthRes.TierUse
	res.SynthesisDegraded = synthRes.Degraded()

	mode := session.ModeText
	if voice {
		mode = session.ModeVoice
	}
	if o.metrics != nil {
		o.metrics.RecordTurn(ctx, mode, lang)
	}

	slog.InfoContext(ctx, "turn processed",
		"session", sess.ID(),
		"mode", mode,
		"language", lang,
		"chunks", synthRes.Chunks,
		"degraded_translation", res.TranslationDegraded,
		"degraded_synthesis", res.SynthesisDegraded,
	)

	return res, nil
}

// transcribe turns voice input into text. Failure here is fatal for the
// turn; there is no query to answer without a transcript.
func (o *Orchestrator) transcribe(ctx context.Context, sess *session.Session, audio []byte) (string, error) {
	if o.stt == nil {
		return "", fmt.Errorf("%w: no speech recognition provider configured", stt.ErrUnavailable)
	}

	start := time.Now()
	transcript, err := o.stt.Transcribe(ctx, audio, sess.Language())
	if o.metrics != nil {
		o.metrics.STTDuration.Record(ctx, time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.RecordProviderRequest(ctx, o.sttName, "stt", status)
	}
	if err != nil {
		return "", fmt.Errorf("speech recognition: %w", err)
	}
	return transcript.Text, nil
}

// determineLanguage picks the language of the turn. Text input is detected;
// voice input reuses the continuous-mode carryover or the session selection,
// since recognition already ran against that language.
func (o *Orchestrator) determineLanguage(ctx context.Context, sess *session.Session, text string, voice bool) string {
	if voice {
		if carry := sess.CarryoverLanguage(); carry != "" {
			return carry
		}
		return sess.Language()
	}

	start := time.Now()
	detected, err := o.detector.Detect(text)
	if o.metrics != nil {
		o.metrics.DetectionDuration.Record(ctx, time.Since(start).Seconds())
	}
	if err != nil {
		o.absorb(ctx, "detection", err)
		return sess.Language()
	}
	return detected
}

func (o *Orchestrator) translate(ctx context.Context, text, from, to string) (string, error) {
	start := time.Now()
	out, err := o.gateway.Translate(ctx, text, from, to)
	if o.metrics != nil {
		o.metrics.TranslationDuration.Record(ctx, time.Since(start).Seconds())
		status := "ok"
		if err != nil {
			status = "error"
		}
		o.metrics.RecordProviderRequest(ctx, o.translateName, "translate", status)
	}
	if err != nil {
		return out, err
	}
	return out, nil
}

func (o *Orchestrator) absorb(ctx context.Context, stage string, err error) {
	slog.WarnContext(ctx, "stage degraded", "stage", stage, "error", err)
	if o.metrics != nil {
		o.metrics.RecordAbsorbedError(ctx, stage)
	}
}
