// Package observe provides application-wide observability primitives for
// Dhanvani: OpenTelemetry metrics, distributed tracing, structured logging,
// and HTTP middleware that ties them together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is available via [InitProvider] so that metrics can still
// be scraped via the standard /metrics endpoint. A package-level default
// [Metrics] instance ([DefaultMetrics]) is provided for convenience; tests
// should use [NewMetrics] with a custom [metric.MeterProvider] to avoid
// cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all Dhanvani metrics.
const meterName = "github.com/vaanilabs/dhanvani"

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use — the underlying OTel types handle
// their own synchronisation.
type Metrics struct {
	// --- Latency histograms per pipeline stage ---

	// DetectionDuration tracks language detection latency.
	DetectionDuration metric.Float64Histogram

	// TranslationDuration tracks translation round-trip latency.
	TranslationDuration metric.Float64Histogram

	// STTDuration tracks speech-to-text transcription latency.
	STTDuration metric.Float64Histogram

	// SynthesisDuration tracks full-utterance speech synthesis latency,
	// including chunking and reassembly.
	SynthesisDuration metric.Float64Histogram

	// PipelineDuration tracks end-to-end utterance processing latency.
	PipelineDuration metric.Float64Histogram

	// --- Counters ---

	// ProviderRequests counts provider API calls. Use with attributes:
	//   attribute.String("provider", ...), attribute.String("kind", ...), attribute.String("status", ...)
	ProviderRequests metric.Int64Counter

	// AbsorbedErrors counts non-fatal errors converted into degraded
	// outputs. Use with attribute: attribute.String("stage", ...)
	AbsorbedErrors metric.Int64Counter

	// SynthesisTierUse counts which fallback tier produced each audio
	// chunk. Use with attribute: attribute.String("tier", ...)
	SynthesisTierUse metric.Int64Counter

	// Turns counts processed conversation turns. Use with attributes:
	//   attribute.String("mode", ...), attribute.String("language", ...)
	Turns metric.Int64Counter

	// --- Gauges ---

	// ActiveSessions tracks the number of live conversation sessions.
	ActiveSessions metric.Int64UpDownCounter

	// --- HTTP middleware ---

	// HTTPRequestDuration tracks HTTP request processing time. Use with
	// attributes: attribute.String("method", ...), attribute.String("path", ...)
	HTTPRequestDuration metric.Float64Histogram
}

// latencyBuckets defines histogram bucket boundaries (in seconds) sized for
// blocking provider calls with a 30s ceiling.
var latencyBuckets = []float64{
	0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30,
}

// NewMetrics creates a fully initialised [Metrics] struct using the given
// [metric.MeterProvider]. Returns an error if any instrument creation fails.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	var err error
	met := &Metrics{}

	// Histograms.
	if met.DetectionDuration, err = m.Float64Histogram("dhanvani.detection.duration",
		metric.WithDescription("Latency of text language detection."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.TranslationDuration, err = m.Float64Histogram("dhanvani.translation.duration",
		metric.WithDescription("Latency of translation and transliteration calls."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.STTDuration, err = m.Float64Histogram("dhanvani.stt.duration",
		metric.WithDescription("Latency of speech-to-text transcription."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.SynthesisDuration, err = m.Float64Histogram("dhanvani.synthesis.duration",
		metric.WithDescription("Latency of full-utterance speech synthesis."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.PipelineDuration, err = m.Float64Histogram("dhanvani.pipeline.duration",
		metric.WithDescription("End-to-end utterance processing latency."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}

	// Counters.
	if met.ProviderRequests, err = m.Int64Counter("dhanvani.provider.requests",
		metric.WithDescription("Total provider API requests by provider, kind, and status."),
	); err != nil {
		return nil, err
	}
	if met.AbsorbedErrors, err = m.Int64Counter("dhanvani.pipeline.absorbed_errors",
		metric.WithDescription("Non-fatal errors absorbed into degraded outputs, by stage."),
	); err != nil {
		return nil, err
	}
	if met.SynthesisTierUse, err = m.Int64Counter("dhanvani.synthesis.tier_use",
		metric.WithDescription("Audio chunks produced per fallback tier."),
	); err != nil {
		return nil, err
	}
	if met.Turns, err = m.Int64Counter("dhanvani.session.turns",
		metric.WithDescription("Processed conversation turns by mode and language."),
	); err != nil {
		return nil, err
	}

	// Gauges (UpDownCounters).
	if met.ActiveSessions, err = m.Int64UpDownCounter("dhanvani.active_sessions",
		metric.WithDescription("Number of live conversation sessions."),
	); err != nil {
		return nil, err
	}

	// HTTP middleware histogram.
	if met.HTTPRequestDuration, err = m.Float64Histogram("dhanvani.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	return met, nil
}

// defaultMetrics is the lazily-initialised package-level Metrics instance.
var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it
// on first call using [otel.GetMeterProvider]. Subsequent calls return the
// same pointer. Panics if instrument creation fails (should not happen with
// the global provider).
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String] to reduce verbosity at
// call sites.
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordProviderRequest records a provider request counter increment with
// the standard attribute set.
func (m *Metrics) RecordProviderRequest(ctx context.Context, provider, kind, status string) {
	m.ProviderRequests.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("provider", provider),
			attribute.String("kind", kind),
			attribute.String("status", status),
		),
	)
}

// RecordAbsorbedError records that a non-fatal error at the named pipeline
// stage was converted into a degraded output.
func (m *Metrics) RecordAbsorbedError(ctx context.Context, stage string) {
	m.AbsorbedErrors.Add(ctx, 1,
		metric.WithAttributes(attribute.String("stage", stage)),
	)
}

// RecordTierUse records which fallback tier produced an audio chunk.
func (m *Metrics) RecordTierUse(ctx context.Context, tierName string) {
	m.SynthesisTierUse.Add(ctx, 1,
		metric.WithAttributes(attribute.String("tier", tierName)),
	)
}

// RecordTurn records a processed conversation turn.
func (m *Metrics) RecordTurn(ctx context.Context, mode, language string) {
	m.Turns.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("mode", mode),
			attribute.String("language", language),
		),
	)
}
