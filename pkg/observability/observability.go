package observability

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
)

// SetupTracing initializes OpenTelemetry tracing with stdout exporter (for demo; replace with OTLP in prod)
func SetupTracing(serviceName string) func() {
	exp, err := stdouttrace.New(stdouttrace.WithPrettyPrint())
	if err != nil {
		log.Fatalf("failed to initialize stdouttrace exporter: %v", err)
	}
	res, _ := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
	provider := trace.NewTracerProvider(
		trace.WithBatcher(exp),
		trace.WithResource(res),
	)
	otel.SetTracerProvider(provider)
	return func() { _ = provider.Shutdown(context.Background()) }
}

// SetupPrometheusMetrics initializes the Prometheus metrics exporter and
// exposes /metrics on its own port.
func SetupPrometheusMetrics(port string) *sdkmetric.MeterProvider {
	exp, err := prometheus.New()
	if err != nil {
		log.Fatalf("failed to initialize prometheus exporter: %v", err)
	}
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp))
	otel.SetMeterProvider(mp)
	go func() {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		_ = http.ListenAndServe(":"+port, mux)
	}()
	return mp
}

// Metrics bundles the instruments the chat and voice pipelines record into.
type Metrics struct {
	llmCalls   metric.Int64Counter
	llmLatency metric.Float64Histogram
	chatTurns  metric.Int64Counter
}

// NewMetrics creates the instrument set on the global meter provider.
func NewMetrics() *Metrics {
	meter := otel.Meter("roleplay-online/backend")
	calls, _ := meter.Int64Counter("llm_calls_total",
		metric.WithDescription("LLM upstream calls by operation and outcome"))
	latency, _ := meter.Float64Histogram("llm_call_duration_seconds",
		metric.WithDescription("LLM upstream call latency"))
	turns, _ := meter.Int64Counter("chat_turns_total",
		metric.WithDescription("Completed chat turns"))
	return &Metrics{llmCalls: calls, llmLatency: latency, chatTurns: turns}
}

// RecordLLMCall records one upstream call. op is "generate" or "speech".
func (m *Metrics) RecordLLMCall(ctx context.Context, op string, duration time.Duration, ok bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("operation", op),
		attribute.Bool("success", ok),
	)
	m.llmCalls.Add(ctx, 1, attrs)
	m.llmLatency.Record(ctx, duration.Seconds(), attrs)
}

// RecordChatTurn records one completed user/assistant exchange.
func (m *Metrics) RecordChatTurn(ctx context.Context) {
	if m == nil {
		return
	}
	m.chatTurns.Add(ctx, 1)
}
