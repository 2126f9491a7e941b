package crypto

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rbaliyan/field-crypto"

// Operation names used for spans and metric attributes.
const (
	opEncrypt = "encrypt"
	opDecrypt = "decrypt"
)

// Status values recorded on metrics.
const (
	statusSuccess          = "success"
	statusMalformed        = "malformed"
	statusDecryptionFailed = "decryption_failed"
	statusError            = "error"
)

// telemetry records spans, metrics and debug logs for one Encrypter or Decrypter.
type telemetry struct {
	tracer   trace.Tracer
	ops      metric.Int64Counter
	duration metric.Float64Histogram
	logger   *slog.Logger
}

func newTelemetry(o *options) (*telemetry, error) {
	meter := o.meterProvider.Meter(instrumentationName)

	ops, err := meter.Int64Counter(
		"field_crypto_operations_total",
		metric.WithDescription("Total number of field encryption operations"),
		metric.WithUnit("{operation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create operation counter: %w", err)
	}

	duration, err := meter.Float64Histogram(
		"field_crypto_operation_duration_seconds",
		metric.WithDescription("Duration of field encryption operations in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("crypto: failed to create duration histogram: %w", err)
	}

	return &telemetry{
		tracer:   o.tracerProvider.Tracer(instrumentationName),
		ops:      ops,
		duration: duration,
		logger:   o.logger,
	}, nil
}

// operation tracks a single Encrypt or Decrypt call.
type operation struct {
	t     *telemetry
	ctx   context.Context
	span  trace.Span
	name  string
	start time.Time
}

func (t *telemetry) begin(ctx context.Context, name string) *operation {
	if ctx == nil {
		ctx = context.Background()
	}
	spanName := "crypto.Encrypt"
	if name == opDecrypt {
		spanName = "crypto.Decrypt"
	}
	ctx, span := t.tracer.Start(ctx, spanName)
	return &operation{t: t, ctx: ctx, span: span, name: name, start: time.Now()}
}

func (op *operation) annotate(alg Algorithm, digest string) {
	op.span.SetAttributes(
		attribute.String("crypto.algorithm", string(alg)),
		attribute.String("crypto.key_digest", digest),
	)
}

func (op *operation) end(err error) {
	status := statusOf(err)
	attrs := metric.WithAttributes(
		attribute.String("operation", op.name),
		attribute.String("status", status),
	)
	op.t.ops.Add(op.ctx, 1, attrs)
	op.t.duration.Record(op.ctx, time.Since(op.start).Seconds(), attrs)

	if err != nil {
		op.span.RecordError(err)
		op.span.SetStatus(codes.Error, status)
	}
	op.span.End()
}

func statusOf(err error) string {
	switch {
	case err == nil:
		return statusSuccess
	case errors.Is(err, ErrMalformedEnvelope):
		return statusMalformed
	case errors.Is(err, ErrDecryptionFailed):
		return statusDecryptionFailed
	default:
		return statusError
	}
}
