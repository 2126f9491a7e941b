package crypto

import (
	"crypto/rand"
	"fmt"
	"io"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures an Encrypter, a Decrypter or a FieldCipher.
type Option func(*options)

type options struct {
	algorithm      Algorithm
	logger         *slog.Logger
	meterProvider  metric.MeterProvider
	tracerProvider trace.TracerProvider
	random         io.Reader
	err            error // deferred validation error from options
}

// WithAlgorithm selects the algorithm used for new encryptions.
// Decryption always follows the algorithm recorded in the envelope.
// The default is AES256GCM.
func WithAlgorithm(alg Algorithm) Option {
	return func(o *options) {
		if o.err != nil {
			return
		}
		if !alg.Supported() {
			o.err = fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, alg)
			return
		}
		o.algorithm = alg
	}
}

// WithLogger sets the logger for debug records about failed decryptions.
// Plaintext and key material are never logged. The default discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeterProvider sets the OpenTelemetry meter provider.
// The default is the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *options) {
		if mp != nil {
			o.meterProvider = mp
		}
	}
}

// WithTracerProvider sets the OpenTelemetry tracer provider.
// The default is the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		if tp != nil {
			o.tracerProvider = tp
		}
	}
}

// withRandom replaces the IV source. Tests only.
func withRandom(r io.Reader) Option {
	return func(o *options) {
		o.random = r
	}
}

func newOptions(opts []Option) (*options, error) {
	o := &options{
		algorithm:      AES256GCM,
		logger:         slog.New(slog.DiscardHandler),
		meterProvider:  otel.GetMeterProvider(),
		tracerProvider: otel.GetTracerProvider(),
		random:         rand.Reader,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}
	return o, nil
}
