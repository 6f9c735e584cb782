// internal/tracing/tracing.go
package tracing

import (
	"context"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"cloudalign-core/engine"
)

// Name is the instrumentation scope.
const Name = "cloudalign"

// Tracer returns the tracer of the global provider.
func Tracer() trace.Tracer { return otel.Tracer(Name) }

// Setup installs a global provider exporting spans as JSON to path.
// An empty path keeps the no-op provider. The returned func flushes and
// closes the exporter.
func Setup(path string) (func(context.Context) error, error) {
	if path == "" {
		return func(context.Context) error { return nil }, nil
	}
	fh, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	exp, err := stdouttrace.New(stdouttrace.WithWriter(fh))
	if err != nil {
		_ = fh.Close()
		return nil, err
	}
	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exp))
	otel.SetTracerProvider(tp)
	return func(ctx context.Context) error {
		err := tp.Shutdown(ctx)
		if cerr := fh.Close(); err == nil {
			err = cerr
		}
		return err
	}, nil
}

// StartJob opens the span of one (profile, target) alignment.
func StartJob(ctx context.Context, tr trace.Tracer, profile, target string, seeds int) (context.Context, trace.Span) {
	return tr.Start(ctx, "engine.AlignPair",
		trace.WithAttributes(
			attribute.String("profile", profile),
			attribute.String("target", target),
			attribute.Int("seeds", seeds),
		),
	)
}

// EndJob records the outcome on span and ends it.
func EndJob(span trace.Span, res engine.Result, err error) {
	defer span.End()
	span.SetAttributes(
		attribute.Int("regions", res.Regions),
		attribute.Int("alignments", len(res.Alignments)),
		attribute.Int64("dp_cells", res.Cells),
	)
	for _, d := range res.Diagnostics {
		span.AddEvent("region_skipped", trace.WithAttributes(
			attribute.String("reason", string(d.Reason)),
			attribute.Int("target_start", d.Region.TargetStart),
			attribute.Int("target_end", d.Region.TargetEnd),
		))
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "alignment failed")
		return
	}
	span.SetStatus(codes.Ok, "")
}
