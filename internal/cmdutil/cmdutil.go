package cmdutil

import (
	"context"
	"fmt"

	"github.com/DataDog/datadog-go/statsd"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/bomis-pampore/website-backend/internal/config"
)

func NewLogger(cfg *config.Config, debug bool) *zap.Logger {
	logger, _ := zap.NewProduction()
	if debug || !cfg.Production() {
		logger, _ = zap.NewDevelopment()
	}

	if cfg.LogFile == "" {
		return logger
	}

	rotated := zapcore.AddSync(&lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    50, // MB
		MaxBackups: 5,
		MaxAge:     28, // days
		Compress:   true,
	})
	fileCore := zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), rotated, zap.InfoLevel)

	return logger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, fileCore)
	}))
}

func NewStatsdClient(cfg *config.Config, tags ...string) (statsd.ClientInterface, error) {
	if cfg.StatsdURL == "" {
		return &statsd.NoOpClient{}, nil
	}

	if cfg.Environment != "" {
		tags = append(tags, fmt.Sprintf("env:%s", cfg.Environment))
	}

	return statsd.New(cfg.StatsdURL, statsd.WithTags(tags))
}

// NewTracerProvider installs a global OTLP tracer provider when an exporter
// endpoint is configured. The returned func flushes and stops it.
func NewTracerProvider(ctx context.Context, cfg *config.Config) (func(context.Context) error, error) {
	if cfg.OTLPEndpoint == "" {
		return func(context.Context) error { return nil }, nil
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter))
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	return tp.Shutdown, nil
}
