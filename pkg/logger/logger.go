// Package logger wraps zap for the bridge server. Every line carries the
// service name, and request and mutation lines carry the acting user.
package logger

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Service is the value of the "service" field on every production line.
const Service = "cofounderbay-bridge"

// Logger is a wrapper around zap.Logger.
type Logger struct {
	*zap.Logger
}

// New creates the logger for env at the given level. The "development"
// environment gets a colored console encoder, anything else JSON on stdout.
func New(level, env string) (*Logger, error) {
	var config zap.Config
	if env == "development" {
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	} else {
		config = zap.NewProductionConfig()
		config.EncoderConfig.TimeKey = "ts"
		config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		config.InitialFields = map[string]interface{}{"service": Service}
		config.Sampling = nil
	}
	config.Level = zap.NewAtomicLevelAt(parseLevel(level))

	logger, err := config.Build()
	if err != nil {
		return nil, err
	}
	return &Logger{Logger: logger}, nil
}

// Nop returns a logger that discards everything, for tests and optional
// collaborators.
func Nop() *Logger {
	return &Logger{Logger: zap.NewNop()}
}

// Wrap adopts an existing zap logger.
func Wrap(l *zap.Logger) *Logger {
	return &Logger{Logger: l}
}

// With creates a child logger with additional fields.
func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{Logger: l.Logger.With(fields...)}
}

// Named creates a child logger for a component such as "nats" or "registry".
func (l *Logger) Named(component string) *Logger {
	return &Logger{Logger: l.Logger.Named(component)}
}

// ForRequest scopes a logger to one bridge request. An anonymous request
// (health, metrics, rejected tokens) has no actor field.
func (l *Logger) ForRequest(correlationID, actorID string) *Logger {
	fields := []zap.Field{zap.String("correlation_id", correlationID)}
	if actorID != "" {
		fields = append(fields, ActorField(actorID))
	}
	return l.With(fields...)
}

// ActorField is the zap field naming the acting user.
func ActorField(actorID string) zap.Field {
	return zap.String("actor_id", actorID)
}

// parseLevel accepts zap level names in any case plus "warning". Unknown
// names fall back to info.
func parseLevel(level string) zapcore.Level {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "warning" {
		level = "warn"
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}
