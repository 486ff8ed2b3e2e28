package logger

import (
	stderrors "errors"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	apperrors "alfredoptarigan/hr-console/internal/errors"
)

// sessionPrefix is how much of a session id reaches the logs. The full id is
// the browser's cookie value.
const sessionPrefix = 8

// Logger is the structured logging interface shared by the console packages.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	WithFields(fields map[string]interface{}) Logger
	WithError(err error) Logger
	// WithSession tags entries with a shortened session id.
	WithSession(id string) Logger
	// Failure logs a failed operation at a level chosen by its error kind.
	Failure(msg string, err error)
	Sync() error
}

func New(levelStr, format string) *zap.Logger {
	level := zapcore.InfoLevel
	switch levelStr {
	case "debug":
		level = zapcore.DebugLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

type zapWrapper struct {
	l *zap.Logger
}

func (z *zapWrapper) Debug(msg string, fields map[string]interface{}) {
	z.l.Debug(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) Info(msg string, fields map[string]interface{}) {
	z.l.Info(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) Warn(msg string, fields map[string]interface{}) {
	z.l.Warn(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) Error(msg string, fields map[string]interface{}) {
	z.l.Error(msg, mapToZapFields(fields)...)
}

func (z *zapWrapper) WithFields(fields map[string]interface{}) Logger {
	return &zapWrapper{l: z.l.With(mapToZapFields(fields)...)}
}

func (z *zapWrapper) WithError(err error) Logger {
	return &zapWrapper{l: z.l.With(zap.Error(err))}
}

func (z *zapWrapper) WithSession(id string) Logger {
	return &zapWrapper{l: z.l.With(zap.String("session", ShortSession(id)))}
}

// Failure logs request errors at warn. Validation errors and cancellations
// go to debug, as does ErrInFlight.
func (z *zapWrapper) Failure(msg string, err error) {
	if err == nil {
		return
	}
	se := apperrors.Classify(err)
	fields := []zap.Field{
		zap.String("kind", string(se.Kind)),
		zap.String("code", string(se.Code)),
		zap.Error(err),
	}
	if se.Status != 0 {
		fields = append(fields, zap.Int("status", se.Status))
	}

	if se.Kind == apperrors.KindValidation || se.Code == apperrors.ErrCodeCancelled ||
		stderrors.Is(err, apperrors.ErrInFlight) {
		z.l.Debug(msg, fields...)
		return
	}
	z.l.Warn(msg, fields...)
}

func (z *zapWrapper) Sync() error {
	return z.l.Sync()
}

func mapToZapFields(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		out = append(out, zap.Any(k, v))
	}
	return out
}

// ShortSession trims a session id to the prefix that is safe to log.
func ShortSession(id string) string {
	if len(id) <= sessionPrefix {
		return id
	}
	return id[:sessionPrefix]
}

// NewStructured creates a Logger backed by zap.
func NewStructured(levelStr, format string) Logger {
	return &zapWrapper{l: New(levelStr, format)}
}

// NewTestLogger routes log output through t.
func NewTestLogger(t testing.TB) Logger {
	return &zapWrapper{l: zaptest.NewLogger(t)}
}

func NewNoOpLogger() Logger {
	return &zapWrapper{l: zap.NewNop()}
}
