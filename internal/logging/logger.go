package logging

import (
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type LoggerOption struct {
	Level       string
	Development bool
}

type Option func(o *LoggerOption)

func WithLevel(level string) Option {
	return func(o *LoggerOption) {
		o.Level = level
	}
}

// WithDevelopment switches to zap's human-readable console encoder.
func WithDevelopment(development bool) Option {
	return func(o *LoggerOption) {
		o.Development = development
	}
}

// NewLogger builds a zap logger writing to stderr.
func NewLogger(opts ...Option) (*zap.Logger, error) {
	option := &LoggerOption{}
	for _, opt := range opts {
		opt(option)
	}

	zapConfig := zap.NewProductionConfig()
	if option.Development {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapConfig.Level = zap.NewAtomicLevelAt(ParseLevel(option.Level))
	zapConfig.OutputPaths = []string{"stderr"}

	return zapConfig.Build()
}

// ParseLevel maps a level name to a zap level, defaulting to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zap.DebugLevel
	case "info":
		return zap.InfoLevel
	case "warn":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	case "fatal":
		return zap.FatalLevel
	default:
		return zap.InfoLevel
	}
}

// ValidLevel reports whether level is a name ParseLevel understands.
func ValidLevel(level string) bool {
	switch strings.ToLower(level) {
	case "debug", "info", "warn", "error", "fatal":
		return true
	}
	return false
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger {
	return zap.NewNop()
}
