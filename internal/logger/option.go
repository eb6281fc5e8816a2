package logger

import (
	"go.uber.org/zap"
	"gopkg.in/natefinch/lumberjack.v2"
)

// settings collects the effects of construction options.
type settings struct {
	// fileSink duplicates log output to a rotating file when non-nil.
	fileSink *lumberjack.Logger
	// zapOptions are passed through to zap.New.
	zapOptions []zap.Option
}

// Option adjusts logger construction.
type Option func(*settings)

// newSettings applies the options to a fresh settings value.
func newSettings(options []Option) *settings {
	s := new(settings)
	for _, option := range options {
		option(s)
	}

	return s
}

// WithRotatingFile duplicates log output to a size-rotated file. Retention
// is sized for what the on-vehicle storage can afford.
func WithRotatingFile(path string) Option {
	return func(s *settings) {
		s.fileSink = &lumberjack.Logger{
			Filename:   path,
			MaxSize:    15, // megabytes per file
			MaxAge:     30, // days
			MaxBackups: 10,
			Compress:   true,
		}
	}
}

// WithZapOptions passes additional options through to zap.New.
func WithZapOptions(options ...zap.Option) Option {
	return func(s *settings) {
		s.zapOptions = append(s.zapOptions, options...)
	}
}
