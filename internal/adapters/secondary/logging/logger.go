package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fredcamaral/slidegen/internal/domain/entities"
	"github.com/fredcamaral/slidegen/internal/domain/ports"
)

// Logger is a component-scoped, printf-style logger backed by zap
type Logger struct {
	sugar   *zap.SugaredLogger
	verbose bool
}

// New builds a logger from the logging configuration
func New(cfg entities.LoggingConfig) (*Logger, error) {
	var zcfg zap.Config
	if cfg.JSONFormat {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
		zcfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zcfg.DisableStacktrace = true
	}
	zcfg.Level = zap.NewAtomicLevelAt(toZapLevel(cfg.GetLevel()))

	if cfg.File != "" {
		zcfg.OutputPaths = []string{cfg.File}
		zcfg.ErrorOutputPaths = []string{cfg.File}
	} else {
		zcfg.OutputPaths = []string{"stderr"}
	}

	zl, err := zcfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}

	return &Logger{sugar: zl.Sugar(), verbose: cfg.Verbose}, nil
}

// NewFromZap wraps an existing zap logger
func NewFromZap(zl *zap.Logger, verbose bool) *Logger {
	return &Logger{sugar: zl.WithOptions(zap.AddCallerSkip(1)).Sugar(), verbose: verbose}
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// With returns a logger tagged with the given component name
func (l *Logger) With(component string) *Logger {
	return &Logger{sugar: l.sugar.With("component", component), verbose: l.verbose}
}

// Debug logs diagnostic messages
func (l *Logger) Debug(msg string, args ...interface{}) {
	l.sugar.Debugf(msg, args...)
}

// Info logs informational messages
func (l *Logger) Info(msg string, args ...interface{}) {
	l.sugar.Infof(msg, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(msg string, args ...interface{}) {
	l.sugar.Warnf(msg, args...)
}

// Error logs error messages
func (l *Logger) Error(msg string, args ...interface{}) {
	l.sugar.Errorf(msg, args...)
}

// Success logs a completed step; only shown in verbose mode
func (l *Logger) Success(msg string, args ...interface{}) {
	if l.verbose {
		l.sugar.Infof("[SUCCESS] "+msg, args...)
	}
}

// Verbose reports whether verbose output was requested
func (l *Logger) Verbose() bool {
	return l.verbose
}

// Zap exposes the underlying logger for libraries that take one
func (l *Logger) Zap() *zap.Logger {
	return l.sugar.Desugar()
}

// Sync flushes buffered entries
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

func toZapLevel(level entities.LogLevel) zapcore.Level {
	switch entities.LogLevel(strings.ToLower(string(level))) {
	case entities.LogLevelDebug:
		return zapcore.DebugLevel
	case entities.LogLevelWarn:
		return zapcore.WarnLevel
	case entities.LogLevelError:
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// Ensure Logger implements ports.Logger
var _ ports.Logger = (*Logger)(nil)
