// Package log provides structured logging for carprep on top of zerolog.
//
// Components obtain a named logger once and attach their fields with With:
//
//	logger := log.GetLoggerWithName("transformation").With(
//		log.ComponentKey, "transformation",
//	)
//	logger.Info("Fit completed", log.SamplesKey, 1382, log.OutputsKey, 21)
//
// Binaries call SetupLogger once at start-up.
package log

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Well-known field keys.
const (
	ComponentKey  = "component"
	ModelNameKey  = "model_name"
	OperationKey  = "operation"
	PhaseKey      = "phase"
	SamplesKey    = "samples"
	FeaturesKey   = "features"
	OutputsKey    = "outputs"
	ColumnsKey    = "columns"
	PathKey       = "path"
	StepKey       = "step"
	DurationMsKey = "duration_ms"
	ErrorKey      = "error"
)

// Operation and phase values.
const (
	OperationLoad      = "load"
	OperationFit       = "fit"
	OperationTransform = "transform"
	OperationSave      = "save"
	OperationEvaluate  = "evaluate"

	PhasePreprocessing = "preprocessing"
	PhasePersistence   = "persistence"
	PhaseEvaluation    = "evaluation"
)

// Level is a logging level.
type Level int8

const (
	DebugLevel Level = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	Disabled
)

// ToLogLevel parses a level name. Unknown names map to InfoLevel.
func ToLogLevel(level string) Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "disabled", "off", "none":
		return Disabled
	default:
		return InfoLevel
	}
}

// IsValidLevel reports whether level is a recognised level name.
func IsValidLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug", "info", "warn", "warning", "error", "disabled", "off", "none":
		return true
	}
	return false
}

func (l Level) zerolog() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case Disabled:
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}

// Logger is a key/value structured logger.
type Logger interface {
	Debug(msg string, fields ...interface{})
	Info(msg string, fields ...interface{})
	Warn(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	With(fields ...interface{}) Logger
}

// LoggerProvider creates loggers sharing one output and level.
type LoggerProvider interface {
	GetLogger() Logger
	GetLoggerWithName(name string) Logger
	SetLevel(level Level)
}

type zerologLogger struct {
	z zerolog.Logger
}

func (l *zerologLogger) Debug(msg string, fields ...interface{}) {
	l.z.Debug().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Info(msg string, fields ...interface{}) {
	l.z.Info().Fields(fields).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, fields ...interface{}) {
	l.z.Warn().Fields(fields).Msg(msg)
}

// Error logs at error level. A leading error value is attached with Err.
func (l *zerologLogger) Error(msg string, fields ...interface{}) {
	ev := l.z.Error()
	if len(fields)%2 == 1 {
		if err, ok := fields[0].(error); ok {
			ev = ev.Err(err)
			fields = fields[1:]
		}
	}
	ev.Fields(fields).Msg(msg)
}

func (l *zerologLogger) With(fields ...interface{}) Logger {
	return &zerologLogger{z: l.z.With().Fields(fields).Logger()}
}

type zerologProvider struct {
	mu   sync.RWMutex
	base zerolog.Logger
}

// NewZerologProvider creates a provider writing JSON lines to stderr.
func NewZerologProvider(level Level) LoggerProvider {
	return newZerologProvider(os.Stderr, level)
}

func newZerologProvider(w io.Writer, level Level) *zerologProvider {
	return &zerologProvider{
		base: zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger(),
	}
}

func (p *zerologProvider) GetLogger() Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{z: p.base}
}

func (p *zerologProvider) GetLoggerWithName(name string) Logger {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return &zerologLogger{z: p.base.With().Str("logger", name).Logger()}
}

func (p *zerologProvider) SetLevel(level Level) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.base = p.base.Level(level.zerolog())
}

var (
	globalMu       sync.RWMutex
	globalLogger   = zerolog.New(os.Stderr).Level(zerolog.InfoLevel).With().Timestamp().Logger()
	globalProvider = &zerologProvider{base: globalLogger}
)

// SetupLogger configures the global logger with a human readable console
// writer on stderr.
func SetupLogger(level string) {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	setGlobal(out, ToLogLevel(level))
}

// SetOutput redirects the global logger to w as JSON lines.
func SetOutput(w io.Writer, level string) {
	setGlobal(w, ToLogLevel(level))
}

func setGlobal(w io.Writer, level Level) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = zerolog.New(w).Level(level.zerolog()).With().Timestamp().Logger()
	globalProvider.mu.Lock()
	globalProvider.base = globalLogger
	globalProvider.mu.Unlock()
}

// GetLogger returns the raw global zerolog logger.
func GetLogger() *zerolog.Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	l := globalLogger
	return &l
}

// GetLoggerWithName returns a global Logger tagged with name.
func GetLoggerWithName(name string) Logger {
	return globalProvider.GetLoggerWithName(name)
}

// LogError logs err with msg on the global logger.
func LogError(err error, msg string) {
	l := GetLogger()
	l.Error().Err(err).Msg(msg)
}
