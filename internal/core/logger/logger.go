package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-isatty"
)

type Level slog.Level

var (
	LevelDebug = Level(slog.LevelDebug)
	LevelInfo  = Level(slog.LevelInfo)
	LevelWarn  = Level(slog.LevelWarn)
	LevelError = Level(slog.LevelError)
)

var defaultLevel = Level(slog.LevelInfo)

func SetDefaultLevel(level Level) {
	defaultLevel = level
}

type HandlerOption func(*tint.Options)

func WithTimeFormat(format string) HandlerOption {
	return func(opts *tint.Options) {
		opts.TimeFormat = format
	}
}

func WithNoColor(noColor bool) HandlerOption {
	return func(opts *tint.Options) {
		opts.NoColor = noColor
	}
}

func NewHandlerOptions(level Level, opts ...HandlerOption) *tint.Options {
	timeFormat := time.Stamp
	isTerminal := isatty.IsTerminal(os.Stderr.Fd())
	if !isTerminal {
		timeFormat = time.RFC3339
	}
	tintOpts := &tint.Options{
		Level:      slog.Level(level),
		NoColor:    !isTerminal,
		TimeFormat: timeFormat,
	}
	for _, opt := range opts {
		opt(tintOpts)
	}
	return tintOpts
}

type LoggerOption func(*Logger)

func WithName(name string) LoggerOption {
	return func(l *Logger) {
		l.name = name
	}
}

func WithLevel(level Level) LoggerOption {
	return func(l *Logger) {
		l.level = level
	}
}

func WithHandlerOptions(opts ...HandlerOption) LoggerOption {
	return func(l *Logger) {
		l.opts = opts
	}
}

// Logger is a named slog logger writing through a tint handler.
type Logger struct {
	*slog.Logger
	level Level
	name  string
	opts  []HandlerOption
}

// NewLogger creates a new logger instance.
func NewLogger(opts ...LoggerOption) *Logger {
	l := &Logger{
		name:  "protex",
		level: defaultLevel,
	}
	for _, opt := range opts {
		opt(l)
	}
	handler := tint.NewHandler(os.Stderr, NewHandlerOptions(l.level, l.opts...))
	l.Logger = slog.New(handler).WithGroup(l.name)
	return l
}

func (l *Logger) WithGroup(group string) *Logger {
	return &Logger{
		Logger: l.Logger.WithGroup(group),
		level:  l.level,
		name:   group,
	}
}

func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
