// Package logger wraps a process-wide logrus logger.
//
// The bot logs kebab-case event names with structured fields, e.g.
//
//	logger.WithFields(logrus.Fields{"command": "profile"}).Info("command-dispatched")
//
// Output goes to stdout, to a lumberjack-rotated file, or both. JSON is used
// unless the level is debug or a text format is requested explicitly.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu           sync.RWMutex
	globalLogger *logrus.Logger
)

// Config represents the configuration for the logger
type Config struct {
	Level        string
	Format       string // json, text or empty for level-based choice
	File         string
	MaxSize      int
	MaxBackups   int
	MaxAge       int
	Compress     bool
	EnableStdout bool

	// Output replaces stdout as the console writer. Used by tests.
	Output io.Writer
}

// InitLogger initializes the global logger with the given configuration
func InitLogger(config Config) error {
	l := logrus.New()

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	var writers []io.Writer

	if config.File != "" {
		if err := os.MkdirAll(filepath.Dir(config.File), 0755); err != nil {
			return err
		}
		writers = append(writers, &lumberjack.Logger{
			Filename:   config.File,
			MaxSize:    config.MaxSize,    // megabytes
			MaxBackups: config.MaxBackups, // number of backups
			MaxAge:     config.MaxAge,     // days
			Compress:   config.Compress,
		})
	}

	switch {
	case config.Output != nil:
		writers = append(writers, config.Output)
	case config.EnableStdout:
		writers = append(writers, os.Stdout)
	}

	switch len(writers) {
	case 0:
		l.SetOutput(io.Discard)
	case 1:
		l.SetOutput(writers[0])
	default:
		l.SetOutput(io.MultiWriter(writers...))
	}

	l.SetFormatter(newFormatter(config.Format, level))

	mu.Lock()
	globalLogger = l
	mu.Unlock()
	return nil
}

func newFormatter(format string, level logrus.Level) logrus.Formatter {
	switch strings.ToLower(format) {
	case "text":
		return &logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"}
	case "json":
		return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"}
	}
	if level >= logrus.DebugLevel {
		return &logrus.TextFormatter{
			ForceColors:     true,
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		}
	}
	return &logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05Z07:00"}
}

// GetLogger returns the global logger instance
func GetLogger() *logrus.Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if globalLogger == nil {
		globalLogger = logrus.New()
		globalLogger.SetLevel(logrus.InfoLevel)
		globalLogger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}
	return globalLogger
}

func Debug(args ...interface{}) { GetLogger().Debug(args...) }
func Info(args ...interface{})  { GetLogger().Info(args...) }
func Warn(args ...interface{})  { GetLogger().Warn(args...) }
func Error(args ...interface{}) { GetLogger().Error(args...) }

func Infof(format string, args ...interface{})  { GetLogger().Infof(format, args...) }
func Warnf(format string, args ...interface{})  { GetLogger().Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { GetLogger().Errorf(format, args...) }

// WithFields returns a logger entry with structured fields
func WithFields(fields logrus.Fields) *logrus.Entry {
	return GetLogger().WithFields(fields)
}

// WithField returns a logger entry with a single field
func WithField(key string, value interface{}) *logrus.Entry {
	return GetLogger().WithField(key, value)
}

// WithError returns a logger entry carrying err under the "error" key
func WithError(err error) *logrus.Entry {
	return GetLogger().WithError(err)
}
