// Package logging wraps zerolog with key/value helpers and optional file rotation.
package logging

import (
	"io"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).With().Timestamp().Logger()
)

// InitLogger sends logs to a rotated file when file is set and to stderr otherwise.
func InitLogger(file string, maxSizeMB, maxBackups, maxAgeDays int, compress bool, level string) {

	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}

	if file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    maxSizeMB,
			MaxBackups: maxBackups,
			MaxAge:     maxAgeDays,
			Compress:   compress,
		}
	}

	l := zerolog.New(out).With().Timestamp().Logger().Level(parseLevel(level))

	mu.Lock()
	logger = l
	mu.Unlock()
}

func SetLogLevel(level string) {
	mu.Lock()
	logger = logger.Level(parseLevel(level))
	mu.Unlock()
}

// SetLoggerForTest replaces the package logger.
func SetLoggerForTest(l zerolog.Logger) {
	mu.Lock()
	logger = l
	mu.Unlock()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}

func current() zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

func Debug(msg string, kv ...any) {
	l := current()
	write(l.Debug(), msg, kv)
}

func Info(msg string, kv ...any) {
	l := current()
	write(l.Info(), msg, kv)
}

func Warn(msg string, kv ...any) {
	l := current()
	write(l.Warn(), msg, kv)
}

func Error(msg string, kv ...any) {
	l := current()
	write(l.Error(), msg, kv)
}

// write attaches kv as alternating keys and values. A trailing key without
// a value is logged under "extra".
func write(e *zerolog.Event, msg string, kv []any) {

	if e == nil {
		return
	}

	for i := 0; i < len(kv); i += 2 {

		key, ok := kv[i].(string)

		if !ok || i+1 >= len(kv) {
			e = e.Interface("extra", kv[i])
			continue
		}

		if err, isErr := kv[i+1].(error); isErr {
			e = e.AnErr(key, err)
			continue
		}

		e = e.Interface(key, kv[i+1])
	}

	e.Msg(msg)
}
