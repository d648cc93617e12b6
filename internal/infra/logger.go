package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LoggerOptions selects the global zerolog setup.
type LoggerOptions struct {
	Level      string // debug | info | warn | error
	File       string // rotated JSON log file; empty = stderr only
	Production bool   // JSON on stderr instead of the console writer
}

// SetupLogger configures the global zerolog logger. With a file configured,
// every event is written both to stderr and to a size-rotated file.
// The returned closer flushes and closes the rotated file.
func SetupLogger(opts LoggerOptions) io.Closer {
	level, err := zerolog.ParseLevel(opts.Level)
	if err != nil || opts.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	var console io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	if opts.Production {
		console = os.Stderr
	}

	if opts.File == "" {
		log.Logger = zerolog.New(console).With().Timestamp().Logger()
		return nopCloser{}
	}

	rotated := &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    100, // MB
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	log.Logger = zerolog.New(zerolog.MultiLevelWriter(console, rotated)).With().Timestamp().Logger()
	return rotated
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
