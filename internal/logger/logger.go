// Package logger provides logging functionalities for rosterscraper.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config holds the configuration for the logger.
type Config struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	JSONFormat bool   `mapstructure:"json_format"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
}

// Setup configures the global logger based on the provided configuration.
// The console writer is configured here once; nothing else touches stderr.
// The returned closer flushes the rotating log file, if any.
func Setup(cfg Config) io.Closer {
	var writers []io.Writer

	// Console writer
	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
	}
	writers = append(writers, consoleWriter)

	// File writer
	var closer io.Closer = nopCloser{}
	if cfg.File != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
			LocalTime:  true,
			Compress:   true,
		}
		closer = rotating
		if cfg.JSONFormat {
			writers = append(writers, rotating)
		} else {
			writers = append(writers, zerolog.ConsoleWriter{Out: rotating, TimeFormat: time.RFC3339, NoColor: true})
		}
	}

	multiWriter := zerolog.MultiLevelWriter(writers...)
	log.Logger = zerolog.New(multiWriter).With().Timestamp().Logger()

	SetLevel(cfg.Level)

	log.Debug().Msg("Logger initialized")
	return closer
}

// SetLevel sets the global logging level.
func SetLevel(level string) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		if level != "" {
			log.Warn().Msgf("Unknown log level '%s', defaulting to 'info'", level)
		}
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
