// Package logging configures the process-wide zerolog logger.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger. Development gets human-readable console
// output; every other environment gets JSON lines on stdout.
func Setup(level, environment string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339Nano

	var out io.Writer = os.Stdout
	if environment == "development" {
		out = zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: "15:04:05.000"}
	}

	log.Logger = New(out)
	return log.Logger
}

// New builds a logger writing to out with timestamps and the service name.
func New(out io.Writer) zerolog.Logger {
	return zerolog.New(out).With().Timestamp().Str("service", "cv-builder-api").Logger()
}
