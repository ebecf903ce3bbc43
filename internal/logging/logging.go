// Package logging configures the process-wide zerolog logger used by
// every pkgsmith component.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup configures the global logger based on verbosity level.
// 0 logs warnings and errors only; each additional level adds info, debug
// and trace output.
func Setup(verbosity int, noColor bool) {
	SetupWithWriter(os.Stderr, verbosity, noColor)
}

// SetupWithWriter is Setup with an explicit console destination.
func SetupWithWriter(out io.Writer, verbosity int, noColor bool) {
	zerolog.SetGlobalLevel(LevelFor(verbosity))

	consoleWriter := zerolog.ConsoleWriter{
		Out:        out,
		TimeFormat: time.Kitchen,
		NoColor:    noColor,
	}

	logger := zerolog.New(consoleWriter).With().Timestamp().Logger()
	if verbosity >= 2 {
		logger = logger.With().Caller().Logger()
	}
	log.Logger = logger

	log.Debug().Int("verbosity", verbosity).Msg("Logger initialized")
}

// LevelFor maps a -v count to a zerolog level.
func LevelFor(verbosity int) zerolog.Level {
	switch verbosity {
	case 0:
		return zerolog.WarnLevel
	case 1:
		return zerolog.InfoLevel
	case 2:
		return zerolog.DebugLevel
	default:
		return zerolog.TraceLevel
	}
}

// Get returns a logger tagged with the given component name.
func Get(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// OperationStart logs the start of an operation and returns a function
// that logs its completion with the elapsed time.
func OperationStart(logger zerolog.Logger, operation string) func() {
	start := time.Now()
	logger.Debug().
		Str("operation", operation).
		Msg("Operation started")

	return func() {
		logger.Debug().
			Str("operation", operation).
			Dur("duration", time.Since(start)).
			Msg("Operation completed")
	}
}
