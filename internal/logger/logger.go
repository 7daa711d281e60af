package logger

import (
	"io"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init initializes the global zerolog logger and routes the standard library logger through it.
func Init(logLevelStr string, appEnv string) {
	InitWithWriter(logLevelStr, appEnv, os.Stdout)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(logLevelStr string, appEnv string, out io.Writer) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(logLevelStr))
	if err != nil || logLevelStr == "" {
		parsedLevel = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(parsedLevel)

	output := out
	if isDevelopment(appEnv) {
		output = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	log.Logger = zerolog.New(output).With().Timestamp().Str("service", "line-profile-viewer").Logger()
	if err != nil {
		log.Warn().Err(err).Msgf("Invalid log level '%s', defaulting to 'info'", logLevelStr)
	}

	stdlog.SetFlags(0)
	stdlog.SetOutput(log.Logger)
}

func isDevelopment(appEnv string) bool {
	switch strings.ToLower(appEnv) {
	case "development", "dev", "local":
		return true
	}
	return false
}
