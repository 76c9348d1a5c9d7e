package logger

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New builds the service logger and installs it as the zerolog global so
// packages can log through rs/zerolog/log without threading a logger around.
// Dev gets the console writer; everything else emits JSON.
func New(level, appEnv string) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(level))

	l := zerolog.New(os.Stdout).With().Timestamp().Logger()
	if appEnv == "dev" {
		l = l.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	log.Logger = l
	return l
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
