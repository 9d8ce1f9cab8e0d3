package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds a structured JSON logger tagged with the service name. An
// unknown level falls back to info.
func New(level string, service string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Str("service", service).
		Caller().
		Logger()
}
