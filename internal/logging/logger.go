package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/opsdash/internal/config"
)

const serviceName = "opsdash"

// NewLogger creates a structured zerolog.Logger writing JSON to stdout at
// the level named by cfg.LogLevel (info when unparseable).
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg.LogLevel)
}

func newLogger(w io.Writer, levelName string) zerolog.Logger {
	logger := zerolog.New(w).With().
		Timestamp().
		Str("service", serviceName).
		Logger()

	level, err := zerolog.ParseLevel(levelName)
	if err != nil || levelName == "" {
		level = zerolog.InfoLevel
	}

	return logger.Level(level)
}
