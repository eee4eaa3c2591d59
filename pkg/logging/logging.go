package logging

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Name is the name of the application that the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName string

	// level is the minimum level that will be logged.
	level slog.Level
}

// EnvLogLevel is the environment variable for the log level.
const EnvLogLevel = `LOG_LEVEL`

// NewConfig creates a new logging configuration.
func NewConfig(appName Name) *Config {
	level := slog.LevelInfo
	switch strings.ToUpper(os.Getenv(EnvLogLevel)) {
	case "DEBUG":
		level = slog.LevelDebug
	case "WARN":
		level = slog.LevelWarn
	case "ERROR":
		level = slog.LevelError
	}

	return &Config{
		appName: string(appName),
		level:   level,
	}
}

// CommonLogger creates the common logger for the application.
func CommonLogger(c *Config) (*slog.Logger, error) {
	if c == nil {
		return nil, fmt.Errorf("no logging config provided")
	}

	l := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: c.level,
	})).With(slog.String(KeyAppName, c.appName))

	slog.SetDefault(l)

	return l, nil
}
