package logger

import (
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"

	"github.com/eclipse-score/srclinker/pkg/shared/config"
)

// LogLevelEnv overrides the configured log level when set.
const LogLevelEnv = "SRCLINKER_LOG_LEVEL"

// NewLogger creates a new hclog.Logger instance based on the YAML configuration and the provided name.
func NewLogger(cfg *config.Config, name string) hclog.Logger {
	return hclog.New(&hclog.LoggerOptions{
		Name:            name,
		DisableTime:     config.GetBoolValue(cfg, "Logger.DisableTime", true),
		JSONFormat:      config.GetBoolValue(cfg, "Logger.JSONFormat", false),
		IncludeLocation: config.GetBoolValue(cfg, "Logger.IncludeLocation", false),
		Output:          os.Stderr,
		Level:           determineLogLevel(cfg),
	})
}

// determineLogLevel returns a log level determined first by an environment variable, and if not set, by the provided configuration.
// If neither configuration nor environment variable specifies a log level, it defaults to INFO.
func determineLogLevel(cfg *config.Config) hclog.Level {
	if logLevelEnv := os.Getenv(LogLevelEnv); logLevelEnv != "" {
		return parseLogLevel(strings.ToUpper(logLevelEnv))
	}
	if cfg == nil || cfg.Logger.Level == "" {
		return hclog.Info
	}
	return parseLogLevel(strings.ToUpper(cfg.Logger.Level))
}

// parseLogLevel converts a string level to hclog.Level.
func parseLogLevel(levelStr string) hclog.Level {
	switch levelStr {
	case "TRACE":
		return hclog.Trace
	case "DEBUG":
		return hclog.Debug
	case "INFO":
		return hclog.Info
	case "WARN", "WARNING":
		return hclog.Warn
	case "ERROR":
		return hclog.Error
	default:
		hclog.New(&hclog.LoggerOptions{
			Level:       hclog.Warn,
			DisableTime: true,
			Output:      os.Stderr,
		}).Warn("Unrecognized log level, defaulting to INFO", "providedLevel", levelStr)
		return hclog.Info
	}
}
