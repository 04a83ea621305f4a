package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	EnvironmentProduction  = "production"
	EnvironmentDevelopment = "development"
)

// New builds a zap logger writing to stderr. Stdout is reserved for results.
func New(environment, level string) (*zap.Logger, error) {
	var cfg zap.Config

	switch strings.ToLower(strings.TrimSpace(environment)) {
	case "", EnvironmentProduction:
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "timestamp"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	case EnvironmentDevelopment:
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		return nil, fmt.Errorf("invalid environment %q", environment)
	}

	if strings.TrimSpace(level) != "" {
		var parsed zapcore.Level
		if err := parsed.Set(level); err != nil {
			return nil, fmt.Errorf("invalid level %q: %w", level, err)
		}

		cfg.Level = zap.NewAtomicLevelAt(parsed)
	}

	cfg.DisableStacktrace = true
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}
