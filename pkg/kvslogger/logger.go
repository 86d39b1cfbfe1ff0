// Package kvslogger provides the centralized, configurable logging
// setup used by kvsd's server binary, based on go.uber.org/zap.
package kvslogger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// levelEnvVar names the environment variable operators can set to
// raise or lower verbosity (e.g. "debug" while chasing down a
// compaction issue) without a code change or a CLI flag.
const levelEnvVar = "KVSD_LOG_LEVEL"

// New builds a production-style SugaredLogger: JSON encoding, ISO8601
// timestamps, and the service name plus process ID attached to every
// line. outputPaths defaults to stderr when empty. The minimum level
// defaults to info and can be overridden via KVSD_LOG_LEVEL.
func New(service string, outputPaths ...string) *zap.SugaredLogger {
	encoderCfg := zap.NewProductionEncoderConfig()
	encoderCfg.TimeKey = "timestamp"
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cfg := zap.Config{
		Development:       false,
		DisableCaller:     false,
		DisableStacktrace: false,
		Encoding:          "json",
		EncoderConfig:     encoderCfg,
		OutputPaths:       []string{"stderr"},
		ErrorOutputPaths:  []string{"stderr"},
		Level:             zap.NewAtomicLevelAt(levelFromEnv()),
		InitialFields:     map[string]any{"service": service, "pid": os.Getpid()},
	}

	if len(outputPaths) != 0 {
		cfg.OutputPaths = outputPaths
	}

	return zap.Must(cfg.Build()).Sugar()
}

// levelFromEnv reads KVSD_LOG_LEVEL and falls back to info on an unset
// or unparseable value.
func levelFromEnv() zapcore.Level {
	raw := os.Getenv(levelEnvVar)
	if raw == "" {
		return zap.InfoLevel
	}

	level, err := zapcore.ParseLevel(raw)
	if err != nil {
		return zap.InfoLevel
	}
	return level
}
