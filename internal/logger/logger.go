// Package logger builds the zap logger used by every command.
package logger

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"gta-catalog/internal/config"
)

// New builds a logger from the logging section. Format "auto" picks the
// console encoder when stderr is a terminal and JSON otherwise.
func New(cfg config.Logging) (*zap.Logger, error) {
	var zapCfg zap.Config

	switch resolveFormat(cfg.Format, isatty.IsTerminal(os.Stderr.Fd())) {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	default:
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	levelText := cfg.Level
	if levelText == "" {
		levelText = "info"
	}
	level, err := zapcore.ParseLevel(levelText)
	if err != nil {
		return nil, fmt.Errorf("logger: invalid level %q: %w", cfg.Level, err)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	log, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("logger: build: %w", err)
	}
	return log, nil
}

func resolveFormat(format string, tty bool) string {
	switch format {
	case "console", "json":
		return format
	}
	if tty {
		return "console"
	}
	return "json"
}

// WithRunID tags every entry of one run with a fresh run_id and returns it.
func WithRunID(log *zap.Logger) (*zap.Logger, string) {
	id := uuid.NewString()
	return log.With(zap.String("run_id", id)), id
}
