package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/isira-aw/Metropolitan-NEW-EMS/config"
)

const appName = "metropolitan-ems"

// NewLogger builds the process logger. Format "console" gives colored
// development output; anything else is JSON with ISO8601 timestamps.
// Sampling is turned off at debug level so a traced request keeps every line.
func NewLogger(cfg *config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	zapCfg := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "ts"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zapCfg.EncoderConfig.EncodeDuration = zapcore.MillisDurationEncoder
	if level == zapcore.DebugLevel {
		zapCfg.Sampling = nil
	}
	if len(cfg.Outputs) > 0 {
		zapCfg.OutputPaths = cfg.Outputs
	}
	zapCfg.InitialFields = map[string]interface{}{"app": appName}

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return logger, nil
}
