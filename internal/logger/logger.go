package logger

import (
	"fmt"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// FileOutput configures a rotated log file written next to the regular output.
type FileOutput struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// NewLogger creates a zap logger for the given environment.
// prod uses JSON output, local/dev use colored console output.
// levelOverride (if non-empty) overrides the log level: debug, info, warn, error.
func NewLogger(env string, levelOverride ...string) (*zap.Logger, error) {
	cfg, err := buildConfig(env, levelOverride...)
	if err != nil {
		return nil, err
	}

	l, err := cfg.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

// NewLoggerWithFile is NewLogger plus a JSON copy of every entry in a lumberjack-rotated file.
func NewLoggerWithFile(env string, out FileOutput, levelOverride ...string) (*zap.Logger, error) {
	cfg, err := buildConfig(env, levelOverride...)
	if err != nil {
		return nil, err
	}
	if out.Path == "" {
		return NewLogger(env, levelOverride...)
	}

	rotator := &lumberjack.Logger{
		Filename:   out.Path,
		MaxSize:    out.MaxSizeMB,
		MaxBackups: out.MaxBackups,
		MaxAge:     out.MaxAgeDays,
		Compress:   true,
	}
	fileCore := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(rotator),
		cfg.Level,
	)

	l, err := cfg.Build(
		zap.AddStacktrace(zapcore.ErrorLevel),
		zap.WrapCore(func(c zapcore.Core) zapcore.Core { return zapcore.NewTee(c, fileCore) }),
	)
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}
	return l, nil
}

func buildConfig(env string, levelOverride ...string) (zap.Config, error) {
	var cfg zap.Config
	switch env {
	case "prod":
		cfg = zap.NewProductionConfig()
	case "local", "dev", "docker":
		cfg = zap.NewDevelopmentConfig()
	default:
		return zap.Config{}, fmt.Errorf("unknown environment %q for logger", env)
	}

	if len(levelOverride) > 0 && levelOverride[0] != "" {
		var level zapcore.Level
		if err := level.UnmarshalText([]byte(levelOverride[0])); err != nil {
			return zap.Config{}, fmt.Errorf("invalid log level %q: %w", levelOverride[0], err)
		}
		cfg.Level = zap.NewAtomicLevelAt(level)
	}
	return cfg, nil
}
