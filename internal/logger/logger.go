package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Sugar *zap.SugaredLogger

// Init builds the process logger at the given level ("debug", "info", "warn", "error").
// Unknown levels fall back to info. Development mode adds caller and colour output.
func Init(level string, development bool) error {
	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	logger, err := cfg.Build()
	if err != nil {
		return err
	}
	// packages hold the pointer from GetLogger, so swap in place
	if Sugar != nil {
		*Sugar = *logger.Sugar()
		return nil
	}
	Sugar = logger.Sugar()
	return nil
}

// GetLogger returns the process logger, creating a development one on first use.
func GetLogger() *zap.SugaredLogger {
	if Sugar == nil {
		logger, _ := zap.NewDevelopment()
		Sugar = logger.Sugar()
	}
	return Sugar
}

func Sync() {
	if Sugar != nil {
		_ = Sugar.Sync()
	}
}
