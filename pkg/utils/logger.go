package utils

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// InitLogger builds the process logger. Output always goes to stdout; an
// empty LogPath disables the rotated file sink.
func InitLogger(config AppConfig) (*zap.Logger, error) {
	level := zap.NewAtomicLevelAt(zap.InfoLevel)
	if config.Debug {
		level.SetLevel(zap.DebugLevel)
	}

	encoder := newEncoder(config.Debug)
	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), level),
	}

	if config.LogPath != "" {
		if err := os.MkdirAll(config.LogPath, 0o755); err != nil {
			return nil, err
		}
		rotated := &lumberjack.Logger{
			Filename:   filepath.Join(config.LogPath, logFileName(config.Name)),
			MaxSize:    10, // MB
			MaxBackups: 7,
			MaxAge:     28, // days
			Compress:   true,
		}
		// the file always gets JSON, even when stdout is in console mode
		cores = append(cores, zapcore.NewCore(newEncoder(false), zapcore.AddSync(rotated), level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	if config.Name != "" {
		logger = logger.With(zap.String("service", config.Name))
	}
	return logger, nil
}

func newEncoder(console bool) zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	if console {
		cfg = zap.NewDevelopmentEncoderConfig()
	}
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.CallerKey = "caller"
	cfg.EncodeCaller = zapcore.ShortCallerEncoder

	if console {
		return zapcore.NewConsoleEncoder(cfg)
	}
	return zapcore.NewJSONEncoder(cfg)
}

func logFileName(name string) string {
	if name == "" {
		name = "ride-booking"
	}
	return name + ".log"
}
