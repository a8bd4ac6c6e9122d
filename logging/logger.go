package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sharedLogger *zap.SugaredLogger
	sharedLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
)

// InitLogger configures the shared console logger. level is a zap level name;
// an empty or unknown value falls back to info.
func InitLogger(level string) {
	if sharedLogger != nil {
		return
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "T",
		LevelKey:       "L",
		MessageKey:     "M",
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02 15:04:05.0000"),
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	SetLevel(level)

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(os.Stdout),
		sharedLevel,
	)

	sharedLogger = zap.New(core).Sugar()
}

// SetLevel changes the level of the shared logger in place. An empty or
// unknown value means info.
func SetLevel(level string) {
	lvl := zapcore.InfoLevel
	if level != "" {
		if parsed, err := zapcore.ParseLevel(level); err == nil {
			lvl = parsed
		}
	}
	sharedLevel.SetLevel(lvl)
}

func GetLogger() *zap.SugaredLogger {
	if sharedLogger == nil {
		InitLogger(os.Getenv("LOG_LEVEL"))
	}
	return sharedLogger
}

func SyncLogger() {
	if sharedLogger != nil {
		_ = sharedLogger.Sync()
	}
}
