package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the shared structured logger. SLog is its sugared form for
// printf-style call sites.
var (
	Log  *zap.Logger
	SLog *zap.SugaredLogger
)

func init() {
	Init()
}

// Init configures the global logger. In release mode it emits JSON,
// otherwise a human-readable console encoding.
func Init() {
	var cfg zap.Config
	if os.Getenv("GIN_MODE") == "release" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	l, err := cfg.Build()
	if err != nil {
		panic("logger kurulamadı: " + err.Error())
	}
	Log = l
	SLog = l.Sugar()
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	if Log != nil {
		_ = Log.Sync()
	}
}
