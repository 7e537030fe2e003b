package logger

import (
	"github.com/pawcare/backend/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New builds the process logger. Dev runs log at debug level; encoding is JSON
// everywhere.
func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	zc := zap.NewProductionConfig()
	zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zc.EncoderConfig.TimeKey = "time"
	if cfg != nil && cfg.Env == config.EnvDev {
		zc.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	l = l.With(zap.String("service", "pawcare-api"))
	zap.ReplaceGlobals(l)
	return l.Sugar(), nil
}

var Module = fx.Options(
	fx.Provide(New),
)
