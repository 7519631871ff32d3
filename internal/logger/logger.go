package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/superbett/bancas-api/internal/config"
)

// Init replaces zap's global logger according to the environment.
func Init(environment string) error {
	var (
		l   *zap.Logger
		err error
	)

	switch environment {
	case config.EnvProduction:
		conf := zap.NewProductionConfig()
		conf.EncoderConfig.TimeKey = "ts"
		conf.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		l, err = conf.Build()
	default:
		l, err = zap.NewDevelopment()
	}
	if err != nil {
		return fmt.Errorf("failed to build zap logger -> %w", err)
	}

	zap.ReplaceGlobals(l)

	return nil
}
