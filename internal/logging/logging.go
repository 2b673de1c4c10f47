// Package logging builds the zap logger shared by every command.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a sugared logger on stderr. Verbose gives a development
// logger at debug level; otherwise a production logger reports warnings
// and errors only, so table output on stdout stays clean.
func New(verbose bool) (*zap.SugaredLogger, error) {
	var z zap.Config
	if verbose {
		z = zap.NewDevelopmentConfig()
		z.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		z = zap.NewProductionConfig()
		z.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		z.Encoding = "console"
		z.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		z.Sampling = nil
	}
	z.OutputPaths = []string{"stderr"}
	z.ErrorOutputPaths = []string{"stderr"}

	logger, err := z.Build()
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Nop is a logger that discards everything.
func Nop() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}
