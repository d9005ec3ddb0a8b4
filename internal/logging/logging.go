// Package logging builds the console logger shared by all subcommands.
// Core packages never log; they return errors and the commands report them.
package logging

import (
	"io"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level picks the minimum level from the global flags. Quiet wins over debug.
func Level(debug, quiet bool) zapcore.Level {
	switch {
	case quiet:
		return zapcore.WarnLevel
	case debug:
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// New returns a console-encoded logger writing to w.
func New(level zapcore.Level, w io.Writer) *zap.Logger {
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	enc.CallerKey = ""
	enc.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), zapcore.AddSync(w), zap.NewAtomicLevelAt(level))
	return zap.New(core)
}
