/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package log is the validator's public logging facade. It wraps
// go.uber.org/zap with a module-scoped level registry so every package
// can call log.New(moduleName) and immediately get a logger whose level
// reacts to SetLevel/SetSpec.
package log

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	internal "github.com/veres-one/validator/pkg/internal/log"
)

// Level is a logging level.
type Level = internal.Level

// Supported log levels.
const (
	CRITICAL = internal.CRITICAL
	ERROR    = internal.ERROR
	WARNING  = internal.WARNING
	INFO     = internal.INFO
	DEBUG    = internal.DEBUG
)

// SetLevel sets the log level for given module and level.
func SetLevel(module string, level Level) {
	internal.SetLevel(module, level)
}

// SetDefaultLevel sets the default log level.
func SetDefaultLevel(level Level) {
	internal.SetDefaultLevel(level)
}

// GetLevel returns the log level for the given module.
func GetLevel(module string) Level {
	return internal.GetLevel(module)
}

// SetSpec sets the log levels for individual modules as well as the
// default log level.
//
// The format of the spec is as follows:
//
// module1=level1:module2=level2:module3=level3:defaultLevel
//
// Valid log levels are: critical, error, warning, info, debug
func SetSpec(spec string) error {
	return internal.SetSpec(spec)
}

// GetSpec returns the log spec which specifies the log level of each
// individual module.
func GetSpec() string {
	return internal.GetSpec()
}

// Logger wraps a zap.Logger scoped to one module, consulting the level
// registry on every call so changes made through SetLevel take effect
// immediately.
type Logger struct {
	module string
	base   *zap.Logger
}

// New returns a logger for the given module. The underlying zap.Logger
// is created lazily on first use.
func New(module string) *Logger {
	return &Logger{module: module}
}

func (l *Logger) logger() *zap.Logger {
	core := l.base
	if core == nil {
		cfg := zap.NewProductionConfig()
		// The module level registry decides what is emitted; zap itself
		// lets every level through.
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		built, err := cfg.Build()
		if err != nil {
			built = zap.NewNop()
		}

		core = built
		l.base = core
	}

	return core.With(zap.String("module", l.module))
}

func (l *Logger) enabled(level Level) bool {
	return level <= GetLevel(l.module)
}

// Debugw logs at debug level with structured fields.
func (l *Logger) Debugw(msg string, fields ...zapcore.Field) {
	if l.enabled(DEBUG) {
		l.logger().Debug(msg, fields...)
	}
}

// Infow logs at info level with structured fields.
func (l *Logger) Infow(msg string, fields ...zapcore.Field) {
	if l.enabled(INFO) {
		l.logger().Info(msg, fields...)
	}
}

// Warnw logs at warning level with structured fields.
func (l *Logger) Warnw(msg string, fields ...zapcore.Field) {
	if l.enabled(WARNING) {
		l.logger().Warn(msg, fields...)
	}
}

// Errorw logs at error level with structured fields.
func (l *Logger) Errorw(msg string, fields ...zapcore.Field) {
	if l.enabled(ERROR) {
		l.logger().Error(msg, fields...)
	}
}
