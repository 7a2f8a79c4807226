/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import (
	"fmt"
	"strings"

	"go.uber.org/zap/zapcore"
)

// Level is a logging level.
type Level int

// Supported log levels.
const (
	CRITICAL Level = iota
	ERROR
	WARNING
	INFO
	DEBUG
)

var levelNames = map[Level]string{
	CRITICAL: "CRITICAL",
	ERROR:    "ERROR",
	WARNING:  "WARNING",
	INFO:     "INFO",
	DEBUG:    "DEBUG",
}

// String returns the string representation of the level.
func (l Level) String() string {
	if name, ok := levelNames[l]; ok {
		return name
	}

	return "INFO"
}

// zapLevel converts to zapcore.Level.
func (l Level) zapLevel() zapcore.Level {
	switch l {
	case CRITICAL, ERROR:
		return zapcore.ErrorLevel
	case WARNING:
		return zapcore.WarnLevel
	case DEBUG:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

// ParseLevel parses a case-insensitive level name.
func ParseLevel(level string) (Level, error) {
	for l, name := range levelNames {
		if strings.EqualFold(name, level) {
			return l, nil
		}
	}

	return INFO, fmt.Errorf("invalid log level: %s", level)
}
