/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package log is the level registry behind the public pkg/log package.
// It keeps one Level per module name (plus a default), consulted on
// every log call, so every logger created through pkg/log.New reacts
// live to SetLevel/SetSpec without needing a package-level mutable
// logger.
package log

import (
	"fmt"
	"strings"
	"sync"
)

var (
	mutex        sync.RWMutex
	moduleLevels = make(map[string]Level)
	defaultLevel = INFO
)

// SetLevel sets the log level for the given module.
func SetLevel(module string, level Level) {
	mutex.Lock()
	defer mutex.Unlock()

	moduleLevels[module] = level
}

// SetDefaultLevel sets the level used by modules with no explicit
// override.
func SetDefaultLevel(level Level) {
	mutex.Lock()
	defer mutex.Unlock()

	defaultLevel = level
}

// GetLevel returns the log level for the given module, falling back to
// the default level when no override is set.
func GetLevel(module string) Level {
	mutex.RLock()
	defer mutex.RUnlock()

	if level, ok := moduleLevels[module]; ok {
		return level
	}

	return defaultLevel
}

// SetSpec parses and applies a log spec of the form
// "module1=level1:module2=level2:defaultLevel".
func SetSpec(spec string) error {
	parts := strings.Split(spec, ":")

	parsed := make(map[string]Level)

	var def *Level

	for _, part := range parts {
		if part == "" {
			continue
		}

		kv := strings.SplitN(part, "=", 2)
		if len(kv) == 1 {
			level, err := ParseLevel(kv[0])
			if err != nil {
				return fmt.Errorf("invalid log spec %q: %w", spec, err)
			}

			def = &level

			continue
		}

		level, err := ParseLevel(kv[1])
		if err != nil {
			return fmt.Errorf("invalid log spec %q: %w", spec, err)
		}

		parsed[kv[0]] = level
	}

	mutex.Lock()
	defer mutex.Unlock()

	for module, level := range parsed {
		moduleLevels[module] = level
	}

	if def != nil {
		defaultLevel = *def
	}

	return nil
}

// GetSpec returns the current spec in the same format SetSpec accepts.
func GetSpec() string {
	mutex.RLock()
	defer mutex.RUnlock()

	var parts []string
	for module, level := range moduleLevels {
		parts = append(parts, fmt.Sprintf("%s=%s", module, strings.ToLower(level.String())))
	}

	parts = append(parts, strings.ToLower(defaultLevel.String()))

	return strings.Join(parts, ":")
}
