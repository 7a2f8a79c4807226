/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package config carries the validator's ambient configuration: the
// operating environment (prod/test) and the validator parameter
// defaults. Nothing here is a package-level singleton; callers load a
// value once and thread it through explicitly.
package config

import "os"

// Environment selects the DID pattern the validator accepts.
type Environment string

const (
	// EnvironmentProd is the production DID namespace (did:v1:nym:...).
	EnvironmentProd Environment = "prod"

	// EnvironmentTest is the test DID namespace (did:v1:test:nym:...).
	EnvironmentTest Environment = "test"

	// EnvVar is the environment variable read once at startup.
	EnvVar = "VALIDATOR_ENV"
)

// LoadEnvironment reads VALIDATOR_ENV and returns the selected
// Environment. An empty or unrecognized value defaults to prod.
func LoadEnvironment() Environment {
	switch Environment(os.Getenv(EnvVar)) {
	case EnvironmentTest:
		return EnvironmentTest
	default:
		return EnvironmentProd
	}
}
