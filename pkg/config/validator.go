/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package config

// OperationKind identifies the kind of operation being validated.
type OperationKind string

const (
	// OperationCreate is a CreateWebLedgerRecord operation.
	OperationCreate OperationKind = "create"

	// OperationUpdate is an UpdateWebLedgerRecord operation.
	OperationUpdate OperationKind = "update"
)

// ValidatorType is the only validator type this module implements.
const ValidatorType = "VeresOneValidator2017"

// RecordOperationFilter is the only validator filter this module
// implements.
const RecordOperationFilter = "RecordOperation"

// Validator is the validatorConfig the ledger node supplies to
// Validate. It is a plain value; nothing here is mutated after load.
type Validator struct {
	// Type must be ValidatorType.
	Type string

	// ValidatorFilter must contain RecordOperationFilter.
	ValidatorFilter []string

	// ValidatorParameterSet, if set, is the DID of a ledger-resident
	// document carrying allowedServiceBaseUrl.
	ValidatorParameterSet string

	// AllowedActions maps an operation kind to the set of
	// capabilityAction values accepted for it. Left nil/empty, the
	// defaults below apply, preserving compatibility with the legacy
	// testnet action names.
	AllowedActions map[OperationKind][]string
}

// defaultAllowedActions are the capabilityAction values historically
// accepted by the Veres One testnet validator, alongside the current
// names.
func defaultAllowedActions() map[OperationKind][]string {
	return map[OperationKind][]string{
		OperationCreate: {"create", "RegisterDid"},
		OperationUpdate: {"update", "UpdateDidDocument"},
	}
}

// ActionsFor returns the accepted capabilityAction values for the given
// operation kind, falling back to the built-in defaults when the
// validator config does not override them.
func (v Validator) ActionsFor(kind OperationKind) []string {
	if len(v.AllowedActions) > 0 {
		if actions, ok := v.AllowedActions[kind]; ok {
			return actions
		}
	}

	return defaultAllowedActions()[kind]
}

// AcceptsAction reports whether action is an accepted capabilityAction
// for the given operation kind.
func (v Validator) AcceptsAction(kind OperationKind, action string) bool {
	for _, accepted := range v.ActionsFor(kind) {
		if accepted == action {
			return true
		}
	}

	return false
}
