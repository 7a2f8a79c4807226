/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package log

import "go.uber.org/zap"

// Log field keys used across the validator's packages.
const (
	FieldDID               = "did"
	FieldTargetDID         = "targetDID"
	FieldOperationType     = "operationType"
	FieldCapabilityAction  = "capabilityAction"
	FieldProofPurpose      = "proofPurpose"
	FieldVerificationMethod = "verificationMethod"
	FieldSequence          = "sequence"
	FieldServiceEndpoint   = "serviceEndpoint"
	FieldURI               = "uri"
	FieldError             = "error"
)

// WithDID returns a zap field for a DID.
func WithDID(value string) zap.Field {
	return zap.String(FieldDID, value)
}

// WithTargetDID returns a zap field for the operation's target DID.
func WithTargetDID(value string) zap.Field {
	return zap.String(FieldTargetDID, value)
}

// WithOperationType returns a zap field for the operation type.
func WithOperationType(value string) zap.Field {
	return zap.String(FieldOperationType, value)
}

// WithCapabilityAction returns a zap field for a capabilityAction.
func WithCapabilityAction(value string) zap.Field {
	return zap.String(FieldCapabilityAction, value)
}

// WithProofPurpose returns a zap field for a proofPurpose.
func WithProofPurpose(value string) zap.Field {
	return zap.String(FieldProofPurpose, value)
}

// WithVerificationMethod returns a zap field for a verificationMethod id.
func WithVerificationMethod(value string) zap.Field {
	return zap.String(FieldVerificationMethod, value)
}

// WithSequence returns a zap field for a recordPatch sequence number.
func WithSequence(value uint64) zap.Field {
	return zap.Uint64(FieldSequence, value)
}

// WithServiceEndpoint returns a zap field for a service endpoint URL.
func WithServiceEndpoint(value string) zap.Field {
	return zap.String(FieldServiceEndpoint, value)
}

// WithURI returns a zap field for a loader URI.
func WithURI(value string) zap.Field {
	return zap.String(FieldURI, value)
}

// WithError returns a zap field wrapping an error.
func WithError(err error) zap.Field {
	return zap.Error(err)
}
