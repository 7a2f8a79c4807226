/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package verror defines the validator's error envelope. The validator
// never returns a bare Go error across its package boundary; every
// failure is shaped into an *Error with one of the five known names.
package verror

import (
	"fmt"

	"github.com/pkg/errors"
)

// Error names. These are the only values Result.Error.Name ever takes.
const (
	ValidationError   = "ValidationError"
	DuplicateError    = "DuplicateError"
	NotFoundError     = "NotFoundError"
	InvalidStateError = "InvalidStateError"
	TimeoutError      = "TimeoutError"
)

// Error is the validator's error envelope.
type Error struct {
	Name    string
	Message string
	Details map[string]interface{}
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Name, e.Message, e.Cause)
	}

	return fmt.Sprintf("%s: %s", e.Name, e.Message)
}

// Unwrap allows errors.Is/errors.As/errors.Cause to see through to the
// wrapped cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with no details and no cause.
func New(name, message string) *Error {
	return &Error{Name: name, Message: message}
}

// Wrap creates a new Error that records cause, preserving its message
// via github.com/pkg/errors so Cause() chains survive.
func Wrap(name, message string, cause error) *Error {
	return &Error{Name: name, Message: message, Cause: errors.Wrap(cause, message)}
}

// WithDetails returns a copy of e with details merged in.
func (e *Error) WithDetails(details map[string]interface{}) *Error {
	clone := *e
	clone.Details = details

	return &clone
}

// ProofVerifyFailure is a single entry in details.proofVerifyResult.error,
// preserving message text because callers pattern-match on it.
type ProofVerifyFailure struct {
	Message        string `json:"message"`
	HTTPStatusCode int    `json:"httpStatusCode,omitempty"`
}

// ProofVerifyResult is the shape of details.proofVerifyResult.
type ProofVerifyResult struct {
	Verified bool                 `json:"verified"`
	Error    []ProofVerifyFailure `json:"error,omitempty"`
}

// ProofFailed builds a ValidationError carrying a single proof-verify
// failure message, the shape spec.md's proof verifier contract requires.
func ProofFailed(message string) *Error {
	return &Error{
		Name:    ValidationError,
		Message: message,
		Details: map[string]interface{}{
			"proofVerifyResult": ProofVerifyResult{
				Verified: false,
				Error:    []ProofVerifyFailure{{Message: message}},
			},
		},
	}
}

// ProofNotFound builds a NotFoundError carrying a proof-verify failure
// with an HTTP status code, for verification-method resolution misses.
func ProofNotFound(message string) *Error {
	return &Error{
		Name:    NotFoundError,
		Message: message,
		Details: map[string]interface{}{
			"proofVerifyResult": ProofVerifyResult{
				Verified: false,
				Error:    []ProofVerifyFailure{{Message: message, HTTPStatusCode: 404}},
			},
		},
	}
}
