/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package patch implements the update-operation patch engine (C6): it
// applies a recordPatch's JSON Patch to a deep-cloned working copy of
// the document currently of record, then re-runs the structural and
// cryptonym-binding checks against the result.
package patch

import (
	"fmt"

	jsonpatch "github.com/evanphx/json-patch"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/did"
	"github.com/veres-one/validator/pkg/document"
	"github.com/veres-one/validator/pkg/verror"
)

// Apply implements spec.md §4.6 steps 2-4: it checks the sequence
// invariant, applies patchBytes (a JSON Patch document, RFC 6902) to a
// clone of current, and re-validates the result. The caller's current
// is never mutated.
func Apply(current document.DIDDocument, sequence *uint64, patchBytes []byte, env config.Environment) (document.DIDDocument, *verror.Error) {
	if err := checkSequence(current, sequence); err != nil {
		return nil, err
	}

	next, err := applyJSONPatch(current, patchBytes)
	if err != nil {
		return nil, verror.New(verror.ValidationError, fmt.Sprintf("invalid patch: %s", err))
	}

	if verr := document.Validate(next); verr != nil {
		return nil, verr
	}

	if verr := checkInvocationKeyUnchanged(current, next, env); verr != nil {
		return nil, verr
	}

	return next, nil
}

// checkSequence implements the resolved open question: a recordPatch
// carrying a sequence number must match current.sequence+1 exactly, and
// one without a sequence is rejected when current carries a sequence; a
// document that tracks no sequence at all is treated as sequence 0, so
// a patch against it may omit the sequence, and any non-nil
// recordPatch.sequence other than 1 is rejected.
func checkSequence(current document.DIDDocument, sequence *uint64) *verror.Error {
	currentSequence, tracked := current.Sequence()

	if sequence == nil {
		if tracked {
			return verror.New(verror.ValidationError,
				fmt.Sprintf("invalid sequence: expected %d, got none", currentSequence+1))
		}

		return nil
	}

	if *sequence != currentSequence+1 {
		return verror.New(verror.ValidationError,
			fmt.Sprintf("invalid sequence: expected %d, got %d", currentSequence+1, *sequence))
	}

	return nil
}

func applyJSONPatch(current document.DIDDocument, patchBytes []byte) (document.DIDDocument, error) {
	decoded, err := jsonpatch.DecodePatch(patchBytes)
	if err != nil {
		return nil, fmt.Errorf("decode json patch: %w", err)
	}

	clone, err := current.Clone()
	if err != nil {
		return nil, fmt.Errorf("clone document: %w", err)
	}

	currentBytes, err := clone.Bytes()
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}

	patchedBytes, err := decoded.Apply(currentBytes)
	if err != nil {
		return nil, fmt.Errorf("apply json patch: %w", err)
	}

	return document.FromBytes(patchedBytes)
}

// checkInvocationKeyUnchanged enforces that a patch may not remove or
// rotate capabilityInvocation[0]'s public key: the cryptonym binding
// invariant must continue to hold against the same DID after the
// patch is applied as it did before.
func checkInvocationKeyUnchanged(current, next document.DIDDocument, env config.Environment) *verror.Error {
	currentKey, err := firstInvocationKey(current)
	if err != nil {
		return verror.New(verror.ValidationError, err.Error())
	}

	nextKey, err := firstInvocationKey(next)
	if err != nil {
		return verror.New(verror.ValidationError, err.Error())
	}

	if currentKey.PublicKeyBase58 != nextKey.PublicKeyBase58 {
		return verror.New(verror.ValidationError,
			"patch may not remove or rotate the capabilityInvocation[0] public key")
	}

	didValue, err := did.Parse(next.ID(), env)
	if err != nil {
		return verror.New(verror.ValidationError, err.Error())
	}

	if err := did.Bind(next.ID(), didValue, nextKey); err != nil {
		return verror.New(verror.ValidationError, err.Error())
	}

	return nil
}

func firstInvocationKey(doc document.DIDDocument) (did.InvocationKey, error) {
	methods := doc.CapabilityInvocation()
	if len(methods) == 0 {
		return did.InvocationKey{}, fmt.Errorf("document has no capabilityInvocation key")
	}

	return did.InvocationKey{ID: methods[0].ID(), PublicKeyBase58: methods[0].PublicKeyBase58()}, nil
}
