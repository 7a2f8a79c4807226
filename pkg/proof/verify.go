/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package proof implements the capability-invocation proof verifier
// (C5): the sole authority for whether a signed operation was actually
// authorized by the DID it claims to act on, generalizing the
// teacher's jws.PublicKeyVerifier from a JWK key source to this
// method's base58-encoded verification methods.
package proof

import (
	"crypto/ed25519"
	"crypto/sha256"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/document"
	"github.com/veres-one/validator/pkg/internal/djws"
	internallog "github.com/veres-one/validator/pkg/internal/log"
	"github.com/veres-one/validator/pkg/internal/jsonld"
	"github.com/veres-one/validator/pkg/log"
	"github.com/veres-one/validator/pkg/loader"
	"github.com/veres-one/validator/pkg/operation"
	"github.com/veres-one/validator/pkg/verror"
)

const expectedAlgorithm = "EdDSA"

var logger = log.New("proof")

// Verify runs the six-step capability-invocation proof algorithm
// against op, which is claimed to act on targetDID with the given
// operation kind. target is the DID document currently of record for
// targetDID (the pre-patch document for an update; the record itself
// for a create), used to check invoker membership and, when the loader
// cannot resolve the verification method (a create, whose DID is not on
// the ledger yet), to resolve it from target's capabilityInvocation
// entries.
func Verify(
	l *loader.Loader,
	op *operation.Operation,
	targetDID string,
	kind config.OperationKind,
	cfg config.Validator,
	target document.DIDDocument,
) *verror.Error {
	capProof, ok := operation.CapabilityInvocationProof(op.Proof)
	if !ok {
		return verror.New(verror.ValidationError, "missing capabilityInvocation proof")
	}

	if capProof.Capability != targetDID {
		return verror.ProofFailed("does not match root capability target")
	}

	if !cfg.AcceptsAction(kind, capProof.CapabilityAction) {
		return verror.New(verror.ValidationError,
			fmt.Sprintf("unexpected capabilityAction: %s", capProof.CapabilityAction))
	}

	vmDoc, err := l.Load(capProof.VerificationMethod)
	if err != nil {
		for _, entry := range target.CapabilityInvocation() {
			if entry.ID() == capProof.VerificationMethod {
				vmDoc = document.DIDDocument(entry)
			}
		}
	}

	if vmDoc == nil {
		logger.Debugw("verification method not found",
			internallog.WithVerificationMethod(capProof.VerificationMethod), internallog.WithError(err))

		return verror.ProofNotFound(fmt.Sprintf("verification method not found: %s", capProof.VerificationMethod))
	}

	vm := document.NewVerificationMethod(vmDoc)

	if !isAuthorizedInvoker(vm, targetDID, target) {
		return verror.ProofFailed("The authorized invoker does not match the verification method or its controller.")
	}

	if err := verifySignature(l, op, capProof, vm); err != nil {
		logger.Debugw("signature verification failed",
			internallog.WithProofPurpose(capProof.ProofPurpose), internallog.WithError(err))

		return verror.ProofFailed("Invalid signature.")
	}

	return nil
}

// isAuthorizedInvoker implements step 5: the resolved key's controller
// must equal the target DID, and the key's id must appear in the
// target document's capabilityInvocation array (inline or by
// reference).
func isAuthorizedInvoker(vm document.VerificationMethod, targetDID string, target document.DIDDocument) bool {
	if vm.Controller() != targetDID {
		return false
	}

	for _, entry := range target.CapabilityInvocation() {
		if entry.ID() == vm.ID() {
			return true
		}
	}

	for _, id := range document.ReferencedIDs(target[document.CapabilityInvocationProperty]) {
		if id == vm.ID() {
			return true
		}
	}

	return false
}

// verifySignature implements step 6: canonicalize the operation with
// the capability-invocation proof's jws member blanked, hash it, and
// verify the detached Ed25519 signature against the resolved key.
func verifySignature(l *loader.Loader, op *operation.Operation, capProof operation.Proof, vm document.VerificationMethod) error {
	headers, signature, err := djws.Parse(capProof.JWS)
	if err != nil {
		return fmt.Errorf("proof: parse jws: %w", err)
	}

	alg, ok := headers.Algorithm()
	if !ok || alg != expectedAlgorithm {
		return fmt.Errorf("proof: unexpected jws alg: %s", alg)
	}

	strippedProofs := operation.ProofWithout(op.Proof, operation.ProofPurposeCapabilityInvocation)

	obj, err := op.JSONLdObject(strippedProofs)
	if err != nil {
		return fmt.Errorf("proof: build canonicalization input: %w", err)
	}

	normalized, err := jsonld.Canonicalize(obj, l)
	if err != nil {
		return fmt.Errorf("proof: canonicalize: %w", err)
	}

	digest := sha256.Sum256(normalized)

	signingInput, err := djws.SigningInput(headers, digest[:])
	if err != nil {
		return fmt.Errorf("proof: build signing input: %w", err)
	}

	pubKey, err := base58.Decode(vm.PublicKeyBase58())
	if err != nil {
		return fmt.Errorf("proof: decode public key: %w", err)
	}

	if len(pubKey) != ed25519.PublicKeySize {
		return fmt.Errorf("proof: unexpected public key length: %d", len(pubKey))
	}

	if !ed25519.Verify(ed25519.PublicKey(pubKey), signingInput, signature) {
		return fmt.Errorf("proof: signature verification failed")
	}

	return nil
}
