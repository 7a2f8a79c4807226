/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package mocks

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"fmt"

	"github.com/mr-tron/base58"

	"github.com/veres-one/validator/pkg/document"
	"github.com/veres-one/validator/pkg/fingerprint"
	"github.com/veres-one/validator/pkg/internal/djws"
	"github.com/veres-one/validator/pkg/internal/jsonld"
	"github.com/veres-one/validator/pkg/loader"
	"github.com/veres-one/validator/pkg/operation"
)

// ed25519Signer adapts an Ed25519 private key to djws.Signer.
type ed25519Signer struct {
	priv ed25519.PrivateKey
}

func (s ed25519Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, data), nil
}

func (s ed25519Signer) Headers() djws.Headers {
	return nil
}

// KeyPair is a freshly generated Ed25519 key plus its DID-document
// encodings, for building test fixtures. Generating test keys is the
// only place this module's scope touches key material directly; the
// signing client proper remains out of scope.
type KeyPair struct {
	Public          ed25519.PublicKey
	Private         ed25519.PrivateKey
	PublicKeyBase58 string
	Fingerprint     string
}

// NewKeyPair generates a new Ed25519 key pair and its multibase
// fingerprint.
func NewKeyPair() (*KeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("mocks: generate key: %w", err)
	}

	fp, err := fingerprint.Encode(pub)
	if err != nil {
		return nil, fmt.Errorf("mocks: fingerprint: %w", err)
	}

	return &KeyPair{
		Public:          pub,
		Private:         priv,
		PublicKeyBase58: base58.Encode(pub),
		Fingerprint:     fp,
	}, nil
}

// VerificationMethod returns an inline verification method map for key,
// controlled by did.
func (k *KeyPair) VerificationMethod(did string) map[string]interface{} {
	return map[string]interface{}{
		document.IDProperty:              did + "#" + k.Fingerprint,
		document.TypeProperty:            document.Ed25519VerificationKey2018,
		document.ControllerProperty:      did,
		document.PublicKeyBase58Property: k.PublicKeyBase58,
	}
}

// NewDIDDocument builds a minimal well-formed DID document whose sole
// capabilityInvocation key is nym, with authKey and delegationKey as
// the authentication and capabilityDelegation keys (the uniqueness
// invariant forbids reusing one verification method id across
// sections).
func NewDIDDocument(nym *KeyPair, authKey, delegationKey *KeyPair) document.DIDDocument {
	did := "did:v1:nym:" + nym.Fingerprint

	return document.DIDDocument{
		document.IDProperty:                   did,
		document.AuthenticationProperty:       []interface{}{authKey.VerificationMethod(did)},
		document.CapabilityInvocationProperty: []interface{}{nym.VerificationMethod(did)},
		document.CapabilityDelegationProperty: []interface{}{delegationKey.VerificationMethod(did)},
	}
}

// SignCreate builds a signed CreateWebLedgerRecord operation over doc,
// whose capability-invocation proof claims capability/action and is
// signed by signingKey over the capability-invocation verification
// method vmID.
func SignCreate(l *loader.Loader, doc document.DIDDocument, vmID, capability, action string, signingKey *KeyPair) (*operation.Operation, error) {
	raw := map[string]interface{}{
		"type":   operation.TypeCreateWebLedgerRecord,
		"record": doc,
		"proof": []interface{}{
			map[string]interface{}{
				"type":                "Ed25519Signature2018",
				"proofPurpose":        operation.ProofPurposeCapabilityInvocation,
				"capability":          capability,
				"capabilityAction":    action,
				"verificationMethod":  vmID,
			},
		},
	}

	return signAndParse(l, raw, signingKey)
}

// SignUpdate builds a signed UpdateWebLedgerRecord operation patching
// target at sequence with patchBytes, signed the same way SignCreate
// signs a create operation.
func SignUpdate(l *loader.Loader, target string, sequence *uint64, patchBytes json.RawMessage, vmID, capability, action string, signingKey *KeyPair) (*operation.Operation, error) {
	recordPatch := map[string]interface{}{
		"target": target,
		"patch":  json.RawMessage(patchBytes),
	}

	if sequence != nil {
		recordPatch["sequence"] = *sequence
	}

	raw := map[string]interface{}{
		"type":        operation.TypeUpdateWebLedgerRecord,
		"recordPatch": recordPatch,
		"proof": []interface{}{
			map[string]interface{}{
				"type":                "Ed25519Signature2018",
				"proofPurpose":        operation.ProofPurposeCapabilityInvocation,
				"capability":          capability,
				"capabilityAction":    action,
				"verificationMethod":  vmID,
			},
		},
	}

	return signAndParse(l, raw, signingKey)
}

func signAndParse(l *loader.Loader, raw map[string]interface{}, signingKey *KeyPair) (*operation.Operation, error) {
	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("mocks: marshal operation: %w", err)
	}

	op, err := operation.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("mocks: parse operation: %w", err)
	}

	jws, err := sign(l, op, signingKey)
	if err != nil {
		return nil, err
	}

	for i := range op.Proof {
		if op.Proof[i].ProofPurpose == operation.ProofPurposeCapabilityInvocation {
			op.Proof[i].JWS = jws
		}
	}

	return op, nil
}

func sign(l *loader.Loader, op *operation.Operation, signingKey *KeyPair) (string, error) {
	headers := djws.Headers{"alg": "EdDSA"}

	stripped := operation.ProofWithout(op.Proof, operation.ProofPurposeCapabilityInvocation)

	obj, err := op.JSONLdObject(stripped)
	if err != nil {
		return "", fmt.Errorf("mocks: build canonicalization input: %w", err)
	}

	normalized, err := jsonld.Canonicalize(obj, l)
	if err != nil {
		return "", fmt.Errorf("mocks: canonicalize: %w", err)
	}

	digest := sha256.Sum256(normalized)

	return djws.Sign(headers, digest[:], ed25519Signer{priv: signingKey.Private})
}
