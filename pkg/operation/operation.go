/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package operation defines the signed operation envelope a caller
// submits for validation: a tagged variant over the two operation
// kinds the ledger accepts, each carrying one or more Ed25519
// capability-invocation proofs.
package operation

import (
	"encoding/json"
	"fmt"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/document"
)

// Wire type discriminator values, per the ledger's WebLedger operation
// envelope.
const (
	TypeCreateWebLedgerRecord = "CreateWebLedgerRecord"
	TypeUpdateWebLedgerRecord = "UpdateWebLedgerRecord"
)

// Proof-purpose names a proof node may carry. AuthorizeRequest is
// accepted for schema purposes only; CapabilityInvocation is the sole
// authority C5 verifies against.
const (
	ProofPurposeAuthorizeRequest     = "authorizeRequest"
	ProofPurposeCapabilityInvocation = "capabilityInvocation"
)

// Proof is a single detached-JWS signature over an operation, per
// spec.md §3.
type Proof struct {
	Type               string `json:"type"`
	Created            string `json:"created"`
	VerificationMethod string `json:"verificationMethod"`
	ProofPurpose       string `json:"proofPurpose"`
	Capability         string `json:"capability"`
	CapabilityAction   string `json:"capabilityAction"`
	JWS                string `json:"jws"`
}

// CapabilityInvocationProof returns the first proof node whose purpose
// is capabilityInvocation, and whether one was found.
func CapabilityInvocationProof(proofs []Proof) (Proof, bool) {
	for _, p := range proofs {
		if p.ProofPurpose == ProofPurposeCapabilityInvocation {
			return p, true
		}
	}

	return Proof{}, false
}

// RecordPatch is the body of an update operation.
type RecordPatch struct {
	Target   string          `json:"target"`
	Sequence *uint64         `json:"sequence,omitempty"`
	Patch    json.RawMessage `json:"patch"`
}

// Operation is a tagged union over the two operation kinds the ledger
// accepts. Exactly one of Record (create) or RecordPatch (update) is
// populated, selected by Type.
type Operation struct {
	Type        string               `json:"type"`
	Record      document.DIDDocument `json:"record,omitempty"`
	RecordPatch *RecordPatch         `json:"recordPatch,omitempty"`
	Proof       []Proof              `json:"proof"`

	// raw is the generic JSON map the operation was parsed from, kept so
	// canonicalization works from the parsed input rather than from the
	// struct fields. It is set only by FromBytes.
	raw map[string]interface{}
}

// FromBytes parses a signed operation envelope from JSON bytes.
func FromBytes(data []byte) (*Operation, error) {
	raw := make(map[string]interface{})
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("operation: unmarshal: %w", err)
	}

	var op Operation
	if err := json.Unmarshal(data, &op); err != nil {
		return nil, fmt.Errorf("operation: unmarshal: %w", err)
	}

	op.raw = raw

	return &op, nil
}

// Kind classifies the operation, returning an error if Type is neither
// known wire discriminator.
func (o *Operation) Kind() (config.OperationKind, error) {
	switch o.Type {
	case TypeCreateWebLedgerRecord:
		return config.OperationCreate, nil
	case TypeUpdateWebLedgerRecord:
		return config.OperationUpdate, nil
	default:
		return "", fmt.Errorf("operation: unrecognized type: %s", o.Type)
	}
}

// JSONLdObject returns the operation's JSON-LD representation with its
// proof nodes replaced by replacementProof (nil to strip them
// entirely), the form the canonicalizer signs and verifies over.
func (o *Operation) JSONLdObject(replacementProof []Proof) (map[string]interface{}, error) {
	clone, err := o.cloneRaw()
	if err != nil {
		return nil, err
	}

	if replacementProof == nil {
		delete(clone, "proof")

		return clone, nil
	}

	proofBytes, err := json.Marshal(replacementProof)
	if err != nil {
		return nil, fmt.Errorf("operation: marshal proof: %w", err)
	}

	var proof interface{}
	if err := json.Unmarshal(proofBytes, &proof); err != nil {
		return nil, fmt.Errorf("operation: unmarshal proof: %w", err)
	}

	clone["proof"] = proof

	return clone, nil
}

func (o *Operation) cloneRaw() (map[string]interface{}, error) {
	raw := o.raw
	if raw == nil {
		marshaled, err := json.Marshal(o)
		if err != nil {
			return nil, fmt.Errorf("operation: marshal: %w", err)
		}

		raw = make(map[string]interface{})
		if err := json.Unmarshal(marshaled, &raw); err != nil {
			return nil, fmt.Errorf("operation: unmarshal: %w", err)
		}
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("operation: marshal: %w", err)
	}

	clone := make(map[string]interface{})
	if err := json.Unmarshal(data, &clone); err != nil {
		return nil, fmt.Errorf("operation: unmarshal: %w", err)
	}

	return clone, nil
}

// ProofWithout returns a copy of proofs with the jws member of the
// capability-invocation entry blanked, the form step 6 of the
// capability-invocation proof algorithm canonicalizes and hashes.
func ProofWithout(proofs []Proof, purpose string) []Proof {
	out := make([]Proof, len(proofs))

	for i, p := range proofs {
		out[i] = p
		if p.ProofPurpose == purpose {
			out[i].JWS = ""
		}
	}

	return out
}
