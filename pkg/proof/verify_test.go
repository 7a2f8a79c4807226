/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package proof

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/json"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/document"
	"github.com/veres-one/validator/pkg/fingerprint"
	"github.com/veres-one/validator/pkg/internal/djws"
	"github.com/veres-one/validator/pkg/internal/jsonld"
	"github.com/veres-one/validator/pkg/ledger"
	"github.com/veres-one/validator/pkg/loader"
	"github.com/veres-one/validator/pkg/operation"
)

type stubView struct {
	docs map[string]document.DIDDocument
}

func (s *stubView) GetRecord(did string) (document.DIDDocument, error) {
	doc, ok := s.docs[did]
	if !ok {
		return nil, ledger.ErrNotFound
	}

	return doc, nil
}

// fixture is a self-consistent DID, document, and signed create
// operation. rawOp is kept around so tests can build a tampered
// variant of the exact bytes that were signed.
type fixture struct {
	did  string
	vmID string
	priv ed25519.PrivateKey
	doc  document.DIDDocument
	rawOp map[string]interface{}
	op   *operation.Operation
	l    *loader.Loader
}

// newFixture builds a document whose sole capabilityInvocation key is
// (pub, priv), and a create operation over it signed by signingPriv
// (priv, unless overridden) claiming capability/action.
func newFixture(t *testing.T, capability, action string, signingPriv ed25519.PrivateKey) *fixture {
	t.Helper()

	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	if signingPriv == nil {
		signingPriv = priv
	}

	fp, err := fingerprint.Encode(pub)
	require.NoError(t, err)

	did := "did:v1:nym:" + fp
	vmID := did + "#" + fp

	vm := map[string]interface{}{
		document.IDProperty:              vmID,
		document.TypeProperty:            document.Ed25519VerificationKey2018,
		document.ControllerProperty:      did,
		document.PublicKeyBase58Property: base58.Encode(pub),
	}

	doc := document.DIDDocument{
		document.IDProperty:                   did,
		document.AuthenticationProperty:       []interface{}{otherVerificationMethod(t, did)},
		document.CapabilityInvocationProperty: []interface{}{vm},
		document.CapabilityDelegationProperty:  []interface{}{otherVerificationMethod(t, did)},
	}

	l := loader.New(&stubView{docs: map[string]document.DIDDocument{did: doc}})

	rawOp := map[string]interface{}{
		"type":   operation.TypeCreateWebLedgerRecord,
		"record": doc,
		"proof": []interface{}{
			map[string]interface{}{
				"type":         "Ed25519Signature2018",
				"proofPurpose": operation.ProofPurposeAuthorizeRequest,
				"jws":          "stub",
			},
			map[string]interface{}{
				"type":                "Ed25519Signature2018",
				"proofPurpose":        operation.ProofPurposeCapabilityInvocation,
				"capability":          capability,
				"capabilityAction":    action,
				"verificationMethod":  vmID,
			},
		},
	}

	op := marshalOperation(t, rawOp)

	jws := signCapabilityInvocation(t, l, op, signingPriv)
	setCapabilityInvocationJWS(op, jws)

	return &fixture{did: did, vmID: vmID, priv: priv, doc: doc, rawOp: rawOp, op: op, l: l}
}

// otherVerificationMethod generates an unrelated, well-formed
// verification method for did, so the fixture document's three
// proof-purpose sections don't all reuse the same key (the uniqueness
// invariant forbids a verification method id appearing in more than
// one section).
func otherVerificationMethod(t *testing.T, did string) map[string]interface{} {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	fp, err := fingerprint.Encode(pub)
	require.NoError(t, err)

	return map[string]interface{}{
		document.IDProperty:              did + "#" + fp,
		document.TypeProperty:            document.Ed25519VerificationKey2018,
		document.ControllerProperty:      did,
		document.PublicKeyBase58Property: base58.Encode(pub),
	}
}

func marshalOperation(t *testing.T, raw map[string]interface{}) *operation.Operation {
	t.Helper()

	data, err := json.Marshal(raw)
	require.NoError(t, err)

	op, err := operation.FromBytes(data)
	require.NoError(t, err)

	return op
}

// cloneRawOp deep-copies a raw operation map via a JSON round trip, so
// a test can mutate the copy without disturbing the original signed
// bytes.
func cloneRawOp(t *testing.T, raw map[string]interface{}) map[string]interface{} {
	t.Helper()

	data, err := json.Marshal(raw)
	require.NoError(t, err)

	clone := make(map[string]interface{})
	require.NoError(t, json.Unmarshal(data, &clone))

	return clone
}

func signCapabilityInvocation(t *testing.T, l *loader.Loader, op *operation.Operation, priv ed25519.PrivateKey) string {
	t.Helper()

	headers := djws.Headers{"alg": "EdDSA"}

	stripped := operation.ProofWithout(op.Proof, operation.ProofPurposeCapabilityInvocation)

	obj, err := op.JSONLdObject(stripped)
	require.NoError(t, err)

	normalized, err := jsonld.Canonicalize(obj, l)
	require.NoError(t, err)

	digest := sha256.Sum256(normalized)

	compact, err := djws.Sign(headers, digest[:], ed25519Signer{priv: priv})
	require.NoError(t, err)

	return compact
}

func setCapabilityInvocationJWS(op *operation.Operation, jws string) {
	for i := range op.Proof {
		if op.Proof[i].ProofPurpose == operation.ProofPurposeCapabilityInvocation {
			op.Proof[i].JWS = jws
		}
	}
}

type ed25519Signer struct {
	priv ed25519.PrivateKey
}

func (s ed25519Signer) Sign(data []byte) ([]byte, error) {
	return ed25519.Sign(s.priv, data), nil
}

func (s ed25519Signer) Headers() djws.Headers {
	return nil
}

func TestVerifySuccess(t *testing.T) {
	f := newFixture(t, "", "create", nil)
	f.rawOp["proof"].([]interface{})[1].(map[string]interface{})["capability"] = f.did

	// The fixture's first signature covered an empty capability
	// placeholder; rebuild and re-sign now that it is finalized.
	f2 := resign(t, f)

	err := Verify(f2.l, f2.op, f2.did, config.OperationCreate, config.Validator{}, f2.doc)
	require.Nil(t, err)
}

// resign rebuilds op from rawOp (whose capability/action fields a test
// may have edited) and re-signs it, returning a fixture whose jws
// matches the final claimed capability/action.
func resign(t *testing.T, f *fixture) *fixture {
	t.Helper()

	op := marshalOperation(t, f.rawOp)

	jws := signCapabilityInvocation(t, f.l, op, f.priv)
	setCapabilityInvocationJWS(op, jws)

	return &fixture{did: f.did, vmID: f.vmID, priv: f.priv, doc: f.doc, rawOp: f.rawOp, op: op, l: f.l}
}

func TestVerifyMismatchedTarget(t *testing.T) {
	f := newFixture(t, "did:v1:nym:zSomeoneElse", "create", nil)

	err := Verify(f.l, f.op, f.did, config.OperationCreate, config.Validator{}, f.doc)
	require.NotNil(t, err)
	require.Contains(t, err.Message, "does not match root capability target")
}

func TestVerifyWrongAction(t *testing.T) {
	f := newFixture(t, "", "update", nil)
	f.rawOp["proof"].([]interface{})[1].(map[string]interface{})["capability"] = f.did

	f2 := resign(t, f)

	err := Verify(f2.l, f2.op, f2.did, config.OperationCreate, config.Validator{}, f2.doc)
	require.NotNil(t, err)
	require.Equal(t, "ValidationError", err.Name)
}

func TestVerifyAlteredAfterSign(t *testing.T) {
	f := newFixture(t, "", "create", nil)
	f.rawOp["proof"].([]interface{})[1].(map[string]interface{})["capability"] = f.did

	f2 := resign(t, f)

	jws, ok := jwsOf(f2.op)
	require.True(t, ok)

	// The attacker edits the signed bytes after the signature was
	// computed, but carries the old signature forward unchanged.
	tamperedRaw := cloneRawOp(t, f2.rawOp)
	tamperedRaw["record"].(map[string]interface{})[document.IDProperty] = f2.did + "-tampered"

	tamperedOp := marshalOperation(t, tamperedRaw)
	setCapabilityInvocationJWS(tamperedOp, jws)

	err := Verify(f2.l, tamperedOp, f2.did, config.OperationCreate, config.Validator{}, f2.doc)
	require.NotNil(t, err)
	require.Equal(t, "Invalid signature.", err.Message)
}

func jwsOf(op *operation.Operation) (string, bool) {
	proof, ok := operation.CapabilityInvocationProof(op.Proof)

	return proof.JWS, ok
}

func TestVerifyWrongSigner(t *testing.T) {
	_, otherPriv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	f := newFixture(t, "", "create", otherPriv)
	f.rawOp["proof"].([]interface{})[1].(map[string]interface{})["capability"] = f.did

	f2 := resignWith(t, f, otherPriv)

	err2 := Verify(f2.l, f2.op, f2.did, config.OperationCreate, config.Validator{}, f2.doc)
	require.NotNil(t, err2)
	require.Equal(t, "Invalid signature.", err2.Message)
}

func resignWith(t *testing.T, f *fixture, signingPriv ed25519.PrivateKey) *fixture {
	t.Helper()

	op := marshalOperation(t, f.rawOp)

	jws := signCapabilityInvocation(t, f.l, op, signingPriv)
	setCapabilityInvocationJWS(op, jws)

	return &fixture{did: f.did, vmID: f.vmID, priv: f.priv, doc: f.doc, rawOp: f.rawOp, op: op, l: f.l}
}

func TestVerifyMissingCapabilityInvocationProof(t *testing.T) {
	f := newFixture(t, "", "create", nil)
	f.op.Proof = f.op.Proof[:1]

	err := Verify(f.l, f.op, f.did, config.OperationCreate, config.Validator{}, f.doc)
	require.NotNil(t, err)
}

func TestVerifyVerificationMethodNotFound(t *testing.T) {
	f := newFixture(t, "", "create", nil)
	f.rawOp["proof"].([]interface{})[1].(map[string]interface{})["capability"] = f.did

	f2 := resign(t, f)
	f2.op.Proof[1].VerificationMethod = f2.did + "#zMissing"

	err := Verify(f2.l, f2.op, f2.did, config.OperationCreate, config.Validator{}, f2.doc)
	require.NotNil(t, err)
	require.Equal(t, "NotFoundError", err.Name)
}
