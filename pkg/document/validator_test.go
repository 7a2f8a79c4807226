/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

import (
	"crypto/ed25519"
	"testing"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/require"

	"github.com/veres-one/validator/pkg/fingerprint"
)

func validDocFixture(t *testing.T) (DIDDocument, ed25519.PublicKey) {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	fp, err := fingerprint.Encode(pub)
	require.NoError(t, err)

	did := "did:v1:nym:" + fp
	vmID := did + "#" + fp

	vm := map[string]interface{}{
		IDProperty:              vmID,
		TypeProperty:            Ed25519VerificationKey2018,
		ControllerProperty:      did,
		PublicKeyBase58Property: base58.Encode(pub),
	}

	// Verification method ids must be unique across sections, so
	// authentication and capabilityDelegation get keys of their own.
	doc := DIDDocument{
		IDProperty:                   did,
		AuthenticationProperty:       []interface{}{extraVerificationMethod(t, did)},
		CapabilityInvocationProperty: []interface{}{vm},
		CapabilityDelegationProperty: []interface{}{extraVerificationMethod(t, did)},
	}

	return doc, pub
}

// extraVerificationMethod generates a fresh, well-formed verification
// method controlled by did.
func extraVerificationMethod(t *testing.T, did string) map[string]interface{} {
	t.Helper()

	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	fp, err := fingerprint.Encode(pub)
	require.NoError(t, err)

	return map[string]interface{}{
		IDProperty:              did + "#" + fp,
		TypeProperty:            Ed25519VerificationKey2018,
		ControllerProperty:      did,
		PublicKeyBase58Property: base58.Encode(pub),
	}
}

func TestValidateSuccess(t *testing.T) {
	doc, _ := validDocFixture(t)
	require.Nil(t, Validate(doc))
}

func TestValidateMissingID(t *testing.T) {
	doc, _ := validDocFixture(t)
	delete(doc, IDProperty)

	err := Validate(doc)
	require.NotNil(t, err)
	require.Equal(t, "ValidationError", err.Name)
}

func TestValidateMissingProofPurposeSection(t *testing.T) {
	doc, _ := validDocFixture(t)
	delete(doc, CapabilityDelegationProperty)

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateEmptyProofPurposeSection(t *testing.T) {
	doc, _ := validDocFixture(t)
	doc[CapabilityDelegationProperty] = []interface{}{}

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateWrongVerificationMethodType(t *testing.T) {
	doc, _ := validDocFixture(t)
	methods := doc[AuthenticationProperty].([]interface{})
	vm := methods[0].(map[string]interface{})
	vm[TypeProperty] = "SomeOtherKeyType"

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateWrongController(t *testing.T) {
	doc, _ := validDocFixture(t)
	methods := doc[AuthenticationProperty].([]interface{})
	vm := methods[0].(map[string]interface{})
	vm[ControllerProperty] = "did:v1:nym:someoneelse"

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateFragmentMismatch(t *testing.T) {
	doc, _ := validDocFixture(t)
	methods := doc[AuthenticationProperty].([]interface{})
	vm := methods[0].(map[string]interface{})
	vm[IDProperty] = doc.ID() + "#zWrongFragment"

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateDuplicateVerificationMethodID(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	fp, err := fingerprint.Encode(pub)
	require.NoError(t, err)

	did := "did:v1:nym:" + fp
	vmID := did + "#" + fp

	vm := map[string]interface{}{
		IDProperty:              vmID,
		TypeProperty:            Ed25519VerificationKey2018,
		ControllerProperty:      did,
		PublicKeyBase58Property: base58.Encode(pub),
	}

	// The same verification method id appears twice within one
	// section's array, which must be rejected by the cross-section
	// uniqueness invariant.
	doc := DIDDocument{
		IDProperty:                   did,
		AuthenticationProperty:       []interface{}{vm, vm},
		CapabilityInvocationProperty: []interface{}{vm},
		CapabilityDelegationProperty: []interface{}{vm},
	}

	err2 := Validate(doc)
	require.NotNil(t, err2)
}

func TestValidateServiceBadID(t *testing.T) {
	doc, _ := validDocFixture(t)
	doc[ServiceProperty] = []interface{}{
		map[string]interface{}{
			IDProperty:              "wrong-id",
			TypeProperty:            "LinkedDomains",
			ServiceEndpointProperty: "https://example.com",
		},
	}

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateServiceNonHTTPS(t *testing.T) {
	doc, _ := validDocFixture(t)
	doc[ServiceProperty] = []interface{}{
		map[string]interface{}{
			IDProperty:              doc.ID() + "#agent",
			TypeProperty:            "LinkedDomains",
			ServiceEndpointProperty: "http://example.com",
		},
	}

	err := Validate(doc)
	require.NotNil(t, err)
}

func TestValidateServiceSuccess(t *testing.T) {
	doc, _ := validDocFixture(t)
	doc[ServiceProperty] = []interface{}{
		map[string]interface{}{
			IDProperty:              doc.ID() + "#agent",
			TypeProperty:            "LinkedDomains",
			ServiceEndpointProperty: "https://example.com",
		},
	}

	require.Nil(t, Validate(doc))
}
