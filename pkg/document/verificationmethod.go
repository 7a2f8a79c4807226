/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package document

// Ed25519VerificationKey2018 is the only verification method type this
// method supports; it requires special handling (key material carried
// as publicKeyBase58, not JWK).
const Ed25519VerificationKey2018 = "Ed25519VerificationKey2018"

// Verification method property keys.
const (
	TypeProperty            = "type"
	ControllerProperty      = "controller"
	PublicKeyBase58Property = "publicKeyBase58"
)

// VerificationMethod is a thin typed view over a verification method
// entry, which may appear either inline (a map) or by reference (a
// string id) inside a proof-purpose array.
type VerificationMethod map[string]interface{}

// NewVerificationMethod wraps a raw map as a VerificationMethod.
func NewVerificationMethod(entry map[string]interface{}) VerificationMethod {
	return VerificationMethod(entry)
}

// ID returns the verification method's id.
func (v VerificationMethod) ID() string {
	return stringEntry(v[IDProperty])
}

// Type returns the verification method's type.
func (v VerificationMethod) Type() string {
	return stringEntry(v[TypeProperty])
}

// Controller returns the verification method's controller.
func (v VerificationMethod) Controller() string {
	return stringEntry(v[ControllerProperty])
}

// PublicKeyBase58 returns the verification method's base58-encoded raw
// Ed25519 public key.
func (v VerificationMethod) PublicKeyBase58() string {
	return stringEntry(v[PublicKeyBase58Property])
}

// parseVerificationMethods parses an array that may mix inline
// verification method objects and bare string references (by id).
// Only inline objects are returned; string references have no public
// key material to validate and are resolved by the caller through the
// document loader.
func parseVerificationMethods(entry interface{}) []VerificationMethod {
	arr := interfaceArray(entry)
	if arr == nil {
		return nil
	}

	var result []VerificationMethod

	for _, e := range arr {
		if m, ok := e.(map[string]interface{}); ok {
			result = append(result, NewVerificationMethod(m))
		}
	}

	return result
}

// ReferencedIDs returns the string-id references present in a
// proof-purpose array (entries that are bare strings rather than inline
// verification methods).
func ReferencedIDs(entry interface{}) []string {
	arr := interfaceArray(entry)

	var ids []string

	for _, e := range arr {
		if id, ok := e.(string); ok {
			ids = append(ids, id)
		}
	}

	return ids
}
