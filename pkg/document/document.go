/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package document defines the DID document data model and its
// structural well-formedness checks.
package document

import (
	"encoding/json"
)

// Property keys used throughout a DID document.
const (
	IDProperty                   = "id"
	SequenceProperty             = "sequence"
	AuthenticationProperty       = "authentication"
	CapabilityInvocationProperty = "capabilityInvocation"
	CapabilityDelegationProperty = "capabilityDelegation"
	ServiceProperty              = "service"
)

// DIDDocument is a generic map view over a DID document's JSON
// representation; arrays inside it keep their order, the map's keys have
// none.
type DIDDocument map[string]interface{}

// FromBytes parses a DID document from JSON bytes.
func FromBytes(data []byte) (DIDDocument, error) {
	doc := make(DIDDocument)
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	return doc, nil
}

// FromJSONLDObject wraps a generic JSON-LD map as a DIDDocument without
// copying it.
func FromJSONLDObject(obj map[string]interface{}) DIDDocument {
	return obj
}

// ID returns the document's id, or "" if absent.
func (d DIDDocument) ID() string {
	return stringEntry(d[IDProperty])
}

// GetStringValue returns the string value for key, or "" if absent or
// not a string.
func (d DIDDocument) GetStringValue(key string) string {
	return stringEntry(d[key])
}

// Sequence returns the document's sequence number and whether it was
// present at all (spec.md §9's resolved open question: a document with
// no sequence field is treated as sequence 0).
func (d DIDDocument) Sequence() (uint64, bool) {
	entry, ok := d[SequenceProperty]
	if !ok {
		return 0, false
	}

	switch v := entry.(type) {
	case float64:
		return uint64(v), true
	case uint64:
		return v, true
	case int:
		return uint64(v), true
	default:
		return 0, false
	}
}

// Authentication returns the authentication verification methods.
func (d DIDDocument) Authentication() []VerificationMethod {
	return parseVerificationMethods(d[AuthenticationProperty])
}

// CapabilityInvocation returns the capabilityInvocation verification
// methods.
func (d DIDDocument) CapabilityInvocation() []VerificationMethod {
	return parseVerificationMethods(d[CapabilityInvocationProperty])
}

// CapabilityDelegation returns the capabilityDelegation verification
// methods.
func (d DIDDocument) CapabilityDelegation() []VerificationMethod {
	return parseVerificationMethods(d[CapabilityDelegationProperty])
}

// Service returns the document's service descriptors, if any.
func (d DIDDocument) Service() []Service {
	return parseServices(d[ServiceProperty])
}

// JSONLdObject returns the underlying map, satisfying the same
// composability contract the patch engine and canonicalizer rely on.
func (d DIDDocument) JSONLdObject() map[string]interface{} {
	return d
}

// Bytes marshals the document to JSON.
func (d DIDDocument) Bytes() ([]byte, error) {
	return json.Marshal(d)
}

// Clone produces a deep copy of the document via a JSON round-trip, the
// same technique the patch engine uses to avoid mutating the caller's
// input.
func (d DIDDocument) Clone() (DIDDocument, error) {
	raw, err := d.Bytes()
	if err != nil {
		return nil, err
	}

	return FromBytes(raw)
}

func stringEntry(entry interface{}) string {
	if entry == nil {
		return ""
	}

	value, ok := entry.(string)
	if !ok {
		return ""
	}

	return value
}

func interfaceArray(entry interface{}) []interface{} {
	if entry == nil {
		return nil
	}

	arr, ok := entry.([]interface{})

	if !ok {
		return nil
	}

	return arr
}
