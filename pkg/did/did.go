/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did parses Veres One cryptonym DIDs and binds them to a DID
// document's capability-invocation key.
package did

import (
	"fmt"
	"regexp"

	"github.com/mr-tron/base58"

	"github.com/veres-one/validator/pkg/config"
	"github.com/veres-one/validator/pkg/fingerprint"
)

// base58 alphabet used by multibase's Base58BTC encoding (Bitcoin
// alphabet, excludes 0, O, I, l).
const base58Alphabet = "[1-9A-HJ-NP-Za-km-z]+"

var (
	prodPattern = regexp.MustCompile(`^did:v1:nym:(z` + base58Alphabet + `)$`)
	testPattern = regexp.MustCompile(`^did:v1:test:nym:(z` + base58Alphabet + `)$`)
)

// DID is a parsed Veres One cryptonym DID.
type DID struct {
	// Raw is the original DID string.
	Raw string

	// Environment is prod or test, selected by which branch matched.
	Environment config.Environment

	// Fingerprint is the multibase-encoded public key fingerprint
	// embedded in the DID (e.g. "zABC...").
	Fingerprint string
}

// Parse matches s against the cryptonym DID pattern for env, selecting
// the ":test:" branch when env is EnvironmentTest.
func Parse(s string, env config.Environment) (*DID, error) {
	pattern := prodPattern
	if env == config.EnvironmentTest {
		pattern = testPattern
	}

	matches := pattern.FindStringSubmatch(s)
	if matches == nil {
		return nil, fmt.Errorf("invalid did: %s", s)
	}

	return &DID{Raw: s, Environment: env, Fingerprint: matches[1]}, nil
}

// InvocationKey describes the document fields Bind needs from the
// document's first capabilityInvocation verification method, without
// this package depending on the document package (which in turn may
// need to parse DIDs).
type InvocationKey struct {
	ID              string
	PublicKeyBase58 string
}

// Bind verifies the cryptonym binding invariant: the DID's fingerprint
// equals the fingerprint of the document's capabilityInvocation[0]
// public key, and that key's id is exactly "<did>#<fingerprint>".
func Bind(docID string, didValue *DID, key InvocationKey) error {
	pubKey, err := base58.Decode(key.PublicKeyBase58)
	if err != nil {
		return fmt.Errorf("did key id mismatch: invalid publicKeyBase58: %w", err)
	}

	keyFingerprint, err := fingerprint.Encode(pubKey)
	if err != nil {
		return fmt.Errorf("did key id mismatch: %w", err)
	}

	expected := docID + "#" + keyFingerprint

	if key.ID != expected {
		return fmt.Errorf("did key id mismatch: expected verification method id %q, got %q", expected, key.ID)
	}

	if didValue.Fingerprint != keyFingerprint {
		return fmt.Errorf("did key id mismatch: did fingerprint %q does not match invocation key fingerprint %q",
			didValue.Fingerprint, keyFingerprint)
	}

	return nil
}
