/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package fingerprint implements the multibase/multicodec encoding of
// Ed25519 public keys used both as the DID's cryptonym and as the
// fragment identifier of its capability-invocation verification method:
// "z" + base58btc(0xed 0x01 || 32-byte public key).
package fingerprint

import (
	"errors"
	"fmt"

	"github.com/multiformats/go-multibase"
)

// ed25519MulticodecPrefix is the multicodec varint header for Ed25519
// public keys (0xed01).
var ed25519MulticodecPrefix = []byte{0xed, 0x01}

const ed25519KeyLength = 32

// Sentinel errors returned by Decode.
var (
	// ErrInvalidEncoding is returned when the string is not valid
	// multibase.
	ErrInvalidEncoding = errors.New("fingerprint: invalid multibase encoding")

	// ErrWrongCodec is returned when the decoded bytes do not carry the
	// Ed25519 multicodec header.
	ErrWrongCodec = errors.New("fingerprint: wrong multicodec, expected Ed25519")

	// ErrWrongLength is returned when the decoded key is not 32 bytes.
	ErrWrongLength = errors.New("fingerprint: wrong key length, expected 32 bytes")
)

// Encode computes the fingerprint of an Ed25519 public key: "z" +
// base58btc(0xed 0x01 || pubKey).
func Encode(pubKey []byte) (string, error) {
	if len(pubKey) != ed25519KeyLength {
		return "", ErrWrongLength
	}

	prefixed := make([]byte, 0, len(ed25519MulticodecPrefix)+len(pubKey))
	prefixed = append(prefixed, ed25519MulticodecPrefix...)
	prefixed = append(prefixed, pubKey...)

	encoded, err := multibase.Encode(multibase.Base58BTC, prefixed)
	if err != nil {
		return "", fmt.Errorf("fingerprint: multibase encode: %w", err)
	}

	return encoded, nil
}

// Decode recovers the 32-byte Ed25519 public key from its fingerprint,
// rejecting any string whose multibase prefix, multicodec header, or
// decoded length disagrees with the Ed25519 fingerprint shape.
func Decode(fingerprint string) ([]byte, error) {
	encoding, data, err := multibase.Decode(fingerprint)
	if err != nil {
		return nil, ErrInvalidEncoding
	}

	if encoding != multibase.Base58BTC {
		return nil, ErrInvalidEncoding
	}

	if len(data) < len(ed25519MulticodecPrefix) {
		return nil, ErrWrongCodec
	}

	prefix, pubKey := data[:len(ed25519MulticodecPrefix)], data[len(ed25519MulticodecPrefix):]
	for i, b := range ed25519MulticodecPrefix {
		if prefix[i] != b {
			return nil, ErrWrongCodec
		}
	}

	if len(pubKey) != ed25519KeyLength {
		return nil, ErrWrongLength
	}

	return pubKey, nil
}
