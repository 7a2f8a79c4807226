/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package djws implements the detached-JWS codec (RFC 7515 §7.1) used
// for a Proof's "jws" member: a compact JWS whose payload segment is
// always empty, the signing input instead built from an
// out-of-band-supplied digest. This mirrors the teacher's
// pkg/internal/jws package, generalized from JWK-keyed signing/
// verification to this method's raw Ed25519 keys.
package djws

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/square/go-jose/v3/json"
)

const jwsPartsCount = 3

// Headers are JOSE headers for a JWS.
type Headers map[string]interface{}

// Algorithm returns the "alg" header.
func (h Headers) Algorithm() (string, bool) {
	v, ok := h["alg"].(string)

	return v, ok
}

// KeyID returns the "kid" header.
func (h Headers) KeyID() (string, bool) {
	v, ok := h["kid"].(string)

	return v, ok
}

// Signer signs a precomputed signing input and reports the JOSE headers
// to merge into the JWS (the merged headers must carry "alg").
type Signer interface {
	Sign(data []byte) ([]byte, error)
	Headers() Headers
}

// Sign builds a detached compact JWS over payload: the serialized form
// is "base64url(headers)..base64url(signature)", with the payload
// segment empty.
func Sign(protected Headers, payload []byte, signer Signer) (string, error) {
	headers := mergeHeaders(protected, signer.Headers())

	if err := checkHeaders(headers); err != nil {
		return "", err
	}

	sigInput, err := SigningInput(headers, payload)
	if err != nil {
		return "", err
	}

	signature, err := signer.Sign(sigInput)
	if err != nil {
		return "", fmt.Errorf("djws: sign: %w", err)
	}

	headerBytes, err := json.Marshal(headers)
	if err != nil {
		return "", fmt.Errorf("djws: marshal headers: %w", err)
	}

	return fmt.Sprintf("%s..%s",
		base64.RawURLEncoding.EncodeToString(headerBytes),
		base64.RawURLEncoding.EncodeToString(signature),
	), nil
}

// Parse parses a detached compact JWS, returning its protected headers
// and raw signature bytes. The middle (payload) segment MUST be empty.
func Parse(compact string) (Headers, []byte, error) {
	parts := strings.Split(compact, ".")
	if len(parts) != jwsPartsCount {
		return nil, nil, errors.New("djws: invalid compact jws format")
	}

	if parts[1] != "" {
		return nil, nil, errors.New("djws: expected detached jws (empty payload segment)")
	}

	headerBytes, err := base64.RawURLEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("djws: decode headers: %w", err)
	}

	var headers Headers
	if err := json.Unmarshal(headerBytes, &headers); err != nil {
		return nil, nil, fmt.Errorf("djws: unmarshal headers: %w", err)
	}

	if err := checkHeaders(headers); err != nil {
		return nil, nil, err
	}

	signature, err := base64.RawURLEncoding.DecodeString(parts[2])
	if err != nil {
		return nil, nil, fmt.Errorf("djws: decode signature: %w", err)
	}

	if len(signature) == 0 {
		return nil, nil, errors.New("djws: empty signature")
	}

	return headers, signature, nil
}

// SigningInput builds the RFC 7515 signing input for headers over
// payload: base64url(headers) + "." + base64url(payload).
func SigningInput(headers Headers, payload []byte) ([]byte, error) {
	headerBytes, err := json.Marshal(headers)
	if err != nil {
		return nil, fmt.Errorf("djws: marshal headers: %w", err)
	}

	return []byte(fmt.Sprintf("%s.%s",
		base64.RawURLEncoding.EncodeToString(headerBytes),
		base64.RawURLEncoding.EncodeToString(payload),
	)), nil
}

func mergeHeaders(h1, h2 Headers) Headers {
	merged := make(Headers, len(h1)+len(h2))

	for k, v := range h2 {
		merged[k] = v
	}

	for k, v := range h1 {
		merged[k] = v
	}

	return merged
}

func checkHeaders(headers Headers) error {
	if _, ok := headers["alg"]; !ok {
		return errors.New("djws: alg header is not defined")
	}

	return nil
}
