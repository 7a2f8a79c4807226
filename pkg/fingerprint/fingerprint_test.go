/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package fingerprint

import (
	"crypto/ed25519"
	"testing"

	"github.com/multiformats/go-multibase"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	fp, err := Encode(pub)
	require.NoError(t, err)
	require.True(t, len(fp) > 1)
	require.Equal(t, byte('z'), fp[0])

	decoded, err := Decode(fp)
	require.NoError(t, err)
	require.Equal(t, []byte(pub), decoded)
}

func TestEncodeWrongLength(t *testing.T) {
	_, err := Encode([]byte("too-short"))
	require.ErrorIs(t, err, ErrWrongLength)
}

func TestDecodeInvalidEncoding(t *testing.T) {
	_, err := Decode("not-multibase!!")
	require.ErrorIs(t, err, ErrInvalidEncoding)
}

func TestDecodeWrongCodec(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	// Encode the key under a different multicodec header (0xe7 0x01):
	// still valid multibase, wrong codec header.
	bad, err := multibase.Encode(multibase.Base58BTC, append([]byte{0xe7, 0x01}, pub...))
	require.NoError(t, err)

	_, err = Decode(bad)
	require.ErrorIs(t, err, ErrWrongCodec)
}

func TestDecodeWrongLength(t *testing.T) {
	pub, _, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	short, err := multibase.Encode(multibase.Base58BTC, append(ed25519MulticodecPrefix, pub[:31]...))
	require.NoError(t, err)

	_, err = Decode(short)
	require.ErrorIs(t, err, ErrWrongLength)
}
