// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package keys

import (
	"bytes"
	"strings"
	"testing"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/stretchr/testify/require"
	"github.com/zaudit/ztxdecrypt/netparams"
)

// encodeKey returns payload encoded as Bech32m under hrp.
func encodeKey(t *testing.T, hrp string, payload []byte) string {
	t.Helper()

	data, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)

	s, err := bech32.EncodeM(hrp, data)
	require.NoError(t, err)

	return s
}

// TestDecode checks network detection and the decoded payload.
func TestDecode(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x5a}, 96)

	testCases := []struct {
		name   string
		hrp    string
		params *netparams.Params
	}{
		{"mainnet", "uview", &netparams.MainNetParams},
		{"testnet", "uviewtest", &netparams.TestNetParams},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange: a well formed key with surrounding whitespace.
			encoded := encodeKey(t, tc.hrp, payload)

			// Act: decode it.
			key, err := Decode("  " + encoded + "\n")

			// Assert: the network and payload are recovered and the
			// string form hides the key.
			require.NoError(t, err)
			require.Equal(t, tc.params, key.Params())
			require.Equal(t, payload, key.payload)
			require.Equal(t, encoded, key.Encoded())
			require.NotContains(t, key.String(), encoded[len(tc.hrp)+1:])
			require.Contains(t, key.String(), tc.params.Name)
		})
	}
}

// TestDecodeErrors checks the rejection of malformed keys.
func TestDecodeErrors(t *testing.T) {
	t.Parallel()

	payload := bytes.Repeat([]byte{0x01}, 64)
	valid := encodeKey(t, "uview", payload)

	// Flip the last checksum character.
	last := valid[len(valid)-1]
	flip := byte('q')
	if last == 'q' {
		flip = 'p'
	}
	badChecksum := valid[:len(valid)-1] + string(flip)

	// Bech32 rather than Bech32m.
	data, err := bech32.ConvertBits(payload, 8, 5, true)
	require.NoError(t, err)
	bech32Key, err := bech32.Encode("uview", data)
	require.NoError(t, err)

	testCases := []struct {
		name string
		key  string
		err  error
	}{
		{"empty", "", ErrUnknownNetwork},
		{"sapling key", "zxviews1qqqqqqqq", ErrUnknownNetwork},
		{"bad checksum", badChecksum, ErrInvalidKey},
		{"bech32 checksum", bech32Key, ErrInvalidKey},
		{"truncated", valid[:len(valid)-10], ErrInvalidKey},
		{"mixed case", "U" + valid[1:], ErrInvalidKey},
		{"wrong hrp", encodeKey(t, "uview1x", payload), ErrInvalidKey},
		{"unknown hrp", encodeKey(t, "uviewx", payload), ErrUnknownNetwork},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decode(tc.key)
			require.ErrorIs(t, err, tc.err)
		})
	}
}

// TestDecodeUppercase checks that an all uppercase key is accepted, as
// Bech32m allows.
func TestDecodeUppercase(t *testing.T) {
	t.Parallel()

	encoded := encodeKey(t, "uviewtest", []byte{1, 2, 3, 4, 5})

	key, err := Decode(strings.ToUpper(encoded))
	require.NoError(t, err)
	require.Equal(t, &netparams.TestNetParams, key.Params())
	require.Equal(t, encoded, key.Encoded())
}
