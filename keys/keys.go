// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package keys decodes the textual form of unified full viewing keys far
// enough to tell which network they belong to and whether they were typed
// correctly.  The key material itself is kept opaque.
package keys

import (
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"github.com/zaudit/ztxdecrypt/netparams"
)

var (
	// ErrUnknownNetwork is returned when the key prefix names no known
	// network.
	ErrUnknownNetwork = errors.New("unknown viewing key network")

	// ErrInvalidKey is returned when the key fails its Bech32m checksum
	// or is otherwise malformed.
	ErrInvalidKey = errors.New("invalid viewing key")
)

// ViewingKey is a decoded unified full viewing key.
type ViewingKey struct {
	params  *netparams.Params
	encoded string
	payload []byte
}

// Decode parses an encoded unified full viewing key.  The network is picked
// from the prefix and the whole string must carry a valid Bech32m checksum
// under that network's human readable part.
func Decode(s string) (*ViewingKey, error) {
	s = strings.TrimSpace(s)

	params, ok := netparams.ParamsForUFVK(strings.ToLower(s))
	if !ok {
		return nil, ErrUnknownNetwork
	}

	hrp, data, version, err := bech32.DecodeNoLimitWithVersion(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if version != bech32.VersionM {
		return nil, fmt.Errorf("%w: bech32m checksum required",
			ErrInvalidKey)
	}
	if hrp != params.UFVKPrefix {
		return nil, fmt.Errorf("%w: prefix %q is not a %s key",
			ErrInvalidKey, hrp, params.Name)
	}

	payload, err := bech32.ConvertBits(data, 5, 8, false)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidKey, err)
	}
	if len(payload) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrInvalidKey)
	}

	return &ViewingKey{
		params:  params,
		encoded: strings.ToLower(s),
		payload: payload,
	}, nil
}

// Params returns the network the key belongs to.
func (k *ViewingKey) Params() *netparams.Params {
	return k.params
}

// Encoded returns the canonical lowercase encoding of the key.  It is the
// form handed to a node that performs trial decryption.
func (k *ViewingKey) Encoded() string {
	return k.encoded
}

// String returns a redacted form of the key that is safe to log.
func (k *ViewingKey) String() string {
	return fmt.Sprintf("%s1...(%s, %d bytes)", k.params.UFVKPrefix,
		k.params.Name, len(k.payload))
}
