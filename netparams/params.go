// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import "strings"

// Params is used to group parameters for the Zcash networks the decryptor
// understands.  Network upgrade activation heights are listed explicitly so
// the consensus package can derive the active branch for any height.
type Params struct {
	// Name is the human readable name of the network.
	Name string

	// UFVKPrefix is the human readable part of unified full viewing keys
	// encoded for this network.
	UFVKPrefix string

	// RPCServerPort is the default port of the full node JSON-RPC server.
	RPCServerPort string

	OverwinterHeight uint32
	SaplingHeight    uint32
	BlossomHeight    uint32
	HeartwoodHeight  uint32
	CanopyHeight     uint32
	NU5Height        uint32
	NU6Height        uint32

	// NU6_1Height is the activation height of NU6.1.  NU6.1 shares the
	// NU6 transaction format but stamps its own branch id into v5
	// transaction headers.
	NU6_1Height uint32
}

// MainNetParams contains parameters specific to the Zcash main network.
var MainNetParams = Params{
	Name:             "mainnet",
	UFVKPrefix:       "uview",
	RPCServerPort:    "8232",
	OverwinterHeight: 347_500,
	SaplingHeight:    419_200,
	BlossomHeight:    653_600,
	HeartwoodHeight:  903_000,
	CanopyHeight:     1_046_400,
	NU5Height:        1_687_104,
	NU6Height:        2_726_400,
	NU6_1Height:      3_146_400,
}

// TestNetParams contains parameters specific to the Zcash test network.
var TestNetParams = Params{
	Name:             "testnet",
	UFVKPrefix:       "uviewtest",
	RPCServerPort:    "18232",
	OverwinterHeight: 207_500,
	SaplingHeight:    280_000,
	BlossomHeight:    584_000,
	HeartwoodHeight:  903_800,
	CanopyHeight:     1_028_500,
	NU5Height:        1_842_420,
	NU6Height:        2_976_000,
	NU6_1Height:      2_976_640,
}

// ParamsForUFVK returns the network an encoded unified full viewing key
// belongs to, judged by its textual prefix.  The boolean is false when the
// prefix matches no known network.
func ParamsForUFVK(encoded string) (*Params, bool) {
	// The test network prefix extends the main network one, so it has to
	// be checked first.
	switch {
	case strings.HasPrefix(encoded, TestNetParams.UFVKPrefix+"1"):
		return &TestNetParams, true

	case strings.HasPrefix(encoded, MainNetParams.UFVKPrefix+"1"):
		return &MainNetParams, true

	default:
		return nil, false
	}
}
