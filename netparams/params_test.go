// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package netparams

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestParamsForUFVK checks that key prefixes select the right network.
func TestParamsForUFVK(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		encoded string
		want    *Params
	}{
		{
			name:    "mainnet",
			encoded: "uview1qqqqqq",
			want:    &MainNetParams,
		},
		{
			name:    "testnet",
			encoded: "uviewtest1qqqqqq",
			want:    &TestNetParams,
		},
		{
			name:    "sapling extended key",
			encoded: "zxviews1qqqqqq",
		},
		{
			name:    "missing separator",
			encoded: "uviewtestqqqq",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			params, ok := ParamsForUFVK(tc.encoded)
			if tc.want == nil {
				require.False(t, ok)
				require.Nil(t, params)
				return
			}

			require.True(t, ok)
			require.Same(t, tc.want, params)
		})
	}
}

// TestActivationOrder makes sure the upgrade heights of every network are
// strictly increasing.
func TestActivationOrder(t *testing.T) {
	t.Parallel()

	for _, params := range []*Params{&MainNetParams, &TestNetParams} {
		heights := []uint32{
			params.OverwinterHeight, params.SaplingHeight,
			params.BlossomHeight, params.HeartwoodHeight,
			params.CanopyHeight, params.NU5Height, params.NU6Height,
			params.NU6_1Height,
		}
		for i := 1; i < len(heights); i++ {
			require.Greater(t, heights[i], heights[i-1], params.Name)
		}
	}
}
