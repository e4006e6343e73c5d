// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package unit

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestSaturatingAdd checks that additions never wrap around.
func TestSaturatingAdd(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		a, b uint64
		want uint64
	}{
		{name: "zero", a: 0, b: 0, want: 0},
		{name: "small", a: 5, b: 3, want: 8},
		{name: "exact max", a: math.MaxUint64 - 1, b: 1, want: math.MaxUint64},
		{name: "overflow", a: math.MaxUint64, b: 1, want: math.MaxUint64},
		{name: "both huge", a: math.MaxUint64, b: math.MaxUint64, want: math.MaxUint64},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, SaturatingAdd(tc.a, tc.b))
		})
	}
}

// TestSaturatingAddMonotonic checks that a running sum never decreases.
func TestSaturatingAddMonotonic(t *testing.T) {
	t.Parallel()

	values := []uint64{
		1, math.MaxUint64 / 2, 7, math.MaxUint64 / 2, 3, math.MaxUint64, 0,
		42,
	}

	var sum uint64
	for _, v := range values {
		next := SaturatingAdd(sum, v)
		require.GreaterOrEqual(t, next, sum)
		sum = next
	}
	require.Equal(t, uint64(math.MaxUint64), sum)
}

// TestCheckedAdd checks the overflow flag of CheckedAdd.
func TestCheckedAdd(t *testing.T) {
	t.Parallel()

	sum, ok := CheckedAdd(2, 3)
	require.True(t, ok)
	require.Equal(t, uint64(5), sum)

	_, ok = CheckedAdd(math.MaxUint64, 1)
	require.False(t, ok)
}

// TestToInt64 checks the checked unsigned to signed conversion.
func TestToInt64(t *testing.T) {
	t.Parallel()

	v, err := ToInt64(math.MaxInt64)
	require.NoError(t, err)
	require.Equal(t, int64(math.MaxInt64), v)

	_, err = ToInt64(math.MaxInt64 + 1)
	require.ErrorIs(t, err, ErrInt64Overflow)
}

// TestFormatZEC checks the decimal renderings of zatoshi amounts.
func TestFormatZEC(t *testing.T) {
	t.Parallel()

	require.Equal(t, "1", FormatZEC(100_000_000))
	require.Equal(t, "0.0001", FormatZEC(10_000))
	require.Equal(t, "0", FormatZEC(0))
	require.Equal(t, "1.00000000", FormatZECFixed(100_000_000))
	require.Equal(t, "0.00012345", FormatZECFixed(12_345))
	require.InDelta(t, 2.5, ToZEC(250_000_000), 1e-12)
}
