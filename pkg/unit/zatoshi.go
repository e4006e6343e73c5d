// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package unit provides helpers for dealing with Zcash monetary units.
package unit

import (
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/btcsuite/btcd/btcutil"
)

const (
	// ZatsPerZEC is the number of zatoshis in one ZEC.  It matches the
	// satoshi scale, which is why btcutil.Amount is reused for
	// conversions.
	ZatsPerZEC = btcutil.SatoshiPerBitcoin

	// zecDecimals is the number of decimal places of a ZEC amount.
	zecDecimals = 8
)

// ErrInt64Overflow is returned when an unsigned amount does not fit into a
// signed 64-bit field.
var ErrInt64Overflow = errors.New("amount exceeds int64 range")

// SaturatingAdd returns a+b, capped at math.MaxUint64 instead of wrapping.
func SaturatingAdd(a, b uint64) uint64 {
	sum := a + b
	if sum < a {
		return math.MaxUint64
	}

	return sum
}

// CheckedAdd returns a+b, or false if the sum overflows a uint64.
func CheckedAdd(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}

	return sum, true
}

// ToInt64 converts u to an int64, failing with ErrInt64Overflow instead of
// truncating when u is above math.MaxInt64.
func ToInt64(u uint64) (int64, error) {
	if u > math.MaxInt64 {
		return 0, fmt.Errorf("%w: %d", ErrInt64Overflow, u)
	}

	return int64(u), nil
}

// ToZEC returns the decimal ZEC value of an amount in zatoshis.
func ToZEC(zats int64) float64 {
	return btcutil.Amount(zats).ToBTC()
}

// FormatZEC formats an amount in zatoshis as a ZEC string with the shortest
// representation that round trips, e.g. "1" or "0.0001".
func FormatZEC(zats int64) string {
	return strconv.FormatFloat(ToZEC(zats), 'f', -1, 64)
}

// FormatZECFixed formats an amount in zatoshis as a ZEC string with all eight
// decimal places.
func FormatZECFixed(zats int64) string {
	return strconv.FormatFloat(ToZEC(zats), 'f', zecDecimals, 64)
}
