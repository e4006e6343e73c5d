// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
)

const testTxID = "0123456789abcdef0123456789abcdef" +
	"fedcba9876543210fedcba9876543210"

var testTime = time.Date(2025, 11, 20, 12, 30, 0, 0, time.UTC)

// TestShortenTxID checks the shortened form and identifier validation.
func TestShortenTxID(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		id   string
		want string
		ok   bool
	}{
		{
			name: "full txid",
			id:   testTxID,
			want: "0123456789abcdef...fedcba9876543210",
			ok:   true,
		},
		{
			name: "minimum length",
			id:   strings.Repeat("ab", 16),
			want: strings.Repeat("ab", 8) + "..." +
				strings.Repeat("ab", 8),
			ok: true,
		},
		{
			name: "odd length",
			id:   strings.Repeat("a", 33),
			want: strings.Repeat("a", 16) + "..." +
				strings.Repeat("a", 16),
			ok: true,
		},
		{name: "empty", id: ""},
		{name: "too short", id: strings.Repeat("a", 31)},
		{name: "not hex", id: strings.Repeat("g", 64)},
		{name: "multibyte", id: strings.Repeat("ⓩ", 16)},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := ShortenTxID(tc.id)
			if !tc.ok {
				require.True(t, IsError(err, ErrInvalidIdentifier))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestAssemble checks the report fields derived from totals.
func TestAssemble(t *testing.T) {
	t.Parallel()

	// Arrange: one incoming, change and outgoing total.
	records := []OutputRecord{
		{"Sapling", 150_000_000, 0, "Incoming", "received", ""},
	}
	totals := TransferTotals{
		Incoming: 150_000_000,
		Internal: 50_000_000,
		Outgoing: 12_345,
	}
	clk := clock.NewTestClock(testTime)

	// Act: assemble the report.
	report, err := Assemble(testTxID, 2_000_000, 2345, records, totals,
		clk)

	// Assert: amounts, ZEC conversions and fixed fee fields.
	require.NoError(t, err)
	require.Equal(t, &TransactionReport{
		TransactionID:   testTxID,
		TransactionHash: "0123456789abcdef...fedcba9876543210",
		AmountZats:      200_000_000,
		AmountZEC:       2,
		IncomingZats:    150_000_000,
		IncomingZEC:     1.5,
		ChangeZats:      50_000_000,
		ChangeZEC:       0.5,
		OutgoingZats:    12_345,
		OutgoingZEC:     0.00012345,
		FeeZats:         0,
		FeeZEC:          0,
		FeeNote:         FeeNote,
		Timestamp:       testTime,
		BlockHeight:     2_000_000,
		Outputs:         records,
		TxSizeBytes:     2345,
	}, report)
}

// TestAssembleNoOutputs checks that a report without records carries an
// empty, non-nil output list.
func TestAssembleNoOutputs(t *testing.T) {
	t.Parallel()

	report, err := Assemble(testTxID, 1, 10, nil, TransferTotals{},
		clock.NewTestClock(testTime))
	require.NoError(t, err)
	require.NotNil(t, report.Outputs)
	require.Empty(t, report.Outputs)
	require.Zero(t, report.AmountZats)
}

// TestAssembleAllOrNothing checks that any failure yields no report.
func TestAssembleAllOrNothing(t *testing.T) {
	t.Parallel()

	clk := clock.NewTestClock(testTime)

	testCases := []struct {
		name   string
		txid   string
		totals TransferTotals
		code   ErrorCode
	}{
		{
			name: "bad id",
			txid: "abc",
			code: ErrInvalidIdentifier,
		},
		{
			name:   "received overflow",
			txid:   testTxID,
			totals: TransferTotals{Incoming: math.MaxInt64, Internal: 1},
			code:   ErrAmountOverflow,
		},
		{
			name:   "outgoing overflow",
			txid:   testTxID,
			totals: TransferTotals{Outgoing: math.MaxUint64},
			code:   ErrAmountOverflow,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			report, err := Assemble(tc.txid, 0, 0, nil, tc.totals,
				clk)
			require.True(t, IsError(err, tc.code), "got %v", err)
			require.Nil(t, report)
		})
	}
}
