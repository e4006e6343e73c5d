// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/stretchr/testify/require"
	"github.com/zaudit/ztxdecrypt/audit"
	"github.com/zaudit/ztxdecrypt/reportdb"
)

var txid = strings.Repeat("9f", 32)

// setupArchive creates an archive holding one report and returns its path.
func setupArchive(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "reports.db")
	db, err := reportdb.Open(path)
	require.NoError(t, err)

	clk := clock.NewTestClock(time.Date(2025, 11, 20, 0, 0, 0, 0,
		time.UTC))
	report, err := audit.Assemble(txid, 2_976_650, 2112, nil,
		audit.TransferTotals{}, clk)
	require.NoError(t, err)
	require.NoError(t, db.PutReport(report))
	require.NoError(t, db.Close())

	return path
}

// TestRunList checks the default listing.
func TestRunList(t *testing.T) {
	t.Parallel()

	opts := &options{DbPath: setupArchive(t)}

	var out bytes.Buffer
	require.NoError(t, run(opts, strings.NewReader(""), &out))
	require.Contains(t, out.String(), txid+"  height 2976650")
	require.Contains(t, out.String(), "received 0 ZEC")
}

// TestRunShow checks printing a single report in both formats.
func TestRunShow(t *testing.T) {
	t.Parallel()

	path := setupArchive(t)

	var text, js bytes.Buffer
	require.NoError(t, run(&options{DbPath: path,
		Show: strings.ToUpper(txid)}, nil, &text))
	require.Contains(t, text.String(), "2976650")

	require.NoError(t, run(&options{DbPath: path, Show: txid, JSON: true},
		nil, &js))
	require.Contains(t, js.String(), `"transaction_id": "`+txid+`"`)
}

// TestRunDrop checks the confirmation prompt of --drop.
func TestRunDrop(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		force   bool
		dropped bool
	}{
		{name: "declined", input: "n\n"},
		{name: "eof", input: ""},
		{name: "retry then yes", input: "maybe\nyes\n", dropped: true},
		{name: "forced", force: true, dropped: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			// Arrange: an archive holding the report.
			path := setupArchive(t)
			opts := &options{DbPath: path, Drop: txid, Force: tc.force}

			// Act: drop it with the scripted answers.
			var out bytes.Buffer
			err := run(opts, strings.NewReader(tc.input), &out)
			require.NoError(t, err)

			// Assert: the report is gone only when confirmed.
			db, err := reportdb.Open(path)
			require.NoError(t, err)
			defer db.Close()

			_, err = db.FetchReport(txid)
			if tc.dropped {
				require.ErrorIs(t, err, reportdb.ErrReportNotFound)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestRunErrors checks invalid invocations.
func TestRunErrors(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "missing.db")
	require.Error(t, run(&options{DbPath: missing}, nil, &bytes.Buffer{}))

	require.Error(t, run(&options{DbPath: setupArchive(t), Show: txid,
		Drop: txid}, nil, &bytes.Buffer{}))

	err := run(&options{DbPath: setupArchive(t),
		Show: strings.Repeat("00", 32)}, nil, &bytes.Buffer{})
	require.ErrorIs(t, err, reportdb.ErrReportNotFound)
}
