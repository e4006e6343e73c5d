// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package cfgutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNormalizeAddress checks the accepted spellings of node addresses.
func TestNormalizeAddress(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		addr    string
		want    string
		wantErr bool
	}{
		{name: "host only", addr: "127.0.0.1", want: "127.0.0.1:8232"},
		{name: "host and port", addr: "node:18232", want: "node:18232"},
		{name: "url", addr: "http://node:9000/", want: "node:9000"},
		{name: "url without port", addr: "http://node", want: "node:8232"},
		{name: "bare port", addr: ":9000", want: "localhost:9000"},
		{name: "ipv6", addr: "::1", want: "[::1]:8232"},
		{name: "ipv6 with port", addr: "[::1]:9000", want: "[::1]:9000"},
		{name: "empty", addr: " ", wantErr: true},
		{name: "tls", addr: "https://node", wantErr: true},
		{name: "garbage", addr: "[::1", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NormalizeAddress(tc.addr, "8232")
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}
}

// TestExplicitUint32 checks that only parsed values count as explicit.
func TestExplicitUint32(t *testing.T) {
	t.Parallel()

	// Arrange: a flag holding its default.
	f := NewExplicitUint32(2_500_000)
	require.False(t, f.ExplicitlySet())
	s, err := f.MarshalFlag()
	require.NoError(t, err)
	require.Equal(t, "2500000", s)

	// Act: a bad value is refused and leaves the flag untouched.
	require.Error(t, f.UnmarshalFlag("-1"))
	require.Error(t, f.UnmarshalFlag("4294967296"))
	require.False(t, f.ExplicitlySet())

	// Assert: a good value replaces the default and marks the flag.
	require.NoError(t, f.UnmarshalFlag("2500000"))
	require.True(t, f.ExplicitlySet())
	require.EqualValues(t, 2_500_000, f.Value)
}

// TestFileExists checks existing and missing paths.
func TestFileExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "ztxdecrypt.conf")
	require.NoError(t, os.WriteFile(path, nil, 0600))

	ok, err := FileExists(path)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = FileExists(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	require.False(t, ok)
}

// TestCleanAndExpandPath checks home and environment expansion.
func TestCleanAndExpandPath(t *testing.T) {
	t.Setenv("ZTXD_TEST_DIR", "/var/lib/zt")

	require.Equal(t, "/home/auditor/logs",
		CleanAndExpandPath("~/logs/", "/home/auditor"))
	require.Equal(t, "/var/lib/zt/reports.db",
		CleanAndExpandPath("$ZTXD_TEST_DIR//reports.db", "/home"))
	require.Empty(t, CleanAndExpandPath("", "/home"))
}
