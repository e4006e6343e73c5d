// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package prompt

import (
	"bufio"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func init() {
	output = io.Discard
	isTerminal = func(int) bool { return false }
}

// TestNonEmptySecret checks reading piped secrets.
func TestNonEmptySecret(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		input   string
		want    string
		wantErr error
	}{
		{name: "single line", input: "hunter2\n", want: "hunter2"},
		{name: "no newline", input: "hunter2", want: "hunter2"},
		{name: "blank lines skipped", input: "\n  \nsecret \n",
			want: "secret"},
		{name: "empty", input: "", wantErr: ErrEmptyInput},
		{name: "only blanks", input: "\n\n", wantErr: ErrEmptyInput},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := bufio.NewReader(strings.NewReader(tc.input))
			got, err := NonEmptySecret(r, "RPC password")
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, string(got))
		})
	}
}
