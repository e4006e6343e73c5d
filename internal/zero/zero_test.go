// Copyright (c) 2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zero_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/zaudit/ztxdecrypt/internal/zero"
)

func TestBytes(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, 31, 32, 33, 511, 512, 513} {
		b := bytes.Repeat([]byte{0xa5}, n)
		zero.Bytes(b)
		require.Equal(t, make([]byte, n), b, "n=%d", n)
	}

	// A nil slice is a no-op.
	zero.Bytes(nil)
}
