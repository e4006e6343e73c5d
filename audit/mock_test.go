// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// mockDecryptor is a mock implementation of the Decryptor interface.
type mockDecryptor struct {
	mock.Mock
}

// A compile-time assertion to ensure that mockDecryptor implements the
// Decryptor interface.
var _ Decryptor = (*mockDecryptor)(nil)

// DecryptTransaction implements the Decryptor interface.
func (m *mockDecryptor) DecryptTransaction(ctx context.Context,
	req *DecryptRequest) (*DecryptedTransaction, error) {

	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*DecryptedTransaction), args.Error(1)
}
