// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"errors"

	"github.com/btcsuite/btcd/btcjson"
)

var (
	// ErrTxNotFound is returned when the node does not know the requested
	// transaction.
	ErrTxNotFound = errors.New("transaction not found")

	// ErrUnknownPool is returned when the node reports a decrypted output
	// from a pool other than Sapling or Orchard.
	ErrUnknownPool = errors.New("unknown shielded pool")

	// ErrOutputIndex is returned when the node reports an output index
	// the parsed transaction does not have.
	ErrOutputIndex = errors.New("output index out of range")

	// ErrMalformedResponse is returned when a node reply cannot be
	// interpreted.
	ErrMalformedResponse = errors.New("malformed node response")

	// ErrNoViewingKey is returned when a decrypt request carries no
	// viewing key.
	ErrNoViewingKey = errors.New("no viewing key to decrypt with")

	// ErrKeyNotTracked is returned when the node wallet does not know the
	// viewing key of a decrypt request.
	ErrKeyNotTracked = errors.New("viewing key not tracked by the " +
		"node wallet")

	// ErrTxIDMismatch is returned when the node describes a different
	// transaction than the one requested.
	ErrTxIDMismatch = errors.New("node replied for another transaction")
)

// MapRPCErr maps an error returned by the node into the errors of this
// package where one applies.
func MapRPCErr(err error) error {
	var rpcErr *btcjson.RPCError
	if errors.As(err, &rpcErr) &&
		rpcErr.Code == btcjson.ErrRPCInvalidAddressOrKey {

		return errors.Join(ErrTxNotFound, err)
	}

	return err
}
