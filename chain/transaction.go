// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"encoding/hex"
	"fmt"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/lightningnetwork/lnd/fn/v2"
)

// RawTransaction is a transaction as returned by the node.
type RawTransaction struct {
	// Bytes is the serialized transaction.
	Bytes []byte

	// Height is the height of the block that mined the transaction.  It
	// is None for mempool transactions.
	Height fn.Option[uint32]
}

// TxSource fetches raw transactions by id.
type TxSource interface {
	FetchTransaction(ctx context.Context, txid string) (*RawTransaction,
		error)
}

// A compile-time assertion to ensure that RPCClient implements TxSource.
var _ TxSource = (*RPCClient)(nil)

// getRawTransactionResult is the subset of the verbose getrawtransaction
// reply used by the client.
type getRawTransactionResult struct {
	Hex    string `json:"hex"`
	Height *int64 `json:"height"`
}

// FetchTransaction returns the raw bytes and mined height of txid using
// getrawtransaction.  ErrTxNotFound is returned when the node does not know
// the transaction.
func (c *RPCClient) FetchTransaction(ctx context.Context, txid string) (
	*RawTransaction, error) {

	// The node expects the display order id, which is exactly what
	// chainhash parses.
	if _, err := chainhash.NewHashFromStr(txid); err != nil {
		return nil, fmt.Errorf("invalid transaction id %q: %w", txid,
			err)
	}

	var result getRawTransactionResult
	err := c.call(ctx, &result, "getrawtransaction", txid, 1)
	if err != nil {
		return nil, err
	}

	raw, err := hex.DecodeString(result.Hex)
	if err != nil {
		return nil, fmt.Errorf("%w: transaction hex: %v",
			ErrMalformedResponse, err)
	}

	tx := &RawTransaction{
		Bytes:  raw,
		Height: fn.None[uint32](),
	}
	if result.Height != nil && *result.Height >= 0 {
		tx.Height = fn.Some(uint32(*result.Height))
	}

	height := "unmined"
	tx.Height.WhenSome(func(h uint32) {
		height = fmt.Sprintf("height %d", h)
	})
	log.Debugf("Fetched transaction %s (%d bytes, %s)", txid, len(raw),
		height)

	return tx, nil
}
