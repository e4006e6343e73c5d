// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package chain

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/davecgh/go-spew/spew"
	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/zaudit/ztxdecrypt/audit"
	"github.com/zaudit/ztxdecrypt/keys"
)

// Pool names used by z_viewtransaction.
const (
	poolSapling = "sapling"
	poolOrchard = "orchard"
)

// A compile-time assertion to ensure that RPCClient implements the
// audit.Decryptor interface.
var _ audit.Decryptor = (*RPCClient)(nil)

// viewTransactionResult is the subset of the z_viewtransaction reply used by
// the client.
type viewTransactionResult struct {
	TxID    string                  `json:"txid"`
	Outputs []viewTransactionOutput `json:"outputs"`
}

// viewTransactionOutput is one decrypted output.  Sapling outputs carry
// their index in "output", Orchard outputs in "action".
type viewTransactionOutput struct {
	Pool           string  `json:"pool"`
	Output         *int    `json:"output"`
	Action         *int    `json:"action"`
	ValueZat       uint64  `json:"valueZat"`
	Outgoing       bool    `json:"outgoing"`
	WalletInternal bool    `json:"walletInternal"`
	Memo           *string `json:"memo"`
}

// DecryptTransaction asks the node wallet to trial decrypt the transaction
// with z_viewtransaction.  Every viewing key of the request must be tracked
// by the node wallet, which is checked with z_getbalanceforviewingkey first.
// Outputs the wallet cannot decrypt are not reported.  Every output the node
// reports is checked against the parsed transaction.
func (c *RPCClient) DecryptTransaction(ctx context.Context,
	req *audit.DecryptRequest) (*audit.DecryptedTransaction, error) {

	if len(req.Keys) == 0 {
		return nil, ErrNoViewingKey
	}

	accounts := make([]uint32, 0, len(req.Keys))
	for account := range req.Keys {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i] < accounts[j]
	})
	for _, account := range accounts {
		key := req.Keys[account]
		if err := c.checkViewingKey(ctx, key); err != nil {
			return nil, err
		}
		log.Debugf("Decrypting %s for account %d with %v", req.TxID,
			account, key)
	}

	var result viewTransactionResult
	err := c.call(ctx, &result, "z_viewtransaction", req.TxID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(result.TxID, req.TxID) {
		return nil, fmt.Errorf("%w: asked for %s, got %q",
			ErrTxIDMismatch, req.TxID, result.TxID)
	}

	log.Tracef("z_viewtransaction reply: %v", NewLogClosure(func() string {
		return spew.Sdump(result)
	}))

	dtx := &audit.DecryptedTransaction{}
	for i, out := range result.Outputs {
		decrypted, err := decodeViewOutput(&out)
		if err != nil {
			return nil, fmt.Errorf("output %d: %w", i, err)
		}

		switch decrypted.Pool {
		case audit.PoolSapling:
			if decrypted.Index >= len(req.Tx.SaplingOutputs) {
				return nil, fmt.Errorf("%w: sapling output %d "+
					"of %d", ErrOutputIndex, decrypted.Index,
					len(req.Tx.SaplingOutputs))
			}
			dtx.SaplingOutputs = append(dtx.SaplingOutputs,
				*decrypted)

		case audit.PoolOrchard:
			if decrypted.Index >= len(req.Tx.OrchardActions) {
				return nil, fmt.Errorf("%w: orchard action %d "+
					"of %d", ErrOutputIndex, decrypted.Index,
					len(req.Tx.OrchardActions))
			}
			dtx.OrchardOutputs = append(dtx.OrchardOutputs,
				*decrypted)
		}
	}

	return dtx, nil
}

// checkViewingKey makes sure the node wallet tracks key.  The balance
// itself is not used.
func (c *RPCClient) checkViewingKey(ctx context.Context,
	key *keys.ViewingKey) error {

	if key == nil {
		return ErrNoViewingKey
	}

	var balance json.RawMessage
	err := c.call(ctx, &balance, "z_getbalanceforviewingkey",
		key.Encoded())

	var rpcErr *btcjson.RPCError
	switch {
	case err == nil:
		return nil

	// The node rejecting the key means its wallet cannot decrypt with
	// it.  Transport failures are passed on as they are.
	case errors.As(err, &rpcErr):
		return fmt.Errorf("%w: %v: %s", ErrKeyNotTracked, key,
			rpcErr.Message)

	default:
		return err
	}
}

// decodeViewOutput converts one z_viewtransaction output.
func decodeViewOutput(out *viewTransactionOutput) (*audit.DecryptedOutput,
	error) {

	var (
		decrypted audit.DecryptedOutput
		index     *int
	)
	switch out.Pool {
	case poolSapling:
		decrypted.Pool = audit.PoolSapling
		index = out.Output

	case poolOrchard:
		decrypted.Pool = audit.PoolOrchard
		index = out.Action

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPool, out.Pool)
	}
	if index == nil || *index < 0 {
		return nil, fmt.Errorf("%w: %s output without index",
			ErrMalformedResponse, out.Pool)
	}
	decrypted.Index = *index
	decrypted.Value = out.ValueZat

	switch {
	case out.Outgoing:
		decrypted.Transfer = audit.TransferOutgoing
	case out.WalletInternal:
		decrypted.Transfer = audit.TransferWalletInternal
	default:
		decrypted.Transfer = audit.TransferIncoming
	}

	decrypted.Memo = fn.None[[]byte]()
	if out.Memo != nil {
		memo, err := hex.DecodeString(*out.Memo)
		if err != nil {
			return nil, fmt.Errorf("%w: memo: %v",
				ErrMalformedResponse, err)
		}
		decrypted.Memo = fn.Some(memo)
	}

	return &decrypted, nil
}
