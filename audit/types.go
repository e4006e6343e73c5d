// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"context"
	"fmt"
	"sort"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/zaudit/ztxdecrypt/consensus"
	"github.com/zaudit/ztxdecrypt/keys"
	"github.com/zaudit/ztxdecrypt/netparams"
	"github.com/zaudit/ztxdecrypt/zwire"
)

// Pool identifies the shielded pool a note belongs to.
type Pool uint8

const (
	// PoolSapling is the Sapling shielded pool.
	PoolSapling Pool = iota

	// PoolOrchard is the Orchard shielded pool.
	PoolOrchard
)

// String returns the pool name used in reports.
func (p Pool) String() string {
	switch p {
	case PoolSapling:
		return "Sapling"
	case PoolOrchard:
		return "Orchard"
	default:
		return fmt.Sprintf("Unknown Pool (%d)", uint8(p))
	}
}

// TransferType is the relation of a decrypted output to the viewing key.
type TransferType uint8

const (
	// TransferIncoming is a note received from outside the wallet.
	TransferIncoming TransferType = iota

	// TransferWalletInternal is a note the wallet sent to itself, usually
	// change.
	TransferWalletInternal

	// TransferOutgoing is a note sent to a third party and recovered
	// with the outgoing viewing key.
	TransferOutgoing
)

// String returns the transfer type name used in reports.
func (t TransferType) String() string {
	switch t {
	case TransferIncoming:
		return "Incoming"
	case TransferWalletInternal:
		return "WalletInternal"
	case TransferOutgoing:
		return "Outgoing"
	default:
		return fmt.Sprintf("Unknown TransferType (%d)", uint8(t))
	}
}

// DecryptedOutput is a shielded output recovered by trial decryption.
type DecryptedOutput struct {
	Pool     Pool
	Value    uint64 // zatoshis
	Index    int    // position within its pool
	Transfer TransferType

	// Memo is None when no memo field was recovered at all.  A recovered
	// memo keeps its zero padding.
	Memo fn.Option[[]byte]
}

// DecryptedTransaction holds the outputs of one transaction that decrypted
// under a key ring, grouped by pool.
type DecryptedTransaction struct {
	SaplingOutputs []DecryptedOutput
	OrchardOutputs []DecryptedOutput
}

// Outputs returns every decrypted output in canonical order: Sapling outputs
// by ascending index followed by Orchard outputs by ascending index.
func (d *DecryptedTransaction) Outputs() []DecryptedOutput {
	sapling := append([]DecryptedOutput(nil), d.SaplingOutputs...)
	orchard := append([]DecryptedOutput(nil), d.OrchardOutputs...)

	sort.SliceStable(sapling, func(i, j int) bool {
		return sapling[i].Index < sapling[j].Index
	})
	sort.SliceStable(orchard, func(i, j int) bool {
		return orchard[i].Index < orchard[j].Index
	})

	return append(sapling, orchard...)
}

// KeyRing maps account numbers to viewing keys.  The tool audits a single
// account, so rings hold one key at account 0.
type KeyRing map[uint32]*keys.ViewingKey

// SingleAccount returns a ring holding key at account 0.
func SingleAccount(key *keys.ViewingKey) KeyRing {
	return KeyRing{0: key}
}

// DecryptRequest is everything a Decryptor may need to trial decrypt one
// transaction.
type DecryptRequest struct {
	// TxID is the transaction id as given by the caller.
	TxID string

	// Tx is the parsed transaction.
	Tx *zwire.MsgTx

	// Branch is the consensus branch the transaction was decoded under.
	// For v5 transactions it is the branch named in the header, which
	// may differ from the one the height hint gives.
	Branch consensus.BranchID

	// Height is the block height hint.
	Height uint32

	Params *netparams.Params
	Keys   KeyRing
}

// Decryptor trial decrypts the shielded outputs of a parsed transaction
// with the viewing keys of a key ring.  Outputs that do not decrypt are
// simply absent from the result.
type Decryptor interface {
	DecryptTransaction(ctx context.Context,
		req *DecryptRequest) (*DecryptedTransaction, error)
}
