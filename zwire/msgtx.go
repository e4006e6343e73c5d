// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zwire

import (
	"bytes"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/btcsuite/btcd/wire"
	"github.com/davecgh/go-spew/spew"
	"github.com/zaudit/ztxdecrypt/consensus"
)

const (
	// TxVersionSapling is the transaction version introduced by Sapling.
	TxVersionSapling = 4

	// TxVersionZip225 is the transaction version introduced by NU5.
	TxVersionZip225 = 5

	// SaplingVersionGroupID is the version group id of v4 transactions.
	SaplingVersionGroupID uint32 = 0x892f2085

	// Zip225VersionGroupID is the version group id of v5 transactions.
	Zip225VersionGroupID uint32 = 0x26a7270a

	// overwinteredFlag is the header bit marking overwintered
	// transactions.
	overwinteredFlag uint32 = 1 << 31

	// minTxInSize is the smallest serialized transparent input: outpoint
	// (36), empty script length (1), sequence (4).
	minTxInSize = 41

	// minTxOutSize is the smallest serialized transparent output: value
	// (8) and empty script length (1).
	minTxOutSize = 9
)

// OutPoint defines a transparent output being spent.
type OutPoint struct {
	Hash  chainhash.Hash
	Index uint32
}

// TxIn defines a transparent transaction input.
type TxIn struct {
	PreviousOutPoint OutPoint
	SignatureScript  []byte
	Sequence         uint32
}

// TxOut defines a transparent transaction output.
type TxOut struct {
	Value    int64
	PkScript []byte
}

// MsgTx is a parsed v4 or v5 Zcash transaction.  Fields that only exist in
// one version are left zero for the other.
type MsgTx struct {
	// Version is the transaction version without the overwintered flag.
	Version        uint32
	VersionGroupID uint32

	// ConsensusBranchID is the branch id committed in v5 headers.  For
	// v4 transactions it holds the branch the transaction was parsed
	// under.
	ConsensusBranchID consensus.BranchID

	LockTime     uint32
	ExpiryHeight uint32

	TxIn  []*TxIn
	TxOut []*TxOut

	SaplingValueBalance int64
	SaplingAnchor       [32]byte // v5 only, shared by all spends
	SaplingSpends       []*SaplingSpend
	SaplingOutputs      []*SaplingOutput
	SaplingBindingSig   [64]byte

	JoinSplits      []*JoinSplit // v4 only
	JoinSplitPubKey [32]byte
	JoinSplitSig    [64]byte

	OrchardActions      []*OrchardAction // v5 only
	OrchardFlags        byte
	OrchardValueBalance int64
	OrchardAnchor       [32]byte
	OrchardProof        []byte
	OrchardBindingSig   [64]byte

	size int
}

// ParseTransaction decodes rawTx under the consensus branch returned by the
// rule set resolver.  The whole input must be consumed.
func ParseTransaction(rawTx []byte, branch consensus.BranchID) (*MsgTx, error) {
	if len(rawTx) > MaxTxSize {
		return nil, messageError("ParseTransaction",
			fmt.Sprintf("transaction is %d bytes", len(rawTx)),
			ErrTooLarge)
	}

	r := bytes.NewReader(rawTx)
	tx := &MsgTx{}
	if err := tx.Deserialize(r, branch); err != nil {
		return nil, err
	}
	if r.Len() != 0 {
		return nil, messageError("ParseTransaction",
			fmt.Sprintf("%d bytes left over", r.Len()),
			ErrTrailingData)
	}
	tx.size = len(rawTx)

	log.Debugf("Parsed v%d transaction under %v: %d sapling outputs, "+
		"%d orchard actions", tx.Version, branch,
		len(tx.SaplingOutputs), len(tx.OrchardActions))
	log.Tracef("Transaction contents: %v", newLogClosure(func() string {
		return spew.Sdump(tx)
	}))

	return tx, nil
}

// Deserialize decodes a transaction from r under the given consensus branch.
func (msg *MsgTx) Deserialize(r io.Reader, branch consensus.BranchID) error {
	header, err := readUint32(r)
	if err != nil {
		return fieldError("header", err)
	}
	if header&overwinteredFlag == 0 {
		return messageError("MsgTx.Deserialize",
			"transaction is not overwintered", ErrUnsupportedVersion)
	}
	msg.Version = header &^ overwinteredFlag

	msg.VersionGroupID, err = readUint32(r)
	if err != nil {
		return fieldError("version group id", err)
	}

	switch msg.Version {
	case TxVersionSapling:
		if msg.VersionGroupID != SaplingVersionGroupID {
			return messageError("MsgTx.Deserialize", fmt.Sprintf(
				"v4 version group id 0x%08x", msg.VersionGroupID),
				ErrUnsupportedVersion)
		}
		if !branch.AtLeast(consensus.Sapling) {
			return messageError("MsgTx.Deserialize", fmt.Sprintf(
				"v4 transaction under %v", branch),
				ErrUnsupportedVersion)
		}
		msg.ConsensusBranchID = branch
		return msg.decodeV4(r)

	case TxVersionZip225:
		if msg.VersionGroupID != Zip225VersionGroupID {
			return messageError("MsgTx.Deserialize", fmt.Sprintf(
				"v5 version group id 0x%08x", msg.VersionGroupID),
				ErrUnsupportedVersion)
		}
		if !branch.AtLeast(consensus.Nu5) {
			return messageError("MsgTx.Deserialize", fmt.Sprintf(
				"v5 transaction under %v", branch),
				ErrUnsupportedVersion)
		}

		id, err := readUint32(r)
		if err != nil {
			return fieldError("consensus branch id", err)
		}
		// The header id wins over the branch derived from the height
		// hint as long as it names a known v5 rule set.
		msg.ConsensusBranchID = consensus.BranchID(id)
		if !msg.ConsensusBranchID.AtLeast(consensus.Nu5) {
			return messageError("MsgTx.Deserialize", fmt.Sprintf(
				"header has %v, parsing under %v",
				msg.ConsensusBranchID, branch), ErrBranchMismatch)
		}
		if msg.ConsensusBranchID != branch {
			log.Debugf("Transaction header names %v, height hint "+
				"gave %v", msg.ConsensusBranchID, branch)
		}
		return msg.decodeV5(r)

	default:
		return messageError("MsgTx.Deserialize", fmt.Sprintf(
			"version %d", msg.Version), ErrUnsupportedVersion)
	}
}

// decodeV4 reads the body of a v4 transaction following the version group
// id.
func (msg *MsgTx) decodeV4(r io.Reader) error {
	if err := msg.decodeTransparent(r); err != nil {
		return err
	}
	if err := msg.decodeLockTimeAndExpiry(r); err != nil {
		return err
	}
	if err := msg.decodeSaplingV4(r); err != nil {
		return err
	}

	return nil
}

// decodeV5 reads the body of a v5 transaction following the consensus branch
// id.
func (msg *MsgTx) decodeV5(r io.Reader) error {
	if err := msg.decodeLockTimeAndExpiry(r); err != nil {
		return err
	}
	if err := msg.decodeTransparent(r); err != nil {
		return err
	}
	if err := msg.decodeSaplingV5(r); err != nil {
		return err
	}
	if err := msg.decodeOrchard(r); err != nil {
		return err
	}

	return nil
}

func (msg *MsgTx) decodeLockTimeAndExpiry(r io.Reader) error {
	var err error
	msg.LockTime, err = readUint32(r)
	if err != nil {
		return fieldError("lock time", err)
	}
	msg.ExpiryHeight, err = readUint32(r)
	if err != nil {
		return fieldError("expiry height", err)
	}

	return nil
}

// decodeTransparent reads the transparent inputs and outputs.
func (msg *MsgTx) decodeTransparent(r io.Reader) error {
	count, err := readCount(r, minTxInSize, "transparent input")
	if err != nil {
		return fieldError("transparent input count", err)
	}
	if count > 0 {
		msg.TxIn = make([]*TxIn, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		ti := &TxIn{}
		if err := readFixed(r, ti.PreviousOutPoint.Hash[:]); err != nil {
			return fieldError("transparent input outpoint", err)
		}
		ti.PreviousOutPoint.Index, err = readUint32(r)
		if err != nil {
			return fieldError("transparent input outpoint", err)
		}
		ti.SignatureScript, err = readVarBytes(r, "signature script")
		if err != nil {
			return fieldError("transparent input script", err)
		}
		ti.Sequence, err = readUint32(r)
		if err != nil {
			return fieldError("transparent input sequence", err)
		}
		msg.TxIn = append(msg.TxIn, ti)
	}

	count, err = readCount(r, minTxOutSize, "transparent output")
	if err != nil {
		return fieldError("transparent output count", err)
	}
	if count > 0 {
		msg.TxOut = make([]*TxOut, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		to := &TxOut{}
		to.Value, err = readInt64(r)
		if err != nil {
			return fieldError("transparent output value", err)
		}
		to.PkScript, err = readVarBytes(r, "public key script")
		if err != nil {
			return fieldError("transparent output script", err)
		}
		msg.TxOut = append(msg.TxOut, to)
	}

	return nil
}

// SerializeSize returns the number of bytes the transaction occupied on the
// wire when it was parsed.  It is zero for transactions built in memory.
func (msg *MsgTx) SerializeSize() int {
	return msg.size
}

// HasShieldedOutputs reports whether the transaction carries any output that
// trial decryption could recover.
func (msg *MsgTx) HasShieldedOutputs() bool {
	return len(msg.SaplingOutputs) > 0 || len(msg.OrchardActions) > 0
}

// Serialize encodes the transaction to w in the wire format of its version.
// It is the inverse of Deserialize and is mostly used to build fixtures.
func (msg *MsgTx) Serialize(w io.Writer) error {
	if err := writeUint32(w, msg.Version|overwinteredFlag); err != nil {
		return err
	}
	if err := writeUint32(w, msg.VersionGroupID); err != nil {
		return err
	}

	switch msg.Version {
	case TxVersionSapling:
		if err := msg.encodeTransparent(w); err != nil {
			return err
		}
		if err := msg.encodeLockTimeAndExpiry(w); err != nil {
			return err
		}
		return msg.encodeSaplingV4(w)

	case TxVersionZip225:
		err := writeUint32(w, uint32(msg.ConsensusBranchID))
		if err != nil {
			return err
		}
		if err := msg.encodeLockTimeAndExpiry(w); err != nil {
			return err
		}
		if err := msg.encodeTransparent(w); err != nil {
			return err
		}
		if err := msg.encodeSaplingV5(w); err != nil {
			return err
		}
		return msg.encodeOrchard(w)

	default:
		return messageError("MsgTx.Serialize", fmt.Sprintf(
			"version %d", msg.Version), ErrUnsupportedVersion)
	}
}

// Bytes returns the serialized transaction.
func (msg *MsgTx) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := msg.Serialize(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (msg *MsgTx) encodeLockTimeAndExpiry(w io.Writer) error {
	if err := writeUint32(w, msg.LockTime); err != nil {
		return err
	}
	return writeUint32(w, msg.ExpiryHeight)
}

func (msg *MsgTx) encodeTransparent(w io.Writer) error {
	if err := writeCount(w, len(msg.TxIn)); err != nil {
		return err
	}
	for _, ti := range msg.TxIn {
		if _, err := w.Write(ti.PreviousOutPoint.Hash[:]); err != nil {
			return err
		}
		if err := writeUint32(w, ti.PreviousOutPoint.Index); err != nil {
			return err
		}
		err := wire.WriteVarBytes(w, pver, ti.SignatureScript)
		if err != nil {
			return err
		}
		if err := writeUint32(w, ti.Sequence); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(msg.TxOut)); err != nil {
		return err
	}
	for _, to := range msg.TxOut {
		if err := writeInt64(w, to.Value); err != nil {
			return err
		}
		if err := wire.WriteVarBytes(w, pver, to.PkScript); err != nil {
			return err
		}
	}

	return nil
}
