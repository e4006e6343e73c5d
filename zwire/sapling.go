// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zwire

import (
	"fmt"
	"io"
)

const (
	// GrothProofSize is the size of a Sapling zk-SNARK proof.
	GrothProofSize = 192

	// SignatureSize is the size of a RedJubjub or RedPallas signature.
	SignatureSize = 64

	// EncCiphertextSize is the size of a note encryption ciphertext
	// including the memo.
	EncCiphertextSize = 580

	// OutCiphertextSize is the size of the outgoing ciphertext.
	OutCiphertextSize = 80

	// saplingSpendV4Size is the size of a v4 spend description.
	saplingSpendV4Size = 32*4 + GrothProofSize + SignatureSize

	// saplingSpendV5Size is the size of a v5 compact spend description.
	saplingSpendV5Size = 32 * 3

	// saplingOutputV4Size is the size of a v4 output description.
	saplingOutputV4Size = saplingOutputV5Size + GrothProofSize

	// saplingOutputV5Size is the size of a v5 compact output description.
	saplingOutputV5Size = 32*3 + EncCiphertextSize + OutCiphertextSize

	// JoinSplitSize is the size of a v4 Groth16 JoinSplit description.
	JoinSplitSize = 1698
)

// SaplingSpend is a Sapling spend description.  In v5 transactions the
// anchor is shared and held on the transaction, so Anchor is left zero.
type SaplingSpend struct {
	CV           [32]byte
	Anchor       [32]byte
	Nullifier    [32]byte
	RK           [32]byte
	Proof        [GrothProofSize]byte
	SpendAuthSig [SignatureSize]byte
}

// SaplingOutput is a Sapling output description.
type SaplingOutput struct {
	CV            [32]byte
	CMU           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [EncCiphertextSize]byte
	OutCiphertext [OutCiphertextSize]byte
	Proof         [GrothProofSize]byte
}

// JoinSplit is an opaque Sprout JoinSplit description.  Sprout notes are
// never decrypted, so only the bytes are retained.
type JoinSplit [JoinSplitSize]byte

// readSaplingOutput reads the fields of an output shared by both transaction
// versions.
func readSaplingOutput(r io.Reader, out *SaplingOutput) error {
	for _, b := range [][]byte{
		out.CV[:], out.CMU[:], out.EphemeralKey[:],
		out.EncCiphertext[:], out.OutCiphertext[:],
	} {
		if err := readFixed(r, b); err != nil {
			return fieldError("sapling output", err)
		}
	}
	return nil
}

func writeSaplingOutput(w io.Writer, out *SaplingOutput) error {
	for _, b := range [][]byte{
		out.CV[:], out.CMU[:], out.EphemeralKey[:],
		out.EncCiphertext[:], out.OutCiphertext[:],
	} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// decodeSaplingV4 reads the value balance, spends, outputs, JoinSplits and
// binding signature of a v4 transaction.
func (msg *MsgTx) decodeSaplingV4(r io.Reader) error {
	var err error
	msg.SaplingValueBalance, err = readInt64(r)
	if err != nil {
		return fieldError("sapling value balance", err)
	}

	count, err := readCount(r, saplingSpendV4Size, "sapling spend")
	if err != nil {
		return fieldError("sapling spend count", err)
	}
	if count > 0 {
		msg.SaplingSpends = make([]*SaplingSpend, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		sp := &SaplingSpend{}
		for _, b := range [][]byte{
			sp.CV[:], sp.Anchor[:], sp.Nullifier[:], sp.RK[:],
			sp.Proof[:], sp.SpendAuthSig[:],
		} {
			if err := readFixed(r, b); err != nil {
				return fieldError("sapling spend", err)
			}
		}
		msg.SaplingSpends = append(msg.SaplingSpends, sp)
	}

	count, err = readCount(r, saplingOutputV4Size, "sapling output")
	if err != nil {
		return fieldError("sapling output count", err)
	}
	if count > 0 {
		msg.SaplingOutputs = make([]*SaplingOutput, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		out := &SaplingOutput{}
		if err := readSaplingOutput(r, out); err != nil {
			return err
		}
		if err := readFixed(r, out.Proof[:]); err != nil {
			return fieldError("sapling output proof", err)
		}
		msg.SaplingOutputs = append(msg.SaplingOutputs, out)
	}

	count, err = readCount(r, JoinSplitSize, "joinsplit")
	if err != nil {
		return fieldError("joinsplit count", err)
	}
	if count > 0 {
		msg.JoinSplits = make([]*JoinSplit, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		js := &JoinSplit{}
		if err := readFixed(r, js[:]); err != nil {
			return fieldError("joinsplit", err)
		}
		msg.JoinSplits = append(msg.JoinSplits, js)
	}
	if len(msg.JoinSplits) > 0 {
		if err := readFixed(r, msg.JoinSplitPubKey[:]); err != nil {
			return fieldError("joinsplit public key", err)
		}
		if err := readFixed(r, msg.JoinSplitSig[:]); err != nil {
			return fieldError("joinsplit signature", err)
		}
	}

	if len(msg.SaplingSpends)+len(msg.SaplingOutputs) > 0 {
		if err := readFixed(r, msg.SaplingBindingSig[:]); err != nil {
			return fieldError("sapling binding signature", err)
		}
	}

	return nil
}

// decodeSaplingV5 reads the Sapling bundle of a v5 transaction.  Proofs and
// signatures follow the compact descriptions and are folded back into them.
func (msg *MsgTx) decodeSaplingV5(r io.Reader) error {
	count, err := readCount(r, saplingSpendV5Size, "sapling spend")
	if err != nil {
		return fieldError("sapling spend count", err)
	}
	if count > 0 {
		msg.SaplingSpends = make([]*SaplingSpend, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		sp := &SaplingSpend{}
		for _, b := range [][]byte{sp.CV[:], sp.Nullifier[:], sp.RK[:]} {
			if err := readFixed(r, b); err != nil {
				return fieldError("sapling spend", err)
			}
		}
		msg.SaplingSpends = append(msg.SaplingSpends, sp)
	}

	count, err = readCount(r, saplingOutputV5Size, "sapling output")
	if err != nil {
		return fieldError("sapling output count", err)
	}
	if count > 0 {
		msg.SaplingOutputs = make([]*SaplingOutput, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		out := &SaplingOutput{}
		if err := readSaplingOutput(r, out); err != nil {
			return err
		}
		msg.SaplingOutputs = append(msg.SaplingOutputs, out)
	}

	if len(msg.SaplingSpends)+len(msg.SaplingOutputs) == 0 {
		return nil
	}

	msg.SaplingValueBalance, err = readInt64(r)
	if err != nil {
		return fieldError("sapling value balance", err)
	}
	if len(msg.SaplingSpends) > 0 {
		if err := readFixed(r, msg.SaplingAnchor[:]); err != nil {
			return fieldError("sapling anchor", err)
		}
	}
	for i, sp := range msg.SaplingSpends {
		if err := readFixed(r, sp.Proof[:]); err != nil {
			return fieldError(fmt.Sprintf("sapling spend proof %d", i), err)
		}
	}
	for i, sp := range msg.SaplingSpends {
		if err := readFixed(r, sp.SpendAuthSig[:]); err != nil {
			return fieldError(fmt.Sprintf("sapling spend auth sig %d", i), err)
		}
	}
	for i, out := range msg.SaplingOutputs {
		if err := readFixed(r, out.Proof[:]); err != nil {
			return fieldError(fmt.Sprintf("sapling output proof %d", i), err)
		}
	}
	if err := readFixed(r, msg.SaplingBindingSig[:]); err != nil {
		return fieldError("sapling binding signature", err)
	}

	return nil
}

func (msg *MsgTx) encodeSaplingV4(w io.Writer) error {
	if err := writeInt64(w, msg.SaplingValueBalance); err != nil {
		return err
	}

	if err := writeCount(w, len(msg.SaplingSpends)); err != nil {
		return err
	}
	for _, sp := range msg.SaplingSpends {
		for _, b := range [][]byte{
			sp.CV[:], sp.Anchor[:], sp.Nullifier[:], sp.RK[:],
			sp.Proof[:], sp.SpendAuthSig[:],
		} {
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	}

	if err := writeCount(w, len(msg.SaplingOutputs)); err != nil {
		return err
	}
	for _, out := range msg.SaplingOutputs {
		if err := writeSaplingOutput(w, out); err != nil {
			return err
		}
		if _, err := w.Write(out.Proof[:]); err != nil {
			return err
		}
	}

	if err := writeCount(w, len(msg.JoinSplits)); err != nil {
		return err
	}
	for _, js := range msg.JoinSplits {
		if _, err := w.Write(js[:]); err != nil {
			return err
		}
	}
	if len(msg.JoinSplits) > 0 {
		if _, err := w.Write(msg.JoinSplitPubKey[:]); err != nil {
			return err
		}
		if _, err := w.Write(msg.JoinSplitSig[:]); err != nil {
			return err
		}
	}

	if len(msg.SaplingSpends)+len(msg.SaplingOutputs) > 0 {
		if _, err := w.Write(msg.SaplingBindingSig[:]); err != nil {
			return err
		}
	}

	return nil
}

func (msg *MsgTx) encodeSaplingV5(w io.Writer) error {
	if err := writeCount(w, len(msg.SaplingSpends)); err != nil {
		return err
	}
	for _, sp := range msg.SaplingSpends {
		for _, b := range [][]byte{sp.CV[:], sp.Nullifier[:], sp.RK[:]} {
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	}

	if err := writeCount(w, len(msg.SaplingOutputs)); err != nil {
		return err
	}
	for _, out := range msg.SaplingOutputs {
		if err := writeSaplingOutput(w, out); err != nil {
			return err
		}
	}

	if len(msg.SaplingSpends)+len(msg.SaplingOutputs) == 0 {
		return nil
	}

	if err := writeInt64(w, msg.SaplingValueBalance); err != nil {
		return err
	}
	if len(msg.SaplingSpends) > 0 {
		if _, err := w.Write(msg.SaplingAnchor[:]); err != nil {
			return err
		}
	}
	for _, sp := range msg.SaplingSpends {
		if _, err := w.Write(sp.Proof[:]); err != nil {
			return err
		}
	}
	for _, sp := range msg.SaplingSpends {
		if _, err := w.Write(sp.SpendAuthSig[:]); err != nil {
			return err
		}
	}
	for _, out := range msg.SaplingOutputs {
		if _, err := w.Write(out.Proof[:]); err != nil {
			return err
		}
	}
	_, err := w.Write(msg.SaplingBindingSig[:])
	return err
}
