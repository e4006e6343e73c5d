// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zwire

import (
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

const (
	// OrchardFlagSpendsEnabled marks an Orchard bundle whose actions may
	// spend notes.
	OrchardFlagSpendsEnabled byte = 0x01

	// OrchardFlagOutputsEnabled marks an Orchard bundle whose actions may
	// create notes.
	OrchardFlagOutputsEnabled byte = 0x02

	// orchardFlagsReserved are the flag bits that must be zero.
	orchardFlagsReserved = ^(OrchardFlagSpendsEnabled |
		OrchardFlagOutputsEnabled)

	// orchardActionSize is the size of an Orchard action without its
	// authorization signature.
	orchardActionSize = 32*5 + EncCiphertextSize + OutCiphertextSize
)

// OrchardAction is an Orchard action description.  Each action spends one
// note and creates one note.
type OrchardAction struct {
	CV            [32]byte
	Nullifier     [32]byte
	RK            [32]byte
	CMX           [32]byte
	EphemeralKey  [32]byte
	EncCiphertext [EncCiphertextSize]byte
	OutCiphertext [OutCiphertextSize]byte
	SpendAuthSig  [SignatureSize]byte
}

func (a *OrchardAction) fields() [][]byte {
	return [][]byte{
		a.CV[:], a.Nullifier[:], a.RK[:], a.CMX[:], a.EphemeralKey[:],
		a.EncCiphertext[:], a.OutCiphertext[:],
	}
}

// decodeOrchard reads the Orchard bundle of a v5 transaction.
func (msg *MsgTx) decodeOrchard(r io.Reader) error {
	count, err := readCount(r, orchardActionSize, "orchard action")
	if err != nil {
		return fieldError("orchard action count", err)
	}
	if count > 0 {
		msg.OrchardActions = make([]*OrchardAction, 0, count)
	}
	for i := uint64(0); i < count; i++ {
		a := &OrchardAction{}
		for _, b := range a.fields() {
			if err := readFixed(r, b); err != nil {
				return fieldError("orchard action", err)
			}
		}
		msg.OrchardActions = append(msg.OrchardActions, a)
	}

	if len(msg.OrchardActions) == 0 {
		return nil
	}

	msg.OrchardFlags, err = readByte(r)
	if err != nil {
		return fieldError("orchard flags", err)
	}
	if msg.OrchardFlags&orchardFlagsReserved != 0 {
		return messageError("MsgTx.Deserialize", fmt.Sprintf(
			"orchard flags 0x%02x set reserved bits",
			msg.OrchardFlags), ErrReservedFlags)
	}

	msg.OrchardValueBalance, err = readInt64(r)
	if err != nil {
		return fieldError("orchard value balance", err)
	}
	if err := readFixed(r, msg.OrchardAnchor[:]); err != nil {
		return fieldError("orchard anchor", err)
	}
	msg.OrchardProof, err = readVarBytes(r, "orchard proof")
	if err != nil {
		return fieldError("orchard proof", err)
	}
	for i, a := range msg.OrchardActions {
		if err := readFixed(r, a.SpendAuthSig[:]); err != nil {
			return fieldError(fmt.Sprintf("orchard spend auth sig %d", i),
				err)
		}
	}
	if err := readFixed(r, msg.OrchardBindingSig[:]); err != nil {
		return fieldError("orchard binding signature", err)
	}

	return nil
}

func (msg *MsgTx) encodeOrchard(w io.Writer) error {
	if err := writeCount(w, len(msg.OrchardActions)); err != nil {
		return err
	}
	for _, a := range msg.OrchardActions {
		for _, b := range a.fields() {
			if _, err := w.Write(b); err != nil {
				return err
			}
		}
	}

	if len(msg.OrchardActions) == 0 {
		return nil
	}

	if _, err := w.Write([]byte{msg.OrchardFlags}); err != nil {
		return err
	}
	if err := writeInt64(w, msg.OrchardValueBalance); err != nil {
		return err
	}
	if _, err := w.Write(msg.OrchardAnchor[:]); err != nil {
		return err
	}
	if err := wire.WriteVarBytes(w, pver, msg.OrchardProof); err != nil {
		return err
	}
	for _, a := range msg.OrchardActions {
		if _, err := w.Write(a.SpendAuthSig[:]); err != nil {
			return err
		}
	}
	_, err := w.Write(msg.OrchardBindingSig[:])
	return err
}
