// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package consensus

import (
	"bytes"
	"errors"

	"github.com/zaudit/ztxdecrypt/netparams"
)

const (
	// v5HeaderVersion and v5HeaderOverwintered are the first and fourth
	// bytes of an overwintered version 5 transaction header.
	v5HeaderVersion      = 0x05
	v5HeaderOverwintered = 0x80

	// branchIDOffset is the offset of the consensus branch id within a
	// v5 transaction: header (4) || version group id (4) || branch id.
	branchIDOffset = 8

	// minPatchableLen is the shortest input that contains the branch id.
	minPatchableLen = branchIDOffset + 4
)

// ErrEmptyTransaction is returned when there are no transaction bytes to
// resolve.
var ErrEmptyTransaction = errors.New("transaction data is empty")

// Resolution is the outcome of Resolve.
type Resolution struct {
	// Tx holds the bytes that must be handed to the parser.  When Patched
	// is set this is a fresh copy; otherwise it is the caller's slice.
	Tx []byte

	// Branch is the rule set to parse Tx under.
	Branch BranchID

	// Patched records whether the NU6.1 branch id in the header was
	// rewritten to Branch.  A patched transaction no longer hashes to its
	// on-chain txid.
	Patched bool
}

// Resolve picks the consensus branch for a transaction mined at height and
// rewrites the NU6.1 branch id of v5 transactions to the NU6 id the parser
// recognises.  NU6.1 kept the NU6 transaction format, so the rewrite does not
// change anything trial decryption depends on.  The input slice is never
// modified.
//
// Only empty input is an error.  Inputs that do not look like NU6.1 v5
// transactions are returned untouched.
func Resolve(params *netparams.Params, height uint32,
	rawTx []byte) (*Resolution, error) {

	if len(rawTx) == 0 {
		return nil, ErrEmptyTransaction
	}

	branch := ForHeight(params, height)
	res := &Resolution{
		Tx:     rawTx,
		Branch: branch,
	}

	if !nu61Candidate(params, height, rawTx) {
		return res, nil
	}

	patched := make([]byte, len(rawTx))
	copy(patched, rawTx)
	branchBytes := branch.Bytes()
	copy(patched[branchIDOffset:minPatchableLen], branchBytes[:])

	log.Infof("Rewrote %v branch id to %v in v5 transaction header at "+
		"height %d on %s", Nu6_1, branch, height, params.Name)

	res.Tx = patched
	res.Patched = true

	return res, nil
}

// nu61Candidate reports whether rawTx is a v5 transaction carrying the NU6.1
// branch id and height lies in the NU6.1 window of the network.
func nu61Candidate(params *netparams.Params, height uint32, rawTx []byte) bool {
	if height < params.NU6_1Height {
		return false
	}
	if len(rawTx) < minPatchableLen {
		return false
	}
	if rawTx[0] != v5HeaderVersion || rawTx[3] != v5HeaderOverwintered {
		return false
	}

	nu61 := Nu6_1.Bytes()
	return bytes.Equal(rawTx[branchIDOffset:minPatchableLen], nu61[:])
}
