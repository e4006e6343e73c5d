// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"encoding/hex"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/zaudit/ztxdecrypt/pkg/unit"
)

const (
	// FeeNote annotates the fee fields, which a viewing key cannot
	// determine.
	FeeNote = "not computed (view-only context)"

	// minTxIDLen is the shortest identifier ShortenTxID accepts.
	minTxIDLen = 32

	// txIDAffixLen is the number of leading and trailing characters kept
	// by ShortenTxID.
	txIDAffixLen = 16
)

// TransactionReport is the value flow summary of one transaction as seen by
// a viewing key.  It is immutable once assembled.
type TransactionReport struct {
	TransactionID   string `json:"transaction_id"`
	TransactionHash string `json:"transaction_hash"`

	// AmountZats is the total received, incoming plus change.
	AmountZats int64   `json:"amount_zats"`
	AmountZEC  float64 `json:"amount_zec"`

	IncomingZats int64   `json:"incoming_zats"`
	IncomingZEC  float64 `json:"incoming_zec"`
	ChangeZats   int64   `json:"change_zats"`
	ChangeZEC    float64 `json:"change_zec"`
	OutgoingZats int64   `json:"outgoing_zats"`
	OutgoingZEC  float64 `json:"outgoing_zec"`

	FeeZats int64   `json:"fee_zats"`
	FeeZEC  float64 `json:"fee_zec"`
	FeeNote string  `json:"fee_note"`

	// Timestamp is when the report was created, not the block time.
	Timestamp   time.Time `json:"timestamp"`
	BlockHeight uint32    `json:"block_height"`

	Outputs     []OutputRecord `json:"outputs"`
	TxSizeBytes int            `json:"tx_size_bytes"`
}

// ShortenTxID returns the first and last 16 characters of a hex transaction
// id joined by "...".
func ShortenTxID(txid string) (string, error) {
	if len(txid) < minTxIDLen {
		return "", auditError(ErrInvalidIdentifier, fmt.Sprintf(
			"transaction id %q is shorter than %d characters",
			txid, minTxIDLen), nil)
	}
	if _, err := hex.DecodeString(evenHex(txid)); err != nil {
		return "", auditError(ErrInvalidIdentifier, fmt.Sprintf(
			"transaction id %q is not hex", txid), err)
	}

	return txid[:txIDAffixLen] + "..." + txid[len(txid)-txIDAffixLen:], nil
}

// evenHex pads an odd length hex string so hex.DecodeString only reports
// invalid characters.
func evenHex(s string) string {
	if len(s)%2 != 0 {
		return s + "0"
	}
	return s
}

// Assemble builds the report of a transaction from its aggregated records
// and totals.  The clock only supplies the report timestamp.  No report is
// returned if any amount overflows or the id is invalid.
func Assemble(txid string, height uint32, sizeBytes int,
	records []OutputRecord, totals TransferTotals,
	clk clock.Clock) (*TransactionReport, error) {

	short, err := ShortenTxID(txid)
	if err != nil {
		return nil, err
	}

	received, err := totals.Received()
	if err != nil {
		return nil, err
	}
	incoming, err := unit.ToInt64(totals.Incoming)
	if err != nil {
		return nil, auditError(ErrAmountOverflow, "incoming total", err)
	}
	change, err := unit.ToInt64(totals.Internal)
	if err != nil {
		return nil, auditError(ErrAmountOverflow, "change total", err)
	}
	outgoing, err := unit.ToInt64(totals.Outgoing)
	if err != nil {
		return nil, auditError(ErrAmountOverflow, "outgoing total", err)
	}

	if records == nil {
		records = []OutputRecord{}
	}

	return &TransactionReport{
		TransactionID:   txid,
		TransactionHash: short,
		AmountZats:      received,
		AmountZEC:       unit.ToZEC(received),
		IncomingZats:    incoming,
		IncomingZEC:     unit.ToZEC(incoming),
		ChangeZats:      change,
		ChangeZEC:       unit.ToZEC(change),
		OutgoingZats:    outgoing,
		OutgoingZEC:     unit.ToZEC(outgoing),
		FeeNote:         FeeNote,
		Timestamp:       clk.Now().UTC(),
		BlockHeight:     height,
		Outputs:         records,
		TxSizeBytes:     sizeBytes,
	}, nil
}
