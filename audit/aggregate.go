// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/lightningnetwork/lnd/fn/v2"
	"github.com/zaudit/ztxdecrypt/pkg/unit"
)

const (
	// memoNoMemo is the ZIP 302 leading byte of a memo that carries
	// nothing.
	memoNoMemo = 0xf6

	// memoMaxTextLead is the largest leading byte of a ZIP 302 text memo.
	memoMaxTextLead = 0xf4
)

// Direction labels used in output records.
const (
	DirectionReceived = "received"
	DirectionChange   = "change"
	DirectionSent     = "sent"
)

// OutputRecord is the report form of one decrypted output.
type OutputRecord struct {
	Protocol     string `json:"protocol"`
	AmountZats   int64  `json:"amount_zats"`
	Index        int    `json:"index"`
	TransferType string `json:"transfer_type"`
	Direction    string `json:"direction"`
	Memo         string `json:"memo"`
}

// TransferTotals accumulates decrypted value per transfer direction.  The
// accumulators saturate rather than wrap.
type TransferTotals struct {
	Incoming uint64
	Internal uint64
	Outgoing uint64
}

// add credits value to the accumulator of transfer.
func (t *TransferTotals) add(transfer TransferType, value uint64) {
	switch transfer {
	case TransferIncoming:
		t.Incoming = unit.SaturatingAdd(t.Incoming, value)
	case TransferWalletInternal:
		t.Internal = unit.SaturatingAdd(t.Internal, value)
	case TransferOutgoing:
		t.Outgoing = unit.SaturatingAdd(t.Outgoing, value)
	}
}

// Received returns the total received by the wallet, incoming plus change.
// It fails with ErrAmountOverflow if the sum does not fit in an int64.
func (t TransferTotals) Received() (int64, error) {
	sum, ok := unit.CheckedAdd(t.Incoming, t.Internal)
	if !ok {
		return 0, auditError(ErrAmountOverflow,
			"total received exceeds uint64 range", nil)
	}

	received, err := unit.ToInt64(sum)
	if err != nil {
		return 0, auditError(ErrAmountOverflow,
			"total received exceeds int64 range", err)
	}

	return received, nil
}

// classify returns the transfer type and direction labels of t.
func classify(t TransferType) (string, string, error) {
	switch t {
	case TransferIncoming:
		return "Incoming", DirectionReceived, nil
	case TransferWalletInternal:
		return "WalletInternal", DirectionChange, nil
	case TransferOutgoing:
		return "Outgoing", DirectionSent, nil
	default:
		return "", "", auditError(ErrUnknownClassification,
			fmt.Sprintf("transfer type %d", uint8(t)), nil)
	}
}

// protocol returns the protocol label of p.
func protocol(p Pool) (string, error) {
	switch p {
	case PoolSapling:
		return "Sapling", nil
	case PoolOrchard:
		return "Orchard", nil
	default:
		return "", auditError(ErrUnknownPool,
			fmt.Sprintf("pool %d", uint8(p)), nil)
	}
}

// Aggregate turns decrypted outputs into report records, in input order, and
// totals their values per direction.  Any output with an unknown pool or
// transfer type, or a value that does not fit the report, fails the whole
// aggregation.
func Aggregate(outputs []DecryptedOutput) ([]OutputRecord, TransferTotals,
	error) {

	var totals TransferTotals
	records := make([]OutputRecord, 0, len(outputs))

	for i, out := range outputs {
		transfer, direction, err := classify(out.Transfer)
		if err != nil {
			return nil, TransferTotals{}, err
		}
		proto, err := protocol(out.Pool)
		if err != nil {
			return nil, TransferTotals{}, err
		}

		amount, err := unit.ToInt64(out.Value)
		if err != nil {
			return nil, TransferTotals{}, auditError(
				ErrAmountOverflow, fmt.Sprintf(
					"output %d value", i), err)
		}

		totals.add(out.Transfer, out.Value)

		records = append(records, OutputRecord{
			Protocol:     proto,
			AmountZats:   amount,
			Index:        out.Index,
			TransferType: transfer,
			Direction:    direction,
			Memo:         MemoText(out.Memo),
		})
	}

	log.Debugf("Aggregated %d outputs: incoming=%d change=%d outgoing=%d",
		len(records), totals.Incoming, totals.Internal, totals.Outgoing)

	return records, totals, nil
}

// MemoText renders a memo field for display.  Absent, empty and "no memo"
// fields become the empty string.  Text memos are decoded as UTF-8 with
// invalid sequences replaced, and any other memo is shown as hex.
func MemoText(memo fn.Option[[]byte]) string {
	if memo.IsNone() {
		return ""
	}

	b := bytes.TrimRight(memo.UnwrapOr(nil), "\x00")
	switch {
	case len(b) == 0:
		return ""

	case len(b) == 1 && b[0] == memoNoMemo:
		return ""

	case b[0] <= memoMaxTextLead:
		if utf8.Valid(b) {
			return string(b)
		}
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))

	default:
		return hex.EncodeToString(b)
	}
}
