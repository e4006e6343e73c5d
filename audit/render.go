// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/zaudit/ztxdecrypt/pkg/unit"
)

// WriteJSON writes the report as an indented JSON document followed by a
// newline.
func WriteJSON(w io.Writer, report *TransactionReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

// WriteText writes the report in the fixed human readable layout.
func WriteText(w io.Writer, report *TransactionReport) error {
	bw := bufio.NewWriter(w)

	rule := strings.Repeat("═", 64)
	line := func(format string, args ...interface{}) {
		fmt.Fprintf(bw, format+"\n", args...)
	}
	field := func(label string, value interface{}) {
		line("  %-24s%v", label+":", value)
	}
	outField := func(label string, value interface{}) {
		line("    %-20s%v", label+":", value)
	}

	line("")
	line("╔%s╗", rule)
	line("║         %-55s║", "ZCASH TRANSACTION ANALYSIS")
	line("╚%s╝", rule)
	line("")

	line("Transaction Information:")
	field("ID (TXID)", report.TransactionID)
	field("Hash", report.TransactionHash)
	field("Size", fmt.Sprintf("%d bytes", report.TxSizeBytes))

	line("")
	line("Amount (UFVK-related outputs):")
	amounts := []struct {
		label string
		zats  int64
	}{
		{"Total received", report.AmountZats},
		{"Incoming (external)", report.IncomingZats},
		{"Change (internal)", report.ChangeZats},
		{"Outgoing (OVK view)", report.OutgoingZats},
	}
	for _, a := range amounts {
		field(a.label, unit.FormatZEC(a.zats)+" ZEC")
		field(a.label, fmt.Sprintf("%d zats", a.zats))
	}

	line("")
	line("Fees (not computed – view-only context):")
	field("Fee", unit.FormatZEC(report.FeeZats)+" ZEC")
	field("Fee", fmt.Sprintf("%d zats", report.FeeZats))

	line("")
	line("Timing:")
	field("Timestamp (local run)", report.Timestamp.Format(time.RFC3339))
	field("Block Height (hint)", report.BlockHeight)

	if len(report.Outputs) == 0 {
		line("")
		line("No outputs in this transaction could be decrypted " +
			"with the provided UFVK.")
	} else {
		line("")
		line("Decrypted Outputs (%d):", len(report.Outputs))
		for i, out := range report.Outputs {
			line("  Output #%d:", i+1)
			outField("Protocol", out.Protocol)
			outField("Transfer Type", out.TransferType)
			outField("Direction", out.Direction)
			outField("Index", out.Index)
			outField("Amount", fmt.Sprintf("%d zats", out.AmountZats))
			outField("Amount", unit.FormatZECFixed(out.AmountZats)+
				" ZEC")
			if out.Memo != "" {
				outField("Memo", out.Memo)
			}
		}
	}

	line("")
	line("╚%s╝", rule)
	line("")

	return bw.Flush()
}
