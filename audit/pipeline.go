// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"context"
	"errors"
	"fmt"

	"github.com/lightningnetwork/lnd/clock"
	"github.com/zaudit/ztxdecrypt/consensus"
	"github.com/zaudit/ztxdecrypt/netparams"
	"github.com/zaudit/ztxdecrypt/zwire"
)

// PipelineConfig holds the collaborators of a Pipeline.
type PipelineConfig struct {
	// Decryptor performs trial decryption of parsed transactions.
	Decryptor Decryptor

	// Clock stamps reports.  The system clock is used when nil.
	Clock clock.Clock
}

// Request describes one transaction to audit.
type Request struct {
	// TxID is the hex transaction id.  It is carried into the report and
	// never recomputed from RawTx.
	TxID string

	Params *netparams.Params

	// Height is the block height hint that selects the consensus rules.
	Height uint32

	RawTx []byte
	Keys  KeyRing
}

// Pipeline turns raw transactions into reports: resolve the consensus
// branch, parse, trial decrypt, aggregate and assemble.  It holds no
// per-request state and is safe for concurrent use.
type Pipeline struct {
	decryptor Decryptor
	clock     clock.Clock
}

// NewPipeline returns a pipeline using the collaborators of cfg.
func NewPipeline(cfg *PipelineConfig) *Pipeline {
	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	return &Pipeline{
		decryptor: cfg.Decryptor,
		clock:     clk,
	}
}

// Process audits a single transaction.  The context is only passed on to
// the decryptor.
func (p *Pipeline) Process(ctx context.Context, req *Request) (
	*TransactionReport, error) {

	res, err := consensus.Resolve(req.Params, req.Height, req.RawTx)
	if err != nil {
		if errors.Is(err, consensus.ErrEmptyTransaction) {
			return nil, auditError(ErrMalformedInput,
				"resolving consensus branch", err)
		}
		return nil, err
	}

	tx, err := zwire.ParseTransaction(res.Tx, res.Branch)
	if err != nil {
		return nil, auditError(ErrParse, fmt.Sprintf(
			"parsing transaction under %v", res.Branch), err)
	}

	decrypted := &DecryptedTransaction{}
	if tx.HasShieldedOutputs() {
		log.Debugf("Decrypting %d sapling outputs and %d orchard "+
			"actions of %s", len(tx.SaplingOutputs),
			len(tx.OrchardActions), req.TxID)

		decrypted, err = p.decryptor.DecryptTransaction(ctx,
			&DecryptRequest{
				TxID:   req.TxID,
				Tx:     tx,
				Branch: tx.ConsensusBranchID,
				Height: req.Height,
				Params: req.Params,
				Keys:   req.Keys,
			})
		if err != nil {
			return nil, auditError(ErrDecrypt, "trial decryption",
				err)
		}
		if decrypted == nil {
			decrypted = &DecryptedTransaction{}
		}
	} else {
		log.Debugf("%s has no shielded outputs to decrypt", req.TxID)
	}

	records, totals, err := Aggregate(decrypted.Outputs())
	if err != nil {
		return nil, err
	}

	report, err := Assemble(req.TxID, req.Height, len(req.RawTx),
		records, totals, p.clock)
	if err != nil {
		return nil, err
	}

	log.Infof("Audited %s: %d outputs decrypted, received %d zats, "+
		"sent %d zats", report.TransactionHash, len(report.Outputs),
		report.AmountZats, report.OutgoingZats)

	return report, nil
}
