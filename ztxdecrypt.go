// Copyright (c) 2013-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	flags "github.com/jessevdk/go-flags"
	"github.com/zaudit/ztxdecrypt/audit"
	"github.com/zaudit/ztxdecrypt/chain"
	"github.com/zaudit/ztxdecrypt/reportdb"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Work around defer not working after os.Exit.
	if err := ztxdecryptMain(); err != nil {
		var flagsErr *flags.Error
		if errors.As(err, &flagsErr) {
			// The flags parser already printed the problem.
			if flagsErr.Type == flags.ErrHelp {
				os.Exit(0)
			}
			os.Exit(1)
		}

		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// ztxdecryptMain is a work-around main function that is required since
// deferred functions (such as log flushing) are not called with calls to
// os.Exit.  Instead, main runs this function and checks for a non-nil error,
// at which point any defers have already run, and if the error is non-nil,
// the program can be exited with an error exit status.
func ztxdecryptMain() error {
	// Load configuration and parse command line.
	cfg, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}
	if err := cfg.promptMissing(bufio.NewReader(os.Stdin)); err != nil {
		return err
	}

	if err := initLogging(cfg); err != nil {
		return err
	}
	defer logRotator.Close()

	log.Infof("Version %s, auditing %d %s on %s", version(),
		len(cfg.TxIDs), pickNoun(len(cfg.TxIDs), "transaction",
			"transactions"), cfg.params.Name)

	// Interrupts cancel the context, which abandons outstanding node
	// calls.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	addInterruptHandler(cancel)

	client, err := chain.NewRPCClient(&chain.RPCClientConfig{
		Host:    cfg.RPCConnect,
		User:    cfg.RPCUser,
		Pass:    cfg.RPCPass,
		Timeout: cfg.RPCTimeout,
	})
	if err != nil {
		return fmt.Errorf("unable to create RPC client: %w", err)
	}
	defer client.Stop()

	var archive *reportdb.DB
	if cfg.ArchiveDB != "" {
		archive, err = reportdb.Open(cfg.ArchiveDB)
		if err != nil {
			return err
		}
		defer archive.Close()
	}

	pipeline := audit.NewPipeline(&audit.PipelineConfig{
		Decryptor: client,
	})
	results := auditAll(ctx, cfg, client, pipeline)

	return emitReports(os.Stdout, os.Stderr, cfg.Format, results, archive)
}

// initLogging starts the log file of the network the viewing key belongs to
// and applies the requested debug levels.
func initLogging(cfg *config) error {
	logDir := filepath.Join(cfg.LogDir, cfg.params.Name)
	if err := initLogRotator(filepath.Join(logDir, defaultLogFilename)); err != nil {
		return err
	}

	setLogLevels(defaultLogLevel)
	return parseAndSetDebugLevels(cfg.DebugLevel)
}

// auditResult is the outcome of auditing one transaction.
type auditResult struct {
	txid   string
	report *audit.TransactionReport
	err    error
}

// auditAll audits every configured transaction with at most cfg.MaxWorkers
// running at once.  Results are returned in the order the ids were given.
// A failed transaction does not stop the others, while a cancelled context
// does.
func auditAll(ctx context.Context, cfg *config, src chain.TxSource,
	pipeline *audit.Pipeline) []auditResult {

	results := make([]auditResult, len(cfg.TxIDs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.MaxWorkers)
	for i, txid := range cfg.TxIDs {
		results[i].txid = txid

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				results[i].err = err
				return err
			}

			report, err := auditTransaction(gctx, cfg, src,
				pipeline, txid)
			results[i].report, results[i].err = report, err
			if err != nil {
				log.Debugf("Audit of %s failed: %v", txid, err)
			}

			// Only cancellation aborts the batch.
			return gctx.Err()
		})
	}

	if err := g.Wait(); err != nil {
		log.Warnf("Audit aborted: %v", err)
	}

	return results
}

// errRawTxMismatch is returned when the node holds different bytes under
// the transaction id given for a raw transaction.
var errRawTxMismatch = errors.New("raw transaction does not match the " +
	"node's transaction of that id")

// auditTransaction fetches the transaction and runs it through the pipeline.
// A raw transaction given by the user is checked against the node's copy,
// since the node decrypts the transaction it knows under the id.  The mined
// height reported by the node replaces the default height, but never a
// height the user chose.
func auditTransaction(ctx context.Context, cfg *config, src chain.TxSource,
	pipeline *audit.Pipeline, txid string) (*audit.TransactionReport,
	error) {

	rawTx := cfg.rawTx
	height := cfg.Height.Value

	tx, err := src.FetchTransaction(ctx, txid)
	switch {
	case err == nil:
		if rawTx != nil && !bytes.Equal(rawTx, tx.Bytes) {
			return nil, errRawTxMismatch
		}
		rawTx = tx.Bytes

		if !cfg.Height.ExplicitlySet() {
			tx.Height.WhenSome(func(h uint32) {
				height = h
			})
		}

	// Without a transaction index the node may not serve the raw
	// transaction even though its wallet can decrypt it.
	case rawTx != nil && errors.Is(err, chain.ErrTxNotFound):
		log.Warnf("Node does not serve %s, unable to check the raw "+
			"transaction against it", txid)

	default:
		return nil, err
	}

	return pipeline.Process(ctx, &audit.Request{
		TxID:   txid,
		Params: cfg.params,
		Height: height,
		RawTx:  rawTx,
		Keys:   audit.SingleAccount(cfg.viewingKey),
	})
}

// emitReports writes the reports in order to out in the requested format
// and archives them when an archive is open.  Failures are written to
// errOut.  An error is returned when any transaction failed.
func emitReports(out, errOut io.Writer, format string, results []auditResult,
	archive *reportdb.DB) error {

	var failed int
	for i, res := range results {
		if res.err != nil {
			failed++
			fmt.Fprintf(errOut, "%s: %v\n", res.txid, res.err)
			continue
		}

		if i > 0 && format == formatPretty {
			fmt.Fprintln(out)
		}

		var err error
		switch format {
		case formatJSON:
			err = audit.WriteJSON(out, res.report)
		default:
			err = audit.WriteText(out, res.report)
		}
		if err != nil {
			return err
		}

		if archive != nil {
			if err := archive.PutReport(res.report); err != nil {
				return fmt.Errorf("archiving report of %s: %w",
					res.txid, err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d %s failed", failed, len(results),
			pickNoun(len(results), "transaction", "transactions"))
	}

	return nil
}
