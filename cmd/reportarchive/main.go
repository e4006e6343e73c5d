// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/btcsuite/btcd/btcutil"
	"github.com/jessevdk/go-flags"
	"github.com/zaudit/ztxdecrypt/audit"
	"github.com/zaudit/ztxdecrypt/internal/cfgutil"
	"github.com/zaudit/ztxdecrypt/pkg/unit"
	"github.com/zaudit/ztxdecrypt/reportdb"
)

var datadir = btcutil.AppDataDir("ztxdecrypt", false)

type options struct {
	Force  bool   `short:"f" description:"Force removal without prompt"`
	DbPath string `long:"db" description:"Path to the report archive"`
	Show   string `long:"show" description:"Print the archived report of this transaction id"`
	JSON   bool   `long:"json" description:"Print reports as JSON"`
	Drop   string `long:"drop" description:"Remove the archived report of this transaction id"`
}

func defaultOptions() *options {
	return &options{
		DbPath: filepath.Join(datadir, "reports.db"),
	}
}

func yes(s string) bool {
	switch s {
	case "y", "Y", "yes", "Yes":
		return true
	default:
		return false
	}
}

func no(s string) bool {
	switch s {
	case "n", "N", "no", "No":
		return true
	default:
		return false
	}
}

func main() {
	os.Exit(mainInt())
}

func mainInt() int {
	opts := defaultOptions()
	if _, err := flags.Parse(opts); err != nil {
		return 1
	}
	opts.DbPath = cfgutil.CleanAndExpandPath(opts.DbPath,
		filepath.Dir(datadir))

	if err := run(opts, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	return 0
}

// run performs the action selected by opts.  Listing is the default.
func run(opts *options, in io.Reader, out io.Writer) error {
	if opts.Show != "" && opts.Drop != "" {
		return errors.New("--show and --drop can not be used together")
	}

	exists, err := cfgutil.FileExists(opts.DbPath)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("report archive %s does not exist",
			opts.DbPath)
	}

	// Only dropping needs the write lock.
	open := reportdb.OpenReadOnly
	if opts.Drop != "" {
		open = reportdb.Open
	}
	db, err := open(opts.DbPath)
	if err != nil {
		return fmt.Errorf("failed to open report archive: %w", err)
	}
	defer db.Close()

	switch {
	case opts.Show != "":
		rec, err := db.FetchReport(strings.ToLower(opts.Show))
		if err != nil {
			return err
		}
		if opts.JSON {
			return audit.WriteJSON(out, rec.Report)
		}
		return audit.WriteText(out, rec.Report)

	case opts.Drop != "":
		txid := strings.ToLower(opts.Drop)
		if !opts.Force {
			ok, err := confirm(in, out, fmt.Sprintf(
				"Drop the archived report of %s?", txid))
			if err != nil || !ok {
				return err
			}
		}
		if err := db.DeleteReport(txid); err != nil {
			return err
		}
		fmt.Fprintln(out, "Dropped report", txid)
		return nil

	default:
		return list(db, out)
	}
}

// list prints one line per archived report.
func list(db *reportdb.DB, out io.Writer) error {
	var n int
	err := db.ForEachReport(func(rec *reportdb.ArchivedReport) error {
		n++
		r := rec.Report
		_, err := fmt.Fprintf(out, "%s  height %-9d  received %s ZEC  "+
			"sent %s ZEC  archived %s\n", r.TransactionID,
			rec.Height, unit.FormatZEC(r.AmountZats),
			unit.FormatZEC(r.OutgoingZats),
			rec.Created.Format("2006-01-02 15:04:05"))
		return err
	})
	if err != nil {
		return err
	}
	if n == 0 {
		fmt.Fprintln(out, "The archive holds no reports")
	}

	return nil
}

// confirm asks a yes or no question until it is answered.  End of input
// answers no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprintf(out, "%s [y/N] ", question)

		if !scanner.Scan() {
			// Exit on EOF.
			fmt.Fprintln(out)
			return false, scanner.Err()
		}
		resp := scanner.Text()
		if yes(resp) {
			return true, nil
		}
		if no(resp) || resp == "" {
			return false, nil
		}

		fmt.Fprintln(out, "Enter yes or no.")
	}
}
