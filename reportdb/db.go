// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package reportdb archives transaction reports in a walletdb database so
// earlier audits can be listed and compared later.
package reportdb

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/btcsuite/btcwallet/walletdb"
	_ "github.com/btcsuite/btcwallet/walletdb/bdb" // register the driver
	"github.com/lightningnetwork/lnd/clock"
	"github.com/zaudit/ztxdecrypt/audit"
)

const (
	// dbDriver is the walletdb driver backing the archive.
	dbDriver = "bdb"

	// defaultDBTimeout is how long to wait for the database file lock.
	defaultDBTimeout = 10 * time.Second
)

var (
	// reportsBucketKey is the top level bucket holding the TLV record of
	// each archived report keyed by transaction id.
	reportsBucketKey = []byte("reports")

	// reportJSONBucketKey is the top level bucket holding the JSON
	// document of each archived report keyed by transaction id.  It is
	// kept out of the TLV record since reports have no size bound.
	reportJSONBucketKey = []byte("reportjson")

	// ErrReportNotFound is returned when no report is archived for a
	// transaction id.
	ErrReportNotFound = errors.New("report not found")
)

// DB is an archive of transaction reports.
type DB struct {
	db    walletdb.DB
	clock clock.Clock
}

// Open opens the archive at path for reading and writing, creating the file
// and its buckets if they do not exist yet.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	var (
		db  walletdb.DB
		err error
	)
	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		log.Infof("Creating report archive %s", path)
		db, err = walletdb.Create(dbDriver, path, false,
			defaultDBTimeout, false)
	} else {
		db, err = walletdb.Open(dbDriver, path, false,
			defaultDBTimeout, false)
	}
	if err != nil {
		return nil, fmt.Errorf("opening report archive: %w", err)
	}

	err = walletdb.Update(db, func(tx walletdb.ReadWriteTx) error {
		for _, key := range [][]byte{reportsBucketKey,
			reportJSONBucketKey} {

			if _, err := tx.CreateTopLevelBucket(key); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	return newDB(db), nil
}

// OpenReadOnly opens an existing archive without taking the write lock, so
// it can be read while another process archives reports.  Writes fail.
func OpenReadOnly(path string) (*DB, error) {
	db, err := walletdb.Open(dbDriver, path, false, defaultDBTimeout,
		true)
	if err != nil {
		return nil, fmt.Errorf("opening report archive: %w", err)
	}

	return newDB(db), nil
}

func newDB(db walletdb.DB) *DB {
	return &DB{
		db:    db,
		clock: clock.NewDefaultClock(),
	}
}

// Close closes the archive.
func (d *DB) Close() error {
	return d.db.Close()
}

// PutReport archives report under its transaction id, replacing any earlier
// report for the same transaction.
func (d *DB) PutReport(report *audit.TransactionReport) error {
	rec, reportJSON, err := encodeRecord(&ArchivedReport{
		Created: d.clock.Now(),
		Height:  report.BlockHeight,
		Report:  report,
	})
	if err != nil {
		return err
	}

	key := []byte(report.TransactionID)
	err = walletdb.Update(d.db, func(tx walletdb.ReadWriteTx) error {
		err := tx.ReadWriteBucket(reportsBucketKey).Put(key, rec)
		if err != nil {
			return err
		}
		return tx.ReadWriteBucket(reportJSONBucketKey).Put(
			key, reportJSON,
		)
	})
	if err != nil {
		return err
	}

	log.Debugf("Archived report for %s (%d bytes)",
		report.TransactionHash, len(reportJSON))

	return nil
}

// FetchReport returns the archived report of txid, or ErrReportNotFound.
func (d *DB) FetchReport(txid string) (*ArchivedReport, error) {
	var rec *ArchivedReport
	err := walletdb.View(d.db, func(tx walletdb.ReadTx) error {
		records := tx.ReadBucket(reportsBucketKey)
		if records == nil {
			return ErrReportNotFound
		}

		key := []byte(txid)
		v := records.Get(key)
		if v == nil {
			return ErrReportNotFound
		}

		var err error
		rec, err = decodeRecord(v, fetchJSON(tx, key))
		return err
	})
	if err != nil {
		return nil, err
	}

	return rec, nil
}

// DeleteReport removes the archived report of txid, or returns
// ErrReportNotFound when there is none.
func (d *DB) DeleteReport(txid string) error {
	key := []byte(txid)
	err := walletdb.Update(d.db, func(tx walletdb.ReadWriteTx) error {
		records := tx.ReadWriteBucket(reportsBucketKey)
		if records.Get(key) == nil {
			return ErrReportNotFound
		}
		if err := records.Delete(key); err != nil {
			return err
		}
		return tx.ReadWriteBucket(reportJSONBucketKey).Delete(key)
	})
	if err != nil {
		return err
	}

	log.Debugf("Dropped archived report of %s", txid)

	return nil
}

// ForEachReport calls fn for every archived report in transaction id order.
// Iteration stops at the first error, which is returned.
func (d *DB) ForEachReport(fn func(*ArchivedReport) error) error {
	return walletdb.View(d.db, func(tx walletdb.ReadTx) error {
		records := tx.ReadBucket(reportsBucketKey)
		if records == nil {
			return nil
		}
		return records.ForEach(func(k, v []byte) error {
			rec, err := decodeRecord(v, fetchJSON(tx, k))
			if err != nil {
				return fmt.Errorf("report %s: %w", k, err)
			}
			return fn(rec)
		})
	})
}

// fetchJSON returns the JSON document stored for key, or nil.
func fetchJSON(tx walletdb.ReadTx, key []byte) []byte {
	bucket := tx.ReadBucket(reportJSONBucketKey)
	if bucket == nil {
		return nil
	}
	return bucket.Get(key)
}
