// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package reportdb

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lightningnetwork/lnd/tlv"
	"github.com/zaudit/ztxdecrypt/audit"
)

const (
	typeCreated tlv.Type = 1
	typeHeight  tlv.Type = 2
)

// ArchivedReport is a report as stored in the archive.
type ArchivedReport struct {
	// Created is when the report was archived, truncated to seconds.
	Created time.Time

	// Height is the block height the report was built at.
	Height uint32

	Report *audit.TransactionReport
}

// encodeRecord serializes the archive metadata as a TLV stream and the
// report itself in its JSON form, so archives stay readable by other tools.
// The two are stored under separate buckets.
func encodeRecord(r *ArchivedReport) ([]byte, []byte, error) {
	if r.Report == nil {
		return nil, nil, fmt.Errorf("cannot encode nil report")
	}

	reportJSON, err := json.Marshal(r.Report)
	if err != nil {
		return nil, nil, err
	}

	created := uint64(r.Created.Unix())
	height := r.Height

	tlvStream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeCreated, &created),
		tlv.MakePrimitiveRecord(typeHeight, &height),
	)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	if err := tlvStream.Encode(&buf); err != nil {
		return nil, nil, err
	}

	return buf.Bytes(), reportJSON, nil
}

// decodeRecord parses a TLV stream written by encodeRecord together with
// the JSON document stored beside it.
func decodeRecord(b, reportJSON []byte) (*ArchivedReport, error) {
	var (
		created uint64
		height  uint32
	)

	tlvStream, err := tlv.NewStream(
		tlv.MakePrimitiveRecord(typeCreated, &created),
		tlv.MakePrimitiveRecord(typeHeight, &height),
	)
	if err != nil {
		return nil, err
	}

	parsedTypes, err := tlvStream.DecodeWithParsedTypes(
		bytes.NewReader(b),
	)
	if err != nil {
		return nil, err
	}
	if _, ok := parsedTypes[typeCreated]; !ok {
		return nil, fmt.Errorf("record has no creation time")
	}
	if reportJSON == nil {
		return nil, fmt.Errorf("record has no report")
	}

	var report audit.TransactionReport
	if err := json.Unmarshal(reportJSON, &report); err != nil {
		return nil, fmt.Errorf("decoding report: %w", err)
	}

	return &ArchivedReport{
		Created: time.Unix(int64(created), 0).UTC(),
		Height:  height,
		Report:  &report,
	}, nil
}
