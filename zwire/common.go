// Copyright (c) 2013-2016 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zwire

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/btcsuite/btcd/wire"
)

const (
	// MaxTxSize is the maximum serialized size of a transaction, equal to
	// the maximum block size.
	MaxTxSize = 2_000_000

	// pver is the protocol version handed to the btcd wire helpers.  The
	// compact size encoding does not vary with it.
	pver = 0
)

// readUint32 reads a little-endian uint32.
func readUint32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}

// readInt64 reads a little-endian int64.
func readInt64(r io.Reader) (int64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(buf[:])), nil
}

// readByte reads a single byte.
func readByte(r io.Reader) (byte, error) {
	var buf [1]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return buf[0], nil
}

// readFixed fills b from r.
func readFixed(r io.Reader, b []byte) error {
	_, err := io.ReadFull(r, b)
	return err
}

// readCount reads a compact size element count.  Counts that could not fit
// into a transaction of MaxTxSize bytes, given the minimum serialized size of
// one element, are rejected before anything is allocated.
func readCount(r io.Reader, minElemSize int, field string) (uint64, error) {
	count, err := wire.ReadVarInt(r, pver)
	if err != nil {
		return 0, err
	}

	maxCount := uint64(MaxTxSize / minElemSize)
	if count > maxCount {
		return 0, fmt.Errorf("%w: %s count %d, max %d", ErrTooLarge,
			field, count, maxCount)
	}

	return count, nil
}

// readVarBytes reads a compact size length prefixed byte slice bounded by
// MaxTxSize.
func readVarBytes(r io.Reader, field string) ([]byte, error) {
	return wire.ReadVarBytes(r, pver, MaxTxSize, field)
}

// writeUint32 writes a little-endian uint32.
func writeUint32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

// writeInt64 writes a little-endian int64.
func writeInt64(w io.Writer, v int64) error {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(v))
	_, err := w.Write(buf[:])
	return err
}

// writeCount writes a compact size element count.
func writeCount(w io.Writer, n int) error {
	return wire.WriteVarInt(w, pver, uint64(n))
}

// fieldError wraps a failure to decode field in a MessageError.  Short reads
// are reported as ErrTruncated.
func fieldError(field string, err error) error {
	var msgErr *MessageError
	if errors.As(err, &msgErr) {
		return err
	}
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = ErrTruncated
	}

	return messageError("MsgTx.Deserialize", "reading "+field, err)
}
