// Copyright (c) 2013-2015 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package zwire

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedVersion is returned for transaction versions the
	// parser cannot decode.
	ErrUnsupportedVersion = errors.New("unsupported transaction version")

	// ErrBranchMismatch is returned when a v5 transaction header names a
	// consensus branch that is unknown or older than NU5.
	ErrBranchMismatch = errors.New("consensus branch id mismatch")

	// ErrTruncated is returned when the input ends in the middle of a
	// field.
	ErrTruncated = errors.New("transaction data truncated")

	// ErrTrailingData is returned when bytes remain after the last field
	// of the transaction.
	ErrTrailingData = errors.New("trailing data after transaction")

	// ErrTooLarge is returned for counts or lengths that cannot fit in a
	// valid transaction.
	ErrTooLarge = errors.New("size exceeds transaction limit")

	// ErrReservedFlags is returned when an Orchard bundle sets flag bits
	// that are reserved.
	ErrReservedFlags = errors.New("reserved orchard flags set")
)

// MessageError describes an issue with a transaction envelope.  Err, when
// set, is one of the sentinel errors of this package or an error from the
// underlying reader.
type MessageError struct {
	Func        string // Function name
	Description string // Human readable description of the issue
	Err         error  // Underlying cause
}

// Error satisfies the error interface and prints human-readable errors.
func (e *MessageError) Error() string {
	msg := e.Description
	if e.Func != "" {
		msg = fmt.Sprintf("%v: %v", e.Func, msg)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%v: %v", msg, e.Err)
	}
	return msg
}

// Unwrap returns the underlying cause so errors.Is can match the sentinel
// errors.
func (e *MessageError) Unwrap() error {
	return e.Err
}

// messageError creates an error for the given function and description.
func messageError(f, desc string, err error) *MessageError {
	return &MessageError{Func: f, Description: desc, Err: err}
}
