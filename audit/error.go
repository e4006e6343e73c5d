// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package audit

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a kind of error.
type ErrorCode int

// These constants are used to identify a specific Error.
const (
	// ErrMalformedInput indicates the raw transaction could not be
	// handed to the parser at all, e.g. because it is empty.
	ErrMalformedInput ErrorCode = iota

	// ErrParse indicates the transaction envelope could not be decoded
	// under the resolved consensus branch.  The Err field holds the
	// *zwire.MessageError.
	ErrParse

	// ErrUnknownClassification indicates a decrypted output carried a
	// transfer type outside the known set.
	ErrUnknownClassification

	// ErrUnknownPool indicates a decrypted output came from a shielded
	// pool outside the known set.
	ErrUnknownPool

	// ErrAmountOverflow indicates an amount does not fit the signed
	// report fields.
	ErrAmountOverflow

	// ErrInvalidIdentifier indicates a transaction id that cannot be
	// shortened for display.
	ErrInvalidIdentifier

	// ErrDecrypt indicates the trial decryption collaborator failed.
	ErrDecrypt
)

// Map of ErrorCode values back to their constant names for pretty printing.
var errorCodeStrings = map[ErrorCode]string{
	ErrMalformedInput:        "ErrMalformedInput",
	ErrParse:                 "ErrParse",
	ErrUnknownClassification: "ErrUnknownClassification",
	ErrUnknownPool:           "ErrUnknownPool",
	ErrAmountOverflow:        "ErrAmountOverflow",
	ErrInvalidIdentifier:     "ErrInvalidIdentifier",
	ErrDecrypt:               "ErrDecrypt",
}

// String returns the ErrorCode as a human-readable name.
func (e ErrorCode) String() string {
	if s := errorCodeStrings[e]; s != "" {
		return s
	}
	return fmt.Sprintf("Unknown ErrorCode (%d)", int(e))
}

// Error provides a single type for errors that can happen while building a
// transaction report.
type Error struct {
	ErrorCode   ErrorCode // Describes the kind of error
	Description string    // Human readable description of the issue
	Err         error     // Underlying error
}

// Error satisfies the error interface and prints human-readable errors.
func (e Error) Error() string {
	if e.Err != nil {
		return e.Description + ": " + e.Err.Error()
	}
	return e.Description
}

// Unwrap returns the underlying error.
func (e Error) Unwrap() error {
	return e.Err
}

// auditError creates an Error given a set of arguments.
func auditError(c ErrorCode, desc string, err error) Error {
	return Error{ErrorCode: c, Description: desc, Err: err}
}

// IsError returns whether err is, or wraps, an Error with the given code.
func IsError(err error, code ErrorCode) bool {
	var e Error
	if !errors.As(err, &e) {
		return false
	}
	return e.ErrorCode == code
}
