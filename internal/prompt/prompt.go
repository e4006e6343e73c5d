// Copyright (c) 2015-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

// Package prompt reads secrets the command line tool does not want to see
// in shell history, such as the node RPC password and the viewing key.
package prompt

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/term"
)

// ErrEmptyInput is returned when the input ends before a non-empty line was
// entered.
var ErrEmptyInput = errors.New("no input provided")

var (
	// output is where prompts are written.  Stdout carries the reports.
	output io.Writer = os.Stderr

	isTerminal = term.IsTerminal
)

// Secret prompts for a value with the given prefix.  When stdin is a
// terminal the input is read without echo.  Otherwise a single line is read
// from reader, which allows secrets to be piped in.  Surrounding whitespace
// is removed.
func Secret(reader *bufio.Reader, prefix string) ([]byte, error) {
	fmt.Fprintf(output, "%s: ", prefix)

	fd := int(os.Stdin.Fd())
	if isTerminal(fd) {
		secret, err := term.ReadPassword(fd)
		fmt.Fprintln(output)
		if err != nil {
			return nil, err
		}
		return bytes.TrimSpace(secret), nil
	}

	line, err := reader.ReadBytes('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	line = bytes.TrimSpace(line)
	if len(line) == 0 && errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}

	return line, nil
}

// NonEmptySecret prompts with Secret until a non-empty value is entered.
func NonEmptySecret(reader *bufio.Reader, prefix string) ([]byte, error) {
	for {
		secret, err := Secret(reader, prefix)
		if err != nil {
			return nil, err
		}
		if len(secret) != 0 {
			return secret, nil
		}
	}
}
