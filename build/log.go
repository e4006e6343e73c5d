// Copyright (c) 2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package build

import (
	"io"
	"os"

	"github.com/btcsuite/btclog"
)

// LogType is an indicating the type of logging specified by the build flag.
type LogType byte

const (
	// LogTypeNone indicates no logging.
	LogTypeNone LogType = iota

	// LogTypeStdOut all logging is written directly to stdout.
	LogTypeStdOut

	// LogTypeDefault logs to both stdout and the log rotator of the
	// running binary.
	LogTypeDefault
)

// String returns a human readable identifier for the logging type.
func (t LogType) String() string {
	switch t {
	case LogTypeNone:
		return "none"
	case LogTypeStdOut:
		return "stdout"
	case LogTypeDefault:
		return "default"
	default:
		return "unknown"
	}
}

// SubLoggerGenerator creates a logger for the given subsystem tag from a
// shared backend.
type SubLoggerGenerator func(subsystem string) btclog.Logger

// NewSubLogger constructs a new subsystem log from the current LogWriter
// implementation. Library packages call this from their init functions with
// a nil generator, which leaves them disabled until the binary hands out a
// real logger through UseLogger.
func NewSubLogger(subsystem string, genSubLogger SubLoggerGenerator) btclog.Logger {
	switch Deployment {

	// For production builds, generate a new subsystem logger from the
	// primary log backend. If no function is provided, logging will be
	// disabled.
	case Production:
		if genSubLogger != nil {
			return genSubLogger(subsystem)
		}

	// Development builds either mimic production or write straight to
	// stdout so unit test output shows the package logs.
	case Development:
		switch LoggingType {
		case LogTypeDefault:
			if genSubLogger != nil {
				return genSubLogger(subsystem)
			}

		case LogTypeStdOut:
			return NewWriterLogger(os.Stdout, subsystem, LogLevel)
		}
	}

	// For any other configurations, we'll disable logging.
	return btclog.Disabled
}

// NewWriterLogger returns a logger for subsystem that writes to w at the given
// level. Unknown levels fall back to info.
func NewWriterLogger(w io.Writer, subsystem, level string) btclog.Logger {
	logger := btclog.NewBackend(w).Logger(subsystem)

	lvl, ok := btclog.LevelFromString(level)
	if !ok {
		lvl = btclog.LevelInfo
	}
	logger.SetLevel(lvl)

	return logger
}
