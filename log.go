// Copyright (c) 2013-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/btcsuite/btclog"
	"github.com/jrick/logrotate/rotator"
	"github.com/zaudit/ztxdecrypt/audit"
	"github.com/zaudit/ztxdecrypt/chain"
	"github.com/zaudit/ztxdecrypt/consensus"
	"github.com/zaudit/ztxdecrypt/reportdb"
	"github.com/zaudit/ztxdecrypt/zwire"
)

// logWriter implements an io.Writer that outputs to both stderr and the
// write-end pipe of an initialized log rotator.  Stdout is left to the
// reports.
type logWriter struct{}

func (logWriter) Write(p []byte) (n int, err error) {
	os.Stderr.Write(p)
	if logRotator != nil {
		logRotator.Write(p)
	}
	return len(p), nil
}

// Loggers per subsystem.  A single backend logger is created and all subsystem
// loggers created from it will write to the backend.  When adding new
// subsystems, add the subsystem logger variable here and to the
// subsystemLoggers map.
//
// Until initLogRotator is called, log output only goes to stderr.
var (
	// backendLog is the logging backend used to create all subsystem
	// loggers.
	backendLog = btclog.NewBackend(logWriter{})

	// logRotator is one of the logging outputs.  It should be closed on
	// application shutdown.
	logRotator *rotator.Rotator

	log      = backendLog.Logger("ZTXD")
	consLog  = backendLog.Logger("CONS")
	zwirLog  = backendLog.Logger("ZWIR")
	auditLog = backendLog.Logger("AUDT")
	chainLog = backendLog.Logger("CHNS")
	rpccLog  = backendLog.Logger("RPCC")
	rpdbLog  = backendLog.Logger("RPDB")
)

// Initialize package-global logger variables.
func init() {
	consensus.UseLogger(consLog)
	zwire.UseLogger(zwirLog)
	audit.UseLogger(auditLog)
	chain.UseLogger(chainLog)
	chain.UseRPCLogger(rpccLog)
	reportdb.UseLogger(rpdbLog)
}

// subsystemLoggers maps each subsystem identifier to its associated logger.
var subsystemLoggers = map[string]btclog.Logger{
	"ZTXD": log,
	"CONS": consLog,
	"ZWIR": zwirLog,
	"AUDT": auditLog,
	"CHNS": chainLog,
	"RPCC": rpccLog,
	"RPDB": rpdbLog,
}

// initLogRotator initializes the logging rotater to write logs to logFile and
// create roll files in the same directory.  It must be called before the
// package-global log rotater variables are used.
func initLogRotator(logFile string) error {
	logDir, _ := filepath.Split(logFile)
	err := os.MkdirAll(logDir, 0700)
	if err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}
	r, err := rotator.New(logFile, 10*1024, false, 3)
	if err != nil {
		return fmt.Errorf("failed to create file rotator: %w", err)
	}

	logRotator = r
	return nil
}

// setLogLevel sets the logging level for provided subsystem.  Invalid
// subsystems are ignored.
func setLogLevel(subsystemID string, logLevel string) {
	// Ignore invalid subsystems.
	logger, ok := subsystemLoggers[subsystemID]
	if !ok {
		return
	}

	// Defaults to info if the log level is invalid.
	level, _ := btclog.LevelFromString(logLevel)
	logger.SetLevel(level)
}

// setLogLevels sets the log level for all subsystem loggers to the passed
// level.
func setLogLevels(logLevel string) {
	for subsystemID := range subsystemLoggers {
		setLogLevel(subsystemID, logLevel)
	}
}

// pickNoun returns the singular or plural form of a noun depending
// on the count n.
func pickNoun(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
