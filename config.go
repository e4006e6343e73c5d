// Copyright (c) 2013-2025 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/btcsuite/btcd/btcutil"
	flags "github.com/jessevdk/go-flags"
	"github.com/zaudit/ztxdecrypt/chain"
	"github.com/zaudit/ztxdecrypt/internal/cfgutil"
	"github.com/zaudit/ztxdecrypt/internal/prompt"
	"github.com/zaudit/ztxdecrypt/internal/zero"
	"github.com/zaudit/ztxdecrypt/keys"
	"github.com/zaudit/ztxdecrypt/netparams"
)

const (
	defaultConfigFilename = "ztxdecrypt.conf"
	defaultLogLevel       = "info"
	defaultLogDirname     = "logs"
	defaultLogFilename    = "ztxdecrypt.log"
	defaultRPCConnect     = "localhost"
	defaultMaxWorkers     = 4

	// defaultHeight selects the consensus rules when neither the user nor
	// the node supplies a block height.
	defaultHeight = 2_500_000

	formatPretty = "pretty"
	formatJSON   = "json"
)

var (
	appHomeDir        = btcutil.AppDataDir("ztxdecrypt", false)
	defaultConfigFile = filepath.Join(appHomeDir, defaultConfigFilename)
	defaultLogDir     = filepath.Join(appHomeDir, defaultLogDirname)
)

type config struct {
	// General application behavior
	ConfigFile  string `short:"C" long:"configfile" description:"Path to configuration file"`
	ShowVersion bool   `short:"V" long:"version" description:"Display version information and exit"`
	DebugLevel  string `short:"d" long:"debuglevel" description:"Logging level for all subsystems {trace, debug, info, warn, error, critical} -- You may also specify <subsystem>=<level>,<subsystem2>=<level>,... to set the log level for individual subsystems -- Use show to list available subsystems"`
	LogDir      string `long:"logdir" description:"Directory to log output"`

	// Audit options
	UFVK       string                  `long:"ufvk" default-mask:"-" description:"Unified full viewing key of the audited account, which the node wallet must track -- Prompted for when omitted"`
	TxIDs      []string                `short:"t" long:"txid" description:"Transaction id to audit -- May be repeated; positional arguments are also read as ids"`
	RawTx      string                  `long:"rawtx" description:"Hex encoded raw transaction, skips fetching from the node -- Only valid with a single transaction id"`
	Height     *cfgutil.ExplicitUint32 `long:"height" description:"Block height selecting the consensus rules -- Defaults to the mined height reported by the node"`
	Format     string                  `short:"f" long:"format" choice:"pretty" choice:"json" description:"Report output format"`
	MaxWorkers int                     `long:"maxworkers" description:"Maximum number of transactions audited concurrently"`
	ArchiveDB  string                  `long:"archivedb" description:"Archive every report in the database at this path"`

	// RPC client options
	RPCConnect string        `short:"c" long:"rpcconnect" description:"Hostname/IP and port of the zcashd RPC server (default port: 8232, testnet: 18232)"`
	RPCUser    string        `short:"u" long:"rpcuser" description:"Username for zcashd RPC authentication"`
	RPCPass    string        `short:"P" long:"rpcpass" default-mask:"-" description:"Password for zcashd RPC authentication -- Prompted for when omitted"`
	RPCTimeout time.Duration `long:"rpctimeout" description:"Timeout of each zcashd RPC call"`

	// params is the network of the viewing key.
	params *netparams.Params

	viewingKey *keys.ViewingKey

	// rawTx is the decoded --rawtx value, nil when the transaction is
	// fetched from the node.
	rawTx []byte
}

// validLogLevel returns whether or not logLevel is a valid debug log level.
func validLogLevel(logLevel string) bool {
	switch logLevel {
	case "trace":
		fallthrough
	case "debug":
		fallthrough
	case "info":
		fallthrough
	case "warn":
		fallthrough
	case "error":
		fallthrough
	case "critical":
		return true
	}
	return false
}

// supportedSubsystems returns a sorted slice of the supported subsystems for
// logging purposes.
func supportedSubsystems() []string {
	// Convert the subsystemLoggers map keys to a slice.
	subsystems := make([]string, 0, len(subsystemLoggers))
	for subsysID := range subsystemLoggers {
		subsystems = append(subsystems, subsysID)
	}

	// Sort the subsystems for stable display.
	sort.Strings(subsystems)
	return subsystems
}

// parseDebugLevels parses the specified debug level into subsystem/level
// pairs.  A level without delimiters applies to every subsystem and is
// returned under the empty key.  An appropriate error is returned if
// anything is invalid.
func parseDebugLevels(debugLevel string) (map[string]string, error) {
	// When the specified string doesn't have any delimiters, treat it as
	// the log level for all subsystems.
	if !strings.Contains(debugLevel, ",") && !strings.Contains(debugLevel, "=") {
		// Validate debug log level.
		if !validLogLevel(debugLevel) {
			str := "the specified debug level [%v] is invalid"
			return nil, fmt.Errorf(str, debugLevel)
		}

		return map[string]string{"": debugLevel}, nil
	}

	// Split the specified string into subsystem/level pairs while detecting
	// issues.
	levels := make(map[string]string)
	for _, logLevelPair := range strings.Split(debugLevel, ",") {
		if !strings.Contains(logLevelPair, "=") {
			str := "the specified debug level contains an invalid " +
				"subsystem/level pair [%v]"
			return nil, fmt.Errorf(str, logLevelPair)
		}

		// Extract the specified subsystem and log level.
		fields := strings.Split(logLevelPair, "=")
		subsysID, logLevel := fields[0], fields[1]

		// Validate subsystem.
		if _, exists := subsystemLoggers[subsysID]; !exists {
			str := "the specified subsystem [%v] is invalid -- " +
				"supported subsystems %v"
			return nil, fmt.Errorf(str, subsysID, supportedSubsystems())
		}

		// Validate log level.
		if !validLogLevel(logLevel) {
			str := "the specified debug level [%v] is invalid"
			return nil, fmt.Errorf(str, logLevel)
		}

		levels[subsysID] = logLevel
	}

	return levels, nil
}

// parseAndSetDebugLevels attempts to parse the specified debug level and set
// the levels accordingly.
func parseAndSetDebugLevels(debugLevel string) error {
	levels, err := parseDebugLevels(debugLevel)
	if err != nil {
		return err
	}

	for subsysID, logLevel := range levels {
		if subsysID == "" {
			setLogLevels(logLevel)
			continue
		}
		setLogLevel(subsysID, logLevel)
	}

	return nil
}

// loadConfig initializes and parses the config using a config file and command
// line options.
//
// The configuration proceeds as follows:
//  1. Start with a default config with sane settings
//  2. Pre-parse the command line to check for an alternative config file
//  3. Load configuration file overwriting defaults with any specified options
//  4. Parse CLI options and overwrite/add any specified options
//
// The above results in ztxdecrypt functioning properly without any config
// settings while still allowing the user to override settings with config files
// and command line options.  Command line options always take precedence.
//
// Secrets left out of both are requested later by promptMissing, and logging
// is started by initLogging once the network is known.
func loadConfig(args []string) (*config, error) {
	// Default config.
	cfg := config{
		ConfigFile: defaultConfigFile,
		DebugLevel: defaultLogLevel,
		LogDir:     defaultLogDir,
		Height:     cfgutil.NewExplicitUint32(defaultHeight),
		Format:     formatPretty,
		MaxWorkers: defaultMaxWorkers,
		RPCConnect: defaultRPCConnect,
		RPCTimeout: chain.DefaultRPCTimeout,
	}

	// A config file in the current directory takes precedence.
	exists, err := cfgutil.FileExists(defaultConfigFilename)
	if err != nil {
		return nil, err
	}
	if exists {
		cfg.ConfigFile = defaultConfigFilename
	}

	// Pre-parse the command line options to see if an alternative config
	// file or the version flag was specified.
	preCfg := cfg
	preParser := flags.NewParser(&preCfg, flags.Default)
	_, err = preParser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			preParser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	// Show the version and exit if the version flag was specified.
	appName := filepath.Base(os.Args[0])
	appName = strings.TrimSuffix(appName, filepath.Ext(appName))
	if preCfg.ShowVersion {
		fmt.Println(appName, "version", version())
		os.Exit(0)
	}

	// Load additional config from file.
	var configFileError error
	parser := flags.NewParser(&cfg, flags.Default)
	configFilePath := cfgutil.CleanAndExpandPath(preCfg.ConfigFile,
		filepath.Dir(appHomeDir))
	err = flags.NewIniParser(parser).ParseFile(configFilePath)
	if err != nil {
		if _, ok := err.(*os.PathError); !ok {
			parser.WriteHelp(os.Stderr)
			return nil, err
		}
		configFileError = err
	}

	// Parse command line options again to ensure they take precedence.
	remainingArgs, err := parser.ParseArgs(args)
	if err != nil {
		if e, ok := err.(*flags.Error); !ok || e.Type != flags.ErrHelp {
			parser.WriteHelp(os.Stderr)
		}
		return nil, err
	}

	// Warn about missing config file after the final command line parse
	// succeeds.  This prevents the warning on help messages and invalid
	// options.  Only a file the user named is worth a warning.
	if configFileError != nil && preCfg.ConfigFile != defaultConfigFile {
		log.Warnf("%v", configFileError)
	}

	// Special show command to list supported subsystems and exit.
	if cfg.DebugLevel == "show" {
		fmt.Println("Supported subsystems", supportedSubsystems())
		os.Exit(0)
	}
	if _, err := parseDebugLevels(cfg.DebugLevel); err != nil {
		return nil, err
	}

	// Transaction ids may be given as flags or positional arguments.
	txids := make([]string, 0, len(cfg.TxIDs)+len(remainingArgs))
	for _, txid := range append(cfg.TxIDs, remainingArgs...) {
		txid = strings.ToLower(strings.TrimSpace(txid))
		if txid == "" {
			continue
		}
		txids = append(txids, txid)
	}
	if len(txids) == 0 {
		return nil, errors.New("at least one transaction id is required")
	}
	cfg.TxIDs = txids

	if cfg.RawTx != "" {
		if len(cfg.TxIDs) != 1 {
			return nil, fmt.Errorf("--rawtx needs exactly one "+
				"transaction id, got %d", len(cfg.TxIDs))
		}
		cfg.rawTx, err = hex.DecodeString(strings.TrimSpace(cfg.RawTx))
		if err != nil {
			return nil, fmt.Errorf("invalid --rawtx: %w", err)
		}
	}

	if cfg.MaxWorkers < 1 {
		return nil, fmt.Errorf("--maxworkers must be positive, got %d",
			cfg.MaxWorkers)
	}
	if cfg.RPCTimeout <= 0 {
		return nil, fmt.Errorf("--rpctimeout must be positive, got %v",
			cfg.RPCTimeout)
	}

	homeDir := filepath.Dir(appHomeDir)
	cfg.LogDir = cfgutil.CleanAndExpandPath(cfg.LogDir, homeDir)
	cfg.ArchiveDB = cfgutil.CleanAndExpandPath(cfg.ArchiveDB, homeDir)

	if cfg.UFVK != "" {
		if err := cfg.applyViewingKey(cfg.UFVK); err != nil {
			return nil, err
		}
	}

	return &cfg, nil
}

// applyViewingKey decodes the unified full viewing key, which also selects
// the network, and completes the settings that depend on the network.
func (cfg *config) applyViewingKey(encoded string) error {
	key, err := keys.Decode(encoded)
	if err != nil {
		return fmt.Errorf("invalid viewing key: %w", err)
	}
	cfg.viewingKey = key
	cfg.params = key.Params()

	rpcConnect, err := cfgutil.NormalizeAddress(cfg.RPCConnect,
		cfg.params.RPCServerPort)
	if err != nil {
		return fmt.Errorf("invalid RPC network address `%v`: %w",
			cfg.RPCConnect, err)
	}
	cfg.RPCConnect = rpcConnect

	return nil
}

// promptMissing asks for the viewing key and RPC password when neither the
// config file nor the command line provided them.
func (cfg *config) promptMissing(reader *bufio.Reader) error {
	if cfg.viewingKey == nil {
		ufvk, err := prompt.NonEmptySecret(reader,
			"Enter the unified full viewing key")
		if err != nil {
			return err
		}
		// Only the prompt buffer is wiped.  The decoded key keeps its
		// own string copy for as long as the process runs.
		err = cfg.applyViewingKey(string(ufvk))
		zero.Bytes(ufvk)
		if err != nil {
			return err
		}
	}

	if cfg.RPCPass == "" {
		pass, err := prompt.Secret(reader, fmt.Sprintf(
			"Enter the RPC password for %s@%s", cfg.RPCUser,
			cfg.RPCConnect))
		if err != nil && !errors.Is(err, prompt.ErrEmptyInput) {
			return err
		}
		// As above, the string copy handed to the RPC client stays.
		cfg.RPCPass = string(pass)
		zero.Bytes(pass)
	}

	return nil
}
