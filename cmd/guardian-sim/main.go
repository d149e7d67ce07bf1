// Command guardian-sim runs the Guardian protocol engine against a
// simulated reader and card.
//
// It is an interactive console: each "tap" command presents a simulated
// card to the reader, runs a full detection and authentication session
// and prints the outcome. Scenario commands present misbehaving cards
// (wrong key, cascade-level UID) to exercise every failure path.
//
// Usage:
//
//	guardian-sim [flags]
//
// Flags:
//
//	-config FILE        engine config (YAML)
//	-protocol-log FILE  write protocol events to FILE (.glog)
//	-verbose            protocol events on the console via slog
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/layr-protocol/guardian-go/pkg/engine"
	"github.com/layr-protocol/guardian-go/pkg/log"
)

func main() {
	var (
		configPath  = flag.String("config", "", "engine config file (YAML)")
		protocolLog = flag.String("protocol-log", "", "write protocol events to file")
		verbose     = flag.Bool("verbose", false, "log protocol events to console")
	)
	flag.Parse()

	cfg := engine.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = engine.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config: %v\n", err)
			os.Exit(1)
		}
	}

	var loggers []log.Logger
	if *verbose {
		loggers = append(loggers, log.NewSlogAdapter(slog.Default()))
	}
	if *protocolLog != "" {
		fl, err := log.NewFileLogger(*protocolLog)
		if err != nil {
			fmt.Fprintf(os.Stderr, "protocol log: %v\n", err)
			os.Exit(1)
		}
		defer fl.Close()
		loggers = append(loggers, fl)
	}
	var plog log.Logger
	switch len(loggers) {
	case 0:
		plog = log.NoopLogger{}
	case 1:
		plog = loggers[0]
	default:
		plog = log.NewMultiLogger(loggers...)
	}

	console, err := newConsole(cfg, plog)
	if err != nil {
		fmt.Fprintf(os.Stderr, "setup: %v\n", err)
		os.Exit(1)
	}
	defer console.Close()

	if err := console.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
