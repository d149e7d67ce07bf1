// Command guardian-log is a tool for viewing and analyzing Guardian
// protocol log files.
//
// Log files are created by running guardian-sim (or a terminal build)
// with the -protocol-log flag.
//
// Usage:
//
//	guardian-log <command> [flags] <file.glog>
//
// Commands:
//
//	view     View log file in human-readable format
//	stats    Show statistics about the log file
//
// Examples:
//
//	# View all events
//	guardian-log view terminal.glog
//
//	# View only wire-layer exchanges
//	guardian-log view -layer wire terminal.glog
//
//	# View one session
//	guardian-log view -session 7c9e6679 terminal.glog
//
//	# Show statistics
//	guardian-log stats terminal.glog
package main

import (
	"fmt"
	"os"

	"github.com/layr-protocol/guardian-go/cmd/guardian-log/commands"
)

const usage = `guardian-log - Guardian Protocol Log Analyzer

Usage:
  guardian-log <command> [flags] <file.glog>

Commands:
  view     View log file in human-readable format
  stats    Show statistics about the log file

Use "guardian-log <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	var err error
	switch cmd {
	case "view":
		err = commands.View(os.Stdout, args)
	case "stats":
		err = commands.Stats(os.Stdout, args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\n%s", cmd, usage)
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
