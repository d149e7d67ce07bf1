package commands

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"sort"

	"github.com/layr-protocol/guardian-go/pkg/log"
)

// Stats summarizes a log file: sessions, outcomes, exchange counts.
func Stats(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("stats: expected exactly one log file")
	}

	r, err := log.NewReader(fs.Arg(0))
	if err != nil {
		return err
	}
	defer r.Close()

	var (
		events    int
		exchanges int
		timeouts  int
		sessions  = map[string]bool{}
		successes int
		failures  = map[string]int{}
	)

	for {
		event, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		events++
		if event.SessionID != "" {
			sessions[event.SessionID] = true
		}
		switch {
		case event.Exchange != nil:
			exchanges++
			if event.Exchange.TimedOut {
				timeouts++
			}
		case event.Outcome != nil:
			if event.Outcome.Success {
				successes++
			} else {
				failures[event.Outcome.FailCode]++
			}
		}
	}

	fmt.Fprintf(w, "Events:     %d\n", events)
	fmt.Fprintf(w, "Sessions:   %d\n", len(sessions))
	fmt.Fprintf(w, "Exchanges:  %d (%d timed out)\n", exchanges, timeouts)
	fmt.Fprintf(w, "Successes:  %d\n", successes)

	if len(failures) > 0 {
		fmt.Fprintf(w, "Failures:\n")
		codes := make([]string, 0, len(failures))
		for code := range failures {
			codes = append(codes, code)
		}
		sort.Strings(codes)
		for _, code := range codes {
			fmt.Fprintf(w, "  %-22s %d\n", code, failures[code])
		}
	}
	return nil
}
