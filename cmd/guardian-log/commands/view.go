// Package commands implements the guardian-log CLI commands.
package commands

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/layr-protocol/guardian-go/pkg/log"
)

// View renders a log file in human-readable form.
func View(w io.Writer, args []string) error {
	fs := flag.NewFlagSet("view", flag.ContinueOnError)
	layerName := fs.String("layer", "", "filter by layer (wire, session)")
	categoryName := fs.String("category", "", "filter by category (exchange, state, outcome, error)")
	session := fs.String("session", "", "filter by session ID prefix")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("view: expected exactly one log file")
	}

	filter := log.Filter{}
	if *layerName != "" {
		l, err := parseLayer(*layerName)
		if err != nil {
			return err
		}
		filter.Layer = &l
	}
	if *categoryName != "" {
		c, err := parseCategory(*categoryName)
		if err != nil {
			return err
		}
		filter.Category = &c
	}

	r, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		return err
	}
	defer r.Close()

	for {
		event, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		// Session prefix filtering is cheap enough to do here rather
		// than in the reader.
		if *session != "" && !strings.HasPrefix(event.SessionID, *session) {
			continue
		}
		formatEvent(w, event)
	}
}

// formatEvent writes a human-readable representation of the event to w.
func formatEvent(w io.Writer, event log.Event) {
	ts := event.Timestamp.UTC().Format("2006-01-02T15:04:05.000000Z")
	sid := shortenSessionID(event.SessionID)

	var typeLabel string
	switch {
	case event.Exchange != nil:
		typeLabel = "Exchange"
	case event.StateChange != nil:
		typeLabel = event.StateChange.Machine.String()
	case event.Outcome != nil:
		typeLabel = "Outcome"
	case event.Error != nil:
		typeLabel = "Error"
	default:
		typeLabel = "Unknown"
	}

	fmt.Fprintf(w, "%s [session:%s] %-7s %s\n", ts, sid, event.Layer, typeLabel)

	switch {
	case event.Exchange != nil:
		fmt.Fprintf(w, "    tx: %s\n", hex.EncodeToString(event.Exchange.TX))
		if event.Exchange.TimedOut {
			fmt.Fprintf(w, "    rx: (timeout)\n")
		} else {
			fmt.Fprintf(w, "    rx: %s\n", hex.EncodeToString(event.Exchange.RX))
		}
	case event.StateChange != nil:
		fmt.Fprintf(w, "    %s -> %s\n", event.StateChange.OldState, event.StateChange.NewState)
	case event.Outcome != nil:
		if event.Outcome.Success {
			fmt.Fprintf(w, "    SUCCESS uid=%s ticks=%d\n", event.UID, event.Outcome.Ticks)
		} else {
			fmt.Fprintf(w, "    FAILED %s uid=%s ticks=%d\n", event.Outcome.FailCode, event.UID, event.Outcome.Ticks)
		}
	case event.Error != nil:
		fmt.Fprintf(w, "    %s: %s\n", event.Error.Context, event.Error.Message)
	}
}

func shortenSessionID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	if id == "" {
		return "--------"
	}
	return id
}

func parseLayer(name string) (log.Layer, error) {
	switch strings.ToLower(name) {
	case "wire":
		return log.LayerWire, nil
	case "session":
		return log.LayerSession, nil
	default:
		return 0, fmt.Errorf("unknown layer %q", name)
	}
}

func parseCategory(name string) (log.Category, error) {
	switch strings.ToLower(name) {
	case "exchange":
		return log.CategoryExchange, nil
	case "state":
		return log.CategoryState, nil
	case "outcome":
		return log.CategoryOutcome, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q", name)
	}
}
