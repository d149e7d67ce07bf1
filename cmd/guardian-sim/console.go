package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"

	"github.com/layr-protocol/guardian-go/pkg/cardsim"
	"github.com/layr-protocol/guardian-go/pkg/crypto"
	"github.com/layr-protocol/guardian-go/pkg/engine"
	"github.com/layr-protocol/guardian-go/pkg/keystore"
	"github.com/layr-protocol/guardian-go/pkg/log"
	"github.com/layr-protocol/guardian-go/pkg/nonce"
	"github.com/layr-protocol/guardian-go/pkg/transport"
)

// defaultPSK is the pre-shared key installed in the simulated terminal
// and handed to well-behaved simulated cards.
const defaultPSK = "2b7e151628aed2a6abf7158809cf4f3c"

// sessionTickBudget bounds one simulated session.
const sessionTickBudget = 1 << 20

const consoleHelp = `Commands:
  tap [uid]      present a card sharing the terminal PSK (uid: 8 hex digits)
  tap-wrongkey   present a card with a different key
  tap-cascade    present a card that demands another cascade level
  tap-empty      raise the IRQ with no card in the field
  status         show engine state
  help           show this help
  exit           quit
`

// console is the interactive simulator front end.
type console struct {
	eng  *engine.Engine
	bus  *transport.RegisterBus
	psk  crypto.Block
	rl   *readline.Instance
	taps int
}

func newConsole(cfg engine.Config, plog log.Logger) (*console, error) {
	psk, err := crypto.ParseBlock(defaultPSK)
	if err != nil {
		return nil, err
	}

	eeprom := keystore.NewEEPROM(cfg.StoreLatency)
	if err := eeprom.WriteKey(keystore.PSKBase, [keystore.PSKLen]byte(psk)); err != nil {
		return nil, err
	}

	bus := transport.NewRegisterBus(cfg.BusLatency)
	eng, err := engine.New(cfg, bus, eeprom, nonce.NewCryptoSource(cfg.NonceLatency), plog)
	if err != nil {
		return nil, err
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "guardian> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &console{eng: eng, bus: bus, psk: psk, rl: rl}, nil
}

// Close releases the console resources.
func (c *console) Close() error {
	return c.rl.Close()
}

// Run reads and dispatches commands until exit.
func (c *console) Run() error {
	fmt.Fprint(c.rl.Stdout(), consoleHelp)
	for {
		line, err := c.rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "tap":
			uid := [4]byte{0x01, 0x02, 0x03, 0x04}
			if len(fields) > 1 {
				p, err := hex.DecodeString(fields[1])
				if err != nil || len(p) != 4 {
					fmt.Fprintln(c.rl.Stdout(), "uid must be 8 hex digits")
					continue
				}
				copy(uid[:], p)
			}
			card := cardsim.New(uid, c.psk, c.nextCardID())
			c.runSession(card)

		case "tap-wrongkey":
			wrong := crypto.Block{}
			for i := range wrong {
				wrong[i] = 0xFF
			}
			card := cardsim.New([4]byte{0xDE, 0xAD, 0xBE, 0xEF}, wrong, c.nextCardID())
			c.runSession(card)

		case "tap-cascade":
			card := cardsim.New([4]byte{0x88, 0x04, 0x61, 0xA5}, c.psk, c.nextCardID())
			card.SAK = 0x04 | 0x20
			c.runSession(card)

		case "tap-empty":
			c.runSession(nil)

		case "status":
			c.printStatus()

		case "help":
			fmt.Fprint(c.rl.Stdout(), consoleHelp)

		case "exit", "quit":
			return nil

		default:
			fmt.Fprintf(c.rl.Stdout(), "unknown command %q (try help)\n", fields[0])
		}
	}
}

// runSession presents card to the reader (nil for an empty field),
// pulses the IRQ line and steps the engine to an outcome.
func (c *console) runSession(card *cardsim.Card) {
	c.taps++
	if card != nil {
		c.bus.SetResponder(card)
	} else {
		c.bus.SetResponder(nil)
	}

	c.eng.SetIRQ(true)
	c.eng.Tick()
	c.eng.SetIRQ(false)

	outcome, err := c.eng.RunUntilOutcome(sessionTickBudget)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "session stuck: %v\n", err)
		return
	}

	switch outcome.Kind {
	case engine.OutcomeSuccess:
		fmt.Fprintf(c.rl.Stdout(), "UNLOCK  card_id=%s session=%s ticks=%d\n",
			outcome.CardID, c.eng.SessionID(), c.eng.Ticks())
	case engine.OutcomeFailed:
		fmt.Fprintf(c.rl.Stdout(), "REJECT  reason=%s session=%s\n",
			outcome.FailCode, c.eng.SessionID())
	}
}

func (c *console) printStatus() {
	fmt.Fprintf(c.rl.Stdout(), "detector=%s auth=%s watchdog=%s owner=%s ticks=%d outcome=%s\n",
		c.eng.Detector().State(),
		c.eng.Auth().State(),
		c.eng.Watchdog().State(),
		c.eng.Owner(),
		c.eng.Ticks(),
		c.eng.Outcome().Kind)
}

// nextCardID gives each simulated card a distinct identifier.
func (c *console) nextCardID() crypto.Block {
	var id crypto.Block
	for i := range id {
		id[i] = byte(0xA0 + c.taps)
	}
	return id
}
