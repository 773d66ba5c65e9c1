// Package cli is the terminal front end of the sync engine.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/engine"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/client/iocli"
)

// ErrUsage is returned when the command line cannot be understood. The
// usage text has already been printed.
var ErrUsage = errors.New("invalid usage")

// Options tune how results are printed.
type Options struct {
	// JSON prints every result as the raw {success, data, error} object.
	JSON bool
}

type Cli struct {
	engine *engine.Engine
	io     iocli.IO
	json   bool
}

func New(e *engine.Engine, io iocli.IO, opts Options) *Cli {
	return &Cli{
		engine: e,
		io:     io,
		json:   opts.JSON,
	}
}

// Run executes one command line (without the program name).
func (c *Cli) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.PrintUsage()
		return ErrUsage
	}

	command, rest := args[0], args[1:]
	switch command {
	case "address", "addresses":
		return c.runAddress(ctx, rest)
	case "order", "orders":
		return c.runOrder(ctx, rest)
	case "sync":
		return c.runSync(ctx, rest)
	case "status":
		return c.runStatus(ctx)
	case "queue":
		return c.runQueue(ctx, rest)
	case "watch":
		return c.runWatch(ctx)
	case "register":
		return c.runRegister(ctx, rest)
	case "login":
		return c.runLogin(ctx, rest)
	case "logout":
		return c.runLogout(ctx)
	case "help":
		c.PrintUsage()
		return nil
	default:
		c.io.Printf("Unknown command: %s\n\n", command)
		c.PrintUsage()
		return ErrUsage
	}
}

// show prints a facade result: raw JSON with -json, the named template
// otherwise. A failed result comes back as its coded error.
func show[T any](c *Cli, res engine.Result[T], tmpl string) error {
	if c.json {
		enc := json.NewEncoder(c.io)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			return fmt.Errorf("failed to encode result: %w", err)
		}
		return res.Err()
	}
	if !res.Success {
		return res.Err()
	}
	if err := templates.ExecuteTemplate(c.io, tmpl, res.Data); err != nil {
		return fmt.Errorf("failed to render %s: %w", tmpl, err)
	}
	return nil
}

// flagSet returns a flag set that reports parse errors instead of exiting.
func (c *Cli) flagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.io)
	return fs
}

// parseWithID parses args that carry one record id, either before or
// after the flags.
func parseWithID(fs *flag.FlagSet, args []string) (string, error) {
	var id string
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		id, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return "", err
	}
	if id == "" {
		id = fs.Arg(0)
	}
	if id == "" {
		return "", fmt.Errorf("missing record id. Usage: %s <id>", fs.Name())
	}
	return id, nil
}

// subcommand splits "verb rest..." and complains about a missing verb.
func subcommand(args []string, usage string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, fmt.Errorf("missing subcommand. Usage: %s", usage)
	}
	return args[0], args[1:], nil
}

func (c *Cli) PrintUsage() {
	c.io.Println(usageText)
}

const usageText = `POS sync client

Usage:
  possync [OPTIONS] COMMAND [ARGS]

Options:
  -config PATH     YAML configuration file
  -server URL      Backend URL (overrides config)
  -db PATH         Local database path (overrides config)
  -offline         Work without the backend
  -json            Print raw {success, data, error} results
  -version         Show version information

Commands:
  address add|list|get|update|deactivate|activate|delete|search|near|stats
  order   add|list|get|status|update|deactivate|activate|delete|search|stats
  sync [push|pull|full]      Synchronize with the backend (default: full)
  status                     Show sync and session status
  queue [list|retry]         Inspect or retry queued operations
  watch                      Keep syncing in the foreground until interrupted
  register                   Register an operator account
  login                      Login to the backend
  logout                     Forget the local session

Examples:
  possync address add -department Littoral -commune Cotonou -location 6.3654,2.4183
  possync address near -location 6.36,2.42 -radius 3
  possync order add -type takeaway -client "Awa" -item "Poulet:2:1500"
  possync order status 3f0c... ready
  possync queue -status failed
  possync queue retry 0192... -force`
